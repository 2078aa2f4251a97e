package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus records whether a holding is still in the portfolio.
type SaleStatus string

const (
	SaleStatusNotSold SaleStatus = "not_sold"
	SaleStatusSold    SaleStatus = "sold"
)

// HoldingFilter selects holdings by sale status. The zero value matches all.
type HoldingFilter string

const (
	HoldingFilterAll    HoldingFilter = ""
	HoldingFilterSold   HoldingFilter = "sold"
	HoldingFilterUnsold HoldingFilter = "unsold"
)

// Matches reports whether h passes the filter.
func (f HoldingFilter) Matches(h *Holding) bool {
	switch f {
	case HoldingFilterSold:
		return h.IsSold()
	case HoldingFilterUnsold:
		return !h.IsSold()
	}
	return true
}

// AmountScale is the number of decimal places the amount columns keep.
const AmountScale int32 = 2

// RoundAmount rounds d half away from zero to AmountScale places.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}

// Holding is a single rare-coin asset tracked by the fund.
//
// SoldPrice and SoldDate are non-nil exactly when Status is SaleStatusSold;
// MarkSold and MarkUnsold are the only mutators that touch them.
type Holding struct {
	Base
	Name            string           `gorm:"not null" json:"name"`
	Description     string           `json:"description,omitempty"`
	ImageURL        string           `json:"image_url"`
	Grade           string           `json:"grade,omitempty"`
	Mint            string           `json:"mint,omitempty"`
	Year            int              `json:"year,omitempty"`
	AcquisitionDate time.Time        `gorm:"not null" json:"acquisition_date"`
	PurchasePrice   decimal.Decimal  `gorm:"type:numeric(18,2);not null" json:"purchase_price"`
	CurrentValue    decimal.Decimal  `gorm:"type:numeric(18,2);not null" json:"current_value"`
	ROI             decimal.Decimal  `gorm:"-" json:"roi"` // Populated on read by WithROI
	Status          SaleStatus       `gorm:"not null;default:'not_sold'" json:"status"`
	SoldPrice       *decimal.Decimal `gorm:"type:numeric(18,2)" json:"sold_price,omitempty"`
	SoldDate        *time.Time       `json:"sold_date,omitempty"`
}

// IsSold reports whether the holding has been sold.
func (h *Holding) IsSold() bool {
	return h.Status == SaleStatusSold
}

// MarkSold records a sale at price on date.
func (h *Holding) MarkSold(price decimal.Decimal, date time.Time) {
	h.Status = SaleStatusSold
	h.SoldPrice = &price
	h.SoldDate = &date
}

// MarkUnsold reverts a sale and clears the sale fields.
func (h *Holding) MarkUnsold() {
	h.Status = SaleStatusNotSold
	h.SoldPrice = nil
	h.SoldDate = nil
}

// ComputeROI returns (current - purchase) / purchase * 100 rounded to two
// places, or zero when the purchase price is zero.
func (h *Holding) ComputeROI() decimal.Decimal {
	return Percent(h.CurrentValue.Sub(h.PurchasePrice), h.PurchasePrice)
}

// WithROI returns a copy of the holding with ROI populated. The copy does not
// share the sale pointers with the receiver.
func (h Holding) WithROI() Holding {
	h.ROI = h.ComputeROI()
	if h.SoldPrice != nil {
		p := *h.SoldPrice
		h.SoldPrice = &p
	}
	if h.SoldDate != nil {
		d := *h.SoldDate
		h.SoldDate = &d
	}
	return h
}

// Percent returns part / whole * 100 rounded to two places; zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2)
}
