package models

import (
	"time"

	"apexfund/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PortfolioSnapshot is a point-in-time record of the portfolio summary.
// This is immutable time-series data, so it has no Base embed.
type PortfolioSnapshot struct {
	ID             string          `gorm:"type:uuid;primaryKey" json:"id"`
	RecordedAt     time.Time       `gorm:"not null;index" json:"recorded_at"`
	TotalValue     decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_value"`
	TotalCost      decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_cost"`
	CashReserves   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"cash_reserves"`
	NetWorth       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"net_worth"`
	RealizedProfit decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"realized_profit"`
	HoldingCount   int             `gorm:"not null" json:"holding_count"`
	SoldCount      int             `gorm:"not null" json:"sold_count"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (p *PortfolioSnapshot) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}
