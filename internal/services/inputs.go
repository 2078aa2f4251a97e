package services

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddHoldingInput is the payload of the "add coin" form. Amounts are pointers
// so that a missing price is distinguishable from a zero one.
type AddHoldingInput struct {
	Name          string           `json:"name" binding:"required,max=200"`
	Description   string           `json:"description" binding:"max=2000"`
	ImageURL      string           `json:"image_url" binding:"omitempty,url"`
	Grade         string           `json:"grade" binding:"max=20"`
	Mint          string           `json:"mint" binding:"max=100"`
	Year          int              `json:"year" binding:"omitempty,min=1,max=9999"`
	PurchasePrice *decimal.Decimal `json:"purchase_price" binding:"required"`
	CurrentValue  *decimal.Decimal `json:"current_value" binding:"required"`
}

// MarkSoldInput records a sale. SoldDate defaults to the time of the call.
type MarkSoldInput struct {
	SoldPrice *decimal.Decimal `json:"sold_price" binding:"required"`
	SoldDate  *time.Time       `json:"sold_date"`
}

// UpdateCashInput replaces the cash reserve balance. Any amount is accepted.
type UpdateCashInput struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

// LoginInput is the investor login form.
type LoginInput struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	RememberMe bool   `json:"remember_me"`
}
