package services

import (
	"time"

	"github.com/shopspring/decimal"

	"apexfund/internal/models"
)

// RealizedTransaction is one sold holding as shown on the sold assets tab.
type RealizedTransaction struct {
	HoldingID        string          `json:"holding_id"`
	CoinName         string          `json:"coin_name"`
	SoldDate         time.Time       `json:"sold_date"`
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	SoldPrice        decimal.Decimal `json:"sold_price"`
	Profit           decimal.Decimal `json:"profit"`
	ProfitPercentage decimal.Decimal `json:"profit_percentage"`
}

// PortfolioSummary holds the derived portfolio metrics. Valuation figures
// cover unsold holdings; realized figures cover sold ones.
type PortfolioSummary struct {
	TotalValue     decimal.Decimal `json:"total_value"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	UnrealizedGain decimal.Decimal `json:"unrealized_gain"`
	ROI            decimal.Decimal `json:"roi"`
	CashReserves   decimal.Decimal `json:"cash_reserves"`
	NetWorth       decimal.Decimal `json:"net_worth"`
	HoldingCount   int             `json:"holding_count"`

	RealizedProfit           decimal.Decimal       `json:"realized_profit"`
	RealizedCost             decimal.Decimal       `json:"realized_cost"`
	RealizedProfitPercentage decimal.Decimal       `json:"realized_profit_percentage"`
	SoldCount                int                   `json:"sold_count"`
	Transactions             []RealizedTransaction `json:"transactions"`
}

// Summarize derives the portfolio metrics from holdings and the cash balance.
func Summarize(holdings []models.Holding, cash decimal.Decimal) *PortfolioSummary {
	summary := &PortfolioSummary{
		TotalValue:     decimal.Zero,
		TotalCost:      decimal.Zero,
		CashReserves:   cash,
		RealizedProfit: decimal.Zero,
		RealizedCost:   decimal.Zero,
		Transactions:   []RealizedTransaction{},
	}

	for i := range holdings {
		h := &holdings[i]
		if !h.IsSold() {
			summary.TotalValue = summary.TotalValue.Add(h.CurrentValue)
			summary.TotalCost = summary.TotalCost.Add(h.PurchasePrice)
			summary.HoldingCount++
			continue
		}

		// Missing sale fields on a sold row count as zero.
		soldPrice := decimal.Zero
		if h.SoldPrice != nil {
			soldPrice = *h.SoldPrice
		}
		var soldDate time.Time
		if h.SoldDate != nil {
			soldDate = *h.SoldDate
		}

		profit := soldPrice.Sub(h.PurchasePrice)
		summary.Transactions = append(summary.Transactions, RealizedTransaction{
			HoldingID:        h.ID,
			CoinName:         h.Name,
			SoldDate:         soldDate,
			PurchasePrice:    h.PurchasePrice,
			SoldPrice:        soldPrice,
			Profit:           profit,
			ProfitPercentage: models.Percent(profit, h.PurchasePrice),
		})
		summary.RealizedProfit = summary.RealizedProfit.Add(profit)
		summary.RealizedCost = summary.RealizedCost.Add(h.PurchasePrice)
		summary.SoldCount++
	}

	summary.UnrealizedGain = summary.TotalValue.Sub(summary.TotalCost)
	summary.ROI = models.Percent(summary.UnrealizedGain, summary.TotalCost)
	summary.NetWorth = summary.TotalValue.Add(cash)
	summary.RealizedProfitPercentage = models.Percent(summary.RealizedProfit, summary.RealizedCost)

	return summary
}
