package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apexfund/internal/models"
	"apexfund/internal/testutil"
)

func soldHolding(id string, purchase, sold int64) models.Holding {
	h := *testutil.NewTestHolding(purchase, purchase)
	h.ID = id
	h.MarkSold(decimal.NewFromInt(sold), time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	return h
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, decimal.NewFromInt(50000))

	testutil.AssertDecimal(t, "total value", s.TotalValue, "0")
	testutil.AssertDecimal(t, "roi", s.ROI, "0")
	testutil.AssertDecimal(t, "net worth", s.NetWorth, "50000")
	testutil.AssertDecimal(t, "realized percentage", s.RealizedProfitPercentage, "0")
	assert.NotNil(t, s.Transactions)
	assert.Empty(t, s.Transactions)
	assert.Zero(t, s.HoldingCount)
}

func TestSummarize_TotalValueIsSumOfUnsold(t *testing.T) {
	holdings := []models.Holding{
		*testutil.NewTestHolding(1200, 1500),
		*testutil.NewTestHolding(800, 650),
		soldHolding("s1", 1000, 1400),
		*testutil.NewTestHolding(300, 310),
	}

	s := Summarize(holdings, decimal.NewFromInt(1000))

	testutil.AssertDecimal(t, "total value", s.TotalValue, "2460")
	testutil.AssertDecimal(t, "total cost", s.TotalCost, "2300")
	testutil.AssertDecimal(t, "unrealized gain", s.UnrealizedGain, "160")
	testutil.AssertDecimal(t, "roi", s.ROI, "6.96")
	testutil.AssertDecimal(t, "net worth", s.NetWorth, "3460")
	assert.Equal(t, 3, s.HoldingCount)
	assert.Equal(t, 1, s.SoldCount)
}

func TestSummarize_RealizedGains(t *testing.T) {
	holdings := []models.Holding{
		soldHolding("a", 1200, 1800),
		soldHolding("b", 500, 400),
	}

	s := Summarize(holdings, decimal.Zero)
	require.Len(t, s.Transactions, 2)

	assert.Equal(t, "a", s.Transactions[0].HoldingID)
	testutil.AssertDecimal(t, "profit a", s.Transactions[0].Profit, "600")
	testutil.AssertDecimal(t, "percentage a", s.Transactions[0].ProfitPercentage, "50")

	assert.Equal(t, "b", s.Transactions[1].HoldingID)
	testutil.AssertDecimal(t, "profit b", s.Transactions[1].Profit, "-100")
	testutil.AssertDecimal(t, "percentage b", s.Transactions[1].ProfitPercentage, "-20")

	testutil.AssertDecimal(t, "realized profit", s.RealizedProfit, "500")
	testutil.AssertDecimal(t, "realized cost", s.RealizedCost, "1700")
	testutil.AssertDecimal(t, "realized percentage", s.RealizedProfitPercentage, "29.41")
	testutil.AssertDecimal(t, "total value", s.TotalValue, "0")
}

func TestSummarize_ZeroCostHolding(t *testing.T) {
	gift := *testutil.NewTestHolding(0, 250)
	s := Summarize([]models.Holding{gift}, decimal.Zero)

	testutil.AssertDecimal(t, "total value", s.TotalValue, "250")
	testutil.AssertDecimal(t, "roi", s.ROI, "0")
}

func TestSummarize_SoldWithoutSaleFields(t *testing.T) {
	h := *testutil.NewTestHolding(100, 100)
	h.Status = models.SaleStatusSold

	s := Summarize([]models.Holding{h}, decimal.Zero)
	require.Len(t, s.Transactions, 1)
	testutil.AssertDecimal(t, "profit", s.Transactions[0].Profit, "-100")
	assert.True(t, s.Transactions[0].SoldDate.IsZero())
}
