package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"apexfund/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// MorganDollar returns the reference holding used across tests:
// bought at 1200, currently worth 1500.
func MorganDollar() *models.Holding {
	return &models.Holding{
		Name:            "1879-CC Morgan Dollar",
		Description:     "Carson City Mint, 756,000 struck.",
		ImageURL:        "https://api.dicebear.com/7.x/shapes/svg?seed=morgan1879cc",
		Grade:           "MS-63",
		Mint:            "Carson City",
		Year:            1879,
		AcquisitionDate: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		PurchasePrice:   decimal.NewFromInt(1200),
		CurrentValue:    decimal.NewFromInt(1500),
		Status:          models.SaleStatusNotSold,
	}
}

// NewTestHolding returns an unsold holding with a unique name and the given
// purchase price and current value.
func NewTestHolding(purchase, current int64) *models.Holding {
	return &models.Holding{
		Name:            fmt.Sprintf("Test Coin %d", nextID()),
		AcquisitionDate: time.Now().UTC(),
		PurchasePrice:   decimal.NewFromInt(purchase),
		CurrentValue:    decimal.NewFromInt(current),
		Status:          models.SaleStatusNotSold,
	}
}

// CreateTestHolding inserts an unsold holding directly through gorm.
func CreateTestHolding(t *testing.T, db *gorm.DB, purchase, current int64) *models.Holding {
	t.Helper()

	h := NewTestHolding(purchase, current)
	if err := db.Create(h).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return h
}
