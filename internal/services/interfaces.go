package services

import (
	"context"

	"github.com/shopspring/decimal"

	"apexfund/internal/models"
	"apexfund/internal/pagination"
	"apexfund/internal/repository"
)

// PortfolioServicer defines the contract of the portfolio store as consumed
// by the HTTP layer.
type PortfolioServicer interface {
	AddHolding(ctx context.Context, in AddHoldingInput) (*models.Holding, error)
	GetHolding(id string) (*models.Holding, error)
	DeleteHolding(ctx context.Context, id string) error
	MarkSold(ctx context.Context, id string, in MarkSoldInput) (*models.Holding, error)
	MarkUnsold(ctx context.Context, id string) (*models.Holding, error)
	SetCashReserves(ctx context.Context, in UpdateCashInput) (decimal.Decimal, error)
	CashReserves() decimal.Decimal
	ListHoldings(filter models.HoldingFilter) ([]models.Holding, error)
	ComputeSummary() *PortfolioSummary
	Subscribe(fn func([]models.Holding)) *repository.Subscription
	Unsubscribe(sub *repository.Subscription)
}

// AuthServicer defines the contract for the login stub and session tokens.
type AuthServicer interface {
	Login(in LoginInput) (*Session, error)
	ParseToken(token string) (*SessionClaims, error)
}

// SnapshotServicer defines the contract for portfolio snapshots.
type SnapshotServicer interface {
	Record(ctx context.Context) (*models.PortfolioSnapshot, error)
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.PortfolioSnapshot], error)
}

var (
	_ PortfolioServicer = (*PortfolioStore)(nil)
	_ AuthServicer      = (*AuthService)(nil)
	_ SnapshotServicer  = (*SnapshotService)(nil)
)
