// Package repository holds the persistence adapters behind the portfolio
// store. Every adapter satisfies the same four verbs plus a subscribe pair, so
// the in-memory stand-in can be swapped for a database without touching the
// store.
package repository

import (
	"context"
	"errors"

	"apexfund/internal/models"
	"apexfund/internal/pagination"
)

// ErrNotFound indicates that no holding exists with the given id.
var ErrNotFound = errors.New("holding not found")

// HoldingRepository is the persistence seam for holdings.
//
// List returns holdings in insertion order. Create assigns the id. Delete is
// idempotent. After every successful mutation the full, ordered list is pushed
// to each subscriber.
type HoldingRepository interface {
	List(ctx context.Context) ([]models.Holding, error)
	Create(ctx context.Context, holding *models.Holding) (*models.Holding, error)
	Update(ctx context.Context, holding *models.Holding) (*models.Holding, error)
	Delete(ctx context.Context, id string) error
	Subscribe(fn func([]models.Holding)) *Subscription
	Unsubscribe(sub *Subscription)
}

// SnapshotRepository stores portfolio snapshots, newest first when listed.
type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *models.PortfolioSnapshot) error
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.PortfolioSnapshot], error)
}
