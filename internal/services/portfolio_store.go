package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "apexfund/internal/errors"
	"apexfund/internal/logger"
	"apexfund/internal/models"
	"apexfund/internal/repository"
	"apexfund/internal/validator"
)

const defaultImageURL = "https://api.dicebear.com/7.x/shapes/svg?seed=%d"

// PortfolioStore owns the fund's holdings and cash reserve. It is the single
// mutable portfolio shared by every handler; mutations are serialized and
// written through the persistence adapter before the in-memory copy changes.
type PortfolioStore struct {
	mu       sync.RWMutex
	repo     repository.HoldingRepository
	holdings []models.Holding
	cash     decimal.Decimal
	now      func() time.Time
	log      *zap.SugaredLogger
}

// StoreOption customizes a PortfolioStore.
type StoreOption func(*PortfolioStore)

// WithClock replaces time.Now, used for acquisition and default sale dates.
func WithClock(now func() time.Time) StoreOption {
	return func(s *PortfolioStore) { s.now = now }
}

// NewPortfolioStore creates a store backed by repo with the given starting
// cash balance. Call Load to pick up holdings the adapter already has.
func NewPortfolioStore(repo repository.HoldingRepository, cash decimal.Decimal, opts ...StoreOption) *PortfolioStore {
	s := &PortfolioStore{
		repo: repo,
		cash: cash,
		now:  time.Now,
		log:  logger.Named("portfolio"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the adapter's contents.
func (s *PortfolioStore) Load(ctx context.Context) error {
	holdings, err := s.repo.List(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.mu.Lock()
	s.holdings = holdings
	s.mu.Unlock()

	s.log.Infow("portfolio loaded", "holdings", len(holdings))
	return nil
}

// AddHolding creates a not-sold holding from in and appends it.
func (s *PortfolioStore) AddHolding(ctx context.Context, in AddHoldingInput) (*models.Holding, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	now := s.now()
	imageURL := in.ImageURL
	if imageURL == "" {
		imageURL = fmt.Sprintf(defaultImageURL, now.UnixMilli())
	}

	holding := &models.Holding{
		Name:            in.Name,
		Description:     in.Description,
		ImageURL:        imageURL,
		Grade:           in.Grade,
		Mint:            in.Mint,
		Year:            in.Year,
		AcquisitionDate: now,
		PurchasePrice:   models.RoundAmount(*in.PurchasePrice),
		CurrentValue:    models.RoundAmount(*in.CurrentValue),
		Status:          models.SaleStatusNotSold,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.repo.Create(ctx, holding)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.holdings = append(s.holdings, *created)

	s.log.Infow("holding added", "id", created.ID, "name", created.Name)
	out := created.WithROI()
	return &out, nil
}

// GetHolding returns the holding with id.
func (s *PortfolioStore) GetHolding(id string) (*models.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, apperrors.ErrHoldingNotFound
	}
	out := s.holdings[idx].WithROI()
	return &out, nil
}

// DeleteHolding removes the holding with id. Unknown ids are a no-op.
func (s *PortfolioStore) DeleteHolding(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.holdings = append(s.holdings[:idx], s.holdings[idx+1:]...)

	s.log.Infow("holding deleted", "id", id)
	return nil
}

// MarkSold records the sale of a not-yet-sold holding. The collection is left
// untouched on any error. The sold price is rounded like every stored amount.
func (s *PortfolioStore) MarkSold(ctx context.Context, id string, in MarkSoldInput) (*models.Holding, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	soldDate := s.now()
	if in.SoldDate != nil {
		soldDate = *in.SoldDate
	}

	return s.mutate(ctx, id, func(h *models.Holding) error {
		if h.IsSold() {
			return apperrors.ErrHoldingAlreadySold
		}
		h.MarkSold(models.RoundAmount(*in.SoldPrice), soldDate)
		return nil
	})
}

// MarkUnsold reverts a sale, clearing the sold price and date.
func (s *PortfolioStore) MarkUnsold(ctx context.Context, id string) (*models.Holding, error) {
	return s.mutate(ctx, id, func(h *models.Holding) error {
		if !h.IsSold() {
			return apperrors.ErrHoldingNotSold
		}
		h.MarkUnsold()
		return nil
	})
}

// mutate applies change to a copy of the holding, persists it and only then
// swaps it into the collection.
func (s *PortfolioStore) mutate(ctx context.Context, id string, change func(*models.Holding) error) (*models.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, apperrors.ErrHoldingNotFound
	}

	next := s.holdings[idx].WithROI()
	if err := change(&next); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, &next)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrHoldingNotFound, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.holdings[idx] = *updated

	s.log.Infow("holding updated", "id", id, "status", updated.Status)
	out := updated.WithROI()
	return &out, nil
}

// SetCashReserves replaces the cash balance and returns the new value.
func (s *PortfolioStore) SetCashReserves(ctx context.Context, in UpdateCashInput) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	if err := validator.Struct(in); err != nil {
		return decimal.Zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cash = *in.Amount

	s.log.Infow("cash reserves updated", "amount", s.cash.String())
	return s.cash, nil
}

// CashReserves returns the current cash balance.
func (s *PortfolioStore) CashReserves() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cash
}

// ListHoldings returns copies of the holdings matching filter, in insertion order.
func (s *PortfolioStore) ListHoldings(filter models.HoldingFilter) ([]models.Holding, error) {
	switch filter {
	case models.HoldingFilterAll, models.HoldingFilterSold, models.HoldingFilterUnsold:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unknown holding filter %q", filter))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Holding, 0, len(s.holdings))
	for i := range s.holdings {
		if filter.Matches(&s.holdings[i]) {
			out = append(out, s.holdings[i].WithROI())
		}
	}
	return out, nil
}

// ComputeSummary derives valuation and realized-gain metrics.
func (s *PortfolioStore) ComputeSummary() *PortfolioSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Summarize(s.holdings, s.cash)
}

// Subscribe registers fn for the full holdings list after every change. fn
// runs while the store is locked, so it must not call back into the store.
func (s *PortfolioStore) Subscribe(fn func([]models.Holding)) *repository.Subscription {
	return s.repo.Subscribe(fn)
}

// Unsubscribe removes a listener registered with Subscribe.
func (s *PortfolioStore) Unsubscribe(sub *repository.Subscription) {
	s.repo.Unsubscribe(sub)
}

func (s *PortfolioStore) indexOf(id string) int {
	for i := range s.holdings {
		if s.holdings[i].ID == id {
			return i
		}
	}
	return -1
}
