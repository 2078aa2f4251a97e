package services

import (
	"context"
	"time"

	apperrors "apexfund/internal/errors"
	"apexfund/internal/logger"
	"apexfund/internal/models"
	"apexfund/internal/pagination"
	"apexfund/internal/repository"
)

// summarySource is the part of the store the snapshot service reads.
type summarySource interface {
	ComputeSummary() *PortfolioSummary
}

// SnapshotService records the portfolio summary over time for the
// performance tab.
type SnapshotService struct {
	source summarySource
	repo   repository.SnapshotRepository
	now    func() time.Time
}

// NewSnapshotService creates a SnapshotService reading from source.
func NewSnapshotService(source summarySource, repo repository.SnapshotRepository) *SnapshotService {
	return &SnapshotService{source: source, repo: repo, now: time.Now}
}

// Record computes the current summary and stores it as a snapshot.
func (s *SnapshotService) Record(ctx context.Context) (*models.PortfolioSnapshot, error) {
	summary := s.source.ComputeSummary()
	snapshot := &models.PortfolioSnapshot{
		RecordedAt:     s.now().UTC().Truncate(time.Second),
		TotalValue:     summary.TotalValue,
		TotalCost:      summary.TotalCost,
		CashReserves:   summary.CashReserves,
		NetWorth:       summary.NetWorth,
		RealizedProfit: summary.RealizedProfit,
		HoldingCount:   summary.HoldingCount,
		SoldCount:      summary.SoldCount,
	}

	if err := s.repo.Create(ctx, snapshot); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Named("snapshots").Infow("portfolio snapshot recorded",
		"id", snapshot.ID,
		"net_worth", snapshot.NetWorth.String(),
		"holdings", snapshot.HoldingCount,
	)
	return snapshot, nil
}

// List returns a page of snapshots, newest first.
func (s *SnapshotService) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.PortfolioSnapshot], error) {
	result, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}
