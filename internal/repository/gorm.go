package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"apexfund/internal/logger"
	"apexfund/internal/models"
	"apexfund/internal/pagination"
)

// GormHoldingRepository persists holdings through gorm (sqlite or postgres).
type GormHoldingRepository struct {
	broadcaster
	db *gorm.DB
}

// NewGormHoldingRepository creates a holding repository on db.
func NewGormHoldingRepository(db *gorm.DB) *GormHoldingRepository {
	return &GormHoldingRepository{db: db}
}

// List returns every holding ordered by creation.
func (r *GormHoldingRepository) List(ctx context.Context) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&holdings).Error; err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	return cloneHoldings(holdings), nil
}

// Create inserts holding; the id is generated by the Base hook.
func (r *GormHoldingRepository) Create(ctx context.Context, holding *models.Holding) (*models.Holding, error) {
	h := holding.WithROI()
	h.ID = ""
	if err := r.db.WithContext(ctx).Create(&h).Error; err != nil {
		return nil, fmt.Errorf("failed to create holding: %w", err)
	}
	r.notify(ctx)
	out := h.WithROI()
	return &out, nil
}

// Update overwrites every column of the stored holding with the same id.
func (r *GormHoldingRepository) Update(ctx context.Context, holding *models.Holding) (*models.Holding, error) {
	h := holding.WithROI()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Holding
		if err := tx.Select("id", "created_at").First(&existing, "id = ?", h.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("update holding %s: %w", h.ID, ErrNotFound)
			}
			return err
		}
		h.CreatedAt = existing.CreatedAt
		return tx.Save(&h).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update holding: %w", err)
	}
	r.notify(ctx)
	out := h.WithROI()
	return &out, nil
}

// Delete removes the holding with id; unknown ids are ignored.
func (r *GormHoldingRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Holding{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete holding: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		r.notify(ctx)
	}
	return nil
}

// notify reloads the list and pushes it to subscribers.
func (r *GormHoldingRepository) notify(ctx context.Context) {
	if !r.active() {
		return
	}
	holdings, err := r.List(ctx)
	if err != nil {
		logger.Get().Warnw("failed to reload holdings for subscribers", "error", err)
		return
	}
	r.publish(holdings)
}

// GormSnapshotRepository persists portfolio snapshots through gorm.
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a snapshot repository on db.
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Create inserts the snapshot.
func (r *GormSnapshotRepository) Create(ctx context.Context, snapshot *models.PortfolioSnapshot) error {
	if err := r.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	return nil
}

// List returns one page of snapshots, newest first.
func (r *GormSnapshotRepository) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.PortfolioSnapshot], error) {
	page.Defaults()
	db := r.db.WithContext(ctx)

	var totalItems int64
	if err := db.Model(&models.PortfolioSnapshot{}).Count(&totalItems).Error; err != nil {
		return nil, fmt.Errorf("failed to count snapshots: %w", err)
	}

	var snapshots []models.PortfolioSnapshot
	if err := db.Order("recorded_at DESC").Scopes(pagination.Paginate(page)).Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	result := pagination.NewPageResponse(snapshots, page.Page, page.PageSize, totalItems)
	return &result, nil
}
