package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"apexfund/internal/models"
	"apexfund/internal/pagination"
)

// MemoryHoldingRepository keeps holdings in a process-local slice. It has no
// durability; it is the default adapter until a database is configured.
type MemoryHoldingRepository struct {
	broadcaster

	mu       sync.Mutex
	holdings []models.Holding
	now      func() time.Time
}

// NewMemoryHoldingRepository creates an empty in-memory holding store.
func NewMemoryHoldingRepository() *MemoryHoldingRepository {
	return &MemoryHoldingRepository{now: time.Now}
}

// List returns every holding in insertion order.
func (r *MemoryHoldingRepository) List(ctx context.Context) ([]models.Holding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneHoldings(r.holdings), nil
}

// Create stores a copy of holding with a fresh id and returns it.
func (r *MemoryHoldingRepository) Create(ctx context.Context, holding *models.Holding) (*models.Holding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h := holding.WithROI()
	h.ID = ""
	h.AssignID()
	h.CreatedAt = r.now()
	h.UpdatedAt = h.CreatedAt

	r.mu.Lock()
	r.holdings = append(r.holdings, h)
	snapshot := cloneHoldings(r.holdings)
	r.mu.Unlock()

	r.publish(snapshot)
	out := h.WithROI()
	return &out, nil
}

// Update replaces the stored holding with the same id.
func (r *MemoryHoldingRepository) Update(ctx context.Context, holding *models.Holding) (*models.Holding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	idx := r.indexOf(holding.ID)
	if idx < 0 {
		r.mu.Unlock()
		return nil, fmt.Errorf("update holding %s: %w", holding.ID, ErrNotFound)
	}
	h := holding.WithROI()
	h.CreatedAt = r.holdings[idx].CreatedAt
	h.UpdatedAt = r.now()
	r.holdings[idx] = h
	snapshot := cloneHoldings(r.holdings)
	r.mu.Unlock()

	r.publish(snapshot)
	out := h.WithROI()
	return &out, nil
}

// Delete removes the holding with id; deleting an unknown id is a no-op.
func (r *MemoryHoldingRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	idx := r.indexOf(id)
	if idx < 0 {
		r.mu.Unlock()
		return nil
	}
	r.holdings = append(r.holdings[:idx], r.holdings[idx+1:]...)
	snapshot := cloneHoldings(r.holdings)
	r.mu.Unlock()

	r.publish(snapshot)
	return nil
}

func (r *MemoryHoldingRepository) indexOf(id string) int {
	for i := range r.holdings {
		if r.holdings[i].ID == id {
			return i
		}
	}
	return -1
}

// MemorySnapshotRepository keeps portfolio snapshots in memory.
type MemorySnapshotRepository struct {
	mu        sync.Mutex
	snapshots []models.PortfolioSnapshot
}

// NewMemorySnapshotRepository creates an empty in-memory snapshot store.
func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{}
}

// Create appends the snapshot, assigning an id when missing.
func (r *MemorySnapshotRepository) Create(ctx context.Context, snapshot *models.PortfolioSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := snapshot.BeforeCreate(nil); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, *snapshot)
	return nil
}

// List returns one page of snapshots, newest first.
func (r *MemorySnapshotRepository) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.PortfolioSnapshot], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	sorted := make([]models.PortfolioSnapshot, len(r.snapshots))
	copy(sorted, r.snapshots)
	r.mu.Unlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RecordedAt.After(sorted[j].RecordedAt)
	})

	result := pagination.Window(sorted, page)
	return &result, nil
}
