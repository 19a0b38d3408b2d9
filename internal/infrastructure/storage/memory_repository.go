package storage

import (
	"context"
	"sync"

	"StockReconciler/internal/domain"
	"StockReconciler/internal/ports"
)

// MemoryRepository keeps snapshots in process; used by default and in tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	snapshots []domain.Snapshot
}

var _ ports.SnapshotRepository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Save appends a copy of the snapshot.
func (r *MemoryRepository) Save(_ context.Context, snapshot domain.Snapshot) error {
	stored := snapshot
	stored.Products = append([]domain.StockRecord(nil), snapshot.Products...)

	r.mu.Lock()
	r.snapshots = append(r.snapshots, stored)
	r.mu.Unlock()
	return nil
}

// Latest returns the snapshot with the newest capture time; ties go to the later save.
func (r *MemoryRepository) Latest(_ context.Context) (domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.snapshots) == 0 {
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}

	latest := r.snapshots[0]
	for _, s := range r.snapshots[1:] {
		if !s.CapturedAt.Before(latest.CapturedAt) {
			latest = s
		}
	}
	latest.Products = append([]domain.StockRecord{}, latest.Products...)
	return latest, nil
}
