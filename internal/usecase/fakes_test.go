package usecase

import (
	"context"
	"sync"
	"time"

	"StockReconciler/internal/domain"
)

type fakeSource struct {
	records []domain.StockRecord
	err     error
}

func (f *fakeSource) Collect(context.Context) ([]domain.StockRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.StockRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

type fakeRepo struct {
	mu        sync.Mutex
	snapshots []domain.Snapshot
	saveErr   error
}

func (f *fakeRepo) Save(_ context.Context, s domain.Snapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots = append(f.snapshots, s)
	return nil
}

func (f *fakeRepo) Latest(context.Context) (domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.snapshots) == 0 {
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}
	return f.snapshots[len(f.snapshots)-1], nil
}

type fakeMappings struct {
	entries []domain.MappingEntry
	err     error
}

func (f *fakeMappings) LoadMappings(context.Context) ([]domain.MappingEntry, error) {
	return f.entries, f.err
}

type fakeCatalog struct {
	products []domain.PlatformProduct
	err      error
	calls    int
}

func (f *fakeCatalog) FetchProducts(context.Context) ([]domain.PlatformProduct, error) {
	f.calls++
	return f.products, f.err
}

type fakeNotifier struct {
	digests []string
}

func (f *fakeNotifier) PublishDigest(_ context.Context, digest string) error {
	f.digests = append(f.digests, digest)
	return nil
}

func fixedClock() time.Time {
	return time.Date(2026, time.October, 17, 9, 30, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func record(brand, name, price string, status domain.StockStatus) domain.StockRecord {
	return domain.StockRecord{
		ProductStub: domain.ProductStub{Brand: brand, Name: name, URL: "https://shop.test/" + name, Price: price},
		Status:      status,
	}
}
