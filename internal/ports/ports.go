package ports

import (
	"context"
	"time"

	"StockReconciler/internal/domain"
)

// SnapshotRepository persists snapshots. Writes are append-only and reads only
// ever need the most recent capture.
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot domain.Snapshot) error
	Latest(ctx context.Context) (domain.Snapshot, error)
}

// CatalogSource pulls the live platform catalog.
type CatalogSource interface {
	FetchProducts(ctx context.Context) ([]domain.PlatformProduct, error)
}

// MappingSource loads the static external name → platform id mapping.
type MappingSource interface {
	LoadMappings(ctx context.Context) ([]domain.MappingEntry, error)
}

// Notifier streams discrepancy digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when recurring jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// StockSource crawls every configured collection and verifies each product.
type StockSource interface {
	Collect(ctx context.Context) ([]domain.StockRecord, error)
}
