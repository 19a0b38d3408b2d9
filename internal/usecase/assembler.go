package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"StockReconciler/internal/domain"
	"StockReconciler/internal/ports"
)

// AssemblerDeps wires the driven adapters into the snapshot assembler.
type AssemblerDeps struct {
	Source     ports.StockSource
	Repository ports.SnapshotRepository
	Logger     *slog.Logger
	Now        func() time.Time
	NewID      func() string
}

// Assembler turns one crawl of every collection into a Snapshot.
type Assembler struct {
	source     ports.StockSource
	repository ports.SnapshotRepository
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// NewAssembler constructs the orchestration component.
func NewAssembler(deps AssemblerDeps) *Assembler {
	a := &Assembler{
		source:     deps.Source,
		repository: deps.Repository,
		logger:     deps.Logger,
		now:        deps.Now,
		newID:      deps.NewID,
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.newID == nil {
		a.newID = uuid.NewString
	}
	return a
}

// Assemble crawls, verifies and sorts. It does not persist.
func (a *Assembler) Assemble(ctx context.Context) (domain.Snapshot, error) {
	if a.source == nil {
		return domain.Snapshot{}, fmt.Errorf("stock source is not configured")
	}

	records, err := a.source.Collect(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("collect stock: %w", err)
	}

	SortRecords(records)
	if records == nil {
		records = []domain.StockRecord{}
	}

	return domain.Snapshot{
		ID:         a.newID(),
		CapturedAt: a.now().UTC(),
		Total:      len(records),
		Products:   records,
	}, nil
}

// ScrapeAndStore assembles a snapshot and appends it to the repository.
func (a *Assembler) ScrapeAndStore(ctx context.Context) (domain.Snapshot, error) {
	if a.repository == nil {
		return domain.Snapshot{}, fmt.Errorf("snapshot repository is not configured")
	}

	snapshot, err := a.Assemble(ctx)
	if err != nil {
		a.logError("scrape failed", "stage", "assemble", "error", err)
		return domain.Snapshot{}, err
	}

	if err := a.repository.Save(ctx, snapshot); err != nil {
		a.logError("scrape failed", "stage", "persist", "snapshot", snapshot.ID, "error", err)
		return domain.Snapshot{}, fmt.Errorf("persist snapshot: %w", err)
	}

	if a.logger != nil {
		a.logger.Info("snapshot stored", "snapshot", snapshot.ID, "total", snapshot.Total)
	}
	return snapshot, nil
}

// SortRecords orders records by brand, then name, with locale-aware collation.
func SortRecords(records []domain.StockRecord) {
	col := collate.New(language.Und)
	sort.SliceStable(records, func(i, j int) bool {
		if c := col.CompareString(records[i].Brand, records[j].Brand); c != 0 {
			return c < 0
		}
		return col.CompareString(records[i].Name, records[j].Name) < 0
	})
}

func (a *Assembler) logError(msg string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Error(msg, args...)
	}
}
