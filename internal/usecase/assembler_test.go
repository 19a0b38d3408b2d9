package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"StockReconciler/internal/domain"
)

func TestAssemblerSortsAndStamps(t *testing.T) {
	t.Parallel()

	source := &fakeSource{records: []domain.StockRecord{
		record("Cosrx", "Snail Essence", "50 DT", domain.InStock),
		record("Axis-Y", "Peach Serum", "30 DT", domain.InStock),
		record("Anua", "Zesty Mist", "20 DT", domain.InStock),
		record("Anua", "heartleaf Toner", "45.000 DT", domain.OutOfStock),
		record("Anua", "Cleansing Oil", "38 DT", domain.FetchError),
	}}

	a := NewAssembler(AssemblerDeps{Source: source, Now: fixedClock, NewID: func() string { return "snap-1" }})
	snapshot, err := a.Assemble(context.Background())
	require.NoError(t, err)

	require.Equal(t, "snap-1", snapshot.ID)
	require.Equal(t, fixedClock(), snapshot.CapturedAt)
	require.Equal(t, len(snapshot.Products), snapshot.Total)

	var names []string
	for _, p := range snapshot.Products {
		names = append(names, p.Brand+"/"+p.Name)
	}
	require.Equal(t, []string{
		"Anua/Cleansing Oil",
		"Anua/heartleaf Toner",
		"Anua/Zesty Mist",
		"Axis-Y/Peach Serum",
		"Cosrx/Snail Essence",
	}, names)
}

func TestAssemblerEmptySnapshot(t *testing.T) {
	t.Parallel()

	a := NewAssembler(AssemblerDeps{Source: &fakeSource{}})
	snapshot, err := a.Assemble(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snapshot.Products)
	require.Zero(t, snapshot.Total)
	require.NotEmpty(t, snapshot.ID)
}

func TestAssemblerPropagatesCollectionFailure(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	a := NewAssembler(AssemblerDeps{
		Source:     &fakeSource{err: domain.ErrNetworkFailure},
		Repository: repo,
	})

	_, err := a.ScrapeAndStore(context.Background())
	require.ErrorIs(t, err, domain.ErrNetworkFailure)
	require.Empty(t, repo.snapshots)
}

func TestScrapeAndStorePersists(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	a := NewAssembler(AssemblerDeps{
		Source:     &fakeSource{records: []domain.StockRecord{record("Anua", "Toner", "1 DT", domain.InStock)}},
		Repository: repo,
		Now:        fixedClock,
	})

	snapshot, err := a.ScrapeAndStore(context.Background())
	require.NoError(t, err)
	require.Len(t, repo.snapshots, 1)
	require.Equal(t, snapshot, repo.snapshots[0])

	repo.saveErr = errors.New("disk full")
	_, err = a.ScrapeAndStore(context.Background())
	require.Error(t, err)
}

func TestSortRecordsIsStableForEqualKeys(t *testing.T) {
	t.Parallel()

	records := []domain.StockRecord{
		record("Anua", "Toner", "1", domain.InStock),
		record("Anua", "Toner", "2", domain.InStock),
	}
	SortRecords(records)
	require.Equal(t, "1", records[0].Price)
	require.Equal(t, "2", records[1].Price)
}
