package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode"

	"StockReconciler/internal/domain"
	"StockReconciler/internal/ports"
	"StockReconciler/internal/pricing"
)

const unknownBrand = "Unknown"

// ReconcilerDeps wires the collaborators of a reconciliation run.
type ReconcilerDeps struct {
	Snapshots   ports.SnapshotRepository
	Mappings    ports.MappingSource
	Catalog     ports.CatalogSource
	KnownBrands []string
	Logger      *slog.Logger
}

// Reconciler compares the latest snapshot with the live platform catalog.
type Reconciler struct {
	snapshots   ports.SnapshotRepository
	mappings    ports.MappingSource
	catalog     ports.CatalogSource
	knownBrands []string
	logger      *slog.Logger
}

// NewReconciler constructs the comparison service.
func NewReconciler(deps ReconcilerDeps) *Reconciler {
	return &Reconciler{
		snapshots:   deps.Snapshots,
		mappings:    deps.Mappings,
		catalog:     deps.Catalog,
		knownBrands: deps.KnownBrands,
		logger:      deps.Logger,
	}
}

// Inputs gathers the three reconciliation inputs. A missing snapshot is reported
// as domain.ErrSnapshotNotFound; a failing feed aborts the run.
func (r *Reconciler) Inputs(ctx context.Context) (domain.Snapshot, []domain.MappingEntry, []domain.PlatformProduct, error) {
	if r.snapshots == nil || r.mappings == nil || r.catalog == nil {
		return domain.Snapshot{}, nil, nil, fmt.Errorf("reconciler is not fully configured")
	}

	snapshot, err := r.snapshots.Latest(ctx)
	if err != nil {
		r.logError("reconcile failed", "stage", "latest snapshot", "error", err)
		return domain.Snapshot{}, nil, nil, fmt.Errorf("latest snapshot: %w", err)
	}

	entries, err := r.mappings.LoadMappings(ctx)
	if err != nil {
		r.logError("reconcile failed", "stage", "mapping", "error", err)
		return domain.Snapshot{}, nil, nil, fmt.Errorf("load mappings: %w", err)
	}

	products, err := r.catalog.FetchProducts(ctx)
	if err != nil {
		r.logError("reconcile failed", "stage", "platform feed", "error", err)
		return domain.Snapshot{}, nil, nil, fmt.Errorf("fetch platform catalog: %w", err)
	}

	return snapshot, entries, products, nil
}

// Run performs one reconciliation request.
func (r *Reconciler) Run(ctx context.Context) (domain.Reconciliation, error) {
	snapshot, entries, products, err := r.Inputs(ctx)
	if err != nil {
		return domain.Reconciliation{}, err
	}

	results := Reconcile(snapshot, entries, products, r.knownBrands)
	if r.logger != nil {
		r.logger.Info("reconciliation done",
			"snapshot", snapshot.ID,
			"mappings", len(entries),
			"platform_products", len(products),
			"results", len(results))
	}

	return domain.Reconciliation{
		Date:    snapshot.CapturedAt,
		Total:   len(results),
		Results: results,
	}, nil
}

type variantRef struct {
	product *domain.PlatformProduct
	variant *domain.PlatformVariant
}

// catalogIndex holds the per-run lookups into the platform feed.
type catalogIndex struct {
	products map[int64]*domain.PlatformProduct
	variants map[int64]variantRef
}

func buildCatalogIndex(products []domain.PlatformProduct) catalogIndex {
	idx := catalogIndex{
		products: make(map[int64]*domain.PlatformProduct, len(products)),
		variants: map[int64]variantRef{},
	}
	for i := range products {
		p := &products[i]
		idx.products[p.ID] = p
		for j := range p.Variants {
			idx.variants[p.Variants[j].ID] = variantRef{product: p, variant: &p.Variants[j]}
		}
	}
	return idx
}

// resolve finds the platform product and variant for a mapping entry. A variant id
// takes precedence; a bare product id means its first variant.
func (idx catalogIndex) resolve(entry domain.MappingEntry) (*domain.PlatformProduct, *domain.PlatformVariant) {
	switch {
	case entry.VariantID != nil:
		ref := idx.variants[*entry.VariantID]
		return ref.product, ref.variant
	case entry.ProductID != nil:
		product := idx.products[*entry.ProductID]
		if product == nil || len(product.Variants) == 0 {
			return product, nil
		}
		return product, &product.Variants[0]
	default:
		return nil, nil
	}
}

// Reconcile produces one record per mapping entry (in mapping order) followed by
// one record per snapshot product no entry claimed (in snapshot order).
func Reconcile(snapshot domain.Snapshot, entries []domain.MappingEntry, products []domain.PlatformProduct, knownBrands []string) []domain.ComparisonRecord {
	idx := buildCatalogIndex(products)

	keys := make([]string, len(snapshot.Products))
	for i, rec := range snapshot.Products {
		keys[i] = NameKey(rec.Name)
	}

	// names of claimed snapshot records; every record carrying one is excluded
	// from the unmatched pass, including later duplicates
	matched := make(map[string]struct{})
	results := make([]domain.ComparisonRecord, 0, len(entries)+len(snapshot.Products))

	for _, entry := range entries {
		record := domain.ComparisonRecord{
			Brand:       entry.Brand,
			ProductName: entry.ExternalName,
		}

		key := NameKey(entry.ExternalName)
		for i, k := range keys {
			if k != key {
				continue
			}
			external := snapshot.Products[i]
			matched[external.Name] = struct{}{}
			record.PriceExternal = pricing.NormalizePriceValue(external.Price)
			record.AvailableExternal = external.Available()
			if record.Brand == "" {
				record.Brand = external.Brand
			}
			break
		}

		product, variant := idx.resolve(entry)
		if product != nil {
			record.SoldOnPlatform = true
		}
		if variant != nil {
			record.PricePlatform = pricing.NormalizePriceValue(variant.Price)
			record.PriceBeforePromo = pricing.NormalizePriceValue(variant.CompareAtPrice)
			record.AvailableOnPlatform = pricing.IsVariantAvailable(*variant)
		}

		record.DiffPercent, record.Status = classify(record.PriceExternal, record.PricePlatform)
		results = append(results, record)
	}

	for _, external := range snapshot.Products {
		if _, ok := matched[external.Name]; ok {
			continue
		}
		results = append(results, domain.ComparisonRecord{
			Brand:             InferBrand(external.Name, knownBrands),
			ProductName:       external.Name,
			PriceExternal:     pricing.NormalizePriceValue(external.Price),
			AvailableExternal: external.Available(),
			Status:            domain.StatusOnlyOnExternal,
		})
	}

	return results
}

func classify(external, platform *float64) (string, domain.ComparisonStatus) {
	switch {
	case external != nil && platform != nil:
		diff := pricing.DiffPercent(*external, *platform)
		percent := pricing.FormatDiffPercent(*external, *platform)
		switch {
		case math.Abs(diff) < 1:
			return percent, domain.StatusSame
		case *platform < *external:
			return percent, domain.StatusPlatformCheaper
		default:
			return percent, domain.StatusExternalCheaper
		}
	case external == nil && platform != nil:
		return "", domain.StatusOnlyOnPlatform
	case external != nil && platform == nil:
		return "", domain.StatusOnlyOnExternal
	default:
		return "", domain.StatusUnpriced
	}
}

// NameKey is the exact-match key: all whitespace removed, lowercased.
func NameKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// InferBrand returns the longest known brand that prefixes name, ignoring case.
func InferBrand(name string, knownBrands []string) string {
	lower := strings.ToLower(name)
	best := ""
	for _, brand := range knownBrands {
		if brand == "" || len(brand) <= len(best) {
			continue
		}
		if strings.HasPrefix(lower, strings.ToLower(brand)) {
			best = brand
		}
	}
	if best == "" {
		return unknownBrand
	}
	return best
}

// Discrepancies keeps the records whose prices differ or exist on one side only.
func Discrepancies(records []domain.ComparisonRecord) []domain.ComparisonRecord {
	var out []domain.ComparisonRecord
	for _, rec := range records {
		if rec.Status == domain.StatusSame || rec.Status == domain.StatusUnpriced {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (r *Reconciler) logError(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Error(msg, args...)
	}
}
