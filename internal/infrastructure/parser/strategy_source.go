package parser

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"StockReconciler/internal/config"
	"StockReconciler/internal/domain"
	"StockReconciler/internal/ports"
	"StockReconciler/internal/scanner"
)

// StrategySource implements StockSource via registered scanner strategies.
type StrategySource struct {
	registry       *scanner.Registry
	sites          []config.SiteConfig
	maxConcurrency int
	logger         *slog.Logger
}

var _ ports.StockSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with config-defined sites.
// maxConcurrency caps parallel stock checks per collection; 0 means unbounded.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, maxConcurrency int, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry:       reg,
		sites:          sites,
		maxConcurrency: maxConcurrency,
		logger:         log,
	}
}

// Collect walks sites and their collections one at a time and verifies the
// products of each collection concurrently. A collection that cannot be fetched
// aborts the whole run.
func (s *StrategySource) Collect(ctx context.Context) ([]domain.StockRecord, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("collect", "sites", len(s.sites))

	var aggregated []domain.StockRecord
	for _, site := range s.sites {
		strategy, err := s.registry.Resolve(site.Scanner)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", site.Name, err)
		}

		target := scanner.Target{SiteName: site.Name, Selectors: toScannerSelectors(site.Selectors)}
		for _, collectionURL := range site.Collections {
			s.debug("scrape collection", "site", site.Name, "url", collectionURL)

			stubs, err := strategy.Crawl(ctx, target, collectionURL)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("collection crawl failed", "site", site.Name, "url", collectionURL, "error", err)
				}
				return nil, fmt.Errorf("site %s collection %s: %w", site.Name, collectionURL, err)
			}

			records, err := s.verifyAll(ctx, strategy, target, stubs)
			if err != nil {
				return nil, fmt.Errorf("site %s collection %s: %w", site.Name, collectionURL, err)
			}
			aggregated = append(aggregated, records...)
		}
	}

	s.debug("collect done", "total_products", len(aggregated))
	return aggregated, nil
}

// verifyAll fans out one stock check per stub. Each goroutine owns its slot of
// the result slice, so order follows the stubs.
func (s *StrategySource) verifyAll(ctx context.Context, strategy scanner.Scanner, target scanner.Target, stubs []domain.ProductStub) ([]domain.StockRecord, error) {
	records := make([]domain.StockRecord, len(stubs))

	g, gctx := errgroup.WithContext(ctx)
	if s.maxConcurrency > 0 {
		g.SetLimit(s.maxConcurrency)
	}
	for i, stub := range stubs {
		g.Go(func() error {
			records[i] = strategy.Verify(gctx, target, stub)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func toScannerSelectors(cfg config.SelectorConfig) scanner.Selectors {
	return scanner.Selectors{
		Heading:          cfg.Heading,
		Listing:          cfg.Listing,
		TitleLink:        cfg.TitleLink,
		CurrentPrice:     cfg.CurrentPrice,
		Availability:     cfg.Availability,
		OutOfStockMarker: cfg.OutOfStockMarker,
	}
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
