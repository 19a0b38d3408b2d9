package scanner

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"StockReconciler/internal/domain"
)

// Scanner captures a single storefront strategy: how to read its collection
// pages and how to classify its product pages.
type Scanner interface {
	Name() string
	Crawl(ctx context.Context, target Target, collectionURL string) ([]domain.ProductStub, error)
	Verify(ctx context.Context, target Target, stub domain.ProductStub) domain.StockRecord
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered (available: %s)", name, strings.Join(r.Names(), ", "))
}

// Names lists registered scanners in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scanners))
	for name := range r.scanners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Selectors are the CSS selectors a storefront strategy reads.
type Selectors struct {
	Heading          string
	Listing          string
	TitleLink        string
	CurrentPrice     string
	Availability     string
	OutOfStockMarker string
}

// Target carries per-site parameters for a crawl or verification.
type Target struct {
	SiteName  string
	Selectors Selectors
}
