package parser

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"StockReconciler/internal/domain"
	"StockReconciler/internal/scanner"
)

const unknownBrand = "Unknown"

var brandSlugExpr = regexp.MustCompile(`(?i)brands-\d+-(.+?)\.html`)

// StorefrontScanner reads selector-driven listing pages and product pages.
type StorefrontScanner struct {
	fetcher *Fetcher
	logger  *slog.Logger
}

var _ scanner.Scanner = (*StorefrontScanner)(nil)

// NewStorefrontScanner wires a fetcher; a nil fetcher gets the defaults.
func NewStorefrontScanner(fetcher *Fetcher, log *slog.Logger) *StorefrontScanner {
	if fetcher == nil {
		fetcher = NewFetcher(nil, "", nil)
	}
	return &StorefrontScanner{fetcher: fetcher, logger: log}
}

// Name identifies the strategy inside the registry.
func (s *StorefrontScanner) Name() string {
	return "storefront"
}

// Crawl extracts one stub per listing element of a collection page, in DOM order.
// Fetch failures are returned to the caller.
func (s *StorefrontScanner) Crawl(ctx context.Context, target scanner.Target, collectionURL string) ([]domain.ProductStub, error) {
	doc, err := s.fetcher.Document(ctx, collectionURL)
	if err != nil {
		return nil, err
	}

	stubs := extractStubs(doc, target.Selectors, collectionURL)
	s.debug("collection parsed", "site", target.SiteName, "url", collectionURL, "products", len(stubs))
	return stubs, nil
}

// Verify classifies the stock status of one product page. It never fails:
// any fetch or parse problem yields FetchError with the stub preserved.
func (s *StorefrontScanner) Verify(ctx context.Context, target scanner.Target, stub domain.ProductStub) domain.StockRecord {
	doc, err := s.fetcher.Document(ctx, stub.URL)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("stock check failed", "site", target.SiteName, "url", stub.URL, "error", err)
		}
		return domain.StockRecord{ProductStub: stub, Status: domain.FetchError}
	}

	return domain.StockRecord{ProductStub: stub, Status: classifyStock(doc, target.Selectors)}
}

func extractStubs(doc *goquery.Document, sel scanner.Selectors, collectionURL string) []domain.ProductStub {
	// every matching heading contributes, in DOM order
	brand := strings.TrimSpace(doc.Find(sel.Heading).Text())
	if brand == "" {
		brand = BrandFromURL(collectionURL)
	}

	var stubs []domain.ProductStub
	doc.Find(sel.Listing).Each(func(_ int, item *goquery.Selection) {
		link := item.Find(sel.TitleLink).First()
		href, ok := link.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}

		stubs = append(stubs, domain.ProductStub{
			Brand: brand,
			Name:  strings.TrimSpace(link.Text()),
			URL:   resolveURL(collectionURL, href),
			Price: strings.TrimSpace(item.Find(sel.CurrentPrice).First().Text()),
		})
	})
	return stubs
}

// classifyStock is default-positive: a page without the availability element or
// without the marker counts as in stock.
func classifyStock(doc *goquery.Document, sel scanner.Selectors) domain.StockStatus {
	availability := strings.TrimSpace(doc.Find(sel.Availability).Text())
	if sel.OutOfStockMarker != "" && strings.Contains(availability, sel.OutOfStockMarker) {
		return domain.OutOfStock
	}
	return domain.InStock
}

// BrandFromURL parses the brand slug out of a brands-<id>-<slug>.html URL.
func BrandFromURL(collectionURL string) string {
	match := brandSlugExpr.FindStringSubmatch(collectionURL)
	if match == nil {
		return unknownBrand
	}
	brand := strings.TrimSpace(strings.ReplaceAll(match[1], "-", " "))
	if brand == "" {
		return unknownBrand
	}
	return brand
}

func resolveURL(base, href string) string {
	ref, err := url.Parse(href)
	if err != nil || ref.IsAbs() {
		return href
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return href
	}
	return parsed.ResolveReference(ref).String()
}

func (s *StorefrontScanner) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
