package parser

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"

	"StockReconciler/internal/domain"
)

// Fetcher downloads storefront pages and parses them into goquery documents.
type Fetcher struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

// NewFetcher wires an HTTP client. A nil client gets one without timeout;
// a nil limiter disables throttling.
func NewFetcher(client *http.Client, userAgent string, limiter *rate.Limiter) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if userAgent == "" {
		userAgent = "StockReconciler/1.0"
	}
	return &Fetcher{client: client, userAgent: userAgent, limiter: limiter}
}

// NewLimiter builds a politeness limiter; rps <= 0 means unlimited (nil).
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Document fetches pageURL and parses the body.
func (f *Fetcher) Document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for %s: %w: %w", pageURL, domain.ErrNetworkFailure, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w: %w", pageURL, domain.ErrNetworkFailure, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Encoding", "br, gzip")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w: %w", pageURL, domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: %w: status %s", pageURL, domain.ErrNetworkFailure, resp.Status)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", pageURL, domain.ErrParseFailure, err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", pageURL, domain.ErrParseFailure, err)
	}
	return doc, nil
}

func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	case "gzip":
		return gzip.NewReader(resp.Body)
	default:
		return io.NopCloser(resp.Body), nil
	}
}
