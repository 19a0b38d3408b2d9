package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"StockReconciler/internal/config"
	"StockReconciler/internal/domain"
	"StockReconciler/internal/ports"
)

const defaultTimeout = 20 * time.Second

// Client reads the platform catalog feed.
type Client struct {
	feedURL string
	http    *resty.Client
}

var _ ports.CatalogSource = (*Client)(nil)

// NewClient builds a feed client from configuration. The timeout defaults to 20s.
func NewClient(cfg config.PlatformConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "StockReconciler/1.0"
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")
	if cfg.AccessToken != "" {
		httpClient.SetHeader("X-Access-Token", cfg.AccessToken)
	}

	return &Client{feedURL: cfg.FeedURL, http: httpClient}
}

// FetchProducts performs a single GET of the feed. Any failure, including a
// timeout, is reported as domain.ErrUpstreamFailure.
func (c *Client) FetchProducts(ctx context.Context) ([]domain.PlatformProduct, error) {
	if c == nil || c.feedURL == "" {
		return nil, fmt.Errorf("%w: feed url is not configured", domain.ErrUpstreamFailure)
	}

	resp, err := c.http.R().SetContext(ctx).Get(c.feedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", domain.ErrUpstreamFailure, c.feedURL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: get %s: status %s", domain.ErrUpstreamFailure, c.feedURL, resp.Status())
	}

	products, err := decodeFeed(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrUpstreamFailure, c.feedURL, err)
	}
	return products, nil
}

type feedEnvelope struct {
	Products []feedProduct `json:"products"`
}

type feedProduct struct {
	ID       flexInt       `json:"id"`
	Title    string        `json:"title"`
	Vendor   string        `json:"vendor"`
	Handle   string        `json:"handle"`
	Variants []feedVariant `json:"variants"`
}

type feedVariant struct {
	ID                flexInt     `json:"id"`
	ProductID         flexInt     `json:"product_id"`
	Title             string      `json:"title"`
	Price             interface{} `json:"price"`
	CompareAtPrice    interface{} `json:"compare_at_price"`
	Available         *bool       `json:"available"`
	InventoryQuantity *flexInt    `json:"inventory_quantity"`
	InventoryPolicy   string      `json:"inventory_policy"`
}

// decodeFeed accepts either {"products": [...]} or a bare array.
func decodeFeed(body []byte) ([]domain.PlatformProduct, error) {
	trimmed := bytes.TrimSpace(body)

	var raw []feedProduct
	if bytes.HasPrefix(trimmed, []byte("[")) {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, err
		}
	} else {
		var env feedEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, err
		}
		raw = env.Products
	}

	products := make([]domain.PlatformProduct, 0, len(raw))
	for _, p := range raw {
		product := domain.PlatformProduct{
			ID:       int64(p.ID),
			Title:    p.Title,
			Vendor:   p.Vendor,
			Handle:   p.Handle,
			Variants: make([]domain.PlatformVariant, 0, len(p.Variants)),
		}
		for _, v := range p.Variants {
			variant := domain.PlatformVariant{
				ID:              int64(v.ID),
				ProductID:       int64(v.ProductID),
				Title:           v.Title,
				Price:           v.Price,
				CompareAtPrice:  v.CompareAtPrice,
				Available:       v.Available,
				InventoryPolicy: v.InventoryPolicy,
			}
			if variant.ProductID == 0 {
				variant.ProductID = product.ID
			}
			if v.InventoryQuantity != nil {
				qty := int(*v.InventoryQuantity)
				variant.InventoryQuantity = &qty
			}
			product.Variants = append(product.Variants, variant)
		}
		products = append(products, product)
	}
	return products, nil
}

// flexInt decodes ids written as JSON numbers or numeric strings.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = flexInt(n)
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("numeric id %q: %w", s, err)
	}
	*f = flexInt(n)
	return nil
}
