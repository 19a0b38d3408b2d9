package domain

import "time"

// ComparisonStatus describes how the two catalogs relate for one product.
type ComparisonStatus string

const (
	StatusSame            ComparisonStatus = "Same"
	StatusPlatformCheaper ComparisonStatus = "platform cheaper"
	StatusExternalCheaper ComparisonStatus = "external cheaper"
	StatusOnlyOnPlatform  ComparisonStatus = "Only on platform"
	StatusOnlyOnExternal  ComparisonStatus = "Only on external source"
	StatusUnpriced        ComparisonStatus = ""
)

// ComparisonRecord is one row of a reconciliation run.
type ComparisonRecord struct {
	Brand               string           `json:"brand"`
	ProductName         string           `json:"productName"`
	PriceExternal       *float64         `json:"priceExternal"`
	AvailableExternal   bool             `json:"availableExternal"`
	PricePlatform       *float64         `json:"pricePlatform"`
	PriceBeforePromo    *float64         `json:"priceBeforePromo"`
	DiffPercent         string           `json:"diffPercent"`
	Status              ComparisonStatus `json:"status"`
	SoldOnPlatform      bool             `json:"soldOnPlatform"`
	AvailableOnPlatform bool             `json:"availableOnPlatform"`
}

// Reconciliation is the result set of a single comparison request.
type Reconciliation struct {
	Date    time.Time          `json:"date"`
	Total   int                `json:"total"`
	Results []ComparisonRecord `json:"results"`
}

// MappingSuggestion proposes a platform product for an unmapped external record.
type MappingSuggestion struct {
	Brand        string  `json:"brand"`
	ExternalName string  `json:"externalProductName"`
	ProductID    int64   `json:"platformProductId"`
	ProductTitle string  `json:"platformProductTitle"`
	Score        float64 `json:"score"`
}
