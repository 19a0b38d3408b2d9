package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ProductStub is a single listing extracted from a collection page.
type ProductStub struct {
	Brand string `json:"brand"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Price string `json:"price"`
}

// StockStatus classifies a product detail page.
type StockStatus int

const (
	InStock StockStatus = iota
	OutOfStock
	FetchError
)

var stockStatusNames = map[StockStatus]string{
	InStock:    "In Stock",
	OutOfStock: "Out of Stock",
	FetchError: "Error",
}

func (s StockStatus) String() string {
	if name, ok := stockStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("StockStatus(%d)", int(s))
}

// ParseStockStatus maps the wire representation back to a StockStatus.
func ParseStockStatus(value string) (StockStatus, error) {
	for status, name := range stockStatusNames {
		if name == value {
			return status, nil
		}
	}
	return FetchError, fmt.Errorf("unknown stock status %q", value)
}

func (s StockStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *StockStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStockStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// StockRecord is a ProductStub enriched with the verified stock status.
type StockRecord struct {
	ProductStub
	Status StockStatus `json:"status"`
}

// Available reports whether the product was seen in stock.
func (r StockRecord) Available() bool {
	return r.Status == InStock
}

// Snapshot is one timestamped, fully-verified capture of the external catalog.
// Products are ordered by brand, then name.
type Snapshot struct {
	ID         string        `json:"id"`
	CapturedAt time.Time     `json:"date"`
	Total      int           `json:"total"`
	Products   []StockRecord `json:"products"`
}
