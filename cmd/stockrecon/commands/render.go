package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"StockReconciler/internal/domain"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderSnapshotSummary prints per-brand stock counts.
func renderSnapshotSummary(w io.Writer, snapshot domain.Snapshot) {
	type counts struct{ inStock, outOfStock, failed int }
	byBrand := map[string]*counts{}
	for _, rec := range snapshot.Products {
		c, ok := byBrand[rec.Brand]
		if !ok {
			c = &counts{}
			byBrand[rec.Brand] = c
		}
		switch rec.Status {
		case domain.InStock:
			c.inStock++
		case domain.OutOfStock:
			c.outOfStock++
		default:
			c.failed++
		}
	}

	brands := make([]string, 0, len(byBrand))
	for brand := range byBrand {
		brands = append(brands, brand)
	}
	sort.Strings(brands)

	t := newTable(w)
	t.SetTitle(fmt.Sprintf("Snapshot %s (%s)", snapshot.ID, snapshot.CapturedAt.Format("2006-01-02 15:04 MST")))
	t.AppendHeader(table.Row{"Brand", "In stock", "Out of stock", "Errors"})
	for _, brand := range brands {
		c := byBrand[brand]
		t.AppendRow(table.Row{brand, c.inStock, c.outOfStock, c.failed})
	}
	t.AppendFooter(table.Row{"Total", "", "", snapshot.Total})
	t.Render()
}

// renderComparison prints one row per comparison record, in result order.
func renderComparison(w io.Writer, result domain.Reconciliation) {
	t := newTable(w)
	t.SetTitle(fmt.Sprintf("Reconciliation of %s", result.Date.Format("2006-01-02 15:04 MST")))
	t.AppendHeader(table.Row{"Brand", "Product", "External", "Ext. avail", "Platform", "Before promo", "Diff", "Status", "Sold", "Plat. avail"})
	for _, rec := range result.Results {
		t.AppendRow(table.Row{
			rec.Brand,
			rec.ProductName,
			priceCell(rec.PriceExternal),
			yesNo(rec.AvailableExternal),
			priceCell(rec.PricePlatform),
			priceCell(rec.PriceBeforePromo),
			rec.DiffPercent,
			string(rec.Status),
			yesNo(rec.SoldOnPlatform),
			yesNo(rec.AvailableOnPlatform),
		})
	}
	t.AppendFooter(table.Row{"Total", result.Total})
	t.Render()
}

func renderSuggestions(w io.Writer, suggestions []domain.MappingSuggestion) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Brand", "External name", "Platform id", "Platform title", "Score"})
	for _, s := range suggestions {
		t.AppendRow(table.Row{s.Brand, s.ExternalName, s.ProductID, s.ProductTitle, fmt.Sprintf("%.3f", s.Score)})
	}
	t.Render()
}

func priceCell(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *p)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
