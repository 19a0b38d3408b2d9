package pricing

import (
	"encoding/json"
	"strconv"
	"testing"

	"StockReconciler/internal/domain"
)

func TestNormalizePrice(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{raw: "12,50 TND", want: 12.5, ok: true},
		{raw: "45.000 DT", want: 45, ok: true},
		{raw: "1.299,00", want: 1.299, ok: true},
		{raw: "40.00", want: 40, ok: true},
		{raw: "  7 DT", want: 7, ok: true},
		{raw: ",5", want: 0.5, ok: true},
		{raw: "", ok: false},
		{raw: "N/A", ok: false},
		{raw: "DT", ok: false},
		{raw: ".", ok: false},
		{raw: ",.", ok: false},
	}

	for _, tc := range cases {
		got, ok := NormalizePrice(tc.raw)
		if ok != tc.ok {
			t.Fatalf("NormalizePrice(%q) ok = %v, want %v", tc.raw, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("NormalizePrice(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizePriceIdempotent(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"12,50 TND", "45.000 DT", "1.299,00", "0.99", "100"} {
		first, ok := NormalizePrice(raw)
		if !ok {
			t.Fatalf("NormalizePrice(%q) returned no value", raw)
		}
		again, ok := NormalizePrice(strconv.FormatFloat(first, 'f', -1, 64))
		if !ok || again != first {
			t.Fatalf("normalizing %v again gave %v (ok=%v)", first, again, ok)
		}
	}
}

func TestNormalizePriceValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   interface{}
		want *float64
	}{
		{name: "json number", in: 38.5, want: ptr(38.5)},
		{name: "int", in: 40, want: ptr(40.0)},
		{name: "json.Number", in: json.Number("12.25"), want: ptr(12.25)},
		{name: "price string", in: "40.00", want: ptr(40.0)},
		{name: "label", in: "12,50 TND", want: ptr(12.5)},
		{name: "no digits", in: "N/A", want: nil},
		{name: "nil", in: nil, want: nil},
		{name: "bool", in: true, want: nil},
	}
	for _, tc := range cases {
		got := NormalizePriceValue(tc.in)
		switch {
		case tc.want == nil && got != nil:
			t.Fatalf("%s: expected absent, got %v", tc.name, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Fatalf("%s: expected %v, got %v", tc.name, *tc.want, got)
		}
	}
}

func ptr(v float64) *float64 {
	return &v
}

func TestIsVariantAvailable(t *testing.T) {
	t.Parallel()

	yes, no := true, false
	five, zero := 5, 0

	cases := []struct {
		name    string
		variant domain.PlatformVariant
		want    bool
	}{
		{name: "explicit flag", variant: domain.PlatformVariant{Available: &yes}, want: true},
		{name: "positive quantity", variant: domain.PlatformVariant{InventoryQuantity: &five}, want: true},
		{name: "continue policy", variant: domain.PlatformVariant{InventoryPolicy: "continue", InventoryQuantity: &zero}, want: true},
		{name: "all negative", variant: domain.PlatformVariant{Available: &no, InventoryQuantity: &zero, InventoryPolicy: "deny"}, want: false},
		{name: "empty variant", variant: domain.PlatformVariant{}, want: false},
	}

	for _, tc := range cases {
		if got := IsVariantAvailable(tc.variant); got != tc.want {
			t.Fatalf("%s: IsVariantAvailable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	t.Parallel()

	if got := FormatDiffPercent(45, 40); got != "11.11%" {
		t.Fatalf("unexpected percent: %s", got)
	}
	if got := FormatDiffPercent(40, 50); got != "-25.00%" {
		t.Fatalf("unexpected percent: %s", got)
	}
}

func TestFormatPercentZeroExternalPrice(t *testing.T) {
	t.Parallel()

	if got := FormatPercent(DiffPercent(0, 40)); got != "-Infinity%" {
		t.Fatalf("unexpected percent: %s", got)
	}
	if got := FormatPercent(DiffPercent(0, 0)); got != "NaN%" {
		t.Fatalf("unexpected percent: %s", got)
	}
}

func TestFormatPercentRoundsExactBinaryValue(t *testing.T) {
	t.Parallel()

	cases := map[float64]string{
		1.005:  "1.00%",
		0.125:  "0.13%",
		-0.125: "-0.13%",
		2.675:  "2.67%",
	}
	for in, want := range cases {
		if got := FormatPercent(in); got != want {
			t.Fatalf("FormatPercent(%v) = %s, want %s", in, got, want)
		}
	}
}
