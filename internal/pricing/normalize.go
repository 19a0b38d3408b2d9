package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"StockReconciler/internal/domain"
)

const continuePolicy = "continue"

// NormalizePrice turns a raw price label such as "12,50 TND" into a number.
// Everything but digits, commas and periods is dropped, the first comma becomes a
// decimal point, and the longest leading float is parsed. The boolean is false when
// no number remains.
func NormalizePrice(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}

	cleaned := strings.Replace(b.String(), ",", ".", 1)
	prefix := leadingFloat(cleaned)
	if prefix == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// leadingFloat returns the longest prefix of s shaped like digits[.digits] that
// contains at least one digit.
func leadingFloat(s string) string {
	end, digits := 0, 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		frac := end + 1
		for frac < len(s) && s[frac] >= '0' && s[frac] <= '9' {
			frac++
			digits++
		}
		if frac > end+1 {
			end = frac
		}
	}
	if digits == 0 {
		return ""
	}
	return s[:end]
}

// NormalizePriceValue normalizes a price as it appears in a feed or snapshot:
// numbers pass through, strings go through NormalizePrice, and anything else
// (including nil) is absent.
func NormalizePriceValue(v interface{}) *float64 {
	var value float64
	switch raw := v.(type) {
	case float64:
		value = raw
	case float32:
		value = float64(raw)
	case int:
		value = float64(raw)
	case int64:
		value = float64(raw)
	case json.Number:
		parsed, err := raw.Float64()
		if err != nil {
			return nil
		}
		value = parsed
	case string:
		parsed, ok := NormalizePrice(raw)
		if !ok {
			return nil
		}
		value = parsed
	default:
		return nil
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	return &value
}

// IsVariantAvailable ORs the three availability signals of a platform variant.
func IsVariantAvailable(v domain.PlatformVariant) bool {
	if v.Available != nil && *v.Available {
		return true
	}
	quantity := 0
	if v.InventoryQuantity != nil {
		quantity = *v.InventoryQuantity
	}
	if quantity > 0 {
		return true
	}
	return v.InventoryPolicy == continuePolicy
}

// DiffPercent is (external - platform) / external * 100.
func DiffPercent(external, platform float64) float64 {
	return (external - platform) / external * 100
}

// FormatDiffPercent renders DiffPercent with two decimals and a % suffix.
func FormatDiffPercent(external, platform float64) string {
	return FormatPercent(DiffPercent(external, platform))
}

// exactDigits covers the full binary expansion of any float64 whose magnitude
// is at least 2^-12; smaller values round to 0.00 either way.
const exactDigits = 64

// FormatPercent renders a percentage with two decimals and a % suffix. The
// exact binary value is rounded half away from zero, so 1.005 (stored as
// 1.00499...) gives "1.00%". A zero external price yields "Infinity%",
// "-Infinity%" or "NaN%".
func FormatPercent(value float64) string {
	switch {
	case math.IsNaN(value):
		return "NaN%"
	case math.IsInf(value, 1):
		return "Infinity%"
	case math.IsInf(value, -1):
		return "-Infinity%"
	}

	exact, err := decimal.NewFromString(strconv.FormatFloat(value, 'f', exactDigits, 64))
	if err != nil {
		return strconv.FormatFloat(value, 'f', 2, 64) + "%"
	}
	return exact.StringFixed(2) + "%"
}
