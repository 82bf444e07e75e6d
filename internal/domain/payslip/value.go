package payslip

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Numeric coerces a raw cell value to a decimal. CSV exports carry amounts as
// strings with thousands separators, so "300,000" and " 1200 " are numeric.
// Blank strings, nil and anything unparsable report false.
func Numeric(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, false
		}
		return *n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case float32:
		return Numeric(float64(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		s := strings.TrimSpace(n)
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// NumericOrZero coerces v, treating missing and non-numeric values as zero.
func NumericOrZero(v any) decimal.Decimal {
	d, _ := Numeric(v)
	return d
}

// IsZeroValue reports whether a cell should count as empty for display
// suppression: nil, blank, or numerically zero.
func IsZeroValue(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return true
	}
	d, ok := Numeric(v)
	return ok && d.IsZero()
}
