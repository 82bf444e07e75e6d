package mapping

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MalformedOrder is the sort position given to rules whose ordering hint is
// present but not a finite number.
const MalformedOrder = 999

// OrderValue is a lenient numeric ordering hint (display_order, column_index).
// Stored configs were edited by hand for years, so decoding never fails:
// numbers and numeric strings are valid, null and blank are absent, and
// anything else is kept as present-but-malformed.
type OrderValue struct {
	value float64
	set   bool
	valid bool
	raw   string
}

// Order returns a valid ordering hint.
func Order(n float64) OrderValue {
	return parseOrderNumber(n)
}

// MalformedOrderValue returns a hint that is present but unusable, as decoded
// from a value like "abc".
func MalformedOrderValue(raw string) OrderValue {
	return OrderValue{set: true, raw: raw}
}

func parseOrderNumber(n float64) OrderValue {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return OrderValue{set: true, raw: strconv.FormatFloat(n, 'g', -1, 64)}
	}
	return OrderValue{value: n, set: true, valid: true}
}

func parseOrderString(s string) OrderValue {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return OrderValue{}
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return OrderValue{set: true, raw: s}
	}
	ov := parseOrderNumber(n)
	if !ov.valid {
		ov.raw = s
	}
	return ov
}

// IsSet reports whether the hint was present in the source.
func (o OrderValue) IsSet() bool { return o.set }

// Valid reports whether the hint is a finite number.
func (o OrderValue) Valid() bool { return o.set && o.valid }

// Float returns the numeric value and whether it is usable.
func (o OrderValue) Float() (float64, bool) {
	return o.value, o.Valid()
}

func (o OrderValue) String() string {
	switch {
	case !o.set:
		return ""
	case o.valid:
		return strconv.FormatFloat(o.value, 'f', -1, 64)
	default:
		return o.raw
	}
}

func (o OrderValue) MarshalJSON() ([]byte, error) {
	switch {
	case !o.set:
		return []byte("null"), nil
	case o.valid:
		return []byte(strconv.FormatFloat(o.value, 'f', -1, 64)), nil
	default:
		return json.Marshal(o.raw)
	}
}

func (o *OrderValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = OrderValue{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*o = OrderValue{set: true, raw: string(data)}
			return nil
		}
		*o = parseOrderString(s)
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			*o = OrderValue{set: true, raw: string(data)}
			return nil
		}
		*o = parseOrderNumber(n)
	}
	return nil
}

func (o OrderValue) IsZero() bool { return !o.set }

func (o OrderValue) MarshalYAML() (any, error) {
	switch {
	case !o.set:
		return nil, nil
	case o.valid:
		return o.value, nil
	default:
		return o.raw, nil
	}
}

func (o *OrderValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		if node.Kind == yaml.ScalarNode {
			*o = OrderValue{}
		} else {
			*o = OrderValue{set: true, raw: node.Value}
		}
		return nil
	}
	*o = parseOrderString(node.Value)
	return nil
}
