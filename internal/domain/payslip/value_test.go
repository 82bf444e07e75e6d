package payslip

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
		ok    bool
	}{
		{"int", 300000, "300000", true},
		{"float", 1234.5, "1234.5", true},
		{"decimal", decimal.NewFromInt(7), "7", true},
		{"json number", json.Number("42"), "42", true},
		{"thousands separators", "1,234,567", "1234567", true},
		{"padded", "  99 ", "99", true},
		{"negative", "-500", "-500", true},
		{"blank", "  ", "0", false},
		{"text", "8:30", "0", false},
		{"nil", nil, "0", false},
		{"nan", math.NaN(), "0", false},
		{"bool", true, "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Numeric(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestIsZeroValue(t *testing.T) {
	assert.True(t, IsZeroValue(nil))
	assert.True(t, IsZeroValue(0))
	assert.True(t, IsZeroValue("0"))
	assert.True(t, IsZeroValue(" "))
	assert.True(t, IsZeroValue(decimal.Zero))
	assert.False(t, IsZeroValue(1))
	assert.False(t, IsZeroValue("n/a"))
	assert.False(t, IsZeroValue("0:15"))
}
