package types

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want Quantity
	}{
		{"12", NewQuantity(12)},
		{" 2.5 ", NewQuantityFromFloat64(2.5)},
		{"0.00009", 0},
		{"-4", 0},
		{"abc", 0},
		{"", 0},
		{"1e2", NewQuantity(100)},
		{"922337203685476.9999", NewQuantity(922337203685476) + 9_999},
		{"922337203685477", 0},
		{"1844674407370956", 0},
		{"99999999999999999999", 0},
		{"1e300", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseQuantity(tt.in), tt.in)
	}
}

func TestNewQuantityFromFloat64_Saturates(t *testing.T) {
	assert.Equal(t, MaxQuantity, NewQuantityFromFloat64(1e300))
	assert.Equal(t, -MaxQuantity, NewQuantityFromFloat64(-1e300))
	assert.Equal(t, MaxQuantity, NewQuantityFromFloat64(math.Inf(1)))
	assert.Equal(t, Quantity(0), NewQuantityFromFloat64(math.NaN()))
	assert.Equal(t, Quantity(15_000), NewQuantityFromFloat64(1.5))
}

func TestQuantityFromDecimal(t *testing.T) {
	assert.Equal(t, NewQuantity(3), QuantityFromDecimal(decimal.NewFromInt(3)))
	assert.Equal(t, Quantity(12_345), QuantityFromDecimal(decimal.RequireFromString("1.23456")))
	assert.Equal(t, MaxQuantity, QuantityFromDecimal(decimal.RequireFromString("1e20")))
	assert.Equal(t, -MaxQuantity, QuantityFromDecimal(decimal.RequireFromString("-1e20")))
}
