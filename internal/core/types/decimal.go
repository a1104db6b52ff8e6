// Package types provides numeric value types shared by the domain.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
type Money = decimal.Decimal

func init() {
	// Persisted collections carry prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// NewMoney creates a Money value from a float.
// WARNING: Use ParseMoney or NewMoneyFromString for user input.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroMoney returns zero Money value.
func ZeroMoney() Money {
	return decimal.Zero
}

// ParseMoney parses a form field. Anything unparsable or negative becomes zero.
func ParseMoney(s string) Money {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Quantity is a fixed-point quantity with 4 decimal places (scale = 1e4).
// Sums stay exact, which keeps reconciliation independent of transaction order.
type Quantity int64

const QuantityScale int64 = 10_000

// MaxQuantity is the largest representable quantity.
const MaxQuantity = Quantity(math.MaxInt64)

// maxWholeUnits bounds the integer part accepted by the parser.
const maxWholeUnits = (math.MaxInt64 - (QuantityScale - 1)) / QuantityScale

// NewQuantityFromFloat64 converts v, saturating at ±MaxQuantity. NaN is zero.
func NewQuantityFromFloat64(v float64) Quantity {
	q, err := quantityFromFloat64(v)
	if err == nil {
		return q
	}
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return -MaxQuantity
	}
	return MaxQuantity
}

func quantityFromFloat64(v float64) (Quantity, error) {
	scaled := math.Round(v * float64(QuantityScale))
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
	if math.IsNaN(scaled) || scaled >= float64(math.MaxInt64) || scaled <= -float64(math.MaxInt64) {
		return 0, fmt.Errorf("quantity %v out of range", v)
	}
	return Quantity(scaled), nil
}

// QuantityFromDecimal converts d, clamping it to ±MaxQuantity and
// truncating digits beyond the fourth decimal place.
func QuantityFromDecimal(d decimal.Decimal) Quantity {
	scaled := d.Shift(4).Truncate(0)
	switch {
	case scaled.GreaterThan(maxQuantityDecimal):
		return MaxQuantity
	case scaled.LessThan(maxQuantityDecimal.Neg()):
		return -MaxQuantity
	}
	return Quantity(scaled.IntPart())
}

var maxQuantityDecimal = decimal.NewFromInt(math.MaxInt64)

// NewQuantity creates a whole-number quantity.
func NewQuantity(units int64) Quantity { return Quantity(units * QuantityScale) }

func (q Quantity) Float64() float64 { return float64(q) / float64(QuantityScale) }

func (q Quantity) IsZero() bool { return q == 0 }

func (q Quantity) IsPositive() bool { return q > 0 }

func (q Quantity) IsNegative() bool { return q < 0 }

func (q Quantity) Neg() Quantity { return -q }

// ClampZero floors the quantity at zero.
func (q Quantity) ClampZero() Quantity {
	if q < 0 {
		return 0
	}
	return q
}

// Decimal converts the quantity to a decimal for money arithmetic.
func (q Quantity) Decimal() decimal.Decimal {
	return decimal.New(int64(q), -4)
}

// Value returns quantity × unit price.
func (q Quantity) Value(unitPrice Money) Money {
	return q.Decimal().Mul(unitPrice)
}

// String renders the quantity without trailing fractional zeros ("50", "2.5").
func (q Quantity) String() string {
	neg := q < 0
	v := q
	if neg {
		v = -v
	}
	intPart := int64(v) / QuantityScale
	frac := int64(v) % QuantityScale

	var s string
	if frac == 0 {
		s = strconv.FormatInt(intPart, 10)
	} else {
		s = strings.TrimRight(fmt.Sprintf("%d.%04d", intPart, frac), "0")
	}
	if neg {
		return "-" + s
	}
	return s
}

// MarshalJSON encodes Quantity as a JSON number.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalJSON accepts either a JSON number or string.
// Stored data written by older clients sometimes carries numbers as strings.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}

	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*q = 0
			return nil
		}
		data = []byte(s)
	}

	parsed, err := parseQuantityString(string(data))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// ParseQuantity parses a form field. Anything unparsable or negative becomes zero.
func ParseQuantity(s string) Quantity {
	q, err := parseQuantityString(s)
	if err != nil {
		return 0
	}
	return q.ClampZero()
}

func parseQuantityString(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}

	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("parse quantity: %w", err)
		}
		return quantityFromFloat64(f)
	}

	sign := int64(1)
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = strings.TrimPrefix(s, "-")
	} else if strings.HasPrefix(s, "+") {
		s = strings.TrimPrefix(s, "+")
	}

	intPartStr, fracStr, _ := strings.Cut(s, ".")
	if intPartStr == "" {
		intPartStr = "0"
	}
	intPart, err := strconv.ParseInt(intPartStr, 10, 64)
	if err != nil || intPart < 0 {
		return 0, fmt.Errorf("parse quantity integer part %q", intPartStr)
	}
	if intPart > maxWholeUnits {
		return 0, fmt.Errorf("quantity %q out of range", intPartStr)
	}

	// Pad right to 4 digits, truncate extra digits.
	if len(fracStr) > 4 {
		fracStr = fracStr[:4]
	}
	for len(fracStr) < 4 {
		fracStr += "0"
	}
	frac, err := strconv.ParseInt(fracStr, 10, 64)
	if err != nil || frac < 0 {
		return 0, fmt.Errorf("parse quantity fractional part %q", fracStr)
	}

	return Quantity(sign * (intPart*QuantityScale + frac)), nil
}
