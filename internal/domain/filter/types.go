// Package filter evaluates list filters against in-memory collections.
package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stockroom/internal/core/types"
)

// ComparisonType defines the comparison kinds.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"
	NotEqual       ComparisonType = "neq"
	Less           ComparisonType = "lt"
	Greater        ComparisonType = "gt"
	LessOrEqual    ComparisonType = "lte"
	GreaterOrEqual ComparisonType = "gte"
	InList         ComparisonType = "in"
	NotInList      ComparisonType = "nin"
	Contains       ComparisonType = "contains"  // case-insensitive substring
	NotContains    ComparisonType = "ncontains" // case-insensitive, negated
	IsNull         ComparisonType = "null"      // empty string / zero
	IsNotNull      ComparisonType = "not_null"
)

// Item is one filter row.
type Item struct {
	Field    string         `json:"field"`
	Operator ComparisonType `json:"operator"`
	Value    any            `json:"value"`
}

// Fielder exposes named fields of an entity for filtering and ordering.
type Fielder interface {
	Field(name string) (any, bool)
}

// Match reports whether e satisfies every item.
// Unknown fields never match, so a typo narrows the result instead of widening it.
func Match(e Fielder, items []Item) bool {
	for _, it := range items {
		v, ok := e.Field(it.Field)
		if !ok || !matchOne(v, it) {
			return false
		}
	}
	return true
}

func matchOne(v any, it Item) bool {
	switch it.Operator {
	case Equal, "":
		return compare(v, it.Value) == 0
	case NotEqual:
		return compare(v, it.Value) != 0
	case Less:
		return compare(v, it.Value) < 0
	case Greater:
		return compare(v, it.Value) > 0
	case LessOrEqual:
		return compare(v, it.Value) <= 0
	case GreaterOrEqual:
		return compare(v, it.Value) >= 0
	case InList, NotInList:
		found := false
		for _, candidate := range asList(it.Value) {
			if compare(v, candidate) == 0 {
				found = true
				break
			}
		}
		return found == (it.Operator == InList)
	case Contains, NotContains:
		has := strings.Contains(strings.ToLower(asString(v)), strings.ToLower(asString(it.Value)))
		return has == (it.Operator == Contains)
	case IsNull:
		return isEmpty(v)
	case IsNotNull:
		return !isEmpty(v)
	}
	return false
}

// Compare orders two field values. Numbers compare numerically, everything
// else compares as case-insensitive strings.
func Compare(a, b any) int {
	return compare(a, b)
}

func compare(a, b any) int {
	fa, aNum := asNumber(a)
	fb, bNum := asNumber(b)
	if aNum && bNum {
		return fa.Cmp(fb)
	}
	return strings.Compare(strings.ToLower(asString(a)), strings.ToLower(asString(b)))
}

func asNumber(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case types.Quantity:
		return x.Decimal(), true
	case decimal.Decimal:
		return x, true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case float64:
		return decimal.NewFromFloat(x), true
	case time.Time:
		return decimal.NewFromInt(x.UnixMilli()), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

func asList(v any) []any {
	switch x := v.(type) {
	case []any:
		return x
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	case string:
		parts := strings.Split(x, ",")
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = strings.TrimSpace(p)
		}
		return out
	}
	return []any{v}
}

func isEmpty(v any) bool {
	if n, ok := asNumber(v); ok {
		return n.IsZero()
	}
	return strings.TrimSpace(asString(v)) == ""
}
