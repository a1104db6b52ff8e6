package filter

import (
	"testing"

	"stockroom/internal/core/types"
)

type row map[string]any

func (r row) Field(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

func TestMatch_Operators(t *testing.T) {
	e := row{
		"name":     "Tomatoes",
		"category": "Vegetables",
		"quantity": types.NewQuantity(5),
		"notes":    "",
	}

	tests := []struct {
		name string
		item Item
		want bool
	}{
		{"Equal ignores case", Item{Field: "category", Operator: Equal, Value: "vegetables"}, true},
		{"Empty operator is equal", Item{Field: "name", Value: "Tomatoes"}, true},
		{"NotEqual", Item{Field: "name", Operator: NotEqual, Value: "Onions"}, true},
		{"Greater numeric", Item{Field: "quantity", Operator: Greater, Value: 4}, true},
		{"Greater from string", Item{Field: "quantity", Operator: Greater, Value: "10"}, false},
		{"LessOrEqual", Item{Field: "quantity", Operator: LessOrEqual, Value: 5.0}, true},
		{"InList", Item{Field: "category", Operator: InList, Value: []any{"Dairy", "Vegetables"}}, true},
		{"InList comma string", Item{Field: "category", Operator: InList, Value: "Dairy, Meat"}, false},
		{"NotInList", Item{Field: "category", Operator: NotInList, Value: []string{"Dairy"}}, true},
		{"Contains", Item{Field: "name", Operator: Contains, Value: "MATO"}, true},
		{"NotContains", Item{Field: "name", Operator: NotContains, Value: "mato"}, false},
		{"IsNull", Item{Field: "notes", Operator: IsNull}, true},
		{"IsNotNull", Item{Field: "name", Operator: IsNotNull}, true},
		{"Unknown field", Item{Field: "colour", Operator: Equal, Value: "red"}, false},
		{"Unknown operator", Item{Field: "name", Operator: "like", Value: "T%"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(e, []Item{tt.item}); got != tt.want {
				t.Errorf("Match(%+v) = %v, want %v", tt.item, got, tt.want)
			}
		})
	}
}

func TestMatch_AllItemsMustHold(t *testing.T) {
	e := row{"name": "Milk", "quantity": types.NewQuantity(3)}
	items := []Item{
		{Field: "name", Operator: Equal, Value: "milk"},
		{Field: "quantity", Operator: Less, Value: 2},
	}
	if Match(e, items) {
		t.Fatal("expected no match when one item fails")
	}
	if !Match(e, nil) {
		t.Fatal("no items should match everything")
	}
}

func TestCompare(t *testing.T) {
	if Compare(types.NewQuantity(10), 9) <= 0 {
		t.Error("10 should sort after 9 numerically")
	}
	if Compare("apple", "Banana") >= 0 {
		t.Error("strings compare case-insensitively")
	}
	if Compare("10", "9") <= 0 {
		t.Error("numeric strings compare as numbers")
	}
}
