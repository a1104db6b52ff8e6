package inventory

import (
	"encoding/json"
	"strings"
)

// Kind is the direction of a stock transaction.
type Kind string

const (
	KindInflow         Kind = "inflow"
	KindOutflow        Kind = "outflow"
	KindOpeningBalance Kind = "opening_balance"
)

// View selects the label set used when rendering kinds.
type View int

const (
	// LedgerView is the transaction list: Purchase / Usage / Opening Stock.
	LedgerView View = iota
	// HistoryView is the per-item history: Stock in / Stock out / Initial stock.
	HistoryView
)

var labels = map[View]map[Kind]string{
	LedgerView: {
		KindInflow:         "Purchase",
		KindOutflow:        "Usage",
		KindOpeningBalance: "Opening Stock",
	},
	HistoryView: {
		KindInflow:         "Stock in",
		KindOutflow:        "Stock out",
		KindOpeningBalance: "Initial stock",
	},
}

// aliases maps every accepted spelling (lower-cased) to its kind.
var aliases = map[string]Kind{
	"inflow":          KindInflow,
	"purchase":        KindInflow,
	"stock in":        KindInflow,
	"outflow":         KindOutflow,
	"usage":           KindOutflow,
	"stock out":       KindOutflow,
	"opening_balance": KindOpeningBalance,
	"opening stock":   KindOpeningBalance,
	"initial stock":   KindOpeningBalance,
}

// ParseKind accepts canonical tokens and the labels of either view.
// Unrecognised input is returned as-is with ok=false.
func ParseKind(s string) (Kind, bool) {
	if k, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, true
	}
	return Kind(s), false
}

// Valid reports whether k is one of the three known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindInflow, KindOutflow, KindOpeningBalance:
		return true
	}
	return false
}

// Sign is +1 for kinds that add stock, -1 for usage and 0 for unknown kinds.
func (k Kind) Sign() int {
	switch k {
	case KindInflow, KindOpeningBalance:
		return 1
	case KindOutflow:
		return -1
	}
	return 0
}

// Label renders k for the given view. Unknown kinds render as stored.
func (k Kind) Label(v View) string {
	if l, ok := labels[v][k]; ok {
		return l
	}
	return string(k)
}

func (k Kind) String() string { return string(k) }

// UnmarshalJSON normalises legacy labels to canonical kinds.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*k, _ = ParseKind(s)
	return nil
}
