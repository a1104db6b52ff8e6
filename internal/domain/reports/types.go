// Package reports builds read-only views over items and the ledger.
package reports

import (
	"time"

	"stockroom/internal/core/types"
	"stockroom/internal/domain/inventory"
)

// UnknownItemName is shown for transactions whose item was deleted.
const UnknownItemName = "Unknown Item"

// RecentLimit is the number of transactions shown on the dashboard.
const RecentLimit = 5

// --- Ledger rows ---

// LedgerRow is a transaction with its item name resolved and its kind
// rendered for a particular view.
type LedgerRow struct {
	*inventory.Transaction

	ItemName  string `json:"itemName"`
	TypeLabel string `json:"typeLabel"`
	Orphan    bool   `json:"orphan,omitempty"`
}

// --- Dashboard ---

// Dashboard summarises the whole stockroom.
type Dashboard struct {
	GeneratedAt time.Time `json:"generatedAt"`

	TotalItems int `json:"totalItems"`
	Available  int `json:"available"`
	Low        int `json:"lowQuantity"`
	OutOfStock int `json:"outOfStock"`

	// StockValue is the sum of quantity times current price over all items
	StockValue types.Money `json:"stockValue"`

	TransactionCount int         `json:"transactionCount"`
	Recent           []LedgerRow `json:"recentTransactions"`
}

// --- Item history ---

// ItemHistory is the ledger of one item, newest first.
type ItemHistory struct {
	Item    *inventory.StockItem `json:"item"`
	Entries []LedgerRow          `json:"entries"`
}

// --- Low stock ---

// LowStockReport lists items that need reordering.
type LowStockReport struct {
	GeneratedAt time.Time              `json:"generatedAt"`
	Items       []*inventory.StockItem `json:"items"`
}

// Empty reports whether nothing needs reordering.
func (r *LowStockReport) Empty() bool { return len(r.Items) == 0 }
