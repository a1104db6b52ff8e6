package inventory

import "stockroom/internal/core/types"

// Status is the stock level of an item relative to its reorder level.
type Status string

const (
	StatusAvailable  Status = "Available"
	StatusLow        Status = "Low Quantity"
	StatusOutOfStock Status = "Out of Stock"
)

func (s Status) String() string { return string(s) }

// Statuses lists every status in display order.
var Statuses = []Status{StatusAvailable, StatusLow, StatusOutOfStock}

// DeriveStatus applies the fixed priority: empty, then at or under the
// reorder level, then available. A reorder level of 0 therefore only ever
// reports Out of Stock.
func DeriveStatus(quantity, reorderLevel types.Quantity) Status {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= reorderLevel:
		return StatusLow
	default:
		return StatusAvailable
	}
}

// NeedsReorder reports whether s should appear on the low-stock report.
func (s Status) NeedsReorder() bool {
	return s == StatusLow || s == StatusOutOfStock
}
