package inventory

import (
	"github.com/shopspring/decimal"

	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

// Reconciliation is the quantity and status an item's ledger implies.
type Reconciliation struct {
	Quantity types.Quantity
	Status   Status

	// Unknown lists transactions of this item whose kind was not
	// recognised and which therefore did not take part in the sum.
	Unknown []id.ID
}

// Reconcile folds the transactions that belong to item into a quantity
// floored at zero and derives the status from it. Transactions of other
// items are ignored, so the whole ledger may be passed in.
func Reconcile(item *StockItem, txs []*Transaction) Reconciliation {
	var (
		sum     decimal.Decimal
		unknown []id.ID
	)
	for _, tx := range txs {
		if tx == nil || tx.StockItemID != item.ID {
			continue
		}
		switch tx.Type.Sign() {
		case 1:
			sum = sum.Add(tx.Quantity.Decimal())
		case -1:
			sum = sum.Sub(tx.Quantity.Decimal())
		default:
			unknown = append(unknown, tx.ID)
		}
	}

	// Summed as decimals so a heavily stocked item cannot wrap around.
	q := types.QuantityFromDecimal(sum).ClampZero()
	return Reconciliation{
		Quantity: q,
		Status:   DeriveStatus(q, item.ReorderLevel),
		Unknown:  unknown,
	}
}
