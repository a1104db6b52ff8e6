package inventory

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

func item(itemID id.ID, reorder int64) *StockItem {
	return &StockItem{
		BaseEntity:   entity.BaseEntity{ID: itemID},
		Name:         "Tomatoes",
		ReorderLevel: types.NewQuantity(reorder),
	}
}

func tx(txID, itemID id.ID, kind Kind, qty int64) *Transaction {
	return &Transaction{ID: txID, StockItemID: itemID, Type: kind, Quantity: types.NewQuantity(qty)}
}

func TestReconcile_Scenarios(t *testing.T) {
	it := item(1, 10)
	opening := tx(1, 1, KindOpeningBalance, 50)

	tests := []struct {
		name       string
		txs        []*Transaction
		wantQty    int64
		wantStatus Status
	}{
		{name: "A opening stock", txs: []*Transaction{opening}, wantQty: 50, wantStatus: StatusAvailable},
		{name: "B usage to low", txs: []*Transaction{opening, tx(2, 1, KindOutflow, 45)}, wantQty: 5, wantStatus: StatusLow},
		{name: "C usage to zero", txs: []*Transaction{opening, tx(2, 1, KindOutflow, 45), tx(3, 1, KindOutflow, 5)}, wantQty: 0, wantStatus: StatusOutOfStock},
		{name: "D overdraw clamps", txs: []*Transaction{opening, tx(2, 1, KindOutflow, 45), tx(3, 1, KindOutflow, 100)}, wantQty: 0, wantStatus: StatusOutOfStock},
		{name: "empty ledger", txs: nil, wantQty: 0, wantStatus: StatusOutOfStock},
		{name: "purchase adds", txs: []*Transaction{opening, tx(2, 1, KindInflow, 7)}, wantQty: 57, wantStatus: StatusAvailable},
		{name: "at reorder level is low", txs: []*Transaction{tx(1, 1, KindInflow, 10)}, wantQty: 10, wantStatus: StatusLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reconcile(it, tt.txs)
			assert.Equal(t, types.NewQuantity(tt.wantQty), r.Quantity)
			assert.Equal(t, tt.wantStatus, r.Status)
			assert.Empty(t, r.Unknown)
		})
	}
}

func TestReconcile_IgnoresOtherItems(t *testing.T) {
	r := Reconcile(item(1, 0), []*Transaction{
		tx(1, 1, KindInflow, 3),
		tx(2, 2, KindInflow, 100),
		tx(3, 2, KindOutflow, 1),
	})
	assert.Equal(t, types.NewQuantity(3), r.Quantity)
	assert.Equal(t, StatusAvailable, r.Status)
}

func TestReconcile_UnknownKindReported(t *testing.T) {
	r := Reconcile(item(1, 0), []*Transaction{
		tx(1, 1, KindInflow, 5),
		tx(2, 1, Kind("Transfer"), 5),
	})
	assert.Equal(t, types.NewQuantity(5), r.Quantity)
	assert.Equal(t, []id.ID{2}, r.Unknown)
}

func TestReconcile_ZeroReorderLevel(t *testing.T) {
	r := Reconcile(item(1, 0), []*Transaction{tx(1, 1, KindInflow, 1)})
	assert.Equal(t, StatusAvailable, r.Status)
}

func TestReconcile_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	kinds := []Kind{KindInflow, KindOutflow, KindOpeningBalance}

	for round := 0; round < 200; round++ {
		it := item(1, rng.Int63n(20))
		n := rng.Intn(12)
		txs := make([]*Transaction, n)
		for i := range txs {
			txs[i] = tx(id.ID(i+1), 1, kinds[rng.Intn(len(kinds))], rng.Int63n(40))
		}

		r := Reconcile(it, txs)

		// Never negative.
		assert.False(t, r.Quantity.IsNegative())
		// Zero exactly when out of stock.
		assert.Equal(t, r.Quantity.IsZero(), r.Status == StatusOutOfStock)
		// At or under the reorder level but not empty means low.
		if r.Quantity.IsPositive() && r.Quantity <= it.ReorderLevel {
			assert.Equal(t, StatusLow, r.Status)
		}

		// Permuting the ledger does not change the result.
		shuffled := append([]*Transaction(nil), txs...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		again := Reconcile(it, shuffled)
		assert.Equal(t, r.Quantity, again.Quantity)
		assert.Equal(t, r.Status, again.Status)
	}
}

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, StatusOutOfStock, DeriveStatus(0, types.NewQuantity(5)))
	assert.Equal(t, StatusLow, DeriveStatus(types.NewQuantity(5), types.NewQuantity(5)))
	assert.Equal(t, StatusAvailable, DeriveStatus(types.NewQuantity(6), types.NewQuantity(5)))
	assert.True(t, StatusLow.NeedsReorder())
	assert.False(t, StatusAvailable.NeedsReorder())
}

func TestReconcile_LargeQuantitiesDoNotWrap(t *testing.T) {
	it := item(1, 10)
	huge := tx(1, 1, KindInflow, 500_000_000_000_000)
	txs := []*Transaction{huge, tx(2, 1, KindInflow, 500_000_000_000_000)}

	r := Reconcile(it, txs)
	assert.Equal(t, types.MaxQuantity, r.Quantity)
	assert.Equal(t, StatusAvailable, r.Status)

	// Subtracting brings the exact sum back into range.
	r = Reconcile(it, append(txs,
		tx(3, 1, KindOutflow, 499_999_999_999_995),
		tx(4, 1, KindOutflow, 499_999_999_999_995)))
	assert.Equal(t, types.NewQuantity(10), r.Quantity)
	assert.Equal(t, StatusLow, r.Status)
}
