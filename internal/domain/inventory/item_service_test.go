package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/events"
	"stockroom/internal/core/store"
	"stockroom/internal/core/types"
	"stockroom/internal/infrastructure/storage"
	"stockroom/internal/infrastructure/storage/memory"
)

func TestItemService_CreateWithoutInitialQuantity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	it, err := f.service.Create(ctx, &StockItem{
		Name:     "Salt",
		Quantity: types.NewQuantity(500), // ignored
		Status:   StatusAvailable,        // ignored
	}, 0)
	require.NoError(t, err)
	assertStock(t, it, 0, StatusOutOfStock)

	txs, err := f.ledger.ForItem(ctx, it.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestItemService_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.service.Create(ctx, &StockItem{Name: "  "}, 0)
	assert.True(t, apperror.IsValidation(err))

	_, err = f.service.Create(ctx, &StockItem{Name: "Oil", Price: types.MustMoney("-1")}, 0)
	assert.True(t, apperror.IsValidation(err))

	_, err = f.service.Create(ctx, &StockItem{Name: "Oil", ReorderLevel: types.NewQuantity(-1)}, 0)
	assert.True(t, apperror.IsValidation(err))
}

func TestItemService_UpdateReorderLevelChangesStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	it := f.tomatoes(t)
	assertStock(t, it, 50, StatusAvailable)

	it.ReorderLevel = types.NewQuantity(60)
	it.Quantity = types.NewQuantity(1) // client cannot set quantity
	updated, err := f.service.Update(ctx, it)
	require.NoError(t, err)
	assertStock(t, updated, 50, StatusLow)
}

func TestItemService_UpdateMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Update(context.Background(), item(404, 0))
	assert.True(t, apperror.IsNotFound(err))
}

func TestItemService_CountByCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.tomatoes(t)
	_, err := f.service.Create(ctx, &StockItem{Name: "Onions", Category: "Vegetables"}, 0)
	require.NoError(t, err)
	_, err = f.service.Create(ctx, &StockItem{Name: "Milk", Category: "Dairy"}, 0)
	require.NoError(t, err)

	counts, err := f.service.CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Vegetables": 2, "Dairy": 1}, counts)
}

// failingWrites rejects writes to one key.
type failingWrites struct {
	store.Store
	key string
}

func (f failingWrites) Write(ctx context.Context, key string, value []byte) error {
	if key == f.key {
		return errors.New("disk full")
	}
	return f.Store.Write(ctx, key, value)
}

func TestItemService_CreateRollsBackWhenOpeningBalanceFails(t *testing.T) {
	ctx := context.Background()
	s := failingWrites{Store: memory.New(), key: store.KeyStockTransactions}

	items := storage.NewCollection[*StockItem](s, store.KeyStockItems)
	txs := storage.NewCollection[*Transaction](s, store.KeyStockTransactions, storage.WithPrepend())
	ledger := NewLedger(LedgerConfig{Items: items, Transactions: txs, Location: time.UTC})
	service := NewItemService(items, ledger, nil)

	_, err := service.Create(ctx, &StockItem{Name: "Flour", MeasuringUnit: "kg"}, types.NewQuantity(20))
	require.Error(t, err)

	all, err := items.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "a failed create must not leave the item behind")

	_, err = service.Create(ctx, &StockItem{Name: "Flour", MeasuringUnit: "kg"}, 0)
	require.NoError(t, err)
	all, err = items.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestItemService_PublishesChanges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ch, cancel := f.bus.Subscribe(8)
	defer cancel()

	next := func() events.Event {
		t.Helper()
		require.NotEmpty(t, ch)
		return <-ch
	}

	it, err := f.service.Create(ctx, &StockItem{Name: "Salt"}, 0)
	require.NoError(t, err)
	e := next()
	assert.Equal(t, events.CatalogChanged, e.Type)
	assert.Equal(t, store.KeyStockItems, e.Key)
	assert.Equal(t, it.ID, e.EntityID)

	it.Name = "Sea salt"
	_, err = f.service.Update(ctx, it)
	require.NoError(t, err)
	assert.Equal(t, it.ID, next().EntityID)

	require.NoError(t, f.service.Delete(ctx, it.ID))
	assert.Equal(t, it.ID, next().EntityID)
	assert.Empty(t, ch)
}
