package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/store"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/catalogs/group"
	"stockroom/internal/domain/inventory"
	"stockroom/internal/infrastructure/storage"
	"stockroom/internal/infrastructure/storage/memory"
)

type plainStore struct{ store.Store }

func TestApp_SharedStore(t *testing.T) {
	ctx := context.Background()
	a := New(memory.New(), Options{Location: time.UTC})

	require.NoError(t, a.Groups.Create(ctx, &group.Group{Name: "Dairy"}))
	it, err := a.Items.Create(ctx, &inventory.StockItem{Name: "Milk", Category: "Dairy"}, types.NewQuantity(3))
	require.NoError(t, err)

	groups, err := a.Groups.All(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 1, groups[0].ItemCount)

	txs, err := a.Ledger.ForItem(ctx, it.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Greater(t, txs[0].ID, it.ID, "items and transactions share one id sequence")
}

func TestApp_Sync(t *testing.T) {
	assert.NotNil(t, New(memory.New(), Options{}).Sync())
	assert.NotNil(t, New(storage.Instrument(memory.New(), "memory", nil), Options{}).Sync())
	assert.Nil(t, New(storage.Instrument(plainStore{memory.New()}, "plain", nil), Options{}).Sync())
}
