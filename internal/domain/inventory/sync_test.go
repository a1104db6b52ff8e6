package inventory

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/events"
	"stockroom/internal/core/store"
	"stockroom/internal/core/types"
	"stockroom/internal/infrastructure/storage/memory"
)

func TestSync_ReconcilesAfterExternalLedgerWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend := memory.NewBackend()
	tabA := newFixtureOn(t, backend.Handle())
	it := tabA.tomatoes(t)

	sub, unsubscribe := tabA.bus.Subscribe(4)
	defer unsubscribe()

	done := make(chan error, 1)
	go func() { done <- NewSync(tabA.store, tabA.ledger, tabA.bus).Run(ctx) }()

	// Give the watcher time to subscribe before the other tab writes.
	time.Sleep(50 * time.Millisecond)

	// Another tab rewrites the ledger without touching the item cache.
	tabB := backend.Handle()
	raw := []byte(`[{"id":1,"stockItemId":` + strconv.FormatInt(it.ID, 10) + `,"type":"opening_balance","quantity":3}]`)
	require.NoError(t, tabB.Write(ctx, store.KeyStockTransactions, raw))

	timeout := time.After(2 * time.Second)
	for seen := false; !seen; {
		select {
		case e := <-sub:
			seen = e.Type == events.ExternalChange
		case <-timeout:
			t.Fatal("sync did not react to the external write")
		}
	}

	got := tabA.item(t, it.ID)
	assert.Equal(t, types.NewQuantity(3), got.Quantity)
	assert.Equal(t, StatusLow, got.Status)

	cancel()
	assert.NoError(t, <-done)
}
