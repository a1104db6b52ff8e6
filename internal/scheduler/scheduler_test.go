package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "stockroom/internal/core/context"
	"stockroom/internal/core/id"
	"stockroom/internal/core/store"
	"stockroom/internal/domain/inventory"
	"stockroom/internal/domain/reports"
	"stockroom/internal/infrastructure/notify"
	"stockroom/internal/infrastructure/storage"
	"stockroom/internal/infrastructure/storage/memory"
)

type captured struct{ msgs []notify.Message }

func (c *captured) Name() string { return "capture" }

func (c *captured) Notify(_ context.Context, m notify.Message) error {
	c.msgs = append(c.msgs, m)
	return nil
}

func newAlert(t *testing.T, s *memory.Store) (*LowStockAlert, *captured) {
	t.Helper()
	ids := id.NewGenerator()
	items := storage.NewCollection[*inventory.StockItem](s, store.KeyStockItems, storage.WithIDGenerator(ids))
	txs := storage.NewCollection[*inventory.Transaction](s, store.KeyStockTransactions,
		storage.WithPrepend(), storage.WithIDGenerator(ids))
	ledger := inventory.NewLedger(inventory.LedgerConfig{Items: items, Transactions: txs})

	c := &captured{}
	return NewLowStockAlert(ledger, reports.NewService(items, ledger), c), c
}

func TestLowStockAlert_ReconcilesThenSends(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	// The cached quantity is stale; the ledger says 5.
	require.NoError(t, s.Write(ctx, store.KeyStockItems, []byte(
		`[{"id":1,"name":"Onions","measuringUnit":"kg","quantity":80,"status":"Available","reorderLevel":10}]`)))
	require.NoError(t, s.Write(ctx, store.KeyStockTransactions, []byte(
		`[{"id":2,"stockItemId":1,"type":"opening_balance","quantity":5}]`)))

	alert, c := newAlert(t, s)
	require.NoError(t, alert.Run(ctx))

	require.Len(t, c.msgs, 1)
	assert.Equal(t, AlertSubject, c.msgs[0].Subject)
	assert.Contains(t, c.msgs[0].Text, "Onions: 5 kg")
}

func TestLowStockAlert_NothingToReport(t *testing.T) {
	ctx := context.Background()
	alert, c := newAlert(t, memory.New())

	require.NoError(t, alert.Run(ctx))
	assert.Empty(t, c.msgs)

	alert.SendWhenEmpty = true
	require.NoError(t, alert.Run(ctx))
	require.Len(t, c.msgs, 1)
}

type jobFunc func(ctx context.Context) error

func (f jobFunc) Run(ctx context.Context) error { return f(ctx) }

func TestScheduler_StartStop(t *testing.T) {
	bad := New(Config{Spec: "every day"}, jobFunc(func(context.Context) error { return nil }), nil)
	assert.Error(t, bad.Start())

	ran := make(chan struct{}, 1)
	s := New(Config{Spec: "@every 10ms", Timeout: time.Second}, jobFunc(func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}), nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job never ran")
	}
}

func TestScheduler_TickTracesEachRun(t *testing.T) {
	var seen []string
	s := New(Config{}, jobFunc(func(ctx context.Context) error {
		seen = append(seen, appctx.GetRequestID(ctx))
		return nil
	}), nil)

	s.tick()
	s.tick()

	require.Len(t, seen, 2)
	assert.NotEmpty(t, seen[0])
	assert.NotEqual(t, seen[0], seen[1])
}
