package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/store"
)

func TestStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Read(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Write(ctx, "k", []byte(`[1,2]`)))
	got, err := s.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))

	// Returned bytes are a copy.
	got[0] = 'x'
	again, _ := s.Read(ctx, "k")
	assert.Equal(t, `[1,2]`, string(again))
}

func TestStore_WatchSkipsOwnWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend := NewBackend()
	tabA, tabB := backend.Handle(), backend.Handle()

	changes, err := tabA.Watch(ctx, store.KeyStockTransactions)
	require.NoError(t, err)

	require.NoError(t, tabA.Write(ctx, store.KeyStockTransactions, []byte(`[]`)))
	require.NoError(t, tabB.Write(ctx, store.KeyStockTransactions, []byte(`[{"id":1}]`)))

	select {
	case ch := <-changes:
		assert.Equal(t, store.KeyStockTransactions, ch.Key)
		assert.Equal(t, tabB.Origin(), ch.Origin)
		assert.JSONEq(t, `[{"id":1}]`, string(ch.Value))
	case <-time.After(time.Second):
		t.Fatal("expected a change from the other handle")
	}

	select {
	case ch := <-changes:
		t.Fatalf("unexpected second change: %+v", ch)
	default:
	}
}

func TestStore_WatchClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New()

	changes, err := s.Watch(ctx, "k")
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-changes:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
