package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/store"
)

func TestStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	_, err = s.Read(ctx, store.KeySuppliers)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Write(ctx, store.KeySuppliers, []byte(`[{"id":7}]`)))
	got, err := s.Read(ctx, store.KeySuppliers)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":7}]`, string(got))

	require.NoError(t, s.Write(ctx, store.KeySuppliers, []byte(`[]`)))
	got, err = s.Read(ctx, store.KeySuppliers)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestStore_WatchReportsExternalEdits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, store.KeyStockTransactions, []byte(`[]`)))

	changes, err := s.Watch(ctx, store.KeyStockTransactions)
	require.NoError(t, err)

	external := []byte(`[{"id":42}]`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, store.KeyStockTransactions+".json"), external, 0o644))

	select {
	case ch := <-changes:
		assert.Equal(t, store.KeyStockTransactions, ch.Key)
	case <-time.After(2 * time.Second):
		t.Fatal("expected change notification")
	}
}
