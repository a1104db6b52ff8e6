package backup

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/events"
	"stockroom/internal/core/store"
	"stockroom/internal/infrastructure/storage/memory"
)

func TestService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := memory.New()
	require.NoError(t, src.Write(ctx, store.KeyStockItems, []byte(`[{"id":1,"name":"Tomatoes"}]`)))
	require.NoError(t, src.Write(ctx, store.KeyMeasuringUnits, []byte(`[]`)))
	require.NoError(t, src.Write(ctx, store.KeySuppliers, []byte(`{broken`)))

	var buf bytes.Buffer
	require.NoError(t, NewService(src, nil, nil).Export(ctx, &buf))

	dst := memory.New()
	require.NoError(t, dst.Write(ctx, store.KeyStockTransactions, []byte(`[{"id":9}]`)))

	reconciled := 0
	bus := events.NewBus()
	sub, cancel := bus.Subscribe(1)
	defer cancel()

	svc := NewService(dst, ReconcilerFunc(func(context.Context) error {
		reconciled++
		return nil
	}), bus)

	snap, err := svc.Import(ctx, &buf)
	require.NoError(t, err)
	assert.Len(t, snap.Data, 2, "malformed suppliers are skipped")
	assert.Equal(t, 1, reconciled)
	assert.Equal(t, events.BackupRestored, (<-sub).Type)

	items, err := dst.Read(ctx, store.KeyStockItems)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"Tomatoes"}]`, string(items))

	txs, err := dst.Read(ctx, store.KeyStockTransactions)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":9}]`, string(txs), "keys missing from the snapshot are untouched")
}

func TestDecode_Rejects(t *testing.T) {
	compress := func(s string) *bytes.Reader {
		enc, err := zstd.NewWriter(nil)
		require.NoError(t, err)
		defer enc.Close()
		return bytes.NewReader(enc.EncodeAll([]byte(s), nil))
	}

	tests := []struct {
		name string
		in   *bytes.Reader
	}{
		{"not zstd", bytes.NewReader([]byte("plain text"))},
		{"not json", compress("nope")},
		{"wrong version", compress(`{"version":2,"data":{}}`)},
		{"unknown key", compress(`{"version":1,"data":{"secrets":[]}}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.in)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok, "%v", err)
			assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
		})
	}
}

func TestService_ExportCarriesLegacyGroups(t *testing.T) {
	ctx := context.Background()
	src := memory.New()
	require.NoError(t, src.Write(ctx, store.KeyStockGroupsLegacy, []byte(`[{"id":3,"name":"Dairy"}]`)))

	var buf bytes.Buffer
	require.NoError(t, NewService(src, nil, nil).Export(ctx, &buf))

	snap, err := Decode(&buf)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":3,"name":"Dairy"}]`, string(snap.Data[store.KeyStockGroups]))
	assert.NotContains(t, snap.Data, store.KeyStockGroupsLegacy)

	dst := memory.New()
	_, err = NewService(dst, nil, nil).Import(ctx, bytes.NewReader(mustExport(t, src)))
	require.NoError(t, err)
	groups, err := dst.Read(ctx, store.KeyStockGroups)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":3,"name":"Dairy"}]`, string(groups))
}

func TestService_ExportPrefersCurrentGroups(t *testing.T) {
	ctx := context.Background()
	src := memory.New()
	require.NoError(t, src.Write(ctx, store.KeyStockGroupsLegacy, []byte(`[{"id":3,"name":"Old"}]`)))
	require.NoError(t, src.Write(ctx, store.KeyStockGroups, []byte(`[{"id":4,"name":"New"}]`)))

	snap, err := Decode(bytes.NewReader(mustExport(t, src)))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":4,"name":"New"}]`, string(snap.Data[store.KeyStockGroups]))
}

func TestDecode_RejectsOversizedSnapshot(t *testing.T) {
	prev := maxDecodedSize
	maxDecodedSize = 64
	t.Cleanup(func() { maxDecodedSize = prev })

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	payload := `{"version":1,"data":{"suppliers":[` + strings.Repeat(`{"id":1},`, 20) + `{"id":2}]}}`

	_, err = Decode(bytes.NewReader(enc.EncodeAll([]byte(payload), nil)))
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "%v", err)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Equal(t, "backup exceeds size limit", appErr.Message)
}

func mustExport(t *testing.T, s store.Store) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewService(s, nil, nil).Export(context.Background(), &buf))
	return buf.Bytes()
}
