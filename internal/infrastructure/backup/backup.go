// Package backup exports and restores every stored collection as a single
// zstd-compressed JSON snapshot.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/events"
	"stockroom/internal/core/store"
	"stockroom/pkg/logger"
)

// FormatVersion is written into every snapshot.
const FormatVersion = 1

// maxDecodedSize caps the decompressed snapshot.
var maxDecodedSize int64 = 256 << 20

// legacyKeys lists older names a collection may still be stored under.
var legacyKeys = map[string][]string{
	store.KeyStockGroups: {store.KeyStockGroupsLegacy},
}

// Snapshot is the decompressed backup document.
type Snapshot struct {
	Version   int                        `json:"version"`
	CreatedAt time.Time                  `json:"createdAt"`
	Data      map[string]json.RawMessage `json:"data"`
}

// Reconciler re-derives cached item state after a restore.
type Reconciler interface {
	Reconcile(ctx context.Context) error
}

// ReconcilerFunc adapts a function to Reconciler.
type ReconcilerFunc func(ctx context.Context) error

// Reconcile calls f.
func (f ReconcilerFunc) Reconcile(ctx context.Context) error { return f(ctx) }

// Service exports and imports snapshots.
type Service struct {
	store      store.Store
	reconciler Reconciler
	events     events.Publisher
	now        func() time.Time
}

// NewService creates a backup service.
func NewService(s store.Store, r Reconciler, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{store: s, reconciler: r, events: pub, now: time.Now}
}

// Export writes a compressed snapshot of every known key to w.
// Keys never written are left out.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	snap := Snapshot{
		Version:   FormatVersion,
		CreatedAt: s.now().UTC(),
		Data:      make(map[string]json.RawMessage, len(store.AllKeys)),
	}
	for _, key := range store.AllKeys {
		raw, err := s.read(ctx, key)
		if err != nil {
			return err
		}
		if raw == nil {
			continue
		}
		if !json.Valid(raw) {
			logger.Warn(ctx, "skipping malformed collection in backup", "key", key)
			continue
		}
		snap.Data[key] = raw
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("backup encoder: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(&snap); err != nil {
		_ = enc.Close()
		return fmt.Errorf("backup encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("backup flush: %w", err)
	}

	logger.Info(ctx, "backup exported", "keys", len(snap.Data))
	return nil
}

// read returns the stored value of key, falling back to its legacy names.
// A nil result means nothing is stored.
func (s *Service) read(ctx context.Context, key string) ([]byte, error) {
	for _, k := range append([]string{key}, legacyKeys[key]...) {
		raw, err := s.store.Read(ctx, k)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("backup read %s: %w", k, err)
		}
		if len(raw) == 0 {
			continue
		}
		return raw, nil
	}
	return nil, nil
}

// Import restores a snapshot read from r. Every key present in the
// snapshot replaces the stored value; other keys are untouched. Item
// quantities are reconciled afterwards.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Snapshot, error) {
	snap, err := Decode(r)
	if err != nil {
		return nil, err
	}

	for _, key := range store.AllKeys {
		raw, ok := snap.Data[key]
		if !ok {
			continue
		}
		if err := s.store.Write(ctx, key, raw); err != nil {
			return nil, fmt.Errorf("restore %s: %w", key, err)
		}
	}

	if s.reconciler != nil {
		if err := s.reconciler.Reconcile(ctx); err != nil {
			return nil, fmt.Errorf("reconcile after restore: %w", err)
		}
	}

	s.events.Publish(ctx, events.Event{Type: events.BackupRestored})
	logger.Info(ctx, "backup restored", "keys", len(snap.Data), "created_at", snap.CreatedAt)
	return snap, nil
}

// Decode decompresses and validates a snapshot without applying it.
func Decode(r io.Reader) (*Snapshot, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderMaxMemory(uint64(maxDecodedSize)))
	if err != nil {
		return nil, apperror.NewInvalidInput("backup is not a zstd stream").WithCause(err)
	}
	defer dec.Close()

	body, err := io.ReadAll(io.LimitReader(dec, maxDecodedSize+1))
	if err != nil {
		return nil, apperror.NewInvalidInput("backup is not a zstd stream").WithCause(err)
	}
	if int64(len(body)) > maxDecodedSize {
		return nil, apperror.NewInvalidInput("backup exceeds size limit").
			WithDetail("limit", maxDecodedSize)
	}

	var snap Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, apperror.NewInvalidInput("backup is not a valid snapshot").WithCause(err)
	}
	if snap.Version != FormatVersion {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("unsupported backup version %d", snap.Version))
	}
	for key, raw := range snap.Data {
		if !isKnownKey(key) {
			return nil, apperror.NewInvalidInput("backup contains unknown key").WithDetail("key", key)
		}
		if !json.Valid(raw) {
			return nil, apperror.NewInvalidInput("backup contains malformed collection").WithDetail("key", key)
		}
	}
	return &snap, nil
}

func isKnownKey(key string) bool {
	for _, k := range store.AllKeys {
		if k == key {
			return true
		}
	}
	return false
}
