// Package store defines the key/value persistence contract the domain depends on.
//
// A store holds whole collections under named keys. Writes replace the previous
// value; callers read-modify-write the full collection themselves. Drivers live
// in internal/infrastructure/storage.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"stockroom/pkg/logger"
)

// Collection keys of the persisted layout.
const (
	KeyStockItems        = "stockItems"
	KeyStockTransactions = "stockTransactions"
	KeyMeasuringUnits    = "measuringUnits"
	KeyStockGroups       = "stockGroupsData"
	KeyStockGroupsLegacy = "stockGroups"
	KeySuppliers         = "suppliers"
	KeySidebarCollapsed  = "sidebarCollapsed"
)

// AllKeys lists every key a backup snapshot carries.
var AllKeys = []string{
	KeyStockItems,
	KeyStockTransactions,
	KeyMeasuringUnits,
	KeyStockGroups,
	KeySuppliers,
	KeySidebarCollapsed,
}

// ErrNotFound is returned by Read when nothing was ever written under a key.
var ErrNotFound = errors.New("store: key not found")

// Store is a synchronous key/value store.
type Store interface {
	// Read returns the raw value last written under key, or ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the value under key.
	Write(ctx context.Context, key string, value []byte) error

	// Close releases driver resources.
	Close() error
}

// Change describes a write made by another writer (another process or handle).
type Change struct {
	Key    string
	Value  []byte
	Origin string
}

// Watcher is implemented by stores that can report external writes.
// Notifications are advisory: they may be coalesced or dropped, and a
// writer never receives its own changes.
type Watcher interface {
	Watch(ctx context.Context, key string) (<-chan Change, error)
}

// Load reads key and decodes it into T.
// Absent keys yield fallback. Malformed JSON also yields fallback and logs a
// warning instead of failing the caller.
func Load[T any](ctx context.Context, s Store, key string, fallback T) (T, error) {
	raw, err := s.Read(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("read %s: %w", key, err)
	}
	if len(raw) == 0 {
		return fallback, nil
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		logger.Warn(ctx, "malformed collection, falling back to default",
			"key", key,
			"error", err,
		)
		return fallback, nil
	}
	return out, nil
}

// LoadFirst is Load over a list of keys: the first key that holds a value wins.
// Used for collections that were stored under different names by older clients.
func LoadFirst[T any](ctx context.Context, s Store, keys []string, fallback T) (T, error) {
	for _, key := range keys {
		raw, err := s.Read(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return fallback, fmt.Errorf("read %s: %w", key, err)
		}
		if len(raw) == 0 {
			continue
		}
		return Load(ctx, s, key, fallback)
	}
	return fallback, nil
}

// Save encodes value and writes it under key.
func Save[T any](ctx context.Context, s Store, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Write(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
