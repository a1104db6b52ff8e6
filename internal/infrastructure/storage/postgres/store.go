package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockroom/internal/core/store"
	"stockroom/pkg/logger"
)

var (
	_ store.Store   = (*Store)(nil)
	_ store.Watcher = (*Store)(nil)
)

const (
	tableName     = "store_entries"
	notifyChannel = "store_changes"
)

// Store keeps one row per collection key.
type Store struct {
	pool   *pgxpool.Pool
	origin string
	qb     sq.StatementBuilderType
}

type entryRow struct {
	Value string `db:"value"`
}

// NewStore creates a store over an open pool. Each Store is a distinct
// writer; its own writes are not echoed back through Watch.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:   pool,
		origin: uuid.NewString(),
		qb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Open connects, migrates and returns a ready store.
func Open(ctx context.Context, cfg PoolConfig, log *logger.Logger) (*Store, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, pool, log); err != nil {
		pool.Close()
		return nil, err
	}
	return NewStore(pool), nil
}

// Read returns the value stored under key.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	query, args, err := s.qb.
		Select("value").
		From(tableName).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row entryRow
	if err := pgxscan.Get(ctx, s.pool, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return []byte(row.Value), nil
}

// Write upserts the value under key.
func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	query, args, err := s.qb.
		Insert(tableName).
		Columns("key", "value", "origin").
		Values(key, string(value), s.origin).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, origin = EXCLUDED.origin, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// notification is the payload emitted by the store_entries trigger.
type notification struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`
}

// Watch listens for writes to key from other Store instances.
// It takes one connection out of the pool until ctx is cancelled.
func (s *Store) Watch(ctx context.Context, key string) (<-chan store.Change, error) {
	pooled, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listener: %w", err)
	}
	// The LISTEN session must not go back to the pool.
	conn := pooled.Hijack()
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		_ = conn.Close(context.Background())
		return nil, fmt.Errorf("listen: %w", err)
	}

	out := make(chan store.Change, 16)
	go func() {
		defer close(out)
		defer func() { _ = conn.Close(context.Background()) }()

		for {
			n, err := conn.WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Warn(ctx, "change listener stopped", "error", err)
				}
				return
			}

			var payload notification
			if err := json.Unmarshal([]byte(n.Payload), &payload); err != nil {
				continue
			}
			if payload.Key != key || payload.Origin == s.origin {
				continue
			}

			value, err := s.Read(ctx, key)
			if err != nil {
				continue
			}
			select {
			case out <- store.Change{Key: key, Value: value, Origin: payload.Origin}:
			default:
			}
		}
	}()

	return out, nil
}

// Ping checks database connectivity (readiness probe).
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
