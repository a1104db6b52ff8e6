// Package storage provides the store drivers and the generic collection
// repository that catalog services persist through.
package storage

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/store"
	"stockroom/internal/domain"
	"stockroom/internal/domain/filter"
)

// Compile-time check that Collection satisfies the domain repository contract.
var _ domain.CatalogRepository[entity.Entity] = (*Collection[entity.Entity])(nil)

// Collection is a repository over one store key holding a JSON array.
// Every mutation is a locked read-modify-write of the whole array.
type Collection[T entity.Entity] struct {
	mu         sync.Mutex
	store      store.Store
	key        string
	legacyKeys []string
	prepend    bool
	ids        *id.Generator
	now        func() time.Time
}

// Option configures a Collection.
type Option func(*collectionOptions)

type collectionOptions struct {
	legacyKeys []string
	prepend    bool
	ids        *id.Generator
	now        func() time.Time
}

// WithLegacyKeys lists older keys read when the primary key is empty.
func WithLegacyKeys(keys ...string) Option {
	return func(o *collectionOptions) { o.legacyKeys = append(o.legacyKeys, keys...) }
}

// WithPrepend makes Create insert new entities at the front (newest first).
func WithPrepend() Option {
	return func(o *collectionOptions) { o.prepend = true }
}

// WithIDGenerator overrides the ID generator.
func WithIDGenerator(g *id.Generator) Option {
	return func(o *collectionOptions) { o.ids = g }
}

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *collectionOptions) { o.now = now }
}

// NewCollection creates a repository over key.
func NewCollection[T entity.Entity](s store.Store, key string, opts ...Option) *Collection[T] {
	o := collectionOptions{
		ids: id.NewGenerator(),
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T]{
		store:      s,
		key:        key,
		legacyKeys: o.legacyKeys,
		prepend:    o.prepend,
		ids:        o.ids,
		now:        o.now,
	}
}

// Key returns the primary store key.
func (c *Collection[T]) Key() string { return c.key }

// Now returns the collection clock's current time.
func (c *Collection[T]) Now() time.Time { return c.now() }

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	keys := append([]string{c.key}, c.legacyKeys...)
	items, err := store.LoadFirst(ctx, c.store, keys, []T(nil))
	if err != nil {
		return nil, apperror.NewStorage(c.key, err)
	}
	// Drop null entries left by hand-edited data.
	out := items[:0]
	for _, it := range items {
		if !isNilEntity(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (c *Collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	if err := store.Save(ctx, c.store, c.key, items); err != nil {
		return apperror.NewStorage(c.key, err)
	}
	return nil
}

// All returns the whole collection in stored order.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// GetByID retrieves entity by ID.
func (c *Collection[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	var zero T
	items, err := c.All(ctx)
	if err != nil {
		return zero, err
	}
	for _, it := range items {
		if it.GetID() == entityID {
			return it, nil
		}
	}
	return zero, apperror.NewNotFound(c.key, entityID)
}

// Exists checks if entity with given ID exists.
func (c *Collection[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	_, err := c.GetByID(ctx, entityID)
	if apperror.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

// Create assigns a fresh ID and stores the entity.
func (c *Collection[T]) Create(ctx context.Context, e T) error {
	return c.Mutate(ctx, func(items []T) ([]T, error) {
		var maxID id.ID
		for _, it := range items {
			if it.GetID() > maxID {
				maxID = it.GetID()
			}
		}
		e.SetID(c.ids.Next(maxID))
		e.Stamp(c.now())

		if c.prepend {
			return append([]T{e}, items...), nil
		}
		return append(items, e), nil
	})
}

// Update replaces the stored entity with the same ID.
func (c *Collection[T]) Update(ctx context.Context, e T) error {
	return c.Mutate(ctx, func(items []T) ([]T, error) {
		for i, it := range items {
			if it.GetID() == e.GetID() {
				e.Stamp(c.now())
				items[i] = e
				return items, nil
			}
		}
		return nil, apperror.NewNotFound(c.key, e.GetID())
	})
}

// Delete removes the entity. Missing IDs are not an error.
func (c *Collection[T]) Delete(ctx context.Context, entityID id.ID) error {
	return c.Mutate(ctx, func(items []T) ([]T, error) {
		out := items[:0]
		for _, it := range items {
			if it.GetID() != entityID {
				out = append(out, it)
			}
		}
		return out, nil
	})
}

// ReplaceAll overwrites the whole collection.
func (c *Collection[T]) ReplaceAll(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, items)
}

// Mutate runs fn over the current collection and stores its result.
// Nothing is written when fn returns an error.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return c.save(ctx, next)
}

// List retrieves entities with filtering and pagination.
func (c *Collection[T]) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[T], error) {
	items, err := c.All(ctx)
	if err != nil {
		return domain.ListResult[T]{}, err
	}
	return Apply(items, f), nil
}

// Apply filters, orders and paginates an in-memory slice.
func Apply[T any](items []T, f domain.ListFilter) domain.ListResult[T] {
	var wanted map[id.ID]struct{}
	if len(f.IDs) > 0 {
		wanted = make(map[id.ID]struct{}, len(f.IDs))
		for _, v := range f.IDs {
			wanted[v] = struct{}{}
		}
	}

	matched := make([]T, 0, len(items))
	for _, it := range items {
		if wanted != nil {
			ider, ok := any(it).(interface{ GetID() id.ID })
			if !ok {
				continue
			}
			if _, ok := wanted[ider.GetID()]; !ok {
				continue
			}
		}
		if term := strings.TrimSpace(f.Search); term != "" {
			s, ok := any(it).(domain.Searchable)
			if !ok || !s.MatchesSearch(term) {
				continue
			}
		}
		if len(f.AdvancedFilters) > 0 {
			fd, ok := any(it).(filter.Fielder)
			if !ok || !filter.Match(fd, f.AdvancedFilters) {
				continue
			}
		}
		matched = append(matched, it)
	}

	if f.OrderBy != "" {
		field, desc := strings.TrimPrefix(f.OrderBy, "-"), strings.HasPrefix(f.OrderBy, "-")
		sort.SliceStable(matched, func(i, j int) bool {
			a, aok := any(matched[i]).(filter.Fielder)
			b, bok := any(matched[j]).(filter.Fielder)
			if !aok || !bok {
				return false
			}
			av, _ := a.Field(field)
			bv, _ := b.Field(field)
			cmp := filter.Compare(av, bv)
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	total := int64(len(matched))
	start := min(max(f.Offset, 0), len(matched))
	end := len(matched)
	if f.Limit > 0 && start+f.Limit < end {
		end = start + f.Limit
	}

	return domain.ListResult[T]{
		Items:      matched[start:end],
		TotalCount: total,
		Limit:      f.Limit,
		Offset:     f.Offset,
	}
}

func isNilEntity(e any) bool {
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
