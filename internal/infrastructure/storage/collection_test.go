package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/store"
	"stockroom/internal/domain"
	"stockroom/internal/domain/filter"
	"stockroom/internal/infrastructure/storage/memory"
)

type widget struct {
	entity.BaseEntity
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

func (w *widget) Validate(context.Context) error { return nil }

func (w *widget) MatchesSearch(term string) bool {
	return strings.Contains(strings.ToLower(w.Name), strings.ToLower(term))
}

func (w *widget) Field(name string) (any, bool) {
	switch name {
	case "name":
		return w.Name, true
	case "score":
		return w.Score, true
	}
	return nil, false
}

func fixedClock() func() time.Time {
	t := time.Date(2025, 6, 3, 14, 44, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func newWidgets(t *testing.T, opts ...Option) (*Collection[*widget], *memory.Store) {
	t.Helper()
	s := memory.New()
	clock := fixedClock()
	opts = append([]Option{WithClock(clock), WithIDGenerator(id.NewGeneratorWithClock(clock))}, opts...)
	return NewCollection[*widget](s, "widgets", opts...), s
}

func TestCollection_CreateAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	c, _ := newWidgets(t)

	a := &widget{Name: "a"}
	b := &widget{Name: "b"}
	require.NoError(t, c.Create(ctx, a))
	require.NoError(t, c.Create(ctx, b))

	assert.NotZero(t, a.ID)
	assert.Greater(t, b.ID, a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	all, err := c.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Name)
}

func TestCollection_CreateAvoidsExistingIDs(t *testing.T) {
	ctx := context.Background()
	c, s := newWidgets(t)

	// An ID far in the future, as written by another clock.
	require.NoError(t, s.Write(ctx, "widgets", []byte(`[{"id":99999999999999,"name":"old"}]`)))

	w := &widget{Name: "new"}
	require.NoError(t, c.Create(ctx, w))
	assert.Equal(t, id.ID(99999999999999+1), w.ID)
}

func TestCollection_Prepend(t *testing.T) {
	ctx := context.Background()
	c, _ := newWidgets(t, WithPrepend())

	require.NoError(t, c.Create(ctx, &widget{Name: "first"}))
	require.NoError(t, c.Create(ctx, &widget{Name: "second"}))

	all, err := c.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", all[0].Name)
}

func TestCollection_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newWidgets(t)

	w := &widget{Name: "a"}
	require.NoError(t, c.Create(ctx, w))

	w.Name = "renamed"
	require.NoError(t, c.Update(ctx, w))
	got, err := c.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	err = c.Update(ctx, &widget{BaseEntity: entity.BaseEntity{ID: 12345}})
	assert.True(t, apperror.IsNotFound(err))

	require.NoError(t, c.Delete(ctx, w.ID))
	require.NoError(t, c.Delete(ctx, w.ID), "deleting a missing id is a no-op")

	exists, err := c.Exists(ctx, w.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCollection_LegacyKeyFallback(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Write(ctx, "old", []byte(`[{"id":1,"name":"legacy"}]`)))

	c := NewCollection[*widget](s, "new", WithLegacyKeys("old"))
	all, err := c.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "legacy", all[0].Name)

	// The first write migrates the data to the primary key.
	require.NoError(t, c.Create(ctx, &widget{Name: "fresh"}))
	raw, err := s.Read(ctx, "new")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "legacy")
}

func TestCollection_MalformedDataFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	c, s := newWidgets(t)
	require.NoError(t, s.Write(ctx, "widgets", []byte(`{not json`)))

	all, err := c.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCollection_NullEntriesDropped(t *testing.T) {
	ctx := context.Background()
	c, s := newWidgets(t)
	require.NoError(t, s.Write(ctx, "widgets", []byte(`[null,{"id":1,"name":"a"}]`)))

	all, err := c.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCollection_MutateErrorWritesNothing(t *testing.T) {
	ctx := context.Background()
	c, s := newWidgets(t)

	err := c.Mutate(ctx, func(items []*widget) ([]*widget, error) {
		return nil, errors.New("abort")
	})
	assert.Error(t, err)

	_, err = s.Read(ctx, "widgets")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestApply(t *testing.T) {
	items := []*widget{
		{BaseEntity: entity.BaseEntity{ID: 1}, Name: "Tomatoes", Score: 5},
		{BaseEntity: entity.BaseEntity{ID: 2}, Name: "Onions", Score: 50},
		{BaseEntity: entity.BaseEntity{ID: 3}, Name: "Tomato paste", Score: 10},
	}

	tests := []struct {
		name    string
		filter  domain.ListFilter
		wantIDs []id.ID
		total   int64
	}{
		{name: "no filter", filter: domain.ListFilter{}, wantIDs: []id.ID{1, 2, 3}, total: 3},
		{name: "search", filter: domain.ListFilter{Search: "toma"}, wantIDs: []id.ID{1, 3}, total: 2},
		{name: "ids", filter: domain.ListFilter{IDs: []id.ID{2}}, wantIDs: []id.ID{2}, total: 1},
		{
			name:    "advanced",
			filter:  domain.ListFilter{AdvancedFilters: []filter.Item{{Field: "score", Operator: filter.GreaterOrEqual, Value: 10}}},
			wantIDs: []id.ID{2, 3},
			total:   2,
		},
		{name: "order desc", filter: domain.ListFilter{OrderBy: "-score"}, wantIDs: []id.ID{2, 3, 1}, total: 3},
		{name: "order by name", filter: domain.ListFilter{OrderBy: "name"}, wantIDs: []id.ID{2, 3, 1}, total: 3},
		{name: "paginate", filter: domain.ListFilter{OrderBy: "score", Limit: 1, Offset: 1}, wantIDs: []id.ID{3}, total: 3},
		{name: "offset past end", filter: domain.ListFilter{Offset: 10}, wantIDs: []id.ID{}, total: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Apply(items, tt.filter)
			got := make([]id.ID, 0, len(res.Items))
			for _, w := range res.Items {
				got = append(got, w.ID)
			}
			assert.Equal(t, tt.wantIDs, got)
			assert.Equal(t, tt.total, res.TotalCount)
		})
	}
}
