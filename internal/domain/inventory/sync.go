package inventory

import (
	"context"
	"errors"
	"sync"

	appctx "stockroom/internal/core/context"
	"stockroom/internal/core/events"
	"stockroom/internal/core/store"
	"stockroom/pkg/logger"
)

// Sync follows writes made by other store writers. A change to the ledger
// or the item list triggers a full reconciliation so the cached quantities
// match whatever the other writer left behind.
type Sync struct {
	watcher store.Watcher
	ledger  *Ledger
	events  events.Publisher
	keys    []string
}

// NewSync creates a follower over w.
func NewSync(w store.Watcher, ledger *Ledger, pub events.Publisher) *Sync {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Sync{
		watcher: w,
		ledger:  ledger,
		events:  pub,
		keys:    []string{store.KeyStockTransactions, store.KeyStockItems},
	}
}

// Run blocks until ctx ends. It returns the Watch error when the store
// cannot report changes.
func (s *Sync) Run(ctx context.Context) error {
	merged := make(chan store.Change)
	var wg sync.WaitGroup

	for _, key := range s.keys {
		ch, err := s.watcher.Watch(ctx, key)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range ch {
				select {
				case merged <- c:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	logger.Info(ctx, "following external store changes", "keys", s.keys)

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil
		case c := <-merged:
			s.handle(ctx, c)
		}
	}
}

func (s *Sync) handle(ctx context.Context, c store.Change) {
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext())
	logger.Info(ctx, "external store change", "key", c.Key, "origin", c.Origin)

	if _, err := s.ledger.ReconcileOnLoad(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(ctx, "reconcile after external change failed", "key", c.Key, "error", err)
	}
	s.events.Publish(ctx, events.Event{Type: events.ExternalChange, Key: c.Key})
}
