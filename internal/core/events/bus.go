// Package events carries domain change notifications inside one process.
package events

import (
	"context"
	"sync"
	"time"

	"stockroom/internal/core/id"
)

// Event types.
const (
	TransactionRecorded = "transaction.recorded"
	TransactionEdited   = "transaction.edited"
	TransactionDeleted  = "transaction.deleted"
	ItemsReconciled     = "items.reconciled"
	CatalogChanged      = "catalog.changed"
	ExternalChange      = "store.external_change"
	BackupRestored      = "backup.restored"
)

// Event describes a change to one stored collection.
type Event struct {
	Type     string    `json:"type"`
	Key      string    `json:"key"`
	EntityID id.ID     `json:"entityId,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher is what domain services publish through.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) {}

// Bus fans events out to subscribers. Slow subscribers miss events
// rather than blocking the publisher.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Publish delivers e to every subscriber that has room for it.
func (b *Bus) Publish(_ context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a subscriber. The returned cancel func unregisters
// it and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	b.mu.Lock()
	key := b.next
	b.next++
	b.subs[key] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, key)
			b.mu.Unlock()
			close(ch)
		})
	}
}
