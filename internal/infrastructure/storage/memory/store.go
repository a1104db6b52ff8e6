// Package memory provides an in-process store.
//
// Several handles may share one Backend; each handle is a separate writer
// (like two browser tabs over one local storage) and is notified of writes
// made through the other handles.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"stockroom/internal/core/store"
)

var (
	_ store.Store   = (*Store)(nil)
	_ store.Watcher = (*Store)(nil)
)

// Backend holds the shared key space.
type Backend struct {
	mu   sync.RWMutex
	data map[string][]byte
	subs map[string][]*subscription
}

type subscription struct {
	origin string
	ch     chan store.Change
}

// NewBackend creates an empty shared key space.
func NewBackend() *Backend {
	return &Backend{
		data: make(map[string][]byte),
		subs: make(map[string][]*subscription),
	}
}

// Handle opens a new writer over the backend.
func (b *Backend) Handle() *Store {
	return &Store{backend: b, origin: uuid.NewString()}
}

// Store is one writer over a Backend.
type Store struct {
	backend *Backend
	origin  string
}

// New creates a store over a private backend.
func New() *Store {
	return NewBackend().Handle()
}

// Origin identifies this handle in change notifications.
func (s *Store) Origin() string { return s.origin }

// Read returns a copy of the value under key.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()

	v, ok := s.backend.data[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Write replaces the value under key and notifies the other handles.
func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v := append([]byte(nil), value...)

	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	s.backend.data[key] = v
	for _, sub := range s.backend.subs[key] {
		if sub.origin == s.origin {
			continue
		}
		select {
		case sub.ch <- store.Change{Key: key, Value: v, Origin: s.origin}:
		default:
			// Subscriber is behind; notifications are advisory.
		}
	}
	return nil
}

// Watch reports writes to key made through other handles until ctx ends.
func (s *Store) Watch(ctx context.Context, key string) (<-chan store.Change, error) {
	sub := &subscription{origin: s.origin, ch: make(chan store.Change, 16)}

	s.backend.mu.Lock()
	s.backend.subs[key] = append(s.backend.subs[key], sub)
	s.backend.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.backend.mu.Lock()
		list := s.backend.subs[key]
		for i, other := range list {
			if other == sub {
				s.backend.subs[key] = append(list[:i], list[i+1:]...)
				break
			}
		}
		s.backend.mu.Unlock()
		close(sub.ch)
	}()

	return sub.ch, nil
}

// Close is a no-op; the backend lives as long as it is referenced.
func (s *Store) Close() error { return nil }
