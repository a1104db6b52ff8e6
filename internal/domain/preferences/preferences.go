// Package preferences stores per-installation UI settings.
package preferences

import (
	"context"

	"stockroom/internal/core/events"
	"stockroom/internal/core/store"
)

// Preferences are the persisted UI settings.
type Preferences struct {
	SidebarCollapsed bool `json:"sidebarCollapsed"`
}

// Service reads and writes preferences.
type Service struct {
	store  store.Store
	events events.Publisher
}

// NewService creates a preferences service.
func NewService(s store.Store, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{store: s, events: pub}
}

// Get returns the stored preferences; unset values are false.
func (s *Service) Get(ctx context.Context) (Preferences, error) {
	collapsed, err := store.Load(ctx, s.store, store.KeySidebarCollapsed, false)
	if err != nil {
		return Preferences{}, err
	}
	return Preferences{SidebarCollapsed: collapsed}, nil
}

// Set persists p.
func (s *Service) Set(ctx context.Context, p Preferences) error {
	if err := store.Save(ctx, s.store, store.KeySidebarCollapsed, p.SidebarCollapsed); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Type: events.CatalogChanged, Key: store.KeySidebarCollapsed})
	return nil
}
