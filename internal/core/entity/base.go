// Package entity provides the base types shared by stored entities.
package entity

import (
	"context"
	"time"

	"stockroom/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without store access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Entity is what a generic collection repository needs from its element type.
type Entity interface {
	Validatable
	GetID() id.ID
	SetID(id.ID)
	Stamp(now time.Time)
}

// BaseEntity contains common fields for all catalog entities.
type BaseEntity struct {
	// ID is the numeric primary key
	ID id.ID `json:"id"`

	// CreatedAt is set once when the entity is first stored
	CreatedAt time.Time `json:"createdAt"`

	// LastUpdated is refreshed on every save
	LastUpdated time.Time `json:"lastUpdated"`
}

// GetID returns the entity ID.
func (b *BaseEntity) GetID() id.ID { return b.ID }

// SetID assigns the entity ID (used by repositories on create).
func (b *BaseEntity) SetID(v id.ID) { b.ID = v }

// Stamp refreshes LastUpdated and fills CreatedAt on first save.
func (b *BaseEntity) Stamp(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.LastUpdated = now
}
