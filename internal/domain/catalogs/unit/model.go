// Package unit provides the measuring unit catalog.
// Items and transactions refer to units by name, so renaming a unit does
// not touch records that already carry the old label.
package unit

import (
	"context"
	"strings"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
)

// Unit is a measuring unit such as "Kilogram" / "kg".
type Unit struct {
	entity.BaseEntity

	// Name is the full label (e.g., "Kilogram")
	Name string `json:"name"`

	// Abbreviation is the short label (e.g., "kg"), unique case-insensitively
	Abbreviation string `json:"abbreviation"`
}

// Validate implements entity.Validatable interface.
func (u *Unit) Validate(ctx context.Context) error {
	if strings.TrimSpace(u.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if strings.TrimSpace(u.Abbreviation) == "" {
		return apperror.NewValidation("abbreviation is required").
			WithDetail("field", "abbreviation")
	}
	return nil
}

// Normalize trims user input.
func (u *Unit) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Abbreviation = strings.TrimSpace(u.Abbreviation)
}

// MatchesSearch matches name and abbreviation.
func (u *Unit) MatchesSearch(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(u.Name), term) ||
		strings.Contains(strings.ToLower(u.Abbreviation), term)
}

// Field exposes unit fields to list filters and ordering.
func (u *Unit) Field(name string) (any, bool) {
	switch name {
	case "id":
		return u.ID, true
	case "name":
		return u.Name, true
	case "abbreviation":
		return u.Abbreviation, true
	case "createdAt":
		return u.CreatedAt, true
	}
	return nil, false
}
