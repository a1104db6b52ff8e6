// Package group provides the stock group catalog. Items join a group by
// carrying its name in their category field.
package group

import (
	"context"
	"strings"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
)

// Group is a named category of stock items.
type Group struct {
	entity.BaseEntity

	Name        string `json:"name"`
	Description string `json:"description"`

	// ItemCount is derived on read from items whose category equals Name.
	ItemCount int `json:"itemCount"`
}

// Validate implements entity.Validatable interface.
func (g *Group) Validate(ctx context.Context) error {
	if strings.TrimSpace(g.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// MatchesSearch matches name and description.
func (g *Group) MatchesSearch(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(g.Name), term) ||
		strings.Contains(strings.ToLower(g.Description), term)
}

// Field exposes group fields to list filters and ordering.
func (g *Group) Field(name string) (any, bool) {
	switch name {
	case "id":
		return g.ID, true
	case "name":
		return g.Name, true
	case "description":
		return g.Description, true
	case "itemCount":
		return g.ItemCount, true
	case "createdAt":
		return g.CreatedAt, true
	}
	return nil, false
}
