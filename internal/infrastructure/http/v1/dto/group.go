package dto

import (
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/domain/catalogs/group"
)

// GroupRequest is the request body for creating or updating a stock group.
type GroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ToEntity converts DTO to domain entity.
func (r *GroupRequest) ToEntity() *group.Group {
	return &group.Group{Name: r.Name, Description: r.Description}
}

// ApplyTo applies update DTO to existing entity.
func (r *GroupRequest) ApplyTo(g *group.Group) {
	g.Name = r.Name
	g.Description = r.Description
}

// GroupResponse is the response body for a stock group.
type GroupResponse struct {
	ID          id.ID     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ItemCount   int       `json:"itemCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromGroup creates response DTO from domain entity.
func FromGroup(g *group.Group) *GroupResponse {
	return &GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		ItemCount:   g.ItemCount,
		CreatedAt:   g.CreatedAt,
	}
}
