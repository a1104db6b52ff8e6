package dto

import (
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/domain/catalogs/unit"
)

// --- Request DTOs ---

// UnitRequest is the request body for creating or updating a unit.
type UnitRequest struct {
	Name         string `json:"name" binding:"required"`
	Abbreviation string `json:"abbreviation" binding:"required"`
}

// ToEntity converts DTO to domain entity.
func (r *UnitRequest) ToEntity() *unit.Unit {
	return &unit.Unit{Name: r.Name, Abbreviation: r.Abbreviation}
}

// ApplyTo applies update DTO to existing entity.
func (r *UnitRequest) ApplyTo(u *unit.Unit) {
	u.Name = r.Name
	u.Abbreviation = r.Abbreviation
}

// --- Response DTOs ---

// UnitResponse is the response body for a unit.
type UnitResponse struct {
	ID           id.ID     `json:"id"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromUnit creates response DTO from domain entity.
func FromUnit(u *unit.Unit) *UnitResponse {
	return &UnitResponse{
		ID:           u.ID,
		Name:         u.Name,
		Abbreviation: u.Abbreviation,
		CreatedAt:    u.CreatedAt,
	}
}
