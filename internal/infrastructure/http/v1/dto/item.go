package dto

import (
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/inventory"
)

// --- Request DTOs ---

// ItemRequest is the request body for creating or updating a stock item.
// Numeric fields are form values: unparsable or negative input becomes 0.
type ItemRequest struct {
	Name          string    `json:"name" binding:"required"`
	Category      string    `json:"category"`
	MeasuringUnit string    `json:"measuringUnit"`
	ReorderLevel  FormValue `json:"reorderLevel"`
	Price         FormValue `json:"price"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	Image         string    `json:"image"`

	// InitialQuantity is only read on create.
	InitialQuantity FormValue `json:"initialQuantity"`
}

// ToEntity converts DTO to domain entity.
func (r *ItemRequest) ToEntity() *inventory.StockItem {
	it := &inventory.StockItem{}
	r.ApplyTo(it)
	return it
}

// Initial returns the opening quantity.
func (r *ItemRequest) Initial() types.Quantity {
	return types.ParseQuantity(r.InitialQuantity.String())
}

// ApplyTo applies update DTO to existing entity. Quantity and status are
// never taken from the request.
func (r *ItemRequest) ApplyTo(it *inventory.StockItem) {
	it.Name = r.Name
	it.Category = r.Category
	it.MeasuringUnit = r.MeasuringUnit
	it.ReorderLevel = types.ParseQuantity(r.ReorderLevel.String())
	it.Price = types.ParseMoney(r.Price.String())
	it.Description = r.Description
	it.Icon = r.Icon
	it.Image = r.Image
}

// --- Response DTOs ---

// ItemResponse is the response body for a stock item.
type ItemResponse struct {
	ID            id.ID            `json:"id"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	MeasuringUnit string           `json:"measuringUnit"`
	Quantity      types.Quantity   `json:"quantity"`
	Status        inventory.Status `json:"status"`
	ReorderLevel  types.Quantity   `json:"reorderLevel"`
	Price         types.Money      `json:"price"`
	StockValue    types.Money      `json:"stockValue"`
	Description   string           `json:"description,omitempty"`
	Icon          string           `json:"icon,omitempty"`
	Image         string           `json:"image,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	LastUpdated   time.Time        `json:"lastUpdated"`
}

// FromItem creates response DTO from domain entity.
func FromItem(it *inventory.StockItem) *ItemResponse {
	return &ItemResponse{
		ID:            it.ID,
		Name:          it.Name,
		Category:      it.Category,
		MeasuringUnit: it.MeasuringUnit,
		Quantity:      it.Quantity,
		Status:        it.Status,
		ReorderLevel:  it.ReorderLevel,
		Price:         it.Price,
		StockValue:    it.StockValue(),
		Description:   it.Description,
		Icon:          it.Icon,
		Image:         it.Image,
		CreatedAt:     it.CreatedAt,
		LastUpdated:   it.LastUpdated,
	}
}
