// Package inventory holds stock items, the transaction ledger and the
// reconciliation that derives item quantities from that ledger.
package inventory

import (
	"context"
	"strings"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/types"
)

// StockItem is an inventory line. Quantity and Status are a cache of the
// ledger and are only ever written by reconciliation.
type StockItem struct {
	entity.BaseEntity

	Name          string         `json:"name"`
	Category      string         `json:"category"`
	MeasuringUnit string         `json:"measuringUnit"`
	Quantity      types.Quantity `json:"quantity"`
	Status        Status         `json:"status"`
	ReorderLevel  types.Quantity `json:"reorderLevel"`
	Price         types.Money    `json:"price"`
	Description   string         `json:"description,omitempty"`
	Icon          string         `json:"icon,omitempty"`
	Image         string         `json:"image,omitempty"`
}

// Validate checks item invariants.
func (i *StockItem) Validate(ctx context.Context) error {
	if strings.TrimSpace(i.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if i.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").WithDetail("field", "price")
	}
	if i.ReorderLevel.IsNegative() {
		return apperror.NewValidation("reorder level cannot be negative").WithDetail("field", "reorderLevel")
	}
	return nil
}

// MatchesSearch matches name, category and measuring unit.
func (i *StockItem) MatchesSearch(term string) bool {
	term = strings.ToLower(term)
	for _, f := range []string{i.Name, i.Category, i.MeasuringUnit} {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Field exposes item fields to list filters and ordering.
func (i *StockItem) Field(name string) (any, bool) {
	switch name {
	case "id":
		return i.ID, true
	case "name":
		return i.Name, true
	case "category":
		return i.Category, true
	case "measuringUnit":
		return i.MeasuringUnit, true
	case "quantity":
		return i.Quantity, true
	case "status":
		return string(i.Status), true
	case "reorderLevel":
		return i.ReorderLevel, true
	case "price":
		return i.Price, true
	case "lastUpdated":
		return i.LastUpdated, true
	case "createdAt":
		return i.CreatedAt, true
	}
	return nil, false
}

// StockValue is quantity times the current unit price.
func (i *StockItem) StockValue() types.Money {
	return i.Quantity.Value(i.Price)
}

// applyReconciliation overwrites the cached fields.
func (i *StockItem) applyReconciliation(r Reconciliation) {
	i.Quantity = r.Quantity
	i.Status = r.Status
}
