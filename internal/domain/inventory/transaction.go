package inventory

import (
	"context"
	"strings"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

// Display formats for the rendered date and time strings.
const (
	DateLayout = "2 January 2006"
	TimeLayout = "3:04 PM"
)

// NotesPlaceholder is stored when a transaction is saved without notes.
const NotesPlaceholder = "No notes"

// Transaction is one ledger entry.
type Transaction struct {
	ID          id.ID          `json:"id"`
	StockItemID id.ID          `json:"stockItemId"`
	DateTime    time.Time      `json:"dateTime"`
	Date        string         `json:"date"`
	Time        string         `json:"time"`
	Type        Kind           `json:"type"`
	Quantity    types.Quantity `json:"quantity"`
	Party       string         `json:"party"`
	UnitPrice   types.Money    `json:"unitPrice"`
	StockValue  types.Money    `json:"stockValue"`
	Notes       string         `json:"notes"`
}

// GetID returns the transaction ID.
func (t *Transaction) GetID() id.ID { return t.ID }

// SetID assigns the transaction ID.
func (t *Transaction) SetID(v id.ID) { t.ID = v }

// Stamp is a no-op: DateTime is the business date and is set explicitly.
func (t *Transaction) Stamp(time.Time) {}

// Validate rejects unknown kinds and negative amounts.
func (t *Transaction) Validate(ctx context.Context) error {
	if !t.Type.Valid() {
		return apperror.NewUnknownKind(string(t.Type))
	}
	if t.Quantity.IsNegative() {
		return apperror.NewValidation("quantity cannot be negative").WithDetail("field", "quantity")
	}
	if t.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").WithDetail("field", "unitPrice")
	}
	return nil
}

// MatchesSearch matches party and notes.
func (t *Transaction) MatchesSearch(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(t.Party), term) ||
		strings.Contains(strings.ToLower(t.Notes), term)
}

// Field exposes transaction fields to list filters and ordering.
func (t *Transaction) Field(name string) (any, bool) {
	switch name {
	case "id":
		return t.ID, true
	case "stockItemId":
		return t.StockItemID, true
	case "dateTime":
		return t.DateTime, true
	case "type":
		return string(t.Type), true
	case "quantity":
		return t.Quantity, true
	case "party":
		return t.Party, true
	case "unitPrice":
		return t.UnitPrice, true
	case "stockValue":
		return t.StockValue, true
	}
	return nil, false
}

// price fixes the quantity, unit price and derived stock value together.
func (t *Transaction) price(q types.Quantity, unitPrice types.Money) {
	t.Quantity = q
	t.UnitPrice = unitPrice
	t.StockValue = q.Value(unitPrice)
}

// schedule sets the business instant and its display strings.
func (t *Transaction) schedule(at time.Time, loc *time.Location) {
	t.DateTime = at
	local := at.In(loc)
	t.Date = local.Format(DateLayout)
	t.Time = local.Format(TimeLayout)
}

func notesOrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotesPlaceholder
	}
	return s
}
