package dto

import (
	"strings"
	"time"

	"stockroom/internal/domain/inventory"
	"stockroom/internal/domain/reports"
)

// TransactionRequest is a ledger form as posted by the UI.
type TransactionRequest struct {
	Type        string    `json:"type"`
	StockItemID FormValue `json:"stockItemId"`
	Quantity    FormValue `json:"quantity"`
	UnitPrice   FormValue `json:"unitPrice"`
	Party       string    `json:"party"`
	DateTime    string    `json:"dateTime"`
	Notes       string    `json:"notes"`
}

// Form converts the request into the raw domain form.
func (r *TransactionRequest) Form() inventory.FormInput {
	return inventory.FormInput{
		Type:        r.Type,
		StockItemID: r.StockItemID.String(),
		Quantity:    r.Quantity.String(),
		UnitPrice:   r.UnitPrice.String(),
		Party:       r.Party,
		DateTime:    r.DateTime,
		Notes:       r.Notes,
	}
}

// Draft builds a new ledger entry.
func (r *TransactionRequest) Draft(loc *time.Location, now time.Time) inventory.Draft {
	return r.Form().Draft(loc, now)
}

// Edit builds an edit. An empty dateTime keeps the stored one.
func (r *TransactionRequest) Edit(loc *time.Location, now time.Time) inventory.Edit {
	e := r.Form().Edit(loc, now)
	if strings.TrimSpace(r.DateTime) == "" {
		e.DateTime = time.Time{}
	}
	return e
}

// TransactionResponse is one ledger row.
type TransactionResponse struct {
	*inventory.Transaction

	ItemName  string `json:"itemName,omitempty"`
	TypeLabel string `json:"typeLabel"`
}

// FromTransaction renders a transaction with ledger labels.
func FromTransaction(tx *inventory.Transaction) *TransactionResponse {
	return &TransactionResponse{Transaction: tx, TypeLabel: tx.Type.Label(inventory.LedgerView)}
}

// FromLedgerRow renders a resolved ledger row.
func FromLedgerRow(r reports.LedgerRow) *TransactionResponse {
	return &TransactionResponse{Transaction: r.Transaction, ItemName: r.ItemName, TypeLabel: r.TypeLabel}
}
