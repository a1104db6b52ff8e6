package inventory

import (
	"strings"
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

// FormInput is a transaction form as submitted, every field a raw string.
type FormInput struct {
	Type        string `json:"type" form:"type"`
	StockItemID string `json:"stockItemId" form:"stockItemId"`
	Quantity    string `json:"quantity" form:"quantity"`
	UnitPrice   string `json:"unitPrice" form:"unitPrice"`
	Party       string `json:"party" form:"party"`
	DateTime    string `json:"dateTime" form:"dateTime"`
	Notes       string `json:"notes" form:"notes"`
}

// dateTimeLayouts are tried in order. The first is what an HTML
// datetime-local input submits.
var dateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDateTime parses a form date in loc. Empty or unparsable input
// yields now.
func ParseDateTime(s string, loc *time.Location, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return now
}

// Draft converts the form into a Draft. Numbers that do not parse become
// zero; an unknown type is kept so Record can reject it.
func (f FormInput) Draft(loc *time.Location, now time.Time) Draft {
	kind, _ := ParseKind(f.Type)
	itemID, _ := id.Parse(strings.TrimSpace(f.StockItemID))
	return Draft{
		Kind:        kind,
		StockItemID: itemID,
		Quantity:    types.ParseQuantity(f.Quantity),
		UnitPrice:   types.ParseMoney(f.UnitPrice),
		Party:       strings.TrimSpace(f.Party),
		DateTime:    ParseDateTime(f.DateTime, loc, now),
		Notes:       strings.TrimSpace(f.Notes),
	}
}

// Edit converts the form into an Edit. Type and item are not editable.
func (f FormInput) Edit(loc *time.Location, now time.Time) Edit {
	return Edit{
		Quantity:  types.ParseQuantity(f.Quantity),
		UnitPrice: types.ParseMoney(f.UnitPrice),
		Party:     strings.TrimSpace(f.Party),
		DateTime:  ParseDateTime(f.DateTime, loc, now),
		Notes:     strings.TrimSpace(f.Notes),
	}
}
