package inventory

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/types"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"inflow", KindInflow, true},
		{"Purchase", KindInflow, true},
		{"Stock in", KindInflow, true},
		{"usage", KindOutflow, true},
		{"Stock out", KindOutflow, true},
		{" Opening Stock ", KindOpeningBalance, true},
		{"Initial stock", KindOpeningBalance, true},
		{"opening_balance", KindOpeningBalance, true},
		{"Transfer", Kind("Transfer"), false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestKind_Labels(t *testing.T) {
	assert.Equal(t, "Purchase", KindInflow.Label(LedgerView))
	assert.Equal(t, "Stock in", KindInflow.Label(HistoryView))
	assert.Equal(t, "Usage", KindOutflow.Label(LedgerView))
	assert.Equal(t, "Stock out", KindOutflow.Label(HistoryView))
	assert.Equal(t, "Opening Stock", KindOpeningBalance.Label(LedgerView))
	assert.Equal(t, "Initial stock", KindOpeningBalance.Label(HistoryView))
	assert.Equal(t, "Transfer", Kind("Transfer").Label(LedgerView))
}

func TestTransaction_LegacyJSON(t *testing.T) {
	raw := `{"id":5,"stockItemId":1,"type":"Purchase","quantity":"12","unitPrice":3,"stockValue":36,"party":"Green Farm","notes":""}`

	var tx Transaction
	require.NoError(t, json.Unmarshal([]byte(raw), &tx))
	assert.Equal(t, KindInflow, tx.Type)
	assert.Equal(t, types.NewQuantity(12), tx.Quantity)

	out, err := json.Marshal(&tx)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"type":"inflow"`)
	assert.Contains(t, string(out), `"quantity":12`)
}

func TestFormInput_Draft(t *testing.T) {
	now := time.Date(2025, 6, 3, 14, 44, 0, 0, time.UTC)

	d := FormInput{
		Type:        "Usage",
		StockItemID: "17",
		Quantity:    "abc",
		UnitPrice:   "-4",
		Party:       "  Kitchen ",
		DateTime:    "2025-05-01T09:30",
	}.Draft(time.UTC, now)

	assert.Equal(t, KindOutflow, d.Kind)
	assert.Equal(t, int64(17), d.StockItemID)
	assert.True(t, d.Quantity.IsZero(), "unparsable quantity falls back to 0")
	assert.True(t, d.UnitPrice.IsZero(), "negative price falls back to 0")
	assert.Equal(t, "Kitchen", d.Party)
	assert.Equal(t, time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC), d.DateTime)

	d = FormInput{Type: "Purchase", Quantity: "2.5", UnitPrice: "1.20", DateTime: "garbage"}.Draft(time.UTC, now)
	assert.Equal(t, types.NewQuantityFromFloat64(2.5), d.Quantity)
	assert.True(t, types.MustMoney("1.2").Equal(d.UnitPrice))
	assert.Equal(t, now, d.DateTime)
}
