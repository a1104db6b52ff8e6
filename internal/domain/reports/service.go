package reports

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain"
	"stockroom/internal/domain/inventory"
)

// ItemSource reads the item collection.
type ItemSource interface {
	All(ctx context.Context) ([]*inventory.StockItem, error)
}

// LedgerSource reads the transaction ledger.
type LedgerSource interface {
	All(ctx context.Context) ([]*inventory.Transaction, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*inventory.Transaction], error)
	ForItem(ctx context.Context, itemID id.ID) ([]*inventory.Transaction, error)
}

// Service provides report generation operations.
type Service struct {
	items  ItemSource
	ledger LedgerSource
	now    func() time.Time
}

// NewService creates a new reports service.
func NewService(items ItemSource, ledger LedgerSource) *Service {
	return &Service{items: items, ledger: ledger, now: time.Now}
}

// Dashboard computes the overview totals.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	items, err := s.items.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard items: %w", err)
	}
	txs, err := s.ledger.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard ledger: %w", err)
	}

	d := &Dashboard{
		GeneratedAt:      s.now(),
		TotalItems:       len(items),
		StockValue:       types.ZeroMoney(),
		TransactionCount: len(txs),
	}
	for _, it := range items {
		switch it.Status {
		case inventory.StatusAvailable:
			d.Available++
		case inventory.StatusLow:
			d.Low++
		case inventory.StatusOutOfStock:
			d.OutOfStock++
		}
		d.StockValue = d.StockValue.Add(it.StockValue())
	}

	recent := txs
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	d.Recent = rows(recent, names(items), inventory.LedgerView)

	return d, nil
}

// LowStock lists items at or under their reorder level, emptiest first.
func (s *Service) LowStock(ctx context.Context) (*LowStockReport, error) {
	items, err := s.items.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}

	r := &LowStockReport{GeneratedAt: s.now(), Items: []*inventory.StockItem{}}
	for _, it := range items {
		if it.Status.NeedsReorder() {
			r.Items = append(r.Items, it)
		}
	}
	sort.SliceStable(r.Items, func(i, j int) bool {
		if r.Items[i].Quantity != r.Items[j].Quantity {
			return r.Items[i].Quantity < r.Items[j].Quantity
		}
		return r.Items[i].Name < r.Items[j].Name
	})
	return r, nil
}

// ItemHistory returns one item's transactions with history-view labels.
func (s *Service) ItemHistory(ctx context.Context, itemID id.ID) (*ItemHistory, error) {
	items, err := s.items.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("item history: %w", err)
	}

	var item *inventory.StockItem
	for _, it := range items {
		if it.ID == itemID {
			item = it
			break
		}
	}
	if item == nil {
		return nil, apperror.NewNotFound("stock item", itemID)
	}

	txs, err := s.ledger.ForItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("item history: %w", err)
	}
	return &ItemHistory{
		Item:    item,
		Entries: rows(txs, map[id.ID]string{item.ID: item.Name}, inventory.HistoryView),
	}, nil
}

// Ledger returns a page of the ledger with item names resolved.
func (s *Service) Ledger(ctx context.Context, filter domain.ListFilter) (domain.ListResult[LedgerRow], error) {
	items, err := s.items.All(ctx)
	if err != nil {
		return domain.ListResult[LedgerRow]{}, fmt.Errorf("ledger view: %w", err)
	}
	itemNames := names(items)

	// Search also covers the resolved item name and the rendered kind, which
	// the stored transaction does not carry.
	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		all, err := s.ledger.All(ctx)
		if err != nil {
			return domain.ListResult[LedgerRow]{}, fmt.Errorf("ledger view: %w", err)
		}
		var matched []id.ID
		for _, r := range rows(all, itemNames, inventory.LedgerView) {
			if r.MatchesSearch(term) ||
				strings.Contains(strings.ToLower(r.ItemName), term) ||
				strings.Contains(strings.ToLower(r.TypeLabel), term) {
				matched = append(matched, r.ID)
			}
		}
		if len(filter.IDs) > 0 {
			matched = intersect(filter.IDs, matched)
		}
		if len(matched) == 0 {
			return domain.ListResult[LedgerRow]{Items: []LedgerRow{}, Limit: filter.Limit, Offset: filter.Offset}, nil
		}
		filter.IDs = matched
		filter.Search = ""
	}

	page, err := s.ledger.List(ctx, filter)
	if err != nil {
		return domain.ListResult[LedgerRow]{}, fmt.Errorf("ledger view: %w", err)
	}
	return domain.ListResult[LedgerRow]{
		Items:      rows(page.Items, itemNames, inventory.LedgerView),
		TotalCount: page.TotalCount,
		Limit:      page.Limit,
		Offset:     page.Offset,
	}, nil
}

// FormatLowStock renders the report as plain text for notifiers.
func FormatLowStock(r *LowStockReport) string {
	if r.Empty() {
		return "All stock items are above their reorder levels."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d item(s) need reordering:\n", len(r.Items))
	for _, it := range r.Items {
		unit := it.MeasuringUnit
		if unit != "" {
			unit = " " + unit
		}
		fmt.Fprintf(&b, "- %s: %s%s (reorder at %s) [%s]\n",
			it.Name, it.Quantity, unit, it.ReorderLevel, it.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}

func intersect(a, b []id.ID) []id.ID {
	in := make(map[id.ID]bool, len(a))
	for _, v := range a {
		in[v] = true
	}
	out := make([]id.ID, 0, len(b))
	for _, v := range b {
		if in[v] {
			out = append(out, v)
		}
	}
	return out
}

func names(items []*inventory.StockItem) map[id.ID]string {
	m := make(map[id.ID]string, len(items))
	for _, it := range items {
		m[it.ID] = it.Name
	}
	return m
}

func rows(txs []*inventory.Transaction, itemNames map[id.ID]string, view inventory.View) []LedgerRow {
	out := make([]LedgerRow, 0, len(txs))
	for _, tx := range txs {
		name, ok := itemNames[tx.StockItemID]
		if !ok {
			name = UnknownItemName
		}
		out = append(out, LedgerRow{
			Transaction: tx,
			ItemName:    name,
			TypeLabel:   tx.Type.Label(view),
			Orphan:      !ok,
		})
	}
	return out
}
