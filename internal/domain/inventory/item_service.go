package inventory

import (
	"context"

	"stockroom/internal/core/events"
	"stockroom/internal/core/id"
	"stockroom/internal/core/store"
	"stockroom/internal/core/types"
	"stockroom/internal/domain"
	"stockroom/pkg/logger"
)

// OpeningStockParty is the party recorded on an item's opening balance.
const OpeningStockParty = "Opening Stock"

// ItemService manages stock items. Quantity and status are never taken
// from the caller: they start empty and are reconciled from the ledger.
type ItemService struct {
	*domain.CatalogService[*StockItem]

	repo   domain.CollectionRepository[*StockItem]
	ledger *Ledger
	events events.Publisher
}

// NewItemService creates the item service.
func NewItemService(repo domain.CollectionRepository[*StockItem], ledger *Ledger, pub events.Publisher) *ItemService {
	if pub == nil {
		pub = events.Nop{}
	}
	s := &ItemService{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*StockItem]{
			Repo:       repo,
			EntityName: "stock item",
		}),
		repo:   repo,
		ledger: ledger,
		events: pub,
	}

	s.Hooks().OnBeforeCreate(func(ctx context.Context, item *StockItem) error {
		item.Quantity = 0
		item.Status = StatusOutOfStock
		return nil
	})
	s.Hooks().OnBeforeUpdate(s.keepDerivedFields)
	s.Hooks().OnAfterCreate(s.changed)
	s.Hooks().OnAfterUpdate(s.changed)
	// Transactions of a deleted item stay in the ledger as orphans.
	s.Hooks().OnAfterDelete(s.reportOrphans)
	s.Hooks().OnAfterDelete(s.changed)

	return s
}

// Create stores a new item. A positive initial quantity is recorded as an
// opening balance priced at the item's unit price.
func (s *ItemService) Create(ctx context.Context, item *StockItem, initial types.Quantity) (*StockItem, error) {
	if err := s.CatalogService.Create(ctx, item); err != nil {
		return nil, err
	}

	if !initial.IsPositive() {
		return item, nil
	}

	_, err := s.ledger.Record(ctx, Draft{
		Kind:        KindOpeningBalance,
		StockItemID: item.ID,
		Quantity:    initial,
		UnitPrice:   item.Price,
		Party:       OpeningStockParty,
	})
	if err != nil {
		if derr := s.repo.Delete(ctx, item.ID); derr != nil {
			logger.Error(ctx, "failed to roll back item without opening balance",
				"item_id", item.ID,
				"error", derr,
			)
		} else {
			s.publish(ctx, item.ID)
		}
		return nil, err
	}
	return s.GetByID(ctx, item.ID)
}

// Update replaces the descriptive fields and re-reconciles, since a new
// reorder level can change the status.
func (s *ItemService) Update(ctx context.Context, item *StockItem) (*StockItem, error) {
	if err := s.CatalogService.Update(ctx, item); err != nil {
		return nil, err
	}

	updated, err := s.ledger.ReconcileItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return s.GetByID(ctx, item.ID)
	}
	return updated, nil
}

// CountByCategory counts items per category string.
func (s *ItemService) CountByCategory(ctx context.Context) (map[string]int, error) {
	items, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, item := range items {
		counts[item.Category]++
	}
	return counts, nil
}

func (s *ItemService) keepDerivedFields(ctx context.Context, item *StockItem) error {
	stored, err := s.GetByID(ctx, item.ID)
	if err != nil {
		return err
	}
	item.Quantity = stored.Quantity
	item.Status = stored.Status
	item.CreatedAt = stored.CreatedAt
	return nil
}

func (s *ItemService) reportOrphans(ctx context.Context, item *StockItem) error {
	txs, err := s.ledger.ForItem(ctx, item.ID)
	if err != nil {
		return err
	}
	if len(txs) > 0 {
		logger.Info(ctx, "stock item deleted, transactions kept as orphans",
			"item_id", item.ID,
			"transactions", len(txs),
		)
	}
	return nil
}

func (s *ItemService) changed(ctx context.Context, item *StockItem) error {
	s.publish(ctx, item.ID)
	return nil
}

func (s *ItemService) publish(ctx context.Context, itemID id.ID) {
	s.events.Publish(ctx, events.Event{Type: events.CatalogChanged, Key: store.KeyStockItems, EntityID: itemID})
}
