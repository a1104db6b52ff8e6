package handlers

import (
	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/filter"
	"stockroom/internal/domain/inventory"
	"stockroom/internal/domain/reports"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// ItemHandler handles HTTP requests for stock items.
type ItemHandler struct {
	*BaseHandler
	service *inventory.ItemService
	reports *reports.Service
}

// NewItemHandler creates a new item handler.
func NewItemHandler(base *BaseHandler, service *inventory.ItemService, rs *reports.Service) *ItemHandler {
	return &ItemHandler{BaseHandler: base, service: service, reports: rs}
}

// List handles GET /items. Besides the common list parameters it accepts
// status and category.
func (h *ItemHandler) List(c *gin.Context) {
	f, ok := h.ListFilter(c, "name")
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		f.AdvancedFilters = append(f.AdvancedFilters, filter.Item{Field: "status", Operator: filter.Equal, Value: status})
	}
	if category := c.Query("category"); category != "" {
		f.AdvancedFilters = append(f.AdvancedFilters, filter.Item{Field: "category", Operator: filter.Equal, Value: category})
	}

	result, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.ItemResponse, len(result.Items))
	for i, it := range result.Items {
		items[i] = dto.FromItem(it)
	}
	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /items/:id.
func (h *ItemHandler) Get(c *gin.Context) {
	itemID, ok := h.ParseID(c)
	if !ok {
		return
	}
	it, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromItem(it))
}

// Create handles POST /items. A positive initialQuantity is recorded as
// the item's opening balance.
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	it, err := h.service.Create(c.Request.Context(), req.ToEntity(), req.Initial())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromItem(it))
}

// Update handles PUT /items/:id.
func (h *ItemHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	itemID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(existing)

	updated, err := h.service.Update(ctx, existing)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromItem(updated))
}

// Delete handles DELETE /items/:id. The item's transactions stay in the
// ledger.
func (h *ItemHandler) Delete(c *gin.Context) {
	itemID, ok := h.ParseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), itemID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// History handles GET /items/:id/history.
func (h *ItemHandler) History(c *gin.Context) {
	itemID, ok := h.ParseID(c)
	if !ok {
		return
	}
	history, err := h.reports.ItemHistory(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	entries := make([]*dto.TransactionResponse, len(history.Entries))
	for i, r := range history.Entries {
		entries[i] = dto.FromLedgerRow(r)
	}
	h.OK(c, gin.H{
		"item":    dto.FromItem(history.Item),
		"entries": entries,
	})
}
