package handlers

import (
	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/inventory"
	"stockroom/internal/domain/reports"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// TransactionHandler handles HTTP requests for the ledger.
type TransactionHandler struct {
	*BaseHandler
	ledger  *inventory.Ledger
	reports *reports.Service
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(base *BaseHandler, ledger *inventory.Ledger, rs *reports.Service) *TransactionHandler {
	return &TransactionHandler{BaseHandler: base, ledger: ledger, reports: rs}
}

// List handles GET /transactions. The ledger is returned newest first
// unless orderBy is given.
func (h *TransactionHandler) List(c *gin.Context) {
	f, ok := h.ListFilter(c, "")
	if !ok {
		return
	}

	page, err := h.reports.Ledger(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.TransactionResponse, len(page.Items))
	for i, r := range page.Items {
		items[i] = dto.FromLedgerRow(r)
	}
	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: page.TotalCount,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
}

// Get handles GET /transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	txID, ok := h.ParseID(c)
	if !ok {
		return
	}
	tx, err := h.ledger.Get(c.Request.Context(), txID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromTransaction(tx))
}

// Create handles POST /transactions.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req dto.TransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tx, err := h.ledger.Record(c.Request.Context(), req.Draft(h.ledger.Location(), h.ledger.Now()))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromTransaction(tx))
}

// Update handles PUT /transactions/:id.
func (h *TransactionHandler) Update(c *gin.Context) {
	txID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.TransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tx, err := h.ledger.Edit(c.Request.Context(), txID, req.Edit(h.ledger.Location(), h.ledger.Now()))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromTransaction(tx))
}

// Delete handles DELETE /transactions/:id. Missing ids succeed.
func (h *TransactionHandler) Delete(c *gin.Context) {
	txID, ok := h.ParseID(c)
	if !ok {
		return
	}
	if err := h.ledger.Delete(c.Request.Context(), txID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Reconcile handles POST /transactions/reconcile: re-derive every item
// from the full ledger.
func (h *TransactionHandler) Reconcile(c *gin.Context) {
	items, err := h.ledger.ReconcileOnLoad(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	out := make([]*dto.ItemResponse, len(items))
	for i, it := range items {
		out[i] = dto.FromItem(it)
	}
	h.OK(c, gin.H{"items": out})
}
