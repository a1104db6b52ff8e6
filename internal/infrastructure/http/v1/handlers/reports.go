package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/reports"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// xlsxContentType is the MIME type of Excel workbooks.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Dashboard handles GET /reports/dashboard
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	recent := make([]*dto.TransactionResponse, len(d.Recent))
	for i, r := range d.Recent {
		recent[i] = dto.FromLedgerRow(r)
	}
	h.OK(c, gin.H{
		"generatedAt":        d.GeneratedAt,
		"totalItems":         d.TotalItems,
		"available":          d.Available,
		"lowQuantity":        d.Low,
		"outOfStock":         d.OutOfStock,
		"stockValue":         d.StockValue,
		"transactionCount":   d.TransactionCount,
		"recentTransactions": recent,
	})
}

// LowStock handles GET /reports/low-stock
func (h *ReportsHandler) LowStock(c *gin.Context) {
	r, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.ItemResponse, len(r.Items))
	for i, it := range r.Items {
		items[i] = dto.FromItem(it)
	}
	h.OK(c, gin.H{"generatedAt": r.GeneratedAt, "items": items})
}

// Export handles GET /reports/export.xlsx
func (h *ReportsHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.ExportXLSX(c.Request.Context(), &buf); err != nil {
		h.Error(c, err)
		return
	}

	name := fmt.Sprintf("stockroom_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
