package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/apperror"
	"stockroom/internal/infrastructure/backup"
)

// maxBackupSize bounds an uploaded snapshot.
const maxBackupSize = 64 << 20

// BackupHandler exports and restores snapshots.
type BackupHandler struct {
	*BaseHandler
	service *backup.Service
}

// NewBackupHandler creates a new backup handler.
func NewBackupHandler(base *BaseHandler, service *backup.Service) *BackupHandler {
	return &BackupHandler{BaseHandler: base, service: service}
}

// Export handles GET /backup
func (h *BackupHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), &buf); err != nil {
		h.Error(c, err)
		return
	}

	name := fmt.Sprintf("stockroom_%s.json.zst", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/zstd", buf.Bytes())
}

// Import handles POST /backup. The body is the raw snapshot.
func (h *BackupHandler) Import(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxBackupSize)
	snap, err := h.service.Import(c.Request.Context(), body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			err = apperror.NewInvalidInput("backup too large").WithDetail("limit", maxBackupSize)
		}
		h.Error(c, err)
		return
	}

	keys := make([]string, 0, len(snap.Data))
	for k := range snap.Data {
		keys = append(keys, k)
	}
	h.OK(c, gin.H{"createdAt": snap.CreatedAt, "restored": keys})
}
