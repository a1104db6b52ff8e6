package handlers

import (
	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/preferences"
)

// PreferencesHandler reads and writes UI preferences.
type PreferencesHandler struct {
	*BaseHandler
	service *preferences.Service
}

// NewPreferencesHandler creates a new preferences handler.
func NewPreferencesHandler(base *BaseHandler, service *preferences.Service) *PreferencesHandler {
	return &PreferencesHandler{BaseHandler: base, service: service}
}

// Get handles GET /preferences.
func (h *PreferencesHandler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Update handles PUT /preferences.
func (h *PreferencesHandler) Update(c *gin.Context) {
	var p preferences.Preferences
	if !h.BindJSON(c, &p) {
		return
	}
	if err := h.service.Set(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}
