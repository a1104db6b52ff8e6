package handlers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/events"
)

const (
	eventBuffer    = 32
	eventKeepAlive = 25 * time.Second
)

// Subscriber hands out event subscriptions.
type Subscriber interface {
	Subscribe(buffer int) (<-chan events.Event, func())
}

// EventsHandler streams domain events to the browser so other open
// views can refresh.
type EventsHandler struct {
	bus Subscriber
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(bus Subscriber) *EventsHandler {
	return &EventsHandler{bus: bus}
}

// Stream handles GET /events as server-sent events.
func (h *EventsHandler) Stream(c *gin.Context) {
	ch, cancel := h.bus.Subscribe(eventBuffer)
	defer cancel()

	ticker := time.NewTicker(eventKeepAlive)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case e, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(e.Type, e)
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
}
