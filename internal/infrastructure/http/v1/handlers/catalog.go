package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/entity"
	"stockroom/internal/core/events"
	"stockroom/internal/core/id"
	"stockroom/internal/domain"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// CatalogService is what the generic handler needs from a catalog service.
// domain.CatalogService satisfies it, as do services that decorate reads.
type CatalogService[T entity.Entity] interface {
	Create(ctx context.Context, e T) error
	GetByID(ctx context.Context, entityID id.ID) (T, error)
	Update(ctx context.Context, e T) error
	Delete(ctx context.Context, entityID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error)
}

// CatalogHandler provides generic HTTP handlers for catalog entities.
type CatalogHandler[T entity.Entity, Req any] struct {
	*BaseHandler
	service      CatalogService[T]
	key          string
	defaultOrder string
	events       events.Publisher

	// Mapper functions
	mapCreate func(req *Req) T
	mapUpdate func(req *Req, existing T)
	mapToDTO  func(entity T) any
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T entity.Entity, Req any] struct {
	Service CatalogService[T]

	// Key is the collection key reported in change events
	Key          string
	DefaultOrder string
	Events       events.Publisher

	MapCreate func(req *Req) T
	MapUpdate func(req *Req, existing T)
	MapToDTO  func(entity T) any
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T entity.Entity, Req any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, Req],
) *CatalogHandler[T, Req] {
	if cfg.Events == nil {
		cfg.Events = events.Nop{}
	}
	if cfg.DefaultOrder == "" {
		cfg.DefaultOrder = "name"
	}
	return &CatalogHandler[T, Req]{
		BaseHandler:  base,
		service:      cfg.Service,
		key:          cfg.Key,
		defaultOrder: cfg.DefaultOrder,
		events:       cfg.Events,
		mapCreate:    cfg.MapCreate,
		mapUpdate:    cfg.MapUpdate,
		mapToDTO:     cfg.MapToDTO,
	}
}

// List handles GET /{entity} - list with filtering and pagination.
func (h *CatalogHandler[T, Req]) List(c *gin.Context) {
	filter, ok := h.ListFilter(c, h.defaultOrder)
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		items[i] = h.mapToDTO(item)
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /{entity}/:id - get single entity.
func (h *CatalogHandler[T, Req]) Get(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.mapToDTO(e))
}

// Create handles POST /{entity} - create new entity.
func (h *CatalogHandler[T, Req]) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	e := h.mapCreate(&req)
	if err := h.service.Create(ctx, e); err != nil {
		h.Error(c, err)
		return
	}
	h.publish(ctx, e.GetID())

	h.Created(c, h.mapToDTO(e))
}

// Update handles PUT /{entity}/:id - update existing entity.
func (h *CatalogHandler[T, Req]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.mapUpdate(&req, existing)
	if err := h.service.Update(ctx, existing); err != nil {
		h.Error(c, err)
		return
	}
	h.publish(ctx, entityID)

	h.OK(c, h.mapToDTO(existing))
}

// Delete handles DELETE /{entity}/:id. References held elsewhere are kept.
func (h *CatalogHandler[T, Req]) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, entityID); err != nil {
		h.Error(c, err)
		return
	}
	h.publish(ctx, entityID)

	h.NoContent(c)
}

func (h *CatalogHandler[T, Req]) publish(ctx context.Context, entityID id.ID) {
	h.events.Publish(ctx, events.Event{Type: events.CatalogChanged, Key: h.key, EntityID: entityID})
}
