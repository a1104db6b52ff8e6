package handlers

import (
	"stockroom/internal/core/events"
	"stockroom/internal/core/store"
	"stockroom/internal/domain/catalogs/group"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// GroupHTTPHandler is the catalog handler for stock groups.
type GroupHTTPHandler = CatalogHandler[*group.Group, dto.GroupRequest]

// NewGroupHandler wires the generic handler for stock groups.
func NewGroupHandler(base *BaseHandler, service *group.Service, pub events.Publisher) *GroupHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*group.Group, dto.GroupRequest]{
		Service: service,
		Key:     store.KeyStockGroups,
		Events:  pub,

		MapCreate: func(req *dto.GroupRequest) *group.Group { return req.ToEntity() },
		MapUpdate: func(req *dto.GroupRequest, existing *group.Group) { req.ApplyTo(existing) },
		MapToDTO:  func(g *group.Group) any { return dto.FromGroup(g) },
	})
}
