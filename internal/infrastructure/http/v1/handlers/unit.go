package handlers

import (
	"stockroom/internal/core/events"
	"stockroom/internal/core/store"
	"stockroom/internal/domain/catalogs/unit"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// UnitHTTPHandler is the catalog handler for measuring units.
type UnitHTTPHandler = CatalogHandler[*unit.Unit, dto.UnitRequest]

// NewUnitHandler wires the generic handler for units.
func NewUnitHandler(base *BaseHandler, service *unit.Service, pub events.Publisher) *UnitHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*unit.Unit, dto.UnitRequest]{
		Service: service,
		Key:     store.KeyMeasuringUnits,
		Events:  pub,

		MapCreate: func(req *dto.UnitRequest) *unit.Unit { return req.ToEntity() },
		MapUpdate: func(req *dto.UnitRequest, existing *unit.Unit) { req.ApplyTo(existing) },
		MapToDTO:  func(u *unit.Unit) any { return dto.FromUnit(u) },
	})
}
