package handlers

import (
	"stockroom/internal/core/events"
	"stockroom/internal/core/store"
	"stockroom/internal/domain/catalogs/supplier"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// SupplierHTTPHandler is the catalog handler for suppliers.
type SupplierHTTPHandler = CatalogHandler[*supplier.Supplier, dto.SupplierRequest]

// NewSupplierHandler wires the generic handler for suppliers.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service, pub events.Publisher) *SupplierHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*supplier.Supplier, dto.SupplierRequest]{
		Service:      service,
		Key:          store.KeySuppliers,
		DefaultOrder: "legalName",
		Events:       pub,

		MapCreate: func(req *dto.SupplierRequest) *supplier.Supplier { return req.ToEntity() },
		MapUpdate: func(req *dto.SupplierRequest, existing *supplier.Supplier) { req.ApplyTo(existing) },
		MapToDTO:  func(s *supplier.Supplier) any { return dto.FromSupplier(s) },
	})
}
