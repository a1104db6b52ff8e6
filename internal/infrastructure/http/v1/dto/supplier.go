package dto

import (
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/domain/catalogs/supplier"
)

// SupplierRequest is the request body for creating or updating a supplier.
type SupplierRequest struct {
	LegalName     string `json:"legalName" binding:"required"`
	PhoneNumber   string `json:"phoneNumber"`
	TaxNumber     string `json:"taxNumber"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	ContactPerson string `json:"contactPerson"`
}

// ToEntity converts DTO to domain entity.
func (r *SupplierRequest) ToEntity() *supplier.Supplier {
	s := &supplier.Supplier{}
	r.ApplyTo(s)
	return s
}

// ApplyTo applies update DTO to existing entity.
func (r *SupplierRequest) ApplyTo(s *supplier.Supplier) {
	s.LegalName = r.LegalName
	s.PhoneNumber = r.PhoneNumber
	s.TaxNumber = r.TaxNumber
	s.Email = r.Email
	s.Address = r.Address
	s.ContactPerson = r.ContactPerson
}

// SupplierResponse is the response body for a supplier.
type SupplierResponse struct {
	ID            id.ID     `json:"id"`
	LegalName     string    `json:"legalName"`
	PhoneNumber   string    `json:"phoneNumber"`
	TaxNumber     string    `json:"taxNumber"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	ContactPerson string    `json:"contactPerson"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// FromSupplier creates response DTO from domain entity.
func FromSupplier(s *supplier.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:            s.ID,
		LegalName:     s.LegalName,
		PhoneNumber:   s.PhoneNumber,
		TaxNumber:     s.TaxNumber,
		Email:         s.Email,
		Address:       s.Address,
		ContactPerson: s.ContactPerson,
		CreatedAt:     s.CreatedAt,
		LastUpdated:   s.LastUpdated,
	}
}
