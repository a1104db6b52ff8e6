// Package supplier provides the supplier catalog. Transactions name their
// party as free text, so suppliers are reference data only.
package supplier

import (
	"context"
	"regexp"
	"strings"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
)

var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRE = regexp.MustCompile(`^[0-9+\-() ]+$`)
)

// Supplier represents a vendor the restaurant buys from.
type Supplier struct {
	entity.BaseEntity

	// LegalName is the registered company name
	LegalName string `json:"legalName"`

	PhoneNumber   string `json:"phoneNumber"`
	TaxNumber     string `json:"taxNumber"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	ContactPerson string `json:"contactPerson"`
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	if strings.TrimSpace(s.LegalName) == "" {
		return apperror.NewValidation("legal name is required").
			WithDetail("field", "legalName")
	}
	if s.Email != "" && !emailRE.MatchString(s.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}
	if s.PhoneNumber != "" && !phoneRE.MatchString(s.PhoneNumber) {
		return apperror.NewValidation("phone number may contain digits, spaces, parentheses, + and - only").
			WithDetail("field", "phoneNumber")
	}
	return nil
}

// Normalize trims user input.
func (s *Supplier) Normalize() {
	s.LegalName = strings.TrimSpace(s.LegalName)
	s.PhoneNumber = strings.TrimSpace(s.PhoneNumber)
	s.TaxNumber = strings.TrimSpace(s.TaxNumber)
	s.Email = strings.TrimSpace(s.Email)
	s.Address = strings.TrimSpace(s.Address)
	s.ContactPerson = strings.TrimSpace(s.ContactPerson)
}

// MatchesSearch matches name, contact, email and tax number.
func (s *Supplier) MatchesSearch(term string) bool {
	term = strings.ToLower(term)
	for _, v := range []string{s.LegalName, s.ContactPerson, s.Email, s.TaxNumber} {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// Field exposes supplier fields to list filters and ordering.
func (s *Supplier) Field(name string) (any, bool) {
	switch name {
	case "id":
		return s.ID, true
	case "legalName":
		return s.LegalName, true
	case "email":
		return s.Email, true
	case "taxNumber":
		return s.TaxNumber, true
	case "contactPerson":
		return s.ContactPerson, true
	case "createdAt":
		return s.CreatedAt, true
	case "lastUpdated":
		return s.LastUpdated, true
	}
	return nil, false
}
