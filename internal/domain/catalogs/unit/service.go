package unit

import (
	"context"
	"strings"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain"
)

// Service provides business logic for the unit catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Unit]
	repo domain.CatalogRepository[*Unit]
}

// NewService creates a new unit service.
func NewService(repo domain.CatalogRepository[*Unit]) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Unit]{
		Repo:       repo,
		EntityName: "measuring unit",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.checkAbbreviation)
	base.Hooks().OnBeforeUpdate(svc.checkAbbreviation)

	return svc
}

// FindByAbbreviation returns the unit with the given abbreviation
// (case-insensitive).
func (s *Service) FindByAbbreviation(ctx context.Context, abbreviation string) (*Unit, error) {
	units, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		if strings.EqualFold(u.Abbreviation, strings.TrimSpace(abbreviation)) {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("measuring unit", abbreviation)
}

func (s *Service) checkAbbreviation(ctx context.Context, unit *Unit) error {
	unit.Normalize()
	if exists, err := s.abbreviationTaken(ctx, unit.Abbreviation, unit.ID); err != nil {
		return err
	} else if exists {
		return apperror.NewDuplicate("measuring unit", "abbreviation", unit.Abbreviation)
	}
	return nil
}

func (s *Service) abbreviationTaken(ctx context.Context, abbreviation string, excludeID id.ID) (bool, error) {
	existing, err := s.FindByAbbreviation(ctx, abbreviation)
	if apperror.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != excludeID, nil
}
