package supplier

import (
	"context"

	"stockroom/internal/domain"
)

// Service provides business logic for suppliers.
type Service struct {
	*domain.CatalogService[*Supplier]
}

// NewService creates a new supplier service.
func NewService(repo domain.CatalogRepository[*Supplier]) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Supplier]{
		Repo:       repo,
		EntityName: "supplier",
	})

	normalize := func(ctx context.Context, s *Supplier) error {
		s.Normalize()
		return nil
	}
	base.Hooks().OnBeforeCreate(normalize)
	base.Hooks().OnBeforeUpdate(normalize)

	return &Service{CatalogService: base}
}
