package group

import (
	"context"
	"strings"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain"
)

// ItemCounter counts stock items per category name.
type ItemCounter interface {
	CountByCategory(ctx context.Context) (map[string]int, error)
}

// Service provides business logic for stock groups.
type Service struct {
	*domain.CatalogService[*Group]
	repo  domain.CatalogRepository[*Group]
	items ItemCounter
}

// NewService creates a new group service. items may be nil, in which case
// every group reports zero items.
func NewService(repo domain.CatalogRepository[*Group], items ItemCounter) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Group]{
		Repo:       repo,
		EntityName: "stock group",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		items:          items,
	}

	base.Hooks().OnBeforeCreate(svc.prepare)
	base.Hooks().OnBeforeUpdate(svc.prepare)

	return svc
}

// GetByID returns the group with its item count filled in.
func (s *Service) GetByID(ctx context.Context, groupID id.ID) (*Group, error) {
	g, err := s.CatalogService.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.fillCounts(ctx, []*Group{g}); err != nil {
		return nil, err
	}
	return g, nil
}

// All returns every group with item counts.
func (s *Service) All(ctx context.Context) ([]*Group, error) {
	groups, err := s.CatalogService.All(ctx)
	if err != nil {
		return nil, err
	}
	return groups, s.fillCounts(ctx, groups)
}

// List returns a page of groups with item counts.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Group], error) {
	res, err := s.CatalogService.List(ctx, filter)
	if err != nil {
		return res, err
	}
	return res, s.fillCounts(ctx, res.Items)
}

func (s *Service) fillCounts(ctx context.Context, groups []*Group) error {
	if s.items == nil || len(groups) == 0 {
		return nil
	}
	counts, err := s.items.CountByCategory(ctx)
	if err != nil {
		return err
	}
	for _, g := range groups {
		g.ItemCount = counts[g.Name]
	}
	return nil
}

func (s *Service) prepare(ctx context.Context, g *Group) error {
	g.Name = strings.TrimSpace(g.Name)
	g.Description = strings.TrimSpace(g.Description)

	groups, err := s.repo.All(ctx)
	if err != nil {
		return err
	}
	for _, other := range groups {
		if other.ID != g.ID && other.Name == g.Name {
			return apperror.NewDuplicate("stock group", "name", g.Name)
		}
	}
	return nil
}
