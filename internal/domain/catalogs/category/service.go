package category

import (
	"context"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/entity"
	"stockflow/internal/core/id"
	"stockflow/internal/core/tx"
	"stockflow/internal/domain"
)

// Service provides business logic for the Category catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Category]
	repo Repository
}

// NewService creates a new Category service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Category]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "category",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)

	return svc
}

// prepareForCreate applies defaults and uniqueness checks.
func (s *Service) prepareForCreate(ctx context.Context, cat *Category) error {
	if cat.Status == "" {
		cat.Status = entity.StatusActive
	}

	if exists, _ := s.checkNameExists(ctx, cat.Name, cat.ID); exists {
		return apperror.NewDuplicate("category", "name", cat.Name)
	}

	return nil
}

// prepareForUpdate handles uniqueness checks.
func (s *Service) prepareForUpdate(ctx context.Context, cat *Category) error {
	if exists, _ := s.checkNameExists(ctx, cat.Name, cat.ID); exists {
		return apperror.NewDuplicate("category", "name", cat.Name)
	}

	return nil
}

// FindByName retrieves a category by exact name.
func (s *Service) FindByName(ctx context.Context, name string) (*Category, error) {
	return s.repo.FindByName(ctx, name)
}

func (s *Service) checkNameExists(ctx context.Context, name string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return false, nil
	}
	return existing.ID != excludeID, nil
}
