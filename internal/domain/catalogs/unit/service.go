package unit

import (
	"context"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/entity"
	"stockflow/internal/core/id"
	"stockflow/internal/core/tx"
	"stockflow/internal/domain"
)

// Service provides business logic for the Unit catalog.
type Service struct {
	*domain.CatalogService[*Unit]
	repo Repository
}

// NewService creates a new Unit service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Unit]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "unit",
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
func (s *Service) prepareForCreate(ctx context.Context, u *Unit) error {
	if u.Status == "" {
		u.Status = entity.StatusActive
	}
	return s.checkUnique(ctx, u)
}

// prepareForUpdate handles uniqueness checks.
func (s *Service) prepareForUpdate(ctx context.Context, u *Unit) error {
	return s.checkUnique(ctx, u)
}

func (s *Service) checkUnique(ctx context.Context, u *Unit) error {
	if exists, _ := s.existsExcluding(ctx, u.ID, func(ctx context.Context) (*Unit, error) {
		return s.repo.FindByName(ctx, u.Name)
	}); exists {
		return apperror.NewDuplicate("unit", "name", u.Name)
	}

	if exists, _ := s.existsExcluding(ctx, u.ID, func(ctx context.Context) (*Unit, error) {
		return s.repo.FindByAbbreviation(ctx, u.Abbreviation)
	}); exists {
		return apperror.NewDuplicate("unit", "abbreviation", u.Abbreviation)
	}

	return nil
}

func (s *Service) existsExcluding(ctx context.Context, excludeID id.ID, find func(ctx context.Context) (*Unit, error)) (bool, error) {
	existing, err := find(ctx)
	if err != nil {
		return false, nil
	}
	return existing.ID != excludeID, nil
}
