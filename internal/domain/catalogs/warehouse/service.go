package warehouse

import (
	"context"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/entity"
	"stockflow/internal/core/id"
	"stockflow/internal/core/tx"
	"stockflow/internal/domain"
)

// Service provides business logic for the Warehouse catalog.
type Service struct {
	*domain.CatalogService[*Warehouse]
	repo Repository
}

// NewService creates a new Warehouse service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Warehouse]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "warehouse",
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
func (s *Service) prepareForCreate(ctx context.Context, w *Warehouse) error {
	if w.Status == "" {
		w.Status = entity.StatusActive
	}

	if exists, _ := s.checkNameExists(ctx, w.Name, w.ID); exists {
		return apperror.NewDuplicate("warehouse", "title", w.Name)
	}

	return nil
}

// prepareForUpdate handles uniqueness checks.
func (s *Service) prepareForUpdate(ctx context.Context, w *Warehouse) error {
	if exists, _ := s.checkNameExists(ctx, w.Name, w.ID); exists {
		return apperror.NewDuplicate("warehouse", "title", w.Name)
	}

	return nil
}

func (s *Service) checkNameExists(ctx context.Context, name string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return false, nil
	}
	return existing.ID != excludeID, nil
}
