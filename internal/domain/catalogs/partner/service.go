package partner

import (
	"context"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/tx"
	"stockflow/internal/core/types"
	"stockflow/internal/domain"
)

// Service provides business logic for the Partner catalog.
type Service struct {
	*domain.CatalogService[*Partner]
	repo Repository
}

// NewService creates a new Partner service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Partner]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "partner",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)

	return svc
}

// ParseTypeFilter resolves a partner type filter value. Besides the
// canonical type names it accepts the transaction-type aliases the
// original clients send: "sales" means customers, "purchases" suppliers.
func ParseTypeFilter(value string) (*Type, error) {
	switch value {
	case "":
		return nil, nil
	case "sales", "customer", string(TypeCustomer):
		t := TypeCustomer
		return &t, nil
	case "purchases", "supplier", string(TypeSupplier):
		t := TypeSupplier
		return &t, nil
	default:
		return nil, apperror.NewValidation("invalid partner type filter").
			WithDetail("field", "type").
			WithDetail("value", value)
	}
}

// ListByType retrieves partners, optionally restricted to one type.
func (s *Service) ListByType(ctx context.Context, filter domain.ListFilter, partnerType *Type) (domain.ListResult[*Partner], error) {
	return s.repo.ListByType(ctx, filter, partnerType)
}

// prepareForCreate forces fresh partners to start with zero balances.
// Balance figures are derived from the ledger and never accepted from input.
func (s *Service) prepareForCreate(ctx context.Context, p *Partner) error {
	p.Balance = types.Zero()
	p.Paid = types.Zero()
	p.Left = types.Zero()
	return nil
}

// prepareForUpdate keeps the stored balance figures intact.
// Whatever the client sent for balance/paid/left is discarded here;
// the update handler copies the stored values onto the entity first.
func (s *Service) prepareForUpdate(ctx context.Context, p *Partner) error {
	existing, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Balance = existing.Balance
	p.Paid = existing.Paid
	p.Left = existing.Left
	return nil
}
