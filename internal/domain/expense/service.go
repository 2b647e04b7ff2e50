package expense

import (
	"context"
	"time"

	"stockflow/internal/core/tx"
	"stockflow/internal/core/types"
	"stockflow/internal/domain"
)

// Service provides business logic for expenses.
type Service struct {
	*domain.CatalogService[*Expense]
	repo Repository
}

// NewService creates a new Expense service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Expense]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "expense",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// prepareForCreate applies defaults.
func (s *Service) prepareForCreate(ctx context.Context, e *Expense) error {
	if e.Category == "" {
		e.Category = DefaultCategory
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	return nil
}

// ListExpenses retrieves expenses with expense-specific filters.
func (s *Service) ListExpenses(ctx context.Context, filter ListFilter) (domain.ListResult[*Expense], error) {
	return s.repo.ListExpenses(ctx, filter)
}

// TotalAmount sums the amount over the filtered expenses.
func (s *Service) TotalAmount(ctx context.Context, filter ListFilter) (types.Money, error) {
	return s.repo.TotalAmount(ctx, filter)
}
