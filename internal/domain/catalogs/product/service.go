package product

import (
	"context"
	"fmt"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/id"
	"stockflow/internal/core/tx"
	"stockflow/internal/domain"
)

// CategoryChecker verifies that a referenced category exists.
type CategoryChecker interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// StockReader resolves current stock levels from the transaction ledger.
type StockReader interface {
	QuantitiesFor(ctx context.Context, productIDs []id.ID) (map[id.ID]int64, error)
}

// Service provides business logic for the Product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo       Repository
	categories CategoryChecker
	stock      StockReader
}

// NewService creates a new Product service.
func NewService(repo Repository, categories CategoryChecker, stock StockReader, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		categories:     categories,
		stock:          stock,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForWrite)
	base.Hooks().OnBeforeUpdate(svc.prepareForWrite)

	return svc
}

// prepareForWrite normalizes the SKU, checks its uniqueness and verifies
// the referenced category.
func (s *Service) prepareForWrite(ctx context.Context, p *Product) error {
	p.SKU = NormalizeSKU(p.SKU)

	existing, err := s.repo.FindBySKU(ctx, p.SKU)
	switch {
	case err == nil && existing.ID != p.ID:
		return apperror.NewDuplicate("product", "sku", p.SKU)
	case err != nil && !apperror.IsNotFound(err):
		return fmt.Errorf("check sku uniqueness: %w", err)
	}

	exists, err := s.categories.Exists(ctx, p.CategoryID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound("category", p.CategoryID.String())
	}

	return nil
}

// GetByID retrieves a product with its derived stock quantity.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	p, err := s.CatalogService.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := s.fillQuantities(ctx, []*Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// FindBySKU retrieves a product by SKU with its derived stock quantity.
func (s *Service) FindBySKU(ctx context.Context, sku string) (*Product, error) {
	p, err := s.repo.FindBySKU(ctx, NormalizeSKU(sku))
	if err != nil {
		return nil, err
	}

	if err := s.fillQuantities(ctx, []*Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// List retrieves products with derived stock quantities.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	result, err := s.CatalogService.List(ctx, filter)
	if err != nil {
		return result, err
	}

	if err := s.fillQuantities(ctx, result.Items); err != nil {
		return result, err
	}
	return result, nil
}

// GetByIDs retrieves several products in one query, without stock enrichment.
func (s *Service) GetByIDs(ctx context.Context, ids []id.ID) ([]*Product, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *Service) fillQuantities(ctx context.Context, products []*Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]id.ID, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	quantities, err := s.stock.QuantitiesFor(ctx, ids)
	if err != nil {
		return err
	}

	for _, p := range products {
		p.Quantity = quantities[p.ID]
	}
	return nil
}
