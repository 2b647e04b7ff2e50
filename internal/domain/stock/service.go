// Package stock derives product stock quantities from the transaction
// ledger. Quantities are never stored on the product record: every read
// folds the ledger, so stock can never drift from the entries behind it.
package stock

import (
	"context"
	"fmt"
	"sort"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/id"
	"stockflow/internal/domain/catalogs/product"
)

// Ledger is the fold over ledger entries the stock projection is built on.
type Ledger interface {
	// StockQuantities returns current stock per product. An empty ids
	// slice covers every product that ever appeared in the ledger.
	StockQuantities(ctx context.Context, ids []id.ID) (map[id.ID]int64, error)
}

// ProductResolver supplies product names for shortage reporting.
type ProductResolver interface {
	GetByIDs(ctx context.Context, ids []id.ID) ([]*product.Product, error)
}

// Service exposes derived stock quantities and the sufficiency check used
// before sales are written.
type Service struct {
	ledger   Ledger
	products ProductResolver
}

// NewService creates the stock service.
func NewService(ledger Ledger, products ProductResolver) *Service {
	return &Service{ledger: ledger, products: products}
}

// QuantityFor returns the current derived stock of one product. Products
// with no ledger history have zero stock.
func (s *Service) QuantityFor(ctx context.Context, productID id.ID) (int64, error) {
	quantities, err := s.ledger.StockQuantities(ctx, []id.ID{productID})
	if err != nil {
		return 0, fmt.Errorf("fold stock for product %s: %w", productID, err)
	}
	return quantities[productID], nil
}

// QuantitiesFor returns current derived stock for the given products.
// Products absent from the ledger are present in the result with zero.
func (s *Service) QuantitiesFor(ctx context.Context, ids []id.ID) (map[id.ID]int64, error) {
	quantities, err := s.ledger.StockQuantities(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fold stock: %w", err)
	}
	for _, productID := range ids {
		if _, ok := quantities[productID]; !ok {
			quantities[productID] = 0
		}
	}
	return quantities, nil
}

// CheckAvailability verifies derived stock covers every requested quantity.
// On failure it returns an insufficient-stock error carrying one shortage
// record per lacking product, sorted by product name.
func (s *Service) CheckAvailability(ctx context.Context, requested map[id.ID]int64) error {
	if len(requested) == 0 {
		return nil
	}

	ids := make([]id.ID, 0, len(requested))
	for productID := range requested {
		ids = append(ids, productID)
	}

	available, err := s.ledger.StockQuantities(ctx, ids)
	if err != nil {
		return fmt.Errorf("fold stock: %w", err)
	}

	var lacking []id.ID
	for _, productID := range ids {
		if available[productID] < requested[productID] {
			lacking = append(lacking, productID)
		}
	}
	if len(lacking) == 0 {
		return nil
	}

	// Names and SKUs make the shortage report actionable for the caller.
	names := make(map[id.ID]*product.Product, len(lacking))
	products, err := s.products.GetByIDs(ctx, lacking)
	if err != nil {
		return fmt.Errorf("resolve lacking products: %w", err)
	}
	for _, p := range products {
		names[p.ID] = p
	}

	shortages := make([]apperror.StockShortage, 0, len(lacking))
	for _, productID := range lacking {
		shortage := apperror.StockShortage{
			ProductID: productID.String(),
			Current:   available[productID],
			Requested: requested[productID],
			Shortage:  requested[productID] - available[productID],
		}
		if p, ok := names[productID]; ok {
			shortage.Name = p.Name
			shortage.SKU = p.SKU
		}
		shortages = append(shortages, shortage)
	}
	sort.Slice(shortages, func(i, j int) bool {
		if shortages[i].Name != shortages[j].Name {
			return shortages[i].Name < shortages[j].Name
		}
		return shortages[i].ProductID < shortages[j].ProductID
	})

	return apperror.NewInsufficientStock(shortages)
}
