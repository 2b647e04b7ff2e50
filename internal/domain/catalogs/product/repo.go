package product

import (
	"context"

	"stockflow/internal/core/id"
	"stockflow/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// FindBySKU retrieves a product by SKU (case-insensitive).
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// GetByIDs retrieves several products in one query.
	// Missing IDs are silently absent from the result.
	GetByIDs(ctx context.Context, ids []id.ID) ([]*Product, error)
}
