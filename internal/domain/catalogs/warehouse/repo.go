package warehouse

import (
	"context"

	"stockflow/internal/domain"
)

// Repository defines the interface for Warehouse persistence.
type Repository interface {
	domain.CatalogRepository[*Warehouse]

	// FindByName retrieves a warehouse by exact title.
	FindByName(ctx context.Context, name string) (*Warehouse, error)
}
