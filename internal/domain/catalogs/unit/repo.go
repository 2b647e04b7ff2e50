package unit

import (
	"context"

	"stockflow/internal/domain"
)

// Repository defines the interface for Unit persistence.
type Repository interface {
	domain.CatalogRepository[*Unit]

	// FindByName retrieves a unit by exact name.
	FindByName(ctx context.Context, name string) (*Unit, error)

	// FindByAbbreviation retrieves a unit by abbreviation.
	FindByAbbreviation(ctx context.Context, abbreviation string) (*Unit, error)
}
