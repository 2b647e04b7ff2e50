package partner

import (
	"context"

	"stockflow/internal/core/id"
	"stockflow/internal/core/types"
	"stockflow/internal/domain"
)

// Repository defines the interface for Partner persistence.
type Repository interface {
	domain.CatalogRepository[*Partner]

	// ListByType retrieves partners, optionally restricted to one type.
	ListByType(ctx context.Context, filter domain.ListFilter, partnerType *Type) (domain.ListResult[*Partner], error)

	// UpdateBalances overwrites the cached balance figures.
	// Used by the balance recalculation flow only.
	UpdateBalances(ctx context.Context, partnerID id.ID, balance, paid, left types.Money) (*Partner, error)
}
