package expense

import (
	"context"
	"time"

	"stockflow/internal/core/types"
	"stockflow/internal/domain"
)

// ListFilter narrows expense listings.
type ListFilter struct {
	// Search matches title or note, case-insensitive
	Search string

	// Category filters by exact category label
	Category string

	// Date range (inclusive)
	StartDate *time.Time
	EndDate   *time.Time

	Limit  int
	Offset int
}

// Repository defines the interface for Expense persistence.
type Repository interface {
	domain.CatalogRepository[*Expense]

	// ListExpenses retrieves expenses with expense-specific filters,
	// sorted by date descending.
	ListExpenses(ctx context.Context, filter ListFilter) (domain.ListResult[*Expense], error)

	// TotalAmount sums the amount over the filtered expenses.
	TotalAmount(ctx context.Context, filter ListFilter) (types.Money, error)
}
