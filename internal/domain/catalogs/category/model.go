// Package category provides the product category catalog.
package category

import (
	"context"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/entity"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
)

// Category groups products for filtering and reporting.
type Category struct {
	entity.Catalog

	// Description is a free-form note
	Description string `db:"description" json:"description,omitempty"`

	// Status marks the category as usable or retired
	Status entity.Status `db:"status" json:"status"`
}

// NewCategory creates a new active Category.
func NewCategory(name string) *Category {
	return &Category{
		Catalog: entity.NewCatalog(name),
		Status:  entity.StatusActive,
	}
}

// Validate implements entity.Validatable interface.
func (c *Category) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if len(c.Name) > maxNameLength {
		return apperror.NewValidation("name must not exceed 100 characters").
			WithDetail("field", "name")
	}

	if len(c.Description) > maxDescriptionLength {
		return apperror.NewValidation("description must not exceed 500 characters").
			WithDetail("field", "description")
	}

	if !c.Status.IsValid() {
		return apperror.NewValidation("status must be either Active or Inactive").
			WithDetail("field", "status").
			WithDetail("value", string(c.Status))
	}

	return nil
}
