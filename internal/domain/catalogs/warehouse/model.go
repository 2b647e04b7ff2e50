// Package warehouse provides the warehouse catalog.
package warehouse

import (
	"context"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/entity"
)

const (
	maxTitleLength    = 100
	maxLocationLength = 200
	maxManagerLength  = 100
)

// Warehouse represents a physical storage location.
// Name is used as the warehouse title.
type Warehouse struct {
	entity.Catalog

	// Location is the warehouse address or site
	Location string `db:"location" json:"location"`

	// Manager is the responsible person's name
	Manager string `db:"manager" json:"manager,omitempty"`

	// Status marks the warehouse as usable or retired
	Status entity.Status `db:"status" json:"status"`
}

// NewWarehouse creates a new active Warehouse.
func NewWarehouse(name, location string) *Warehouse {
	return &Warehouse{
		Catalog:  entity.NewCatalog(name),
		Location: location,
		Status:   entity.StatusActive,
	}
}

// Validate implements entity.Validatable interface.
func (w *Warehouse) Validate(ctx context.Context) error {
	if err := w.Catalog.Validate(ctx); err != nil {
		return err
	}

	if len(w.Name) > maxTitleLength {
		return apperror.NewValidation("title cannot exceed 100 characters").
			WithDetail("field", "title")
	}

	if w.Location == "" {
		return apperror.NewValidation("location is required").
			WithDetail("field", "location")
	}

	if len(w.Location) > maxLocationLength {
		return apperror.NewValidation("location cannot exceed 200 characters").
			WithDetail("field", "location")
	}

	if len(w.Manager) > maxManagerLength {
		return apperror.NewValidation("manager cannot exceed 100 characters").
			WithDetail("field", "manager")
	}

	if !w.Status.IsValid() {
		return apperror.NewValidation("status must be either Active or Inactive").
			WithDetail("field", "status").
			WithDetail("value", string(w.Status))
	}

	return nil
}
