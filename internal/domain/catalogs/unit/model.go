// Package unit provides the measurement unit catalog.
// Units describe how product quantities are counted (piece, kg, box).
package unit

import (
	"context"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/entity"
)

const (
	maxNameLength         = 50
	maxAbbreviationLength = 10
	maxDescriptionLength  = 200
)

// Unit represents a measurement unit.
type Unit struct {
	entity.Catalog

	// Abbreviation is the short symbol (e.g. "kg", "pcs")
	Abbreviation string `db:"abbreviation" json:"abbreviation"`

	// Description is a free-form note
	Description string `db:"description" json:"description,omitempty"`

	// Status marks the unit as usable or retired
	Status entity.Status `db:"status" json:"status"`
}

// NewUnit creates a new active Unit.
func NewUnit(name, abbreviation string) *Unit {
	return &Unit{
		Catalog:      entity.NewCatalog(name),
		Abbreviation: abbreviation,
		Status:       entity.StatusActive,
	}
}

// Validate implements entity.Validatable interface.
func (u *Unit) Validate(ctx context.Context) error {
	if err := u.Catalog.Validate(ctx); err != nil {
		return err
	}

	if len(u.Name) > maxNameLength {
		return apperror.NewValidation("name cannot exceed 50 characters").
			WithDetail("field", "name")
	}

	if u.Abbreviation == "" {
		return apperror.NewValidation("abbreviation is required").
			WithDetail("field", "abbreviation")
	}

	if len(u.Abbreviation) > maxAbbreviationLength {
		return apperror.NewValidation("abbreviation cannot exceed 10 characters").
			WithDetail("field", "abbreviation")
	}

	if len(u.Description) > maxDescriptionLength {
		return apperror.NewValidation("description cannot exceed 200 characters").
			WithDetail("field", "description")
	}

	if !u.Status.IsValid() {
		return apperror.NewValidation("status must be either Active or Inactive").
			WithDetail("field", "status").
			WithDetail("value", string(u.Status))
	}

	return nil
}
