// Package partner provides the business partner catalog.
// Partners are the customers and suppliers behind ledger entries.
// Their balance figures are caches derived from the transaction ledger,
// never accepted from API input.
package partner

import (
	"context"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/entity"
	"stockflow/internal/core/types"
)

const (
	maxNameLength        = 100
	maxPhoneLength       = 20
	maxDescriptionLength = 500
)

// Type classifies partner as customer or supplier.
type Type string

const (
	TypeCustomer Type = "Customer"
	TypeSupplier Type = "Supplier"
)

// IsValid reports whether t is a known partner type.
func (t Type) IsValid() bool {
	return t == TypeCustomer || t == TypeSupplier
}

// Partner represents a customer or supplier.
type Partner struct {
	entity.Catalog

	// PhoneNumber is the contact phone
	PhoneNumber string `db:"phone_number" json:"phoneNumber"`

	// Description is a free-form note
	Description string `db:"description" json:"description,omitempty"`

	// Type classifies the partner
	Type Type `db:"type" json:"type"`

	// Balance is the total transacted amount, derived from the ledger
	Balance types.Money `db:"balance" json:"balance"`

	// Paid is the total amount paid, derived from the ledger
	Paid types.Money `db:"paid" json:"paid"`

	// Left is the outstanding amount (balance - paid)
	Left types.Money `db:"left_amount" json:"left"`
}

// NewPartner creates a new Partner with zero balances.
func NewPartner(name, phoneNumber string, partnerType Type) *Partner {
	return &Partner{
		Catalog:     entity.NewCatalog(name),
		PhoneNumber: phoneNumber,
		Type:        partnerType,
		Balance:     types.Zero(),
		Paid:        types.Zero(),
		Left:        types.Zero(),
	}
}

// Validate implements entity.Validatable interface.
func (p *Partner) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if len(p.Name) > maxNameLength {
		return apperror.NewValidation("name cannot exceed 100 characters").
			WithDetail("field", "name")
	}

	if p.PhoneNumber == "" {
		return apperror.NewValidation("phone number is required").
			WithDetail("field", "phoneNumber")
	}

	if len(p.PhoneNumber) > maxPhoneLength {
		return apperror.NewValidation("phone number cannot exceed 20 characters").
			WithDetail("field", "phoneNumber")
	}

	if len(p.Description) > maxDescriptionLength {
		return apperror.NewValidation("description cannot exceed 500 characters").
			WithDetail("field", "description")
	}

	if !p.Type.IsValid() {
		return apperror.NewValidation("type must be either Customer or Supplier").
			WithDetail("field", "type").
			WithDetail("value", string(p.Type))
	}

	return nil
}
