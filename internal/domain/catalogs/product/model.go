// Package product provides the product catalog.
// A product's stock quantity is never stored: it is derived from the
// transaction ledger on demand.
package product

import (
	"context"
	"strings"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/entity"
	"stockflow/internal/core/id"
	"stockflow/internal/core/types"
)

const (
	maxNameLength        = 200
	maxDescriptionLength = 1000
)

// Product represents a sellable item.
type Product struct {
	entity.Catalog

	// SKU is the unique stock keeping unit, stored uppercase
	SKU string `db:"sku" json:"sku"`

	// CategoryID references the owning category
	CategoryID id.ID `db:"category_id" json:"categoryId"`

	// Description is a free-form note
	Description string `db:"description" json:"description,omitempty"`

	// CostPrice is the default purchase price per unit
	CostPrice types.Money `db:"cost_price" json:"costPrice"`

	// SellingPrice is the default sale price per unit
	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`

	// Quantity is the current stock level derived from the ledger.
	// Populated by the service on read paths, never persisted.
	Quantity int64 `db:"-" json:"quantity"`

	// CategoryName is populated from a join on read paths
	CategoryName string `db:"-" json:"categoryName,omitempty"`
}

// NewProduct creates a new Product.
func NewProduct(sku, name string, categoryID id.ID) *Product {
	return &Product{
		Catalog:    entity.NewCatalog(name),
		SKU:        NormalizeSKU(sku),
		CategoryID: categoryID,
	}
}

// NormalizeSKU canonicalizes a SKU for storage and comparison.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if len(p.Name) > maxNameLength {
		return apperror.NewValidation("name must not exceed 200 characters").
			WithDetail("field", "name")
	}

	if strings.TrimSpace(p.SKU) == "" {
		return apperror.NewValidation("SKU is required").
			WithDetail("field", "sku")
	}

	if id.IsNil(p.CategoryID) {
		return apperror.NewValidation("category ID is required").
			WithDetail("field", "categoryId")
	}

	if len(p.Description) > maxDescriptionLength {
		return apperror.NewValidation("description must not exceed 1000 characters").
			WithDetail("field", "description")
	}

	if p.CostPrice.IsNegative() {
		return apperror.NewValidation("cost price must be a positive number").
			WithDetail("field", "costPrice")
	}

	if p.SellingPrice.IsNegative() {
		return apperror.NewValidation("selling price must be a positive number").
			WithDetail("field", "sellingPrice")
	}

	return nil
}
