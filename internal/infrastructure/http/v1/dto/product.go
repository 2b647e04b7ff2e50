package dto

import (
	"stockflow/internal/core/types"
	"stockflow/internal/domain/catalogs/product"
)

// CreateProductRequest is the request body for creating a product.
// Quantity is intentionally absent: stock is derived from the ledger.
type CreateProductRequest struct {
	SKU          string      `json:"sku" binding:"required"`
	Name         string      `json:"name" binding:"required"`
	CategoryID   string      `json:"categoryId" binding:"required"`
	Description  string      `json:"description"`
	CostPrice    types.Money `json:"costPrice"`
	SellingPrice types.Money `json:"sellingPrice"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateProductRequest) ToEntity() (*product.Product, error) {
	categoryID, err := ParseIDParam(r.CategoryID)
	if err != nil {
		return nil, err
	}

	p := product.NewProduct(r.SKU, r.Name, categoryID)
	p.Description = r.Description
	p.CostPrice = r.CostPrice
	p.SellingPrice = r.SellingPrice
	return p, nil
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	SKU          string      `json:"sku" binding:"required"`
	Name         string      `json:"name" binding:"required"`
	CategoryID   string      `json:"categoryId" binding:"required"`
	Description  string      `json:"description"`
	CostPrice    types.Money `json:"costPrice"`
	SellingPrice types.Money `json:"sellingPrice"`
	Version      int         `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update onto an existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) error {
	categoryID, err := ParseIDParam(r.CategoryID)
	if err != nil {
		return err
	}

	p.SKU = r.SKU
	p.Name = r.Name
	p.CategoryID = categoryID
	p.Description = r.Description
	p.CostPrice = r.CostPrice
	p.SellingPrice = r.SellingPrice
	p.Version = r.Version
	return nil
}
