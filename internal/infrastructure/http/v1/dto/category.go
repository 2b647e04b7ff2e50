package dto

import (
	"stockflow/internal/core/entity"
	"stockflow/internal/domain/catalogs/category"
)

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description"`
	Status      entity.Status `json:"status"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateCategoryRequest) ToEntity() *category.Category {
	c := category.NewCategory(r.Name)
	c.Description = r.Description
	if r.Status != "" {
		c.Status = r.Status
	}
	return c
}

// UpdateCategoryRequest is the request body for updating a category.
type UpdateCategoryRequest struct {
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description"`
	Status      entity.Status `json:"status"`
	Version     int           `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update onto an existing entity.
func (r *UpdateCategoryRequest) ApplyTo(c *category.Category) {
	c.Name = r.Name
	c.Description = r.Description
	if r.Status != "" {
		c.Status = r.Status
	}
	c.Version = r.Version
}
