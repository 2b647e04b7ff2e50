package handlers

import (
	"stockflow/internal/domain"
	"stockflow/internal/domain/catalogs/category"
	"stockflow/internal/infrastructure/http/v1/dto"
)

// CategoryHandler handles category endpoints.
type CategoryHandler = CatalogHandler[*category.Category, dto.CreateCategoryRequest, dto.UpdateCategoryRequest]

// NewCategoryHandler creates a category handler.
func NewCategoryHandler(base *BaseHandler, service *domain.CatalogService[*category.Category]) *CategoryHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*category.Category, dto.CreateCategoryRequest, dto.UpdateCategoryRequest]{
		Service:    service,
		EntityName: "Category",
		MapCreateDTO: func(req dto.CreateCategoryRequest) (*category.Category, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(req dto.UpdateCategoryRequest, existing *category.Category) error {
			req.ApplyTo(existing)
			return nil
		},
	})
}
