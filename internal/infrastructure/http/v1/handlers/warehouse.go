package handlers

import (
	"stockflow/internal/domain"
	"stockflow/internal/domain/catalogs/warehouse"
	"stockflow/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler handles warehouse endpoints.
type WarehouseHandler = CatalogHandler[*warehouse.Warehouse, dto.CreateWarehouseRequest, dto.UpdateWarehouseRequest]

// NewWarehouseHandler creates a warehouse handler.
func NewWarehouseHandler(base *BaseHandler, service *domain.CatalogService[*warehouse.Warehouse]) *WarehouseHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*warehouse.Warehouse, dto.CreateWarehouseRequest, dto.UpdateWarehouseRequest]{
		Service:    service,
		EntityName: "Warehouse",
		MapCreateDTO: func(req dto.CreateWarehouseRequest) (*warehouse.Warehouse, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(req dto.UpdateWarehouseRequest, existing *warehouse.Warehouse) error {
			req.ApplyTo(existing)
			return nil
		},
	})
}
