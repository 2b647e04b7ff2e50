package handlers

import (
	"stockflow/internal/domain"
	"stockflow/internal/domain/catalogs/unit"
	"stockflow/internal/infrastructure/http/v1/dto"
)

// UnitHandler handles measurement unit endpoints.
type UnitHandler = CatalogHandler[*unit.Unit, dto.CreateUnitRequest, dto.UpdateUnitRequest]

// NewUnitHandler creates a unit handler.
func NewUnitHandler(base *BaseHandler, service *domain.CatalogService[*unit.Unit]) *UnitHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*unit.Unit, dto.CreateUnitRequest, dto.UpdateUnitRequest]{
		Service:    service,
		EntityName: "Unit",
		MapCreateDTO: func(req dto.CreateUnitRequest) (*unit.Unit, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(req dto.UpdateUnitRequest, existing *unit.Unit) error {
			req.ApplyTo(existing)
			return nil
		},
	})
}
