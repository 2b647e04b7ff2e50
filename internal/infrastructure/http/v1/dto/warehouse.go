package dto

import (
	"stockflow/internal/core/entity"
	"stockflow/internal/domain/catalogs/warehouse"
)

// CreateWarehouseRequest is the request body for creating a warehouse.
type CreateWarehouseRequest struct {
	Title    string        `json:"title" binding:"required"`
	Location string        `json:"location" binding:"required"`
	Manager  string        `json:"manager"`
	Status   entity.Status `json:"status"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	w := warehouse.NewWarehouse(r.Title, r.Location)
	w.Manager = r.Manager
	if r.Status != "" {
		w.Status = r.Status
	}
	return w
}

// UpdateWarehouseRequest is the request body for updating a warehouse.
type UpdateWarehouseRequest struct {
	Title    string        `json:"title" binding:"required"`
	Location string        `json:"location" binding:"required"`
	Manager  string        `json:"manager"`
	Status   entity.Status `json:"status"`
	Version  int           `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update onto an existing entity.
func (r *UpdateWarehouseRequest) ApplyTo(w *warehouse.Warehouse) {
	w.Name = r.Title
	w.Location = r.Location
	w.Manager = r.Manager
	if r.Status != "" {
		w.Status = r.Status
	}
	w.Version = r.Version
}
