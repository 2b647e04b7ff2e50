package dto

import (
	"stockflow/internal/core/entity"
	"stockflow/internal/domain/catalogs/unit"
)

// CreateUnitRequest is the request body for creating a unit.
type CreateUnitRequest struct {
	Name         string        `json:"name" binding:"required"`
	Abbreviation string        `json:"abbreviation" binding:"required"`
	Description  string        `json:"description"`
	Status       entity.Status `json:"status"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateUnitRequest) ToEntity() *unit.Unit {
	u := unit.NewUnit(r.Name, r.Abbreviation)
	u.Description = r.Description
	if r.Status != "" {
		u.Status = r.Status
	}
	return u
}

// UpdateUnitRequest is the request body for updating a unit.
type UpdateUnitRequest struct {
	Name         string        `json:"name" binding:"required"`
	Abbreviation string        `json:"abbreviation" binding:"required"`
	Description  string        `json:"description"`
	Status       entity.Status `json:"status"`
	Version      int           `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update onto an existing entity.
func (r *UpdateUnitRequest) ApplyTo(u *unit.Unit) {
	u.Name = r.Name
	u.Abbreviation = r.Abbreviation
	u.Description = r.Description
	if r.Status != "" {
		u.Status = r.Status
	}
	u.Version = r.Version
}
