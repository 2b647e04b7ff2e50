package dto

import (
	"stockflow/internal/domain/catalogs/partner"
)

// CreatePartnerRequest is the request body for creating a partner.
// Balance figures are intentionally absent: they are derived from the
// ledger and never accepted from clients.
type CreatePartnerRequest struct {
	Name        string       `json:"name" binding:"required"`
	PhoneNumber string       `json:"phoneNumber" binding:"required"`
	Description string       `json:"description"`
	Type        partner.Type `json:"type" binding:"required"`
}

// ToEntity converts the request to a domain entity.
func (r *CreatePartnerRequest) ToEntity() *partner.Partner {
	p := partner.NewPartner(r.Name, r.PhoneNumber, r.Type)
	p.Description = r.Description
	return p
}

// UpdatePartnerRequest is the request body for updating a partner.
type UpdatePartnerRequest struct {
	Name        string       `json:"name" binding:"required"`
	PhoneNumber string       `json:"phoneNumber" binding:"required"`
	Description string       `json:"description"`
	Type        partner.Type `json:"type" binding:"required"`
	Version     int          `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update onto an existing entity, leaving the cached
// balance figures untouched.
func (r *UpdatePartnerRequest) ApplyTo(p *partner.Partner) {
	p.Name = r.Name
	p.PhoneNumber = r.PhoneNumber
	p.Description = r.Description
	p.Type = r.Type
	p.Version = r.Version
}
