// Package dto provides request and response shapes for the HTTP API.
// Domain entities carry their own JSON tags and are returned inside the
// response envelope; request bodies are bound into dedicated structs so
// derived fields (partner balances, stock quantities) are never writable.
package dto

import (
	"stockflow/internal/core/apperror"
	"stockflow/internal/core/id"
)

// Response is the success envelope for every API endpoint.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// OKMessage builds a success envelope with a message only.
func OKMessage(message string) Response {
	return Response{Success: true, Message: message}
}

// OKPage wraps a page of data together with pagination metadata.
func OKPage(data any, p Pagination) Response {
	return Response{Success: true, Data: data, Pagination: &p}
}

// Pagination describes the page a list response covers.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// NewPagination computes page counts for the envelope.
func NewPagination(page, limit int, total int64) Pagination {
	pages := int(total) / limit
	if int(total)%limit > 0 {
		pages++
	}
	return Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}

// PageRequest contains page/limit query parameters.
type PageRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Defaults applies the standard page defaults.
func (p *PageRequest) Defaults() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
}

// Offset calculates the SQL offset.
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// BulkDeleteRequest carries entity IDs for bulk removal.
type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// ParseIDs converts the raw IDs, rejecting malformed ones.
func (r *BulkDeleteRequest) ParseIDs() ([]id.ID, error) {
	ids := make([]id.ID, 0, len(r.IDs))
	for _, raw := range r.IDs {
		parsed, err := id.Parse(raw)
		if err != nil {
			return nil, apperror.NewValidation("invalid id format").
				WithDetail("field", "ids").
				WithDetail("value", raw)
		}
		ids = append(ids, parsed)
	}
	return ids, nil
}

// ParseIDParam parses a path or query ID parameter.
func ParseIDParam(raw string) (id.ID, error) {
	parsed, err := id.Parse(raw)
	if err != nil {
		return id.Nil(), apperror.NewValidation("invalid id format").
			WithDetail("value", raw)
	}
	return parsed, nil
}
