package handlers

import (
	"github.com/gin-gonic/gin"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/entity"
	"stockflow/internal/domain"
	"stockflow/internal/infrastructure/http/v1/dto"
)

// CatalogHandler provides generic HTTP handlers for catalog entities.
// Entities carry their own JSON tags and are returned directly inside
// the response envelope.
type CatalogHandler[T entity.Validatable, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service    *domain.CatalogService[T]
	entityName string

	mapCreateDTO func(req CreateDTO) (T, error)
	mapUpdateDTO func(req UpdateDTO, existing T) error
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T entity.Validatable, CreateDTO any, UpdateDTO any] struct {
	Service      *domain.CatalogService[T]
	EntityName   string
	MapCreateDTO func(req CreateDTO) (T, error)
	MapUpdateDTO func(req UpdateDTO, existing T) error
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T entity.Validatable, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, CreateDTO, UpdateDTO],
) *CatalogHandler[T, CreateDTO, UpdateDTO] {
	return &CatalogHandler[T, CreateDTO, UpdateDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		entityName:   cfg.EntityName,
		mapCreateDTO: cfg.MapCreateDTO,
		mapUpdateDTO: cfg.MapUpdateDTO,
	}
}

// ParseListFilter builds the common catalog list filter from query params.
func (h *BaseHandler) ParseListFilter(c *gin.Context, page *dto.PageRequest) (domain.ListFilter, bool) {
	if err := c.ShouldBindQuery(page); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return domain.ListFilter{}, false
	}
	page.Defaults()

	filter := domain.ListFilter{
		Search:  c.Query("search"),
		OrderBy: c.Query("orderBy"),
		Limit:   page.Limit,
		Offset:  page.Offset(),
	}

	if status := c.Query("status"); status != "" {
		s := entity.Status(status)
		if !s.IsValid() {
			h.Error(c, apperror.NewValidation("status must be either Active or Inactive").
				WithDetail("field", "status"))
			return filter, false
		}
		filter.Status = &s
	}

	return filter, true
}

// List handles GET /{entity} - list with filtering and pagination.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	ctx := c.Request.Context()

	var page dto.PageRequest
	filter, ok := h.ParseListFilter(c, &page)
	if !ok {
		return
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OKPage(c, result.Items, dto.NewPagination(page.Page, page.Limit, result.TotalCount))
}

// Get handles GET /{entity}/:id - get single entity.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, err := dto.ParseIDParam(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	item, err := h.service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, item)
}

// Create handles POST /{entity} - create new entity.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.mapCreateDTO(req)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, item); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, item)
}

// Update handles PUT /{entity}/:id - update existing entity.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, err := dto.ParseIDParam(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.mapUpdateDTO(req, existing); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, existing); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, existing)
}

// Delete handles DELETE /{entity}/:id.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, err := dto.ParseIDParam(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Delete(ctx, entityID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, h.entityName+" deleted")
}

// BulkDelete handles POST /{entity}/bulk-delete.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) BulkDelete(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.BulkDeleteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ids, err := req.ParseIDs()
	if err != nil {
		h.Error(c, err)
		return
	}

	deleted, err := h.service.DeleteMany(ctx, ids)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.BulkDeleteResponse{DeletedCount: deleted})
}
