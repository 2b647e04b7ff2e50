package handlers

import (
	"github.com/gin-gonic/gin"

	"stockflow/internal/domain/catalogs/product"
	"stockflow/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles product endpoints. List and Get go through the
// product service so quantities derived from the ledger are filled in.
type ProductHandler struct {
	*CatalogHandler[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]
	service *product.Service
}

// NewProductHandler creates a product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	catalog := NewCatalogHandler(base, CatalogHandlerConfig[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]{
		Service:    service.CatalogService,
		EntityName: "Product",
		MapCreateDTO: func(req dto.CreateProductRequest) (*product.Product, error) {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) error {
			return req.ApplyTo(existing)
		},
	})
	return &ProductHandler{CatalogHandler: catalog, service: service}
}

// List handles GET /products with stock-enriched results.
func (h *ProductHandler) List(c *gin.Context) {
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

// Get handles GET /products/:id with the derived stock quantity.
func (h *ProductHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := dto.ParseIDParam(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	p, err := h.service.GetByID(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// GetBySKU handles GET /products/sku/:sku.
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := h.service.FindBySKU(ctx, c.Param("sku"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}
