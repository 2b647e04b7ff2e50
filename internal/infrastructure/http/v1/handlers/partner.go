package handlers

import (
	"github.com/gin-gonic/gin"

	"stockflow/internal/domain/catalogs/partner"
	"stockflow/internal/infrastructure/http/v1/dto"
)

// PartnerHandler handles partner endpoints. It embeds the generic
// catalog handler and overrides List to support the type filter.
type PartnerHandler struct {
	*CatalogHandler[*partner.Partner, dto.CreatePartnerRequest, dto.UpdatePartnerRequest]
	service *partner.Service
}

// NewPartnerHandler creates a partner handler.
func NewPartnerHandler(base *BaseHandler, service *partner.Service) *PartnerHandler {
	catalog := NewCatalogHandler(base, CatalogHandlerConfig[*partner.Partner, dto.CreatePartnerRequest, dto.UpdatePartnerRequest]{
		Service:    service.CatalogService,
		EntityName: "Partner",
		MapCreateDTO: func(req dto.CreatePartnerRequest) (*partner.Partner, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(req dto.UpdatePartnerRequest, existing *partner.Partner) error {
			req.ApplyTo(existing)
			return nil
		},
	})
	return &PartnerHandler{CatalogHandler: catalog, service: service}
}

// List handles GET /partners with an optional type filter. The filter
// accepts "customer"/"supplier" as well as the transaction-type aliases
// "sales" and "purchases".
func (h *PartnerHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var page dto.PageRequest
	filter, ok := h.ParseListFilter(c, &page)
	if !ok {
		return
	}

	partnerType, err := partner.ParseTypeFilter(c.Query("type"))
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.ListByType(ctx, filter, partnerType)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OKPage(c, result.Items, dto.NewPagination(page.Page, page.Limit, result.TotalCount))
}
