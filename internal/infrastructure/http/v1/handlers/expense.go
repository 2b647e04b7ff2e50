package handlers

import (
	"github.com/gin-gonic/gin"

	"stockflow/internal/domain/expense"
	"stockflow/internal/infrastructure/http/v1/dto"
)

// ExpenseHandler handles expense endpoints. List carries the filtered
// total alongside the page so clients do not have to sum it themselves.
type ExpenseHandler struct {
	*CatalogHandler[*expense.Expense, dto.CreateExpenseRequest, dto.UpdateExpenseRequest]
	service *expense.Service
}

// NewExpenseHandler creates an expense handler.
func NewExpenseHandler(base *BaseHandler, service *expense.Service) *ExpenseHandler {
	catalog := NewCatalogHandler(base, CatalogHandlerConfig[*expense.Expense, dto.CreateExpenseRequest, dto.UpdateExpenseRequest]{
		Service:    service.CatalogService,
		EntityName: "Expense",
		MapCreateDTO: func(req dto.CreateExpenseRequest) (*expense.Expense, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(req dto.UpdateExpenseRequest, existing *expense.Expense) error {
			req.ApplyTo(existing)
			return nil
		},
	})
	return &ExpenseHandler{CatalogHandler: catalog, service: service}
}

// List handles GET /expenses with search, category and date range filters.
func (h *ExpenseHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.ExpenseListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	filter := query.ToFilter()

	result, err := h.service.ListExpenses(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	total, err := h.service.TotalAmount(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OKPage(c,
		dto.ExpenseListResponse{Items: result.Items, TotalAmount: total},
		dto.NewPagination(query.Page, query.Limit, result.TotalCount))
}
