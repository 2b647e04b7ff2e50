package handlers

import (
	"github.com/gin-gonic/gin"

	"stockflow/internal/core/apperror"
	"stockflow/internal/domain/ledger"
	"stockflow/internal/infrastructure/http/v1/dto"
)

// TransactionHandler handles ledger entry endpoints.
type TransactionHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewTransactionHandler creates a transaction handler.
func NewTransactionHandler(base *BaseHandler, service *ledger.Service) *TransactionHandler {
	return &TransactionHandler{BaseHandler: base, service: service}
}

// Create handles POST /transactions.
func (h *TransactionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	entry, err := h.service.Create(ctx, in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromEntry(entry))
}

// List handles GET /transactions with filtering and pagination.
func (h *TransactionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.TransactionListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	result, err := h.service.List(ctx, query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OKPage(c, dto.FromEntries(result.Items),
		dto.NewPagination(query.Page, query.Limit, result.TotalCount))
}

// Get handles GET /transactions/:id. The path segment may be either a
// transaction id or a serial number.
func (h *TransactionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	entry, err := h.service.GetByRef(ctx, c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromEntry(entry))
}

// Update handles PUT /transactions/:id for the mutable money fields.
func (h *TransactionHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	entryID, err := dto.ParseIDParam(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.UpdateTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.service.Update(ctx, entryID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromEntry(entry))
}

// Delete handles DELETE /transactions/:id and responds with the removed
// entry so clients can show what disappeared.
func (h *TransactionHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	entryID, err := dto.ParseIDParam(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	entry, err := h.service.Delete(ctx, entryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromEntry(entry))
}

// BulkDelete handles POST /transactions/bulk-delete.
func (h *TransactionHandler) BulkDelete(c *gin.Context) {
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

	deleted, err := h.service.BulkDelete(ctx, ids)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.BulkDeleteResponse{DeletedCount: deleted})
}

// Return handles POST /transactions/:id/return.
func (h *TransactionHandler) Return(c *gin.Context) {
	ctx := c.Request.Context()

	entryID, err := dto.ParseIDParam(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.ReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	entry, err := h.service.ProcessReturn(ctx, entryID, in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromEntry(entry))
}

// Stats handles GET /transactions/stats - per-type quantity aggregates.
func (h *TransactionHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.StatsQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	stats, err := h.service.Stats(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, stats)
}

// PartnerStatement handles GET /transactions/partner - one partner's
// history with grand totals over all of it.
func (h *TransactionHandler) PartnerStatement(c *gin.Context) {
	ctx := c.Request.Context()

	rawPartnerID := c.Query("partnerId")
	if rawPartnerID == "" {
		h.Error(c, apperror.NewValidation("partnerId is required").WithDetail("field", "partnerId"))
		return
	}
	partnerID, err := dto.ParseIDParam(rawPartnerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	var page dto.PageRequest
	if !h.BindQuery(c, &page) {
		return
	}
	page.Defaults()

	statement, err := h.service.PartnerStatement(ctx, partnerID, page.Limit, page.Offset())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OKPage(c,
		dto.PartnerStatementResponse{
			Items:  dto.FromEntries(statement.Entries.Items),
			Totals: statement.Totals,
		},
		dto.NewPagination(page.Page, page.Limit, statement.Entries.TotalCount))
}
