package dto

import (
	"fmt"
	"time"

	"stockflow/internal/core/types"
	"stockflow/internal/domain/ledger"
)

// TransactionLineRequest is one product movement in a create request.
type TransactionLineRequest struct {
	ProductID    string       `json:"productId" binding:"required"`
	Quantity     int64        `json:"quantity" binding:"required,min=1"`
	CostPrice    *types.Money `json:"costPrice"`
	SellingPrice *types.Money `json:"sellingPrice"`
}

// CreateTransactionRequest is the request body for creating a transaction.
type CreateTransactionRequest struct {
	TransactionType string                   `json:"transactionType" binding:"required"`
	PartnerID       *string                  `json:"partnerId"`
	Products        []TransactionLineRequest `json:"products"`
	Balance         types.Money              `json:"balance"`
	Paid            types.Money              `json:"paid"`
	Note            string                   `json:"note"`
}

// ToInput converts the request into a ledger create input.
func (r *CreateTransactionRequest) ToInput() (ledger.CreateInput, error) {
	in := ledger.CreateInput{
		Type:    ledger.Type(r.TransactionType),
		Balance: r.Balance,
		Paid:    r.Paid,
		Note:    r.Note,
	}

	if r.PartnerID != nil && *r.PartnerID != "" {
		partnerID, err := ParseIDParam(*r.PartnerID)
		if err != nil {
			return in, err
		}
		in.PartnerID = &partnerID
	}

	for _, line := range r.Products {
		productID, err := ParseIDParam(line.ProductID)
		if err != nil {
			return in, err
		}
		in.Lines = append(in.Lines, ledger.LineInput{
			ProductID:    productID,
			Quantity:     line.Quantity,
			CostPrice:    line.CostPrice,
			SellingPrice: line.SellingPrice,
		})
	}

	return in, nil
}

// UpdateTransactionRequest carries the mutable subset of a transaction.
type UpdateTransactionRequest struct {
	Balance *types.Money `json:"balance"`
	Paid    *types.Money `json:"paid"`
	Note    *string      `json:"note"`
}

// ToInput converts the request into a ledger update input.
func (r *UpdateTransactionRequest) ToInput() ledger.UpdateInput {
	return ledger.UpdateInput{
		Balance: r.Balance,
		Paid:    r.Paid,
		Note:    r.Note,
	}
}

// ReturnLineRequest is one product being returned.
type ReturnLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
}

// ReturnRequest is the request body for processing a return.
type ReturnRequest struct {
	Products []ReturnLineRequest `json:"products" binding:"required"`
	Note     string              `json:"note"`
}

// ToInput converts the request into a ledger return input.
func (r *ReturnRequest) ToInput() (ledger.ReturnInput, error) {
	in := ledger.ReturnInput{Note: r.Note}
	for _, line := range r.Products {
		productID, err := ParseIDParam(line.ProductID)
		if err != nil {
			return in, err
		}
		in.Lines = append(in.Lines, ledger.ReturnLineInput{
			ProductID: productID,
			Quantity:  line.Quantity,
		})
	}
	return in, nil
}

// TransactionListQuery binds the list filter query parameters.
type TransactionListQuery struct {
	PageRequest
	Type        string     `form:"transactionType"`
	Serial      string     `form:"serialNumber"`
	PartnerName string     `form:"partnerName"`
	ProductName string     `form:"productName"`
	StartDate   *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate     *time.Time `form:"endDate" time_format:"2006-01-02"`
}

// ToFilter converts query parameters into a ledger list filter.
func (q *TransactionListQuery) ToFilter() ledger.ListFilter {
	q.Defaults()
	return ledger.ListFilter{
		Type:        ledger.Type(q.Type),
		Serial:      q.Serial,
		PartnerName: q.PartnerName,
		ProductName: q.ProductName,
		StartDate:   q.StartDate,
		EndDate:     q.EndDate,
		Limit:       q.Limit,
		Offset:      q.Offset(),
	}
}

// StatsQuery binds the per-type statistics query parameters.
type StatsQuery struct {
	ProductID string     `form:"productId"`
	PartnerID string     `form:"partnerId"`
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
}

// ToFilter converts query parameters into a ledger stats filter.
func (q *StatsQuery) ToFilter() (ledger.StatsFilter, error) {
	filter := ledger.StatsFilter{
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	}
	if q.ProductID != "" {
		productID, err := ParseIDParam(q.ProductID)
		if err != nil {
			return filter, err
		}
		filter.ProductID = &productID
	}
	if q.PartnerID != "" {
		partnerID, err := ParseIDParam(q.PartnerID)
		if err != nil {
			return filter, err
		}
		filter.PartnerID = &partnerID
	}
	return filter, nil
}

// LineResponse is a transaction line with its effective price. Price is
// the selling price for sales-side entries and the cost price otherwise;
// total is price times quantity.
type LineResponse struct {
	ledger.Line
	Price types.Money `json:"price"`
	Total types.Money `json:"total"`
}

// TransactionResponse is a ledger entry enriched with display fields.
type TransactionResponse struct {
	*ledger.Entry
	Products       []LineResponse `json:"products"`
	TotalQuantity  int64          `json:"totalQuantity"`
	ProductDisplay *string        `json:"productDisplay"`
}

// FromEntry builds the transaction response.
func FromEntry(e *ledger.Entry) TransactionResponse {
	sellingSide := e.Type == ledger.TypeSales || e.Type == ledger.TypeReturnSales

	products := make([]LineResponse, len(e.Lines))
	for i, line := range e.Lines {
		price := line.CostPrice
		if sellingSide {
			price = line.SellingPrice
		}
		products[i] = LineResponse{
			Line:  line,
			Price: price,
			Total: price.Mul(types.NewMoneyFromInt(line.Quantity)),
		}
	}

	return TransactionResponse{
		Entry:          e,
		Products:       products,
		TotalQuantity:  e.TotalQuantity(),
		ProductDisplay: productDisplay(e),
	}
}

// FromEntries builds responses for a page of entries.
func FromEntries(entries []*ledger.Entry) []TransactionResponse {
	out := make([]TransactionResponse, len(entries))
	for i, e := range entries {
		out[i] = FromEntry(e)
	}
	return out
}

// productDisplay summarizes an entry's lines: nil when there are none,
// the product name for a single line, a count otherwise.
func productDisplay(e *ledger.Entry) *string {
	switch len(e.Lines) {
	case 0:
		return nil
	case 1:
		name := e.Lines[0].ProductName
		if name == "" {
			name = e.Lines[0].ProductID.String()
		}
		return &name
	default:
		s := fmt.Sprintf("%d products", len(e.Lines))
		return &s
	}
}

// PartnerStatementResponse is one partner's transaction history with
// grand totals over the whole history.
type PartnerStatementResponse struct {
	Items  []TransactionResponse `json:"items"`
	Totals ledger.Totals         `json:"totals"`
}

// BulkDeleteResponse reports how many entries a bulk delete removed.
type BulkDeleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}
