package dto

import (
	"time"

	"stockflow/internal/core/types"
	"stockflow/internal/domain/expense"
)

// CreateExpenseRequest is the request body for creating an expense.
type CreateExpenseRequest struct {
	Title    string      `json:"title" binding:"required"`
	Amount   types.Money `json:"amount"`
	Category string      `json:"category"`
	Date     *time.Time  `json:"date"`
	Note     string      `json:"note"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateExpenseRequest) ToEntity() *expense.Expense {
	e := expense.NewExpense(r.Title, r.Amount)
	if r.Category != "" {
		e.Category = r.Category
	}
	if r.Date != nil {
		e.Date = *r.Date
	}
	e.Note = r.Note
	return e
}

// UpdateExpenseRequest is the request body for updating an expense.
type UpdateExpenseRequest struct {
	Title    string      `json:"title" binding:"required"`
	Amount   types.Money `json:"amount"`
	Category string      `json:"category"`
	Date     *time.Time  `json:"date"`
	Note     string      `json:"note"`
	Version  int         `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update onto an existing entity.
func (r *UpdateExpenseRequest) ApplyTo(e *expense.Expense) {
	e.Title = r.Title
	e.Amount = r.Amount
	if r.Category != "" {
		e.Category = r.Category
	}
	if r.Date != nil {
		e.Date = *r.Date
	}
	e.Note = r.Note
	e.Version = r.Version
}

// ExpenseListQuery holds the expense listing query parameters.
type ExpenseListQuery struct {
	PageRequest
	Search    string     `form:"search"`
	Category  string     `form:"category"`
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
}

// ToFilter converts the query into the expense list filter.
func (q *ExpenseListQuery) ToFilter() expense.ListFilter {
	q.Defaults()
	return expense.ListFilter{
		Search:    q.Search,
		Category:  q.Category,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Limit:     q.Limit,
		Offset:    q.Offset(),
	}
}

// ExpenseListResponse pairs a page of expenses with the filtered total.
type ExpenseListResponse struct {
	Items       []*expense.Expense `json:"items"`
	TotalAmount types.Money        `json:"totalAmount"`
}
