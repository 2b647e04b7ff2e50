// Package expense provides standalone operating expense records.
// Expenses are independent of the transaction ledger and do not affect
// partner balances or stock.
package expense

import (
	"context"
	"time"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/entity"
	"stockflow/internal/core/types"
)

const (
	maxTitleLength    = 200
	maxCategoryLength = 100
	maxNoteLength     = 500
)

// DefaultCategory is used when no category is supplied.
const DefaultCategory = "General"

// Expense records a single operating expense.
type Expense struct {
	entity.BaseEntity

	// Title describes the expense
	Title string `db:"title" json:"title"`

	// Amount is the spent amount
	Amount types.Money `db:"amount" json:"amount"`

	// Category is a free-form grouping label
	Category string `db:"category" json:"category"`

	// Date is the business date of the expense
	Date time.Time `db:"date" json:"date"`

	// Note is a free-form comment
	Note string `db:"note" json:"note,omitempty"`
}

// NewExpense creates a new Expense dated now.
func NewExpense(title string, amount types.Money) *Expense {
	return &Expense{
		BaseEntity: entity.NewBaseEntity(),
		Title:      title,
		Amount:     amount,
		Category:   DefaultCategory,
		Date:       time.Now().UTC(),
	}
}

// Validate implements entity.Validatable interface.
func (e *Expense) Validate(ctx context.Context) error {
	if e.Title == "" {
		return apperror.NewValidation("expense title is required").
			WithDetail("field", "title")
	}

	if len(e.Title) > maxTitleLength {
		return apperror.NewValidation("title cannot exceed 200 characters").
			WithDetail("field", "title")
	}

	if e.Amount.IsNegative() {
		return apperror.NewValidation("amount cannot be negative").
			WithDetail("field", "amount")
	}

	if len(e.Category) > maxCategoryLength {
		return apperror.NewValidation("category cannot exceed 100 characters").
			WithDetail("field", "category")
	}

	if e.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	if len(e.Note) > maxNoteLength {
		return apperror.NewValidation("note cannot exceed 500 characters").
			WithDetail("field", "note")
	}

	return nil
}
