package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockflow/internal/core/types"
	"stockflow/internal/domain"
	"stockflow/internal/domain/expense"
	"stockflow/internal/infrastructure/storage/postgres"
)

const expenseTable = "expenses"

// Compile-time check that ExpenseRepo implements expense.Repository.
var _ expense.Repository = (*ExpenseRepo)(nil)

// ExpenseRepo implements expense.Repository.
type ExpenseRepo struct {
	*BaseCatalogRepo[*expense.Expense]
}

// NewExpenseRepo creates a new expense repository.
func NewExpenseRepo(txManager *postgres.TxManager) *ExpenseRepo {
	return &ExpenseRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			expenseTable,
			postgres.ExtractDBColumns[expense.Expense](),
			[]string{"title", "note"},
			func() *expense.Expense { return &expense.Expense{} },
		),
	}
}

// filtered applies expense-specific filters to a select builder.
func (r *ExpenseRepo) filtered(q squirrel.SelectBuilder, filter expense.ListFilter) squirrel.SelectBuilder {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"note": pattern},
		})
	}

	if filter.Category != "" {
		q = q.Where(squirrel.Eq{"category": filter.Category})
	}

	if filter.StartDate != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.EndDate})
	}

	return q
}

// ListExpenses retrieves expenses sorted by date descending.
func (r *ExpenseRepo) ListExpenses(ctx context.Context, filter expense.ListFilter) (domain.ListResult[*expense.Expense], error) {
	result := domain.ListResult[*expense.Expense]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.filtered(r.baseSelect(), filter)

	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("date DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list expenses: %w", err)
	}

	return result, nil
}

// TotalAmount sums the amount over the filtered expenses.
func (r *ExpenseRepo) TotalAmount(ctx context.Context, filter expense.ListFilter) (types.Money, error) {
	q := r.filtered(r.Builder().
		Select("COALESCE(SUM(amount), 0)").
		From(expenseTable), filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var total types.Money
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return types.Zero(), fmt.Errorf("sum expenses: %w", err)
	}

	return total, nil
}
