package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/id"
	"stockflow/internal/core/types"
	"stockflow/internal/domain"
	"stockflow/internal/domain/catalogs/partner"
	"stockflow/internal/infrastructure/storage/postgres"
)

const partnerTable = "partners"

// Compile-time check that PartnerRepo implements partner.Repository.
var _ partner.Repository = (*PartnerRepo)(nil)

// PartnerRepo implements partner.Repository.
type PartnerRepo struct {
	*BaseCatalogRepo[*partner.Partner]
}

// NewPartnerRepo creates a new partner repository.
func NewPartnerRepo(txManager *postgres.TxManager) *PartnerRepo {
	return &PartnerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			partnerTable,
			postgres.ExtractDBColumns[partner.Partner](),
			[]string{"name", "phone_number"},
			func() *partner.Partner { return &partner.Partner{} },
		),
	}
}

// FindByName retrieves a partner by exact name.
func (r *PartnerRepo) FindByName(ctx context.Context, name string) (*partner.Partner, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"name": name}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p partner.Partner
	if err := pgxscan.Get(ctx, r.querier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("Partner", name)
		}
		return nil, fmt.Errorf("find by name: %w", err)
	}

	return &p, nil
}

// ListByType retrieves partners, optionally restricted to one partner type.
func (r *PartnerRepo) ListByType(ctx context.Context, filter domain.ListFilter, partnerType *partner.Type) (domain.ListResult[*partner.Partner], error) {
	result := domain.ListResult[*partner.Partner]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"phone_number": pattern},
		})
	}
	if partnerType != nil {
		q = q.Where(squirrel.Eq{"type": *partnerType})
	}

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

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

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
		return result, fmt.Errorf("list partners: %w", err)
	}

	return result, nil
}

// UpdateBalances overwrites the cached balance figures, bypassing version
// locking: the figures are derived from the ledger, so last-write-wins is
// correct here and concurrent recalculations converge on the same values.
func (r *PartnerRepo) UpdateBalances(ctx context.Context, partnerID id.ID, balance, paid, left types.Money) (*partner.Partner, error) {
	q := r.Builder().
		Update(partnerTable).
		Set("balance", balance).
		Set("paid", paid).
		Set("left_amount", left).
		Set("updated_at", squirrel.Expr("now()")).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": partnerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("update partner balances: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, apperror.NewNotFound("Partner", partnerID.String())
	}

	return r.GetByID(ctx, partnerID)
}
