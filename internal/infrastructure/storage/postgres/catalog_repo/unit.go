package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockflow/internal/core/apperror"
	"stockflow/internal/domain/catalogs/unit"
	"stockflow/internal/infrastructure/storage/postgres"
)

const unitTable = "units"

// Compile-time check that UnitRepo implements unit.Repository.
var _ unit.Repository = (*UnitRepo)(nil)

// UnitRepo implements unit.Repository.
type UnitRepo struct {
	*BaseCatalogRepo[*unit.Unit]
}

// NewUnitRepo creates a new unit repository.
func NewUnitRepo(txManager *postgres.TxManager) *UnitRepo {
	return &UnitRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			unitTable,
			postgres.ExtractDBColumns[unit.Unit](),
			[]string{"name", "abbreviation"},
			func() *unit.Unit { return &unit.Unit{} },
		),
	}
}

func (r *UnitRepo) findByColumn(ctx context.Context, column, value string) (*unit.Unit, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{column: value}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u unit.Unit
	if err := pgxscan.Get(ctx, r.querier(ctx), &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("Unit", value)
		}
		return nil, fmt.Errorf("find by %s: %w", column, err)
	}

	return &u, nil
}

// FindByName retrieves a unit by exact name.
func (r *UnitRepo) FindByName(ctx context.Context, name string) (*unit.Unit, error) {
	return r.findByColumn(ctx, "name", name)
}

// FindByAbbreviation retrieves a unit by abbreviation.
func (r *UnitRepo) FindByAbbreviation(ctx context.Context, abbreviation string) (*unit.Unit, error) {
	return r.findByColumn(ctx, "abbreviation", abbreviation)
}
