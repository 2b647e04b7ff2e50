package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/id"
	"stockflow/internal/domain"
	"stockflow/internal/domain/catalogs/product"
	"stockflow/internal/infrastructure/storage/postgres"
)

const productTable = "products"

// Compile-time check that ProductRepo implements product.Repository.
var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo implements product.Repository.
// Reads join the category name onto each row; the stock quantity is not a
// column at all and is derived from the ledger by the stock service.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			[]string{"name", "sku", "description"},
			func() *product.Product { return &product.Product{} },
		),
	}
}

// productRow adds the joined category name to the scan target.
type productRow struct {
	product.Product
	JoinedCategoryName *string `db:"category_name"`
}

func (r *ProductRepo) joinedSelect() squirrel.SelectBuilder {
	cols := make([]string, 0, len(r.selectCols)+1)
	for _, col := range r.selectCols {
		cols = append(cols, "p."+col)
	}
	cols = append(cols, "c.name AS category_name")

	return r.Builder().
		Select(cols...).
		From(productTable + " p").
		LeftJoin(categoryTable + " c ON c.id = p.category_id")
}

func rowToProduct(row *productRow) *product.Product {
	p := row.Product
	if row.JoinedCategoryName != nil {
		p.CategoryName = *row.JoinedCategoryName
	}
	return &p
}

// GetByID retrieves a product with its category name.
func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"p.id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row productRow
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("Product", productID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}

	return rowToProduct(&row), nil
}

// FindBySKU retrieves a product by SKU. SKUs are stored uppercase, so an
// exact match after normalization is enough.
func (r *ProductRepo) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"p.sku": product.NormalizeSKU(sku)}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row productRow
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("Product", sku)
		}
		return nil, fmt.Errorf("find by sku: %w", err)
	}

	return rowToProduct(&row), nil
}

// GetByIDs retrieves several products in one query. Missing IDs are
// silently absent from the result.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []id.ID) ([]*product.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := r.joinedSelect().
		Where(squirrel.Eq{"p.id": ids})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []*productRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("get by ids: %w", err)
	}

	out := make([]*product.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToProduct(row))
	}
	return out, nil
}

// List retrieves products with filtering, pagination and category names.
func (r *ProductRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	result := domain.ListResult[*product.Product]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.joinedSelect()

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"p.name": pattern},
			squirrel.ILike{"p.sku": pattern},
			squirrel.ILike{"p.description": pattern},
		})
	}

	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"p.id": filter.IDs})
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
	q = q.OrderBy("p." + orderBy)

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

	var rows []*productRow
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}

	result.Items = make([]*product.Product, 0, len(rows))
	for _, row := range rows {
		result.Items = append(result.Items, rowToProduct(row))
	}
	return result, nil
}
