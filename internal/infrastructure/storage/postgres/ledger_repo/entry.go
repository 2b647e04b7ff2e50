// Package ledger_repo provides the PostgreSQL implementation of the ledger
// repository. Entries live in the transactions table, their product lines in
// transaction_lines; the fold queries aggregate over both.
package ledger_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/id"
	"stockflow/internal/core/types"
	"stockflow/internal/domain/ledger"
	"stockflow/internal/infrastructure/storage/postgres"
)

const (
	entryTable = "transactions"
	lineTable  = "transaction_lines"
)

var lineColumns = []string{
	"transaction_id", "line_no", "product_id", "quantity", "cost_price", "selling_price",
}

// signCase maps a transaction type to its partner-fold sign in SQL.
const signCase = `CASE WHEN transaction_type IN ('return_sales', 'return_purchases') THEN -1 ELSE 1 END`

// stockCase maps a transaction type to its stock effect in SQL.
const stockCase = `CASE t.transaction_type
		WHEN 'purchases' THEN 1
		WHEN 'return_sales' THEN 1
		WHEN 'sales' THEN -1
		WHEN 'return_purchases' THEN -1
		ELSE 0
	END`

// Compile-time check that EntryRepo implements ledger.Repository.
var _ ledger.Repository = (*EntryRepo)(nil)

// EntryRepo implements ledger.Repository.
type EntryRepo struct {
	txManager *postgres.TxManager
	inserter  *postgres.BatchInserter
	entryCols []string
}

// NewEntryRepo creates a new ledger entry repository.
func NewEntryRepo(txManager *postgres.TxManager) *EntryRepo {
	return &EntryRepo{
		txManager: txManager,
		inserter:  postgres.NewBatchInserter(txManager),
		entryCols: postgres.ExtractDBColumns[ledger.Entry](),
	}
}

func (r *EntryRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *EntryRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create persists an entry and its lines. Lines go through the COPY
// protocol, so Create must run inside a transaction.
func (r *EntryRepo) Create(ctx context.Context, entry *ledger.Entry) error {
	data := postgres.StructToMap(entry)
	filtered := make(map[string]any, len(r.entryCols))
	for _, col := range r.entryCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert(entryTable).
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("transaction already exists").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}

	if len(entry.Lines) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		rows = append(rows, []any{
			entry.ID, line.LineNo, line.ProductID, line.Quantity,
			line.CostPrice, line.SellingPrice,
		})
	}

	if _, err := r.inserter.CopyFromSlice(ctx, lineTable, lineColumns, rows); err != nil {
		return fmt.Errorf("insert transaction lines: %w", err)
	}

	return nil
}

// entryRow adds joined partner fields to the scan target.
type entryRow struct {
	ledger.Entry
	JoinedPartnerName *string `db:"partner_name"`
	JoinedPartnerType *string `db:"partner_type"`
}

// lineRow adds joined product fields to the scan target.
type lineRow struct {
	ledger.Line
	EntryID           id.ID   `db:"transaction_id"`
	JoinedProductName *string `db:"product_name"`
	JoinedProductSKU  *string `db:"product_sku"`
}

func (r *EntryRepo) joinedSelect() squirrel.SelectBuilder {
	cols := make([]string, 0, len(r.entryCols)+2)
	for _, col := range r.entryCols {
		cols = append(cols, "t."+col)
	}
	cols = append(cols, "p.name AS partner_name", "p.type AS partner_type")

	return r.builder().
		Select(cols...).
		From(entryTable + " t").
		LeftJoin("partners p ON p.id = t.partner_id")
}

func rowToEntry(row *entryRow) *ledger.Entry {
	e := row.Entry
	if row.JoinedPartnerName != nil {
		e.PartnerName = *row.JoinedPartnerName
	}
	if row.JoinedPartnerType != nil {
		e.PartnerType = *row.JoinedPartnerType
	}
	return &e
}

// GetByID retrieves an entry with its lines and joined names.
func (r *EntryRepo) GetByID(ctx context.Context, entryID id.ID) (*ledger.Entry, error) {
	sql, args, err := r.joinedSelect().
		Where(squirrel.Eq{"t.id": entryID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row entryRow
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("Transaction", entryID.String())
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	entry := rowToEntry(&row)
	if err := r.attachLines(ctx, []*ledger.Entry{entry}); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetBySerial retrieves an entry by its exact serial number.
func (r *EntryRepo) GetBySerial(ctx context.Context, serial string) (*ledger.Entry, error) {
	sql, args, err := r.joinedSelect().
		Where(squirrel.Eq{"t.serial_number": serial}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row entryRow
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("Transaction", serial)
		}
		return nil, fmt.Errorf("get transaction by serial: %w", err)
	}

	entry := rowToEntry(&row)
	if err := r.attachLines(ctx, []*ledger.Entry{entry}); err != nil {
		return nil, err
	}
	return entry, nil
}

// attachLines loads lines for the given entries in one query.
func (r *EntryRepo) attachLines(ctx context.Context, entries []*ledger.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]id.ID, 0, len(entries))
	byID := make(map[id.ID]*ledger.Entry, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
		byID[e.ID] = e
		e.Lines = nil
	}

	sql, args, err := r.builder().
		Select("l.transaction_id", "l.line_no", "l.product_id", "l.quantity",
			"l.cost_price", "l.selling_price",
			"pr.name AS product_name", "pr.sku AS product_sku").
		From(lineTable + " l").
		LeftJoin("products pr ON pr.id = l.product_id").
		Where(squirrel.Eq{"l.transaction_id": ids}).
		OrderBy("l.transaction_id", "l.line_no").
		ToSql()
	if err != nil {
		return fmt.Errorf("build lines query: %w", err)
	}

	var rows []*lineRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return fmt.Errorf("load transaction lines: %w", err)
	}

	for _, row := range rows {
		line := row.Line
		if row.JoinedProductName != nil {
			line.ProductName = *row.JoinedProductName
		}
		if row.JoinedProductSKU != nil {
			line.ProductSKU = *row.JoinedProductSKU
		}
		if e, ok := byID[row.EntryID]; ok {
			e.Lines = append(e.Lines, line)
		}
	}

	return nil
}

// Update persists the mutable fields with optimistic version locking.
// Lines and immutable core fields are never touched.
func (r *EntryRepo) Update(ctx context.Context, entry *ledger.Entry) error {
	sql, args, err := r.builder().
		Update(entryTable).
		Set("balance", entry.Balance).
		Set("paid", entry.Paid).
		Set("left_amount", entry.Left).
		Set("note", entry.Note).
		Set("updated_at", squirrel.Expr("now()")).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entry.ID}).
		Where(squirrel.Eq{"version": entry.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("transaction", entry.ID.String())
	}

	entry.Version++
	return nil
}

// Delete removes an entry; lines follow via ON DELETE CASCADE.
func (r *EntryRepo) Delete(ctx context.Context, entryID id.ID) error {
	sql, args, err := r.builder().
		Delete(entryTable).
		Where(squirrel.Eq{"id": entryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("Transaction", entryID.String())
	}
	return nil
}

// DeleteMany removes entries by ID, returning the removed count.
func (r *EntryRepo) DeleteMany(ctx context.Context, ids []id.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	sql, args, err := r.builder().
		Delete(entryTable).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}
	return result.RowsAffected(), nil
}

// applyListFilter translates a ledger.ListFilter into WHERE clauses.
func applyListFilter(q squirrel.SelectBuilder, filter ledger.ListFilter) squirrel.SelectBuilder {
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"t.transaction_type": filter.Type})
	}
	if filter.Serial != "" {
		q = q.Where(squirrel.ILike{"t.serial_number": "%" + filter.Serial + "%"})
	}
	if filter.PartnerName != "" {
		q = q.Where(squirrel.ILike{"p.name": "%" + filter.PartnerName + "%"})
	}
	if filter.ProductName != "" {
		q = q.Where(squirrel.Expr(
			`EXISTS (
				SELECT 1 FROM `+lineTable+` fl
				JOIN products fp ON fp.id = fl.product_id
				WHERE fl.transaction_id = t.id AND fp.name ILIKE ?
			)`,
			"%"+filter.ProductName+"%"))
	}
	if filter.PartnerID != nil {
		q = q.Where(squirrel.Eq{"t.partner_id": *filter.PartnerID})
	}
	if filter.StartDate != nil {
		q = q.Where(squirrel.GtOrEq{"t.created_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		q = q.Where(squirrel.Lt{"t.created_at": *filter.EndDate})
	}
	return q
}

// List retrieves entries newest-first with their lines attached.
func (r *EntryRepo) List(ctx context.Context, filter ledger.ListFilter) (ledger.ListResult, error) {
	result := ledger.ListResult{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := applyListFilter(r.joinedSelect(), filter)

	countSQL, countArgs, err := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count transactions: %w", err)
	}

	q = q.OrderBy("t.created_at DESC")
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

	var rows []*entryRow
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return result, fmt.Errorf("list transactions: %w", err)
	}

	result.Items = make([]*ledger.Entry, 0, len(rows))
	for _, row := range rows {
		result.Items = append(result.Items, rowToEntry(row))
	}

	if err := r.attachLines(ctx, result.Items); err != nil {
		return result, err
	}
	return result, nil
}

// DistinctPartners returns distinct non-null partner IDs among the entries.
func (r *EntryRepo) DistinctPartners(ctx context.Context, ids []id.ID) ([]id.ID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	sql, args, err := r.builder().
		Select("DISTINCT partner_id").
		From(entryTable).
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.NotEq{"partner_id": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []id.ID
	if err := pgxscan.Select(ctx, r.querier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("distinct partners: %w", err)
	}
	return out, nil
}

// ReturnedQuantities sums returned quantities per product against an
// original entry.
func (r *EntryRepo) ReturnedQuantities(ctx context.Context, originalID id.ID) (map[id.ID]int64, error) {
	sql := `
		SELECT l.product_id, COALESCE(SUM(l.quantity), 0) AS quantity
		FROM ` + lineTable + ` l
		JOIN ` + entryTable + ` t ON t.id = l.transaction_id
		WHERE t.original_transaction_id = $1
		GROUP BY l.product_id
	`

	rows, err := r.querier(ctx).Query(ctx, sql, originalID)
	if err != nil {
		return nil, fmt.Errorf("query returned quantities: %w", err)
	}
	defer rows.Close()

	out := make(map[id.ID]int64)
	for rows.Next() {
		var productID id.ID
		var quantity int64
		if err := rows.Scan(&productID, &quantity); err != nil {
			return nil, fmt.Errorf("scan returned quantity: %w", err)
		}
		out[productID] = quantity
	}
	return out, rows.Err()
}

// StockQuantities folds the ledger into current stock per product:
// purchases and returned sales add, sales and returned purchases subtract,
// deposits contribute nothing.
func (r *EntryRepo) StockQuantities(ctx context.Context, ids []id.ID) (map[id.ID]int64, error) {
	q := r.builder().
		Select("l.product_id", "COALESCE(SUM(l.quantity * "+stockCase+"), 0) AS quantity").
		From(lineTable + " l").
		Join(entryTable + " t ON t.id = l.transaction_id").
		GroupBy("l.product_id")

	if len(ids) > 0 {
		q = q.Where(squirrel.Eq{"l.product_id": ids})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query stock quantities: %w", err)
	}
	defer rows.Close()

	out := make(map[id.ID]int64)
	for rows.Next() {
		var productID id.ID
		var quantity int64
		if err := rows.Scan(&productID, &quantity); err != nil {
			return nil, fmt.Errorf("scan stock quantity: %w", err)
		}
		out[productID] = quantity
	}
	return out, rows.Err()
}

// SignedPartnerTotals folds one partner's entries with returns negated.
func (r *EntryRepo) SignedPartnerTotals(ctx context.Context, partnerID id.ID) (ledger.Totals, error) {
	sql := `
		SELECT
			COALESCE(SUM(balance * ` + signCase + `), 0) AS balance,
			COALESCE(SUM(paid * ` + signCase + `), 0) AS paid
		FROM ` + entryTable + `
		WHERE partner_id = $1
	`
	return r.scanTotals(ctx, sql, partnerID)
}

// PartnerTotals sums one partner's entries as stored, without signs.
func (r *EntryRepo) PartnerTotals(ctx context.Context, partnerID id.ID) (ledger.Totals, error) {
	sql := `
		SELECT
			COALESCE(SUM(balance), 0) AS balance,
			COALESCE(SUM(paid), 0) AS paid
		FROM ` + entryTable + `
		WHERE partner_id = $1
	`
	return r.scanTotals(ctx, sql, partnerID)
}

func (r *EntryRepo) scanTotals(ctx context.Context, sql string, partnerID id.ID) (ledger.Totals, error) {
	var balance, paid types.Money
	if err := r.querier(ctx).QueryRow(ctx, sql, partnerID).Scan(&balance, &paid); err != nil {
		return ledger.Totals{}, fmt.Errorf("fold partner totals: %w", err)
	}
	return ledger.Totals{
		Balance: balance,
		Paid:    paid,
		Left:    balance.Sub(paid),
	}, nil
}

// Stats aggregates moved quantity and line counts per transaction type.
func (r *EntryRepo) Stats(ctx context.Context, filter ledger.StatsFilter) ([]ledger.TypeStat, error) {
	q := r.builder().
		Select("t.transaction_type",
			"COALESCE(SUM(l.quantity), 0) AS total_quantity",
			"COUNT(*) AS line_count").
		From(lineTable + " l").
		Join(entryTable + " t ON t.id = l.transaction_id").
		GroupBy("t.transaction_type")

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"l.product_id": *filter.ProductID})
	}
	if filter.PartnerID != nil {
		q = q.Where(squirrel.Eq{"t.partner_id": *filter.PartnerID})
	}
	if filter.StartDate != nil {
		q = q.Where(squirrel.GtOrEq{"t.created_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		q = q.Where(squirrel.Lt{"t.created_at": *filter.EndDate})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var stats []ledger.TypeStat
	if err := pgxscan.Select(ctx, r.querier(ctx), &stats, sql, args...); err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	return stats, nil
}

// SerialExists reports whether a serial number is taken.
func (r *EntryRepo) SerialExists(ctx context.Context, serial string) (bool, error) {
	sql, args, err := r.builder().
		Select("1").
		From(entryTable).
		Where(squirrel.Eq{"serial_number": serial}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check serial: %w", err)
	}
	return true, nil
}
