package ledger

import (
	"context"
	"fmt"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/id"
	"stockflow/internal/core/tx"
	"stockflow/internal/core/types"
	"stockflow/internal/domain/catalogs/partner"
	"stockflow/internal/domain/catalogs/product"
	"stockflow/pkg/logger"
	"stockflow/pkg/serial"
)

// PartnerDirectory resolves partners referenced by ledger entries.
type PartnerDirectory interface {
	GetByID(ctx context.Context, partnerID id.ID) (*partner.Partner, error)
	Exists(ctx context.Context, partnerID id.ID) (bool, error)
}

// ProductCatalog resolves products referenced by ledger lines.
type ProductCatalog interface {
	GetByIDs(ctx context.Context, ids []id.ID) ([]*product.Product, error)
}

// StockChecker verifies derived stock covers the requested quantities.
// Returns an insufficient-stock error with shortage details otherwise.
type StockChecker interface {
	CheckAvailability(ctx context.Context, requested map[id.ID]int64) error
}

// BalanceRefresher recomputes a partner's cached balance figures from the
// ledger. A nil partnerID is a no-op.
type BalanceRefresher interface {
	Recalculate(ctx context.Context, partnerID *id.ID) (*partner.Partner, error)
}

// Auditor records an audit trail for ledger mutations. Failures are logged,
// never surfaced: the ledger write is the authoritative record.
type Auditor interface {
	Record(ctx context.Context, entryID id.ID, action string, changes map[string]any) error
}

// Service implements ledger operations: entry creation with stock and
// payment validation, the mutable-subset update, deletes with partner cache
// refresh, listings, statistics and returns.
type Service struct {
	repo      Repository
	partners  PartnerDirectory
	products  ProductCatalog
	stock     StockChecker
	balances  BalanceRefresher
	serials   *serial.Generator
	txManager tx.Manager
	audit     Auditor
}

// ServiceConfig wires the ledger service dependencies.
type ServiceConfig struct {
	Repo      Repository
	Partners  PartnerDirectory
	Products  ProductCatalog
	Stock     StockChecker
	Balances  BalanceRefresher
	Serials   *serial.Generator
	TxManager tx.Manager

	// Audit is optional
	Audit Auditor
}

// NewService creates the ledger service.
func NewService(cfg ServiceConfig) *Service {
	serials := cfg.Serials
	if serials == nil {
		serials = serial.NewGenerator(SerialPrefix)
	}
	return &Service{
		repo:      cfg.Repo,
		partners:  cfg.Partners,
		products:  cfg.Products,
		stock:     cfg.Stock,
		balances:  cfg.Balances,
		serials:   serials,
		txManager: cfg.TxManager,
		audit:     cfg.Audit,
	}
}

// recordAudit writes an audit trail entry if an auditor is configured.
func (s *Service) recordAudit(ctx context.Context, entryID id.ID, action string, changes map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, entryID, action, changes); err != nil {
		logger.Warn(ctx, "audit record failed", "id", entryID, "action", action, "error", err)
	}
}

// LineInput is one requested product movement. Prices are optional: when
// absent, the current catalog prices are snapshotted onto the entry.
type LineInput struct {
	ProductID    id.ID
	Quantity     int64
	CostPrice    *types.Money
	SellingPrice *types.Money
}

// CreateInput is a request to write a new ledger entry.
type CreateInput struct {
	PartnerID *id.ID
	Type      Type
	Lines     []LineInput
	Balance   types.Money
	Paid      types.Money
	Note      string
}

// Create validates and persists a ledger entry, then refreshes the owning
// partner's cached balances within the same transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Entry, error) {
	if !in.Type.IsValid() {
		return nil, apperror.NewValidation("invalid transaction type").
			WithDetail("field", "transactionType").
			WithDetail("value", string(in.Type))
	}

	// Existence checks, the stock-sufficiency check and the write share
	// one store transaction, so the check and the insert see the same
	// snapshot.
	var entry *Entry
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.resolvePartner(ctx, in.Type, in.PartnerID); err != nil {
			return err
		}

		lines, err := s.resolveLines(ctx, in.Lines)
		if err != nil {
			return err
		}

		// Stock sufficiency applies to sales only: purchases and returned
		// sales add stock, deposits move no stock.
		if in.Type == TypeSales {
			if err := s.stock.CheckAvailability(ctx, requestedQuantities(lines)); err != nil {
				return err
			}
		}

		entry = NewEntry(in.Type, in.PartnerID, lines, in.Balance, in.Paid, in.Note)
		if err := entry.Validate(ctx); err != nil {
			return err
		}

		entry.SerialNumber, err = s.serials.Next(ctx, s.repo.SerialExists)
		if err != nil {
			return fmt.Errorf("generate serial number: %w", err)
		}

		if err := s.repo.Create(ctx, entry); err != nil {
			return fmt.Errorf("create ledger entry: %w", err)
		}
		if _, err := s.balances.Recalculate(ctx, entry.PartnerID); err != nil {
			return fmt.Errorf("refresh partner balances: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, entry.ID, "create", map[string]any{
		"transactionType": string(entry.Type),
		"serialNumber":    entry.SerialNumber,
		"balance":         entry.Balance,
		"paid":            entry.Paid,
	})

	return s.reload(ctx, entry)
}

// UpdateInput carries the mutable subset of an entry. Nil fields keep their
// stored values. Type, partner and product lines are immutable.
type UpdateInput struct {
	Balance *types.Money
	Paid    *types.Money
	Note    *string
}

// Update changes balance, paid and/or note on an existing entry. The
// paid <= balance check runs against the effective values so a partial
// update cannot sneak an overpayment past it.
func (s *Service) Update(ctx context.Context, entryID id.ID, in UpdateInput) (*Entry, error) {
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, s.normalizeGetErr(err, entryID)
	}

	balance := entry.Balance
	if in.Balance != nil {
		balance = *in.Balance
	}
	paid := entry.Paid
	if in.Paid != nil {
		paid = *in.Paid
	}

	if balance.IsNegative() || paid.IsNegative() {
		return nil, apperror.NewValidation("balance and paid cannot be negative")
	}
	if paid.GreaterThan(balance) {
		return nil, apperror.NewValidation("paid amount cannot exceed balance").
			WithDetail("currentBalance", entry.Balance).
			WithDetail("currentPaid", entry.Paid).
			WithDetail("requestedBalance", balance).
			WithDetail("requestedPaid", paid)
	}

	entry.Balance = balance
	entry.Paid = paid
	entry.Left = balance.Sub(paid)
	if in.Note != nil {
		entry.Note = *in.Note
	}
	if len(entry.Note) > maxNoteLength {
		return nil, apperror.NewValidation("note cannot exceed 500 characters").
			WithDetail("field", "note")
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, entry); err != nil {
			return err
		}
		if _, err := s.balances.Recalculate(ctx, entry.PartnerID); err != nil {
			return fmt.Errorf("refresh partner balances: %w", err)
		}
		return nil
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update ledger entry: %w", err)
	}

	s.recordAudit(ctx, entry.ID, "update", map[string]any{
		"balance": entry.Balance,
		"paid":    entry.Paid,
		"note":    entry.Note,
	})

	return s.reload(ctx, entry)
}

// Delete removes an entry and refreshes the owning partner's cached
// balances. Returns the removed entry.
func (s *Service) Delete(ctx context.Context, entryID id.ID) (*Entry, error) {
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, s.normalizeGetErr(err, entryID)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, entryID); err != nil {
			return fmt.Errorf("delete ledger entry: %w", err)
		}
		if _, err := s.balances.Recalculate(ctx, entry.PartnerID); err != nil {
			return fmt.Errorf("refresh partner balances: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, entry.ID, "delete", map[string]any{
		"transactionType": string(entry.Type),
		"serialNumber":    entry.SerialNumber,
	})

	return entry, nil
}

// BulkDelete removes entries by ID. Every distinct partner referenced by a
// removed entry is recalculated exactly once, after all deletes complete.
func (s *Service) BulkDelete(ctx context.Context, ids []id.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, apperror.NewValidation("ids are required").WithDetail("field", "ids")
	}

	partnerIDs, err := s.repo.DistinctPartners(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("collect affected partners: %w", err)
	}

	var deleted int64
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := s.repo.DeleteMany(ctx, ids)
		if err != nil {
			return fmt.Errorf("delete ledger entries: %w", err)
		}
		deleted = n

		for _, partnerID := range partnerIDs {
			pid := partnerID
			if _, err := s.balances.Recalculate(ctx, &pid); err != nil {
				return fmt.Errorf("refresh partner %s balances: %w", pid, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, entryID := range ids {
		s.recordAudit(ctx, entryID, "delete", map[string]any{"bulk": true})
	}
	return deleted, nil
}

// Get retrieves a single entry with lines and joined names.
func (s *Service) Get(ctx context.Context, entryID id.ID) (*Entry, error) {
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, s.normalizeGetErr(err, entryID)
	}
	return entry, nil
}

// GetByRef resolves an entry by UUID or by exact serial number.
func (s *Service) GetByRef(ctx context.Context, ref string) (*Entry, error) {
	if entryID, err := id.Parse(ref); err == nil {
		return s.Get(ctx, entryID)
	}

	entry, err := s.repo.GetBySerial(ctx, ref)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("Transaction", ref)
		}
		return nil, fmt.Errorf("get transaction by serial: %w", err)
	}
	return entry, nil
}

// List retrieves entries with filtering and pagination.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListFilter().Limit
	}
	return s.repo.List(ctx, filter)
}

// Stats aggregates moved quantity and line counts per entry type. The four
// trade types are always present, zero-filled when nothing matched; deposit
// types appear only when entries of those types exist.
func (s *Service) Stats(ctx context.Context, filter StatsFilter) ([]TypeStat, error) {
	rows, err := s.repo.Stats(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("aggregate ledger stats: %w", err)
	}

	byType := make(map[Type]TypeStat, len(rows))
	for _, row := range rows {
		byType[row.Type] = row
	}

	tradeTypes := []Type{TypeSales, TypePurchases, TypeReturnSales, TypeReturnPurchases}
	out := make([]TypeStat, 0, len(tradeTypes)+2)
	for _, t := range tradeTypes {
		stat, ok := byType[t]
		if !ok {
			stat = TypeStat{Type: t}
		}
		out = append(out, stat)
		delete(byType, t)
	}
	for _, t := range []Type{TypeDepositSuppliers, TypeDepositCustomers} {
		if stat, ok := byType[t]; ok {
			out = append(out, stat)
		}
	}
	return out, nil
}

// PartnerStatement is one partner's transaction history with running totals
// over the whole history (not just the returned page).
type PartnerStatement struct {
	Entries ListResult
	Totals  Totals
}

// PartnerStatement lists one partner's entries newest-first together with
// plain sums of balance and paid across all of them. The page and its
// totals are read in one read-only transaction so they describe the same
// ledger state.
func (s *Service) PartnerStatement(ctx context.Context, partnerID id.ID, limit, offset int) (*PartnerStatement, error) {
	filter := ListFilter{PartnerID: &partnerID, Limit: limit, Offset: offset}
	if filter.Limit <= 0 {
		filter.Limit = DefaultListFilter().Limit
	}

	var statement PartnerStatement
	err := s.readOnly(ctx, func(ctx context.Context) error {
		ok, err := s.partners.Exists(ctx, partnerID)
		if err != nil {
			return fmt.Errorf("check partner: %w", err)
		}
		if !ok {
			return apperror.NewNotFound("Partner", partnerID.String())
		}

		statement.Entries, err = s.repo.List(ctx, filter)
		if err != nil {
			return fmt.Errorf("list partner entries: %w", err)
		}

		statement.Totals, err = s.repo.PartnerTotals(ctx, partnerID)
		if err != nil {
			return fmt.Errorf("sum partner entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &statement, nil
}

// readOnly runs fn in a read-only transaction when the manager supports
// one, falling back to a plain call otherwise.
func (s *Service) readOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if rom, ok := s.txManager.(tx.ReadOnlyManager); ok {
		return rom.ReadOnly(ctx, fn)
	}
	return fn(ctx)
}

// resolvePartner enforces the per-type partner contract: a referenced
// partner must exist, and purchase/deposit entries must reference one.
func (s *Service) resolvePartner(ctx context.Context, entryType Type, partnerID *id.ID) error {
	if partnerID == nil || id.IsNil(*partnerID) {
		if entryType.RequiresPartner() {
			return apperror.NewNotFound("Partner", "").
				WithDetail("reason", fmt.Sprintf("partner is required for %s transactions", entryType))
		}
		return nil
	}

	ok, err := s.partners.Exists(ctx, *partnerID)
	if err != nil {
		return fmt.Errorf("check partner: %w", err)
	}
	if !ok {
		return apperror.NewNotFound("Partner", partnerID.String())
	}
	return nil
}

// resolveLines verifies every referenced product exists and snapshots
// catalog prices onto lines that did not supply their own.
func (s *Service) resolveLines(ctx context.Context, inputs []LineInput) ([]Line, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	ids := make([]id.ID, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.ProductID)
	}

	found, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	byID := make(map[id.ID]*product.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	var missing []string
	for _, in := range inputs {
		if _, ok := byID[in.ProductID]; !ok {
			missing = append(missing, in.ProductID.String())
		}
	}
	if len(missing) > 0 {
		return nil, apperror.NewNotFound("Product", missing[0]).
			WithDetail("missingProductIds", missing)
	}

	lines := make([]Line, 0, len(inputs))
	for _, in := range inputs {
		p := byID[in.ProductID]
		line := Line{
			ProductID:    in.ProductID,
			Quantity:     in.Quantity,
			CostPrice:    p.CostPrice,
			SellingPrice: p.SellingPrice,
		}
		if in.CostPrice != nil {
			line.CostPrice = *in.CostPrice
		}
		if in.SellingPrice != nil {
			line.SellingPrice = *in.SellingPrice
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *Service) normalizeGetErr(err error, entryID id.ID) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound("Transaction", entryID.String())
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("id", entryID.String())
}

// reload fetches the entry back with joined partner and product names.
// Falls back to the in-memory entry if the read fails after a committed
// write.
func (s *Service) reload(ctx context.Context, entry *Entry) (*Entry, error) {
	full, err := s.repo.GetByID(ctx, entry.ID)
	if err != nil {
		logger.Warn(ctx, "reload ledger entry after write", "id", entry.ID, "error", err)
		return entry, nil
	}
	return full, nil
}

// requestedQuantities aggregates line quantities per product, so duplicate
// lines for one product are checked against stock as a single demand.
func requestedQuantities(lines []Line) map[id.ID]int64 {
	out := make(map[id.ID]int64, len(lines))
	for _, l := range lines {
		out[l.ProductID] += l.Quantity
	}
	return out
}
