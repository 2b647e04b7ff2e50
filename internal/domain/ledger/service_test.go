package ledger

import (
	"context"
	"errors"
	"testing"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/id"
	"stockflow/internal/core/types"
	"stockflow/internal/domain/catalogs/partner"
	"stockflow/internal/domain/catalogs/product"
)

// fakeTxManager runs the callback inline, no database involved.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// trackingTxManager flags the window in which the transaction callback
// runs, so collaborators can record whether they were called inside it.
type trackingTxManager struct {
	inTx bool
}

func (m *trackingTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.inTx = true
	defer func() { m.inTx = false }()
	return fn(ctx)
}

// readOnlyTxManager additionally serves read-only transactions and counts
// them.
type readOnlyTxManager struct {
	fakeTxManager
	readOnlyCalls int
}

func (m *readOnlyTxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.readOnlyCalls++
	return fn(ctx)
}

type fakeRepo struct {
	entries map[id.ID]*Entry
	order   []id.ID
	serials map[string]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		entries: make(map[id.ID]*Entry),
		serials: make(map[string]bool),
	}
}

func (r *fakeRepo) Create(ctx context.Context, entry *Entry) error {
	r.entries[entry.ID] = entry
	r.order = append(r.order, entry.ID)
	r.serials[entry.SerialNumber] = true
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, entryID id.ID) (*Entry, error) {
	entry, ok := r.entries[entryID]
	if !ok {
		return nil, apperror.NewNotFound("Transaction", entryID.String())
	}
	return entry, nil
}

func (r *fakeRepo) GetBySerial(ctx context.Context, serial string) (*Entry, error) {
	for _, entry := range r.entries {
		if entry.SerialNumber == serial {
			return entry, nil
		}
	}
	return nil, apperror.NewNotFound("Transaction", serial)
}

func (r *fakeRepo) Update(ctx context.Context, entry *Entry) error {
	if _, ok := r.entries[entry.ID]; !ok {
		return apperror.NewNotFound("Transaction", entry.ID.String())
	}
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, entryID id.ID) error {
	delete(r.entries, entryID)
	return nil
}

func (r *fakeRepo) DeleteMany(ctx context.Context, ids []id.ID) (int64, error) {
	var n int64
	for _, entryID := range ids {
		if _, ok := r.entries[entryID]; ok {
			delete(r.entries, entryID)
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	var items []*Entry
	for _, entryID := range r.order {
		entry, ok := r.entries[entryID]
		if !ok {
			continue
		}
		if filter.PartnerID != nil {
			if entry.PartnerID == nil || *entry.PartnerID != *filter.PartnerID {
				continue
			}
		}
		if filter.Type != "" && entry.Type != filter.Type {
			continue
		}
		items = append(items, entry)
	}
	return ListResult{Items: items, TotalCount: int64(len(items)), Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (r *fakeRepo) DistinctPartners(ctx context.Context, ids []id.ID) ([]id.ID, error) {
	seen := make(map[id.ID]bool)
	var out []id.ID
	for _, entryID := range ids {
		entry, ok := r.entries[entryID]
		if !ok || entry.PartnerID == nil {
			continue
		}
		if !seen[*entry.PartnerID] {
			seen[*entry.PartnerID] = true
			out = append(out, *entry.PartnerID)
		}
	}
	return out, nil
}

func (r *fakeRepo) ReturnedQuantities(ctx context.Context, originalID id.ID) (map[id.ID]int64, error) {
	out := make(map[id.ID]int64)
	for _, entry := range r.entries {
		if entry.OriginalID == nil || *entry.OriginalID != originalID {
			continue
		}
		for _, l := range entry.Lines {
			out[l.ProductID] += l.Quantity
		}
	}
	return out, nil
}

func (r *fakeRepo) StockQuantities(ctx context.Context, ids []id.ID) (map[id.ID]int64, error) {
	out := make(map[id.ID]int64)
	for _, entry := range r.entries {
		effect := entry.Type.StockEffect()
		for _, l := range entry.Lines {
			out[l.ProductID] += effect * l.Quantity
		}
	}
	return out, nil
}

func (r *fakeRepo) SignedPartnerTotals(ctx context.Context, partnerID id.ID) (Totals, error) {
	balance, paid := types.Zero(), types.Zero()
	for _, entry := range r.entries {
		if entry.PartnerID == nil || *entry.PartnerID != partnerID {
			continue
		}
		if entry.Type.IsReturn() {
			balance = balance.Sub(entry.Balance)
			paid = paid.Sub(entry.Paid)
		} else {
			balance = balance.Add(entry.Balance)
			paid = paid.Add(entry.Paid)
		}
	}
	return Totals{Balance: balance, Paid: paid, Left: balance.Sub(paid)}, nil
}

func (r *fakeRepo) PartnerTotals(ctx context.Context, partnerID id.ID) (Totals, error) {
	balance, paid := types.Zero(), types.Zero()
	for _, entry := range r.entries {
		if entry.PartnerID == nil || *entry.PartnerID != partnerID {
			continue
		}
		balance = balance.Add(entry.Balance)
		paid = paid.Add(entry.Paid)
	}
	return Totals{Balance: balance, Paid: paid, Left: balance.Sub(paid)}, nil
}

func (r *fakeRepo) Stats(ctx context.Context, filter StatsFilter) ([]TypeStat, error) {
	byType := make(map[Type]*TypeStat)
	for _, entry := range r.entries {
		for _, l := range entry.Lines {
			stat, ok := byType[entry.Type]
			if !ok {
				stat = &TypeStat{Type: entry.Type}
				byType[entry.Type] = stat
			}
			stat.TotalQuantity += l.Quantity
			stat.Count++
		}
	}
	out := make([]TypeStat, 0, len(byType))
	for _, stat := range byType {
		out = append(out, *stat)
	}
	return out, nil
}

func (r *fakeRepo) SerialExists(ctx context.Context, serial string) (bool, error) {
	return r.serials[serial], nil
}

type fakePartners struct {
	known map[id.ID]*partner.Partner
}

func (f *fakePartners) GetByID(ctx context.Context, partnerID id.ID) (*partner.Partner, error) {
	p, ok := f.known[partnerID]
	if !ok {
		return nil, apperror.NewNotFound("Partner", partnerID.String())
	}
	return p, nil
}

func (f *fakePartners) Exists(ctx context.Context, partnerID id.ID) (bool, error) {
	_, ok := f.known[partnerID]
	return ok, nil
}

type fakeProducts struct {
	known map[id.ID]*product.Product
}

func (f *fakeProducts) GetByIDs(ctx context.Context, ids []id.ID) ([]*product.Product, error) {
	var out []*product.Product
	for _, productID := range ids {
		if p, ok := f.known[productID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeStock answers from a fixed quantity map; shortage reporting mirrors
// the real service closely enough for the flows under test.
type fakeStock struct {
	quantities map[id.ID]int64
}

func (f *fakeStock) CheckAvailability(ctx context.Context, requested map[id.ID]int64) error {
	var shortages []apperror.StockShortage
	for productID, want := range requested {
		have := f.quantities[productID]
		if have < want {
			shortages = append(shortages, apperror.StockShortage{
				ProductID: productID.String(),
				Current:   have,
				Requested: want,
				Shortage:  want - have,
			})
		}
	}
	if len(shortages) > 0 {
		return apperror.NewInsufficientStock(shortages)
	}
	return nil
}

// fakeBalances records every recalculation request.
type fakeBalances struct {
	calls []id.ID
	err   error
}

func (f *fakeBalances) Recalculate(ctx context.Context, partnerID *id.ID) (*partner.Partner, error) {
	if f.err != nil {
		return nil, f.err
	}
	if partnerID == nil {
		return nil, nil
	}
	f.calls = append(f.calls, *partnerID)
	return nil, nil
}

type fixture struct {
	svc      *Service
	repo     *fakeRepo
	balances *fakeBalances
	stock    *fakeStock

	customer *partner.Partner
	widget   *product.Product
	gadget   *product.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	customer := partner.NewPartner("Acme Retail", "+1 555 0100", partner.TypeCustomer)
	widget := product.NewProduct("WID-01", "Widget", id.New())
	widget.CostPrice = types.NewMoneyFromInt(7)
	widget.SellingPrice = types.NewMoneyFromInt(10)
	gadget := product.NewProduct("GAD-01", "Gadget", id.New())
	gadget.CostPrice = types.NewMoneyFromInt(20)
	gadget.SellingPrice = types.NewMoneyFromInt(30)

	repo := newFakeRepo()
	balances := &fakeBalances{}
	stock := &fakeStock{quantities: map[id.ID]int64{
		widget.ID: 100,
		gadget.ID: 5,
	}}

	svc := NewService(ServiceConfig{
		Repo:     repo,
		Partners: &fakePartners{known: map[id.ID]*partner.Partner{customer.ID: customer}},
		Products: &fakeProducts{known: map[id.ID]*product.Product{
			widget.ID: widget,
			gadget.ID: gadget,
		}},
		Stock:     stock,
		Balances:  balances,
		TxManager: fakeTxManager{},
	})

	return &fixture{
		svc:      svc,
		repo:     repo,
		balances: balances,
		stock:    stock,
		customer: customer,
		widget:   widget,
		gadget:   gadget,
	}
}

func money(v int64) types.Money { return types.NewMoneyFromInt(v) }

func TestCreate_Sales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Create(ctx, CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypeSales,
		Lines: []LineInput{
			{ProductID: f.widget.ID, Quantity: 3},
		},
		Balance: money(30),
		Paid:    money(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.SerialNumber == "" {
		t.Error("expected generated serial number")
	}
	if !entry.Left.Equal(money(20)) {
		t.Errorf("expected left 20, got %s", entry.Left)
	}
	// Price snapshot falls back to catalog prices when the request has none.
	if !entry.Lines[0].SellingPrice.Equal(money(10)) {
		t.Errorf("expected snapshotted selling price 10, got %s", entry.Lines[0].SellingPrice)
	}
	if len(f.balances.calls) != 1 || f.balances.calls[0] != f.customer.ID {
		t.Errorf("expected one balance recalculation for the partner, got %v", f.balances.calls)
	}
}

func TestGetByRef_SerialFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypeSales,
		Lines:     []LineInput{{ProductID: f.widget.ID, Quantity: 1}},
		Balance:   money(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byID, err := f.svc.GetByRef(ctx, created.ID.String())
	if err != nil {
		t.Fatalf("lookup by id: %v", err)
	}
	bySerial, err := f.svc.GetByRef(ctx, created.SerialNumber)
	if err != nil {
		t.Fatalf("lookup by serial: %v", err)
	}
	if byID.ID != bySerial.ID {
		t.Errorf("expected the same entry from both lookups")
	}

	if _, err := f.svc.GetByRef(ctx, "TXN-00000000-XXXXXX"); !apperror.IsNotFound(err) {
		t.Errorf("expected not found for unknown serial, got %v", err)
	}
}

func TestCreate_ExplicitPricesWin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cost := money(8)
	sell := money(12)
	entry, err := f.svc.Create(ctx, CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypePurchases,
		Lines: []LineInput{
			{ProductID: f.widget.ID, Quantity: 2, CostPrice: &cost, SellingPrice: &sell},
		},
		Balance: money(16),
		Paid:    money(16),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !entry.Lines[0].CostPrice.Equal(cost) || !entry.Lines[0].SellingPrice.Equal(sell) {
		t.Errorf("expected request prices to override catalog prices, got %s/%s",
			entry.Lines[0].CostPrice, entry.Lines[0].SellingPrice)
	}
}

func TestCreate_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypeSales,
		Lines: []LineInput{
			{ProductID: f.gadget.ID, Quantity: 9}, // only 5 available
		},
		Balance: money(270),
	})
	if !apperror.IsInsufficientStock(err) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if len(f.repo.entries) != 0 {
		t.Error("no entry must be written on a failed stock check")
	}
	if len(f.balances.calls) != 0 {
		t.Error("no recalculation must run on a failed stock check")
	}
}

// observingPartners records whether existence checks ran inside the
// transaction window.
type observingPartners struct {
	*fakePartners
	txm        *trackingTxManager
	existsInTx []bool
}

func (o *observingPartners) Exists(ctx context.Context, partnerID id.ID) (bool, error) {
	o.existsInTx = append(o.existsInTx, o.txm.inTx)
	return o.fakePartners.Exists(ctx, partnerID)
}

// observingStock records whether availability checks ran inside the
// transaction window.
type observingStock struct {
	*fakeStock
	txm       *trackingTxManager
	checkInTx []bool
}

func (o *observingStock) CheckAvailability(ctx context.Context, requested map[id.ID]int64) error {
	o.checkInTx = append(o.checkInTx, o.txm.inTx)
	return o.fakeStock.CheckAvailability(ctx, requested)
}

func TestCreate_ChecksShareTransactionWithWrite(t *testing.T) {
	txm := &trackingTxManager{}
	customer := partner.NewPartner("Acme Retail", "+1 555 0100", partner.TypeCustomer)
	widget := product.NewProduct("WID-01", "Widget", id.New())
	widget.SellingPrice = types.NewMoneyFromInt(10)

	partners := &observingPartners{
		fakePartners: &fakePartners{known: map[id.ID]*partner.Partner{customer.ID: customer}},
		txm:          txm,
	}
	stock := &observingStock{
		fakeStock: &fakeStock{quantities: map[id.ID]int64{widget.ID: 100}},
		txm:       txm,
	}
	svc := NewService(ServiceConfig{
		Repo:      newFakeRepo(),
		Partners:  partners,
		Products:  &fakeProducts{known: map[id.ID]*product.Product{widget.ID: widget}},
		Stock:     stock,
		Balances:  &fakeBalances{},
		TxManager: txm,
	})

	_, err := svc.Create(context.Background(), CreateInput{
		PartnerID: &customer.ID,
		Type:      TypeSales,
		Lines:     []LineInput{{ProductID: widget.ID, Quantity: 1}},
		Balance:   money(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(partners.existsInTx) != 1 || !partners.existsInTx[0] {
		t.Errorf("partner existence check must run inside the store transaction, got %v", partners.existsInTx)
	}
	if len(stock.checkInTx) != 1 || !stock.checkInTx[0] {
		t.Errorf("stock check must run inside the store transaction, got %v", stock.checkInTx)
	}
}

func TestCreate_StockCheckSkippedForPurchases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 9 > 5 available, but purchases add stock and must not be checked.
	_, err := f.svc.Create(ctx, CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypePurchases,
		Lines: []LineInput{
			{ProductID: f.gadget.ID, Quantity: 9},
		},
		Balance: money(180),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreate_PartnerRequiredForPurchases(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		Type: TypePurchases,
		Lines: []LineInput{
			{ProductID: f.widget.ID, Quantity: 1},
		},
		Balance: money(7),
	})
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found for missing mandatory partner, got %v", err)
	}
}

func TestCreate_AnonymousSalesAllowed(t *testing.T) {
	f := newFixture(t)

	entry, err := f.svc.Create(context.Background(), CreateInput{
		Type: TypeSales,
		Lines: []LineInput{
			{ProductID: f.widget.ID, Quantity: 1},
		},
		Balance: money(10),
		Paid:    money(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.PartnerID != nil {
		t.Error("expected nil partner on anonymous sale")
	}
	if len(f.balances.calls) != 0 {
		t.Error("no recalculation expected without a partner")
	}
}

func TestCreate_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	ghost := id.New()

	_, err := f.svc.Create(context.Background(), CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypeSales,
		Lines: []LineInput{
			{ProductID: f.widget.ID, Quantity: 1},
			{ProductID: ghost, Quantity: 1},
		},
		Balance: money(10),
	})
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	appErr, _ := apperror.AsAppError(err)
	missing, ok := appErr.Details["missingProductIds"].([]string)
	if !ok || len(missing) != 1 || missing[0] != ghost.String() {
		t.Errorf("expected missing product detail for %s, got %v", ghost, appErr.Details)
	}
}

func TestCreate_PaidExceedsBalance(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypeSales,
		Lines: []LineInput{
			{ProductID: f.widget.ID, Quantity: 1},
		},
		Balance: money(10),
		Paid:    money(15),
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_DepositWithoutProducts(t *testing.T) {
	f := newFixture(t)

	entry, err := f.svc.Create(context.Background(), CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypeDepositCustomers,
		Balance:   money(500),
		Paid:      money(500),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entry.Lines) != 0 {
		t.Error("deposit entries carry no product lines")
	}
}

func TestUpdate_MutableSubset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Create(ctx, CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypeSales,
		Lines:     []LineInput{{ProductID: f.widget.ID, Quantity: 2}},
		Balance:   money(20),
		Paid:      money(5),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.balances.calls = nil

	paid := money(20)
	note := "settled in full"
	updated, err := f.svc.Update(ctx, entry.ID, UpdateInput{Paid: &paid, Note: &note})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Left.IsZero() {
		t.Errorf("expected left 0 after full payment, got %s", updated.Left)
	}
	if updated.Note != note {
		t.Errorf("expected note %q, got %q", note, updated.Note)
	}
	if len(f.balances.calls) != 1 {
		t.Errorf("expected one recalculation after update, got %d", len(f.balances.calls))
	}
}

func TestUpdate_EffectivePaidCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Create(ctx, CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypeSales,
		Lines:     []LineInput{{ProductID: f.widget.ID, Quantity: 2}},
		Balance:   money(20),
		Paid:      money(5),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Paid alone, exceeding the stored balance.
	paid := money(25)
	_, err = f.svc.Update(ctx, entry.ID, UpdateInput{Paid: &paid})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if appErr.Details["currentBalance"] == nil || appErr.Details["requestedPaid"] == nil {
		t.Errorf("expected effective-value details, got %v", appErr.Details)
	}
}

func TestDelete_RecalculatesPartner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Create(ctx, CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypeSales,
		Lines:     []LineInput{{ProductID: f.widget.ID, Quantity: 1}},
		Balance:   money(10),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.balances.calls = nil

	removed, err := f.svc.Delete(ctx, entry.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.ID != entry.ID {
		t.Error("expected the removed entry back")
	}
	if len(f.repo.entries) != 0 {
		t.Error("entry must be gone")
	}
	if len(f.balances.calls) != 1 {
		t.Errorf("expected one recalculation after delete, got %d", len(f.balances.calls))
	}
}

func TestBulkDelete_RecalculatesEachPartnerOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var ids []id.ID
	for i := 0; i < 3; i++ {
		entry, err := f.svc.Create(ctx, CreateInput{
			PartnerID: &f.customer.ID,
			Type:      TypeSales,
			Lines:     []LineInput{{ProductID: f.widget.ID, Quantity: 1}},
			Balance:   money(10),
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		ids = append(ids, entry.ID)
	}
	f.balances.calls = nil

	deleted, err := f.svc.BulkDelete(ctx, ids)
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}
	if len(f.balances.calls) != 1 {
		t.Errorf("expected exactly one recalculation for the shared partner, got %d", len(f.balances.calls))
	}
}

func TestBulkDelete_EmptyIDs(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.BulkDelete(context.Background(), nil)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStats_ZeroFillsTradeTypes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypeSales,
		Lines: []LineInput{
			{ProductID: f.widget.ID, Quantity: 4},
			{ProductID: f.gadget.ID, Quantity: 1},
		},
		Balance: money(70),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stats, err := f.svc.Stats(ctx, StatsFilter{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 4 {
		t.Fatalf("expected the four trade types, got %d", len(stats))
	}

	byType := make(map[Type]TypeStat)
	for _, stat := range stats {
		byType[stat.Type] = stat
	}
	if byType[TypeSales].TotalQuantity != 5 {
		t.Errorf("expected sales quantity 5, got %d", byType[TypeSales].TotalQuantity)
	}
	// Count counts product lines, not entries.
	if byType[TypeSales].Count != 2 {
		t.Errorf("expected sales line count 2, got %d", byType[TypeSales].Count)
	}
	for _, zero := range []Type{TypePurchases, TypeReturnSales, TypeReturnPurchases} {
		if stat := byType[zero]; stat.TotalQuantity != 0 || stat.Count != 0 {
			t.Errorf("expected zero-filled %s, got %+v", zero, stat)
		}
	}
}

func TestPartnerStatement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.svc.Create(ctx, CreateInput{
			PartnerID: &f.customer.ID,
			Type:      TypeSales,
			Lines:     []LineInput{{ProductID: f.widget.ID, Quantity: 1}},
			Balance:   money(10),
			Paid:      money(4),
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	stmt, err := f.svc.PartnerStatement(ctx, f.customer.ID, 10, 0)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if stmt.Entries.TotalCount != 2 {
		t.Errorf("expected 2 entries, got %d", stmt.Entries.TotalCount)
	}
	if !stmt.Totals.Balance.Equal(money(20)) || !stmt.Totals.Paid.Equal(money(8)) {
		t.Errorf("expected totals 20/8, got %s/%s", stmt.Totals.Balance, stmt.Totals.Paid)
	}
	if !stmt.Totals.Left.Equal(money(12)) {
		t.Errorf("expected left 12, got %s", stmt.Totals.Left)
	}
}

func TestPartnerStatement_UsesReadOnlyTransaction(t *testing.T) {
	txm := &readOnlyTxManager{}
	customer := partner.NewPartner("Acme Retail", "+1 555 0100", partner.TypeCustomer)
	widget := product.NewProduct("WID-01", "Widget", id.New())
	widget.SellingPrice = types.NewMoneyFromInt(10)

	svc := NewService(ServiceConfig{
		Repo:      newFakeRepo(),
		Partners:  &fakePartners{known: map[id.ID]*partner.Partner{customer.ID: customer}},
		Products:  &fakeProducts{known: map[id.ID]*product.Product{widget.ID: widget}},
		Stock:     &fakeStock{quantities: map[id.ID]int64{widget.ID: 100}},
		Balances:  &fakeBalances{},
		TxManager: txm,
	})

	ctx := context.Background()
	if _, err := svc.Create(ctx, CreateInput{
		PartnerID: &customer.ID,
		Type:      TypeSales,
		Lines:     []LineInput{{ProductID: widget.ID, Quantity: 1}},
		Balance:   money(10),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	stmt, err := svc.PartnerStatement(ctx, customer.ID, 10, 0)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if stmt.Entries.TotalCount != 1 {
		t.Errorf("expected 1 entry, got %d", stmt.Entries.TotalCount)
	}
	if txm.readOnlyCalls != 1 {
		t.Errorf("expected the statement reads in one read-only transaction, got %d", txm.readOnlyCalls)
	}
}

func TestPartnerStatement_UnknownPartner(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PartnerStatement(context.Background(), id.New(), 10, 0)
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreate_RecalcFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.balances.err = errors.New("partner store down")

	_, err := f.svc.Create(context.Background(), CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypeSales,
		Lines:     []LineInput{{ProductID: f.widget.ID, Quantity: 1}},
		Balance:   money(10),
	})
	if err == nil {
		t.Fatal("expected error when recalculation fails")
	}
}

func TestSerialNumbersUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		entry, err := f.svc.Create(ctx, CreateInput{
			Type:    TypeSales,
			Lines:   []LineInput{{ProductID: f.widget.ID, Quantity: 1}},
			Balance: money(10),
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if seen[entry.SerialNumber] {
			t.Fatalf("duplicate serial %s", entry.SerialNumber)
		}
		seen[entry.SerialNumber] = true
	}
}

func TestTypeContracts(t *testing.T) {
	tests := []struct {
		t               Type
		stockEffect     int64
		balanceSign     int64
		requiresPartner bool
	}{
		{TypeSales, -1, 1, false},
		{TypePurchases, 1, 1, true},
		{TypeReturnSales, 1, -1, false},
		{TypeReturnPurchases, -1, -1, false},
		{TypeDepositSuppliers, 0, 1, true},
		{TypeDepositCustomers, 0, 1, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.t), func(t *testing.T) {
			if got := tt.t.StockEffect(); got != tt.stockEffect {
				t.Errorf("StockEffect() = %d, want %d", got, tt.stockEffect)
			}
			if got := tt.t.BalanceSign(); got != tt.balanceSign {
				t.Errorf("BalanceSign() = %d, want %d", got, tt.balanceSign)
			}
			if got := tt.t.RequiresPartner(); got != tt.requiresPartner {
				t.Errorf("RequiresPartner() = %v, want %v", got, tt.requiresPartner)
			}
		})
	}
}

func TestEntryValidate_NoteLength(t *testing.T) {
	long := make([]byte, maxNoteLength+1)
	for i := range long {
		long[i] = 'x'
	}
	entry := NewEntry(TypeDepositCustomers, ptr(id.New()), nil, money(1), money(0), string(long))
	if err := entry.Validate(context.Background()); err == nil {
		t.Error("expected validation error for oversized note")
	}
}

func ptr(v id.ID) *id.ID { return &v }
