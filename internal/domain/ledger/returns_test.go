package ledger

import (
	"context"
	"strings"
	"testing"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/id"
)

// sellTwo writes a sales entry with 2 widgets and 1 gadget at catalog prices.
func sellTwo(t *testing.T, f *fixture) *Entry {
	t.Helper()
	entry, err := f.svc.Create(context.Background(), CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypeSales,
		Lines: []LineInput{
			{ProductID: f.widget.ID, Quantity: 2},
			{ProductID: f.gadget.ID, Quantity: 1},
		},
		Balance: money(50), // 2x10 + 1x30
		Paid:    money(50),
	})
	if err != nil {
		t.Fatalf("seed sale: %v", err)
	}
	return entry
}

func TestProcessReturn_Sales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	original := sellTwo(t, f)
	f.balances.calls = nil

	ret, err := f.svc.ProcessReturn(ctx, original.ID, ReturnInput{
		Lines: []ReturnLineInput{{ProductID: f.widget.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ret.Type != TypeReturnSales {
		t.Errorf("expected return_sales, got %s", ret.Type)
	}
	// Balance uses the original selling price snapshot, not the catalog.
	if !ret.Balance.Equal(money(10)) {
		t.Errorf("expected balance 10, got %s", ret.Balance)
	}
	if !ret.Paid.IsZero() {
		t.Errorf("expected paid 0, got %s", ret.Paid)
	}
	if ret.OriginalID == nil || *ret.OriginalID != original.ID {
		t.Error("expected reference to the original entry")
	}
	if !strings.HasPrefix(ret.Note, "Return for transaction ") {
		t.Errorf("expected default note, got %q", ret.Note)
	}
	if len(f.balances.calls) != 1 {
		t.Errorf("expected one recalculation, got %d", len(f.balances.calls))
	}
}

func TestProcessReturn_PurchasesUsesCostPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	original, err := f.svc.Create(ctx, CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypePurchases,
		Lines:     []LineInput{{ProductID: f.gadget.ID, Quantity: 4}},
		Balance:   money(80), // 4x20 cost
		Paid:      money(80),
	})
	if err != nil {
		t.Fatalf("seed purchase: %v", err)
	}

	ret, err := f.svc.ProcessReturn(ctx, original.ID, ReturnInput{
		Lines: []ReturnLineInput{{ProductID: f.gadget.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ret.Type != TypeReturnPurchases {
		t.Errorf("expected return_purchases, got %s", ret.Type)
	}
	if !ret.Balance.Equal(money(40)) {
		t.Errorf("expected balance 40 (2x20 cost), got %s", ret.Balance)
	}
}

func TestProcessReturn_PartialTracking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	original := sellTwo(t, f)

	// First return: 1 of 2 widgets.
	if _, err := f.svc.ProcessReturn(ctx, original.ID, ReturnInput{
		Lines: []ReturnLineInput{{ProductID: f.widget.ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("first return: %v", err)
	}

	// Second return of 2 would exceed the 1 remaining.
	_, err := f.svc.ProcessReturn(ctx, original.ID, ReturnInput{
		Lines: []ReturnLineInput{{ProductID: f.widget.ID, Quantity: 2}},
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if appErr.Details["remainingQuantity"] != int64(1) {
		t.Errorf("expected remaining 1, got %v", appErr.Details["remainingQuantity"])
	}
	if appErr.Details["alreadyReturned"] != int64(1) {
		t.Errorf("expected already returned 1, got %v", appErr.Details["alreadyReturned"])
	}

	// Returning exactly the remaining 1 still works.
	if _, err := f.svc.ProcessReturn(ctx, original.ID, ReturnInput{
		Lines: []ReturnLineInput{{ProductID: f.widget.ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("return of remaining quantity: %v", err)
	}

	// Everything is returned now; one more unit must fail.
	if _, err := f.svc.ProcessReturn(ctx, original.ID, ReturnInput{
		Lines: []ReturnLineInput{{ProductID: f.widget.ID, Quantity: 1}},
	}); err == nil {
		t.Fatal("expected error after full return")
	}
}

func TestProcessReturn_DuplicateLinesCountCumulatively(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	original, err := f.svc.Create(ctx, CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypePurchases,
		Lines:     []LineInput{{ProductID: f.gadget.ID, Quantity: 4}},
		Balance:   money(80),
		Paid:      money(80),
	})
	if err != nil {
		t.Fatalf("seed purchase: %v", err)
	}

	// Each line alone fits within the original 4, together they exceed it.
	_, err = f.svc.ProcessReturn(ctx, original.ID, ReturnInput{
		Lines: []ReturnLineInput{
			{ProductID: f.gadget.ID, Quantity: 3},
			{ProductID: f.gadget.ID, Quantity: 3},
		},
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if appErr.Details["requestedQuantity"] != int64(6) {
		t.Errorf("expected cumulative requested 6, got %v", appErr.Details["requestedQuantity"])
	}
	if appErr.Details["remainingQuantity"] != int64(4) {
		t.Errorf("expected remaining 4, got %v", appErr.Details["remainingQuantity"])
	}
	if len(f.repo.entries) != 1 {
		t.Error("no return entry must be written when the bound is exceeded")
	}

	// Split lines summing to the remainder are still fine.
	ret, err := f.svc.ProcessReturn(ctx, original.ID, ReturnInput{
		Lines: []ReturnLineInput{
			{ProductID: f.gadget.ID, Quantity: 2},
			{ProductID: f.gadget.ID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("return within bound: %v", err)
	}
	if !ret.Balance.Equal(money(80)) {
		t.Errorf("expected balance 80 (4x20 cost), got %s", ret.Balance)
	}
}

func TestProcessReturn_ProductNotInOriginal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	original, err := f.svc.Create(ctx, CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypeSales,
		Lines:     []LineInput{{ProductID: f.widget.ID, Quantity: 1}},
		Balance:   money(10),
		Paid:      money(10),
	})
	if err != nil {
		t.Fatalf("seed sale: %v", err)
	}

	_, err = f.svc.ProcessReturn(ctx, original.ID, ReturnInput{
		Lines: []ReturnLineInput{{ProductID: f.gadget.ID, Quantity: 1}},
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(appErr.Message, "was not part of the original transaction") {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}

func TestProcessReturn_OnlyTradeEntriesReturnable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	deposit, err := f.svc.Create(ctx, CreateInput{
		PartnerID: &f.customer.ID,
		Type:      TypeDepositCustomers,
		Balance:   money(100),
		Paid:      money(100),
	})
	if err != nil {
		t.Fatalf("seed deposit: %v", err)
	}

	_, err = f.svc.ProcessReturn(ctx, deposit.ID, ReturnInput{
		Lines: []ReturnLineInput{{ProductID: f.widget.ID, Quantity: 1}},
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProcessReturn_OriginalNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ProcessReturn(context.Background(), id.New(), ReturnInput{
		Lines: []ReturnLineInput{{ProductID: f.widget.ID, Quantity: 1}},
	})
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProcessReturn_CustomNoteKept(t *testing.T) {
	f := newFixture(t)
	original := sellTwo(t, f)

	ret, err := f.svc.ProcessReturn(context.Background(), original.ID, ReturnInput{
		Lines: []ReturnLineInput{{ProductID: f.widget.ID, Quantity: 1}},
		Note:  "damaged in shipping",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ret.Note != "damaged in shipping" {
		t.Errorf("expected custom note, got %q", ret.Note)
	}
}

func TestProcessReturn_RestoresDerivedStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	original := sellTwo(t, f)

	quantities, err := f.repo.StockQuantities(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if quantities[f.widget.ID] != -2 {
		t.Fatalf("expected -2 widgets after sale, got %d", quantities[f.widget.ID])
	}

	if _, err := f.svc.ProcessReturn(ctx, original.ID, ReturnInput{
		Lines: []ReturnLineInput{{ProductID: f.widget.ID, Quantity: 2}},
	}); err != nil {
		t.Fatalf("return: %v", err)
	}

	quantities, err = f.repo.StockQuantities(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if quantities[f.widget.ID] != 0 {
		t.Errorf("expected widget stock restored to 0, got %d", quantities[f.widget.ID])
	}
}
