package dto

import (
	"testing"

	"stockflow/internal/core/id"
	"stockflow/internal/core/types"
	"stockflow/internal/domain/ledger"
)

func line(name string, qty int64, cost, sell int64) ledger.Line {
	return ledger.Line{
		ProductID:    id.New(),
		ProductName:  name,
		Quantity:     qty,
		CostPrice:    types.NewMoneyFromInt(cost),
		SellingPrice: types.NewMoneyFromInt(sell),
	}
}

func TestFromEntry_SalesUsesSellingPrice(t *testing.T) {
	entry := &ledger.Entry{
		Type:  ledger.TypeSales,
		Lines: []ledger.Line{line("Widget", 3, 7, 10)},
	}

	resp := FromEntry(entry)
	if !resp.Products[0].Price.Equal(types.NewMoneyFromInt(10)) {
		t.Errorf("expected selling price 10, got %s", resp.Products[0].Price)
	}
	if !resp.Products[0].Total.Equal(types.NewMoneyFromInt(30)) {
		t.Errorf("expected line total 30, got %s", resp.Products[0].Total)
	}
	if resp.TotalQuantity != 3 {
		t.Errorf("expected total quantity 3, got %d", resp.TotalQuantity)
	}
}

func TestFromEntry_PurchasesUsesCostPrice(t *testing.T) {
	entry := &ledger.Entry{
		Type:  ledger.TypePurchases,
		Lines: []ledger.Line{line("Widget", 2, 7, 10)},
	}

	resp := FromEntry(entry)
	if !resp.Products[0].Price.Equal(types.NewMoneyFromInt(7)) {
		t.Errorf("expected cost price 7, got %s", resp.Products[0].Price)
	}
	if !resp.Products[0].Total.Equal(types.NewMoneyFromInt(14)) {
		t.Errorf("expected line total 14, got %s", resp.Products[0].Total)
	}
}

func TestFromEntry_ReturnSalesStaysOnSellingSide(t *testing.T) {
	entry := &ledger.Entry{
		Type:  ledger.TypeReturnSales,
		Lines: []ledger.Line{line("Widget", 1, 7, 10)},
	}

	resp := FromEntry(entry)
	if !resp.Products[0].Price.Equal(types.NewMoneyFromInt(10)) {
		t.Errorf("expected selling price on sales returns, got %s", resp.Products[0].Price)
	}
}

func TestFromEntry_ProductDisplay(t *testing.T) {
	deposit := &ledger.Entry{Type: ledger.TypeDepositCustomers}
	if got := FromEntry(deposit).ProductDisplay; got != nil {
		t.Errorf("expected nil display without lines, got %q", *got)
	}

	single := &ledger.Entry{
		Type:  ledger.TypeSales,
		Lines: []ledger.Line{line("Widget", 1, 7, 10)},
	}
	if got := FromEntry(single).ProductDisplay; got == nil || *got != "Widget" {
		t.Errorf("expected product name display, got %v", got)
	}

	multi := &ledger.Entry{
		Type: ledger.TypeSales,
		Lines: []ledger.Line{
			line("Widget", 1, 7, 10),
			line("Gadget", 1, 20, 30),
		},
	}
	if got := FromEntry(multi).ProductDisplay; got == nil || *got != "2 products" {
		t.Errorf("expected count display, got %v", got)
	}
}
