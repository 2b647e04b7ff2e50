package stock

import (
	"context"
	"testing"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/id"
	"stockflow/internal/core/types"
	"stockflow/internal/domain/catalogs/product"
)

type fakeLedger struct {
	quantities map[id.ID]int64
}

func (f *fakeLedger) StockQuantities(ctx context.Context, ids []id.ID) (map[id.ID]int64, error) {
	out := make(map[id.ID]int64)
	if len(ids) == 0 {
		for k, v := range f.quantities {
			out[k] = v
		}
		return out, nil
	}
	for _, productID := range ids {
		if v, ok := f.quantities[productID]; ok {
			out[productID] = v
		}
	}
	return out, nil
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

func newService(quantities map[id.ID]int64, products map[id.ID]*product.Product) *Service {
	return NewService(&fakeLedger{quantities: quantities}, &fakeProducts{known: products})
}

func TestQuantityFor(t *testing.T) {
	productID := id.New()
	svc := newService(map[id.ID]int64{productID: 42}, nil)

	got, err := svc.QuantityFor(context.Background(), productID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestQuantityFor_NoHistory(t *testing.T) {
	svc := newService(nil, nil)

	got, err := svc.QuantityFor(context.Background(), id.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("expected 0 for a product with no ledger history, got %d", got)
	}
}

func TestQuantitiesFor_FillsMissing(t *testing.T) {
	known := id.New()
	unknown := id.New()
	svc := newService(map[id.ID]int64{known: 7}, nil)

	got, err := svc.QuantitiesFor(context.Background(), []id.ID{known, unknown})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[known] != 7 {
		t.Errorf("expected 7, got %d", got[known])
	}
	if v, ok := got[unknown]; !ok || v != 0 {
		t.Errorf("expected explicit zero for unknown product, got %d (present=%v)", v, ok)
	}
}

func TestCheckAvailability_Sufficient(t *testing.T) {
	productID := id.New()
	svc := newService(map[id.ID]int64{productID: 10}, nil)

	err := svc.CheckAvailability(context.Background(), map[id.ID]int64{productID: 10})
	if err != nil {
		t.Errorf("expected nil error when stock exactly covers demand, got %v", err)
	}
}

func TestCheckAvailability_Shortage(t *testing.T) {
	p := product.NewProduct("WID-01", "Widget", id.New())
	p.CostPrice = types.NewMoneyFromInt(1)
	p.SellingPrice = types.NewMoneyFromInt(2)

	svc := newService(map[id.ID]int64{p.ID: 3}, map[id.ID]*product.Product{p.ID: p})

	err := svc.CheckAvailability(context.Background(), map[id.ID]int64{p.ID: 5})
	if !apperror.IsInsufficientStock(err) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	appErr, _ := apperror.AsAppError(err)
	shortages, ok := appErr.Details["shortages"].([]apperror.StockShortage)
	if !ok || len(shortages) != 1 {
		t.Fatalf("expected one shortage record, got %v", appErr.Details)
	}
	s := shortages[0]
	if s.Name != "Widget" || s.SKU != "WID-01" {
		t.Errorf("expected product identity in shortage, got %+v", s)
	}
	if s.Current != 3 || s.Requested != 5 || s.Shortage != 2 {
		t.Errorf("expected 3/5/2, got %d/%d/%d", s.Current, s.Requested, s.Shortage)
	}
}

func TestCheckAvailability_MultipleShortagesSorted(t *testing.T) {
	a := product.NewProduct("A-01", "Anvil", id.New())
	b := product.NewProduct("B-01", "Bolt", id.New())

	svc := newService(map[id.ID]int64{a.ID: 0, b.ID: 1},
		map[id.ID]*product.Product{a.ID: a, b.ID: b})

	err := svc.CheckAvailability(context.Background(), map[id.ID]int64{a.ID: 2, b.ID: 2})
	appErr, _ := apperror.AsAppError(err)
	shortages := appErr.Details["shortages"].([]apperror.StockShortage)
	if len(shortages) != 2 {
		t.Fatalf("expected two shortages, got %d", len(shortages))
	}
	if shortages[0].Name != "Anvil" || shortages[1].Name != "Bolt" {
		t.Errorf("expected name-sorted shortages, got %s then %s", shortages[0].Name, shortages[1].Name)
	}
}

func TestCheckAvailability_EmptyRequest(t *testing.T) {
	svc := newService(nil, nil)
	if err := svc.CheckAvailability(context.Background(), nil); err != nil {
		t.Errorf("expected nil for empty request, got %v", err)
	}
}
