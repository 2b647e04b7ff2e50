package partner

import (
	"context"
	"testing"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/id"
	"stockflow/internal/core/types"
	"stockflow/internal/domain"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePartnerRepo struct {
	partners map[id.ID]*Partner
}

func newFakePartnerRepo() *fakePartnerRepo {
	return &fakePartnerRepo{partners: make(map[id.ID]*Partner)}
}

func (r *fakePartnerRepo) Create(ctx context.Context, p *Partner) error {
	r.partners[p.ID] = p
	return nil
}

func (r *fakePartnerRepo) GetByID(ctx context.Context, partnerID id.ID) (*Partner, error) {
	p, ok := r.partners[partnerID]
	if !ok {
		return nil, apperror.NewNotFound("Partner", partnerID.String())
	}
	return p, nil
}

func (r *fakePartnerRepo) Update(ctx context.Context, p *Partner) error {
	if _, ok := r.partners[p.ID]; !ok {
		return apperror.NewNotFound("Partner", p.ID.String())
	}
	r.partners[p.ID] = p
	return nil
}

func (r *fakePartnerRepo) Delete(ctx context.Context, partnerID id.ID) error {
	delete(r.partners, partnerID)
	return nil
}

func (r *fakePartnerRepo) DeleteMany(ctx context.Context, ids []id.ID) (int64, error) {
	var n int64
	for _, partnerID := range ids {
		if _, ok := r.partners[partnerID]; ok {
			delete(r.partners, partnerID)
			n++
		}
	}
	return n, nil
}

func (r *fakePartnerRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Partner], error) {
	return r.ListByType(ctx, filter, nil)
}

func (r *fakePartnerRepo) ListByType(ctx context.Context, filter domain.ListFilter, partnerType *Type) (domain.ListResult[*Partner], error) {
	var items []*Partner
	for _, p := range r.partners {
		if partnerType != nil && p.Type != *partnerType {
			continue
		}
		items = append(items, p)
	}
	return domain.ListResult[*Partner]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *fakePartnerRepo) Exists(ctx context.Context, partnerID id.ID) (bool, error) {
	_, ok := r.partners[partnerID]
	return ok, nil
}

func (r *fakePartnerRepo) UpdateBalances(ctx context.Context, partnerID id.ID, balance, paid, left types.Money) (*Partner, error) {
	p, ok := r.partners[partnerID]
	if !ok {
		return nil, apperror.NewNotFound("Partner", partnerID.String())
	}
	p.Balance, p.Paid, p.Left = balance, paid, left
	return p, nil
}

func TestParseTypeFilter(t *testing.T) {
	customer := TypeCustomer
	supplier := TypeSupplier

	tests := []struct {
		value   string
		want    *Type
		wantErr bool
	}{
		{"", nil, false},
		{"customer", &customer, false},
		{"Customer", &customer, false},
		{"sales", &customer, false},
		{"supplier", &supplier, false},
		{"Supplier", &supplier, false},
		{"purchases", &supplier, false},
		{"wholesale", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseTypeFilter(tt.value)
			if tt.wantErr {
				appErr, ok := apperror.AsAppError(err)
				if !ok || appErr.Code != apperror.CodeValidation {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("expected nil filter, got %v", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("expected %v, got %v", *tt.want, got)
			}
		})
	}
}

func TestCreate_ForcesZeroBalances(t *testing.T) {
	repo := newFakePartnerRepo()
	svc := NewService(repo, fakeTxManager{})

	p := NewPartner("Acme Retail", "+1 555 0100", TypeCustomer)
	p.Balance = types.NewMoneyFromInt(999)
	p.Paid = types.NewMoneyFromInt(500)
	p.Left = types.NewMoneyFromInt(499)

	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !p.Balance.IsZero() || !p.Paid.IsZero() || !p.Left.IsZero() {
		t.Errorf("balance figures must start at zero, got %s/%s/%s", p.Balance, p.Paid, p.Left)
	}
}

func TestUpdate_PreservesStoredBalances(t *testing.T) {
	repo := newFakePartnerRepo()
	svc := NewService(repo, fakeTxManager{})
	ctx := context.Background()

	p := NewPartner("Acme Retail", "+1 555 0100", TypeCustomer)
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Simulate the ledger recalculation writing real figures.
	if _, err := repo.UpdateBalances(ctx, p.ID,
		types.NewMoneyFromInt(100), types.NewMoneyFromInt(40), types.NewMoneyFromInt(60)); err != nil {
		t.Fatalf("update balances: %v", err)
	}

	update := *p
	update.Name = "Acme Retail Ltd"
	update.Balance = types.NewMoneyFromInt(1)
	update.Paid = types.NewMoneyFromInt(1)
	update.Left = types.NewMoneyFromInt(1)

	if err := svc.Update(ctx, &update); err != nil {
		t.Fatalf("update: %v", err)
	}

	if !update.Balance.Equal(types.NewMoneyFromInt(100)) ||
		!update.Paid.Equal(types.NewMoneyFromInt(40)) ||
		!update.Left.Equal(types.NewMoneyFromInt(60)) {
		t.Errorf("client-sent balances must be discarded, got %s/%s/%s",
			update.Balance, update.Paid, update.Left)
	}
}

func TestListByType_Filters(t *testing.T) {
	repo := newFakePartnerRepo()
	svc := NewService(repo, fakeTxManager{})
	ctx := context.Background()

	if err := svc.Create(ctx, NewPartner("Acme", "+1", TypeCustomer)); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if err := svc.Create(ctx, NewPartner("Globex", "+2", TypeSupplier)); err != nil {
		t.Fatalf("create supplier: %v", err)
	}

	supplier := TypeSupplier
	result, err := svc.ListByType(ctx, domain.ListFilter{Limit: 10}, &supplier)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.TotalCount != 1 || result.Items[0].Type != TypeSupplier {
		t.Errorf("expected only the supplier, got %d items", result.TotalCount)
	}
}
