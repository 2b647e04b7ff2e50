// Package ledger implements the transaction ledger: the single source of
// truth for stock movements and partner accounting. Product quantities and
// partner balances elsewhere in the system are projections of this ledger.
package ledger

import (
	"context"
	"fmt"

	"stockflow/internal/core/apperror"
	"stockflow/internal/core/entity"
	"stockflow/internal/core/id"
	"stockflow/internal/core/types"
)

const (
	maxNoteLength = 500

	// SerialPrefix is the prefix of generated serial numbers.
	SerialPrefix = "TXN"
)

// Type discriminates ledger entries. Each type carries its own
// required-field contract and its own effect on stock and balances.
type Type string

const (
	TypeSales            Type = "sales"
	TypePurchases        Type = "purchases"
	TypeReturnSales      Type = "return_sales"
	TypeReturnPurchases  Type = "return_purchases"
	TypeDepositSuppliers Type = "deposit_suppliers"
	TypeDepositCustomers Type = "deposit_customers"
)

// AllTypes lists every valid entry type.
var AllTypes = []Type{
	TypeSales,
	TypePurchases,
	TypeReturnSales,
	TypeReturnPurchases,
	TypeDepositSuppliers,
	TypeDepositCustomers,
}

// IsValid reports whether t is a known entry type.
func (t Type) IsValid() bool {
	switch t {
	case TypeSales, TypePurchases, TypeReturnSales, TypeReturnPurchases,
		TypeDepositSuppliers, TypeDepositCustomers:
		return true
	}
	return false
}

// IsReturn reports whether t reverses an earlier entry.
func (t Type) IsReturn() bool {
	return t == TypeReturnSales || t == TypeReturnPurchases
}

// IsDeposit reports whether t is a money-only movement with no product lines.
func (t Type) IsDeposit() bool {
	return t == TypeDepositSuppliers || t == TypeDepositCustomers
}

// RequiresPartner reports whether entries of this type must reference a partner.
// Sales may be anonymous (walk-in customers); purchases and deposits may not.
func (t Type) RequiresPartner() bool {
	return t == TypePurchases || t.IsDeposit()
}

// RequiresProducts reports whether entries of this type must carry product lines.
func (t Type) RequiresProducts() bool {
	return t == TypeSales || t == TypePurchases
}

// StockEffect returns the sign each product line of this type contributes to
// derived stock: +1 for inflows (purchases, returned sales), -1 for outflows
// (sales, returned purchases), 0 for deposits.
func (t Type) StockEffect() int64 {
	switch t {
	case TypePurchases, TypeReturnSales:
		return 1
	case TypeSales, TypeReturnPurchases:
		return -1
	}
	return 0
}

// BalanceSign returns the sign this type contributes to the partner balance
// fold: returns reverse the original movement, so they count negative.
func (t Type) BalanceSign() int64 {
	if t.IsReturn() {
		return -1
	}
	return 1
}

// ReturnType maps an original entry type to the type of its return entry.
// Only sales and purchases are returnable.
func (t Type) ReturnType() (Type, bool) {
	switch t {
	case TypeSales:
		return TypeReturnSales, true
	case TypePurchases:
		return TypeReturnPurchases, true
	}
	return "", false
}

// Line is a single product movement within an entry. Prices are snapshots
// taken at write time: later product price changes never rewrite history.
type Line struct {
	// LineNo orders lines within an entry, starting at 1
	LineNo int `db:"line_no" json:"-"`

	ProductID id.ID `db:"product_id" json:"productId"`

	Quantity int64 `db:"quantity" json:"quantity"`

	// CostPrice is the per-unit cost at entry time
	CostPrice types.Money `db:"cost_price" json:"costPrice"`

	// SellingPrice is the per-unit selling price at entry time
	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`

	// Joined from the product catalog on reads, never persisted here
	ProductName string `db:"-" json:"productName,omitempty"`
	ProductSKU  string `db:"-" json:"productSku,omitempty"`
}

// Entry is a ledger entry. Core fields (type, partner, lines) are immutable
// once written; only balance, paid and note may change afterwards.
type Entry struct {
	entity.BaseEntity

	// SerialNumber is the unique human-facing identifier
	SerialNumber string `db:"serial_number" json:"serialNumber"`

	Type Type `db:"transaction_type" json:"transactionType"`

	// PartnerID is nil for anonymous sales
	PartnerID *id.ID `db:"partner_id" json:"partnerId,omitempty"`

	// Balance is the total transacted amount
	Balance types.Money `db:"balance" json:"balance"`

	// Paid is the amount settled at entry time
	Paid types.Money `db:"paid" json:"paid"`

	// Left is balance - paid, fixed at write time
	Left types.Money `db:"left_amount" json:"left"`

	Note string `db:"note" json:"note,omitempty"`

	// OriginalID references the reversed entry; set only on return types
	OriginalID *id.ID `db:"original_transaction_id" json:"originalTransactionId,omitempty"`

	// Lines live in a child table
	Lines []Line `db:"-" json:"products"`

	// Joined from the partner catalog on reads
	PartnerName string `db:"-" json:"partnerName,omitempty"`
	PartnerType string `db:"-" json:"partnerType,omitempty"`
}

// NewEntry creates a ledger entry with derived Left and numbered lines.
func NewEntry(entryType Type, partnerID *id.ID, lines []Line, balance, paid types.Money, note string) *Entry {
	for i := range lines {
		lines[i].LineNo = i + 1
	}
	return &Entry{
		BaseEntity: entity.NewBaseEntity(),
		Type:       entryType,
		PartnerID:  partnerID,
		Balance:    balance,
		Paid:       paid,
		Left:       balance.Sub(paid),
		Note:       note,
		Lines:      lines,
	}
}

// TotalQuantity sums line quantities.
func (e *Entry) TotalQuantity() int64 {
	var total int64
	for _, l := range e.Lines {
		total += l.Quantity
	}
	return total
}

// Validate implements entity.Validatable interface.
func (e *Entry) Validate(ctx context.Context) error {
	if !e.Type.IsValid() {
		return apperror.NewValidation("invalid transaction type").
			WithDetail("field", "transactionType").
			WithDetail("value", string(e.Type))
	}

	if e.Balance.IsNegative() {
		return apperror.NewValidation("balance cannot be negative").
			WithDetail("field", "balance")
	}

	if e.Paid.IsNegative() {
		return apperror.NewValidation("paid cannot be negative").
			WithDetail("field", "paid")
	}

	// Deposits and returns may legitimately carry paid exceeding balance
	// (prepayments, refunds settled elsewhere); sales and purchases may not.
	if e.Type.RequiresProducts() && e.Paid.GreaterThan(e.Balance) {
		return apperror.NewValidation("paid amount cannot exceed balance").
			WithDetail("balance", e.Balance).
			WithDetail("paid", e.Paid)
	}

	if e.Type.RequiresPartner() && e.PartnerID == nil {
		return apperror.NewValidation(fmt.Sprintf("partner is required for %s transactions", e.Type)).
			WithDetail("field", "partnerId")
	}

	if e.Type.RequiresProducts() && len(e.Lines) == 0 {
		return apperror.NewValidation(fmt.Sprintf("at least one product is required for %s transactions", e.Type)).
			WithDetail("field", "products")
	}

	if e.Type.IsReturn() && e.OriginalID == nil {
		return apperror.NewValidation("original transaction reference is required for returns").
			WithDetail("field", "originalTransactionId")
	}

	for i, line := range e.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product id is required").
				WithDetail("line", i+1)
		}
		if line.Quantity < 1 {
			return apperror.NewValidation("quantity must be at least 1").
				WithDetail("line", i+1).
				WithDetail("productId", line.ProductID.String())
		}
		if line.CostPrice.IsNegative() || line.SellingPrice.IsNegative() {
			return apperror.NewValidation("prices cannot be negative").
				WithDetail("line", i+1).
				WithDetail("productId", line.ProductID.String())
		}
	}

	if len(e.Note) > maxNoteLength {
		return apperror.NewValidation("note cannot exceed 500 characters").
			WithDetail("field", "note")
	}

	return nil
}
