package ledger

import (
	"context"
	"time"

	"stockflow/internal/core/id"
	"stockflow/internal/core/types"
)

// ListFilter narrows ledger listings. All fields combine with AND.
type ListFilter struct {
	// Type restricts to a single entry type
	Type Type

	// Serial matches serial numbers case-insensitively (contains)
	Serial string

	// PartnerName matches partner names case-insensitively (contains)
	PartnerName string

	// ProductName matches entries containing a product whose name matches
	ProductName string

	// PartnerID restricts to a single partner
	PartnerID *id.ID

	// Date range on CreatedAt (inclusive start, exclusive end)
	StartDate *time.Time
	EndDate   *time.Time

	Limit  int
	Offset int
}

// DefaultListFilter returns the filter applied when the caller passes nothing.
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: 10}
}

// ListResult is a paginated slice of entries.
type ListResult struct {
	Items      []*Entry
	TotalCount int64
	Limit      int
	Offset     int
}

// StatsFilter narrows the per-type statistics aggregation.
type StatsFilter struct {
	ProductID *id.ID
	PartnerID *id.ID
	StartDate *time.Time
	EndDate   *time.Time
}

// TypeStat is the aggregate for one entry type: total units moved and the
// number of product lines (not entries) contributing them.
type TypeStat struct {
	Type          Type  `db:"transaction_type" json:"transactionType"`
	TotalQuantity int64 `db:"total_quantity" json:"totalQuantity"`
	Count         int64 `db:"line_count" json:"count"`
}

// Totals is a plain (unsigned) sum of balance and paid over a set of entries.
type Totals struct {
	Balance types.Money `db:"balance" json:"balance"`
	Paid    types.Money `db:"paid" json:"paid"`
	Left    types.Money `db:"left_amount" json:"left"`
}

// Repository defines the persistence interface for ledger entries.
//
// The fold methods (StockQuantities, SignedPartnerTotals, ReturnedQuantities)
// aggregate over the full ledger and back the derived projections exposed by
// the stock and balance services.
type Repository interface {
	// Create persists an entry together with its lines.
	Create(ctx context.Context, entry *Entry) error

	// GetByID retrieves an entry with lines and joined partner/product names.
	GetByID(ctx context.Context, entryID id.ID) (*Entry, error)

	// GetBySerial retrieves an entry by its exact serial number.
	GetBySerial(ctx context.Context, serial string) (*Entry, error)

	// Update persists mutable fields (balance, paid, left, note) with
	// optimistic version locking.
	Update(ctx context.Context, entry *Entry) error

	Delete(ctx context.Context, entryID id.ID) error

	// DeleteMany removes entries by ID, returning the removed count.
	DeleteMany(ctx context.Context, ids []id.ID) (int64, error)

	List(ctx context.Context, filter ListFilter) (ListResult, error)

	// DistinctPartners returns the distinct non-null partner IDs referenced
	// by the given entries. Used before bulk deletes to know whose cached
	// balances need refreshing.
	DistinctPartners(ctx context.Context, ids []id.ID) ([]id.ID, error)

	// ReturnedQuantities sums, per product, quantities already returned
	// against the given original entry.
	ReturnedQuantities(ctx context.Context, originalID id.ID) (map[id.ID]int64, error)

	// StockQuantities folds the ledger into current stock per product.
	// An empty ids slice folds over every product that ever moved.
	StockQuantities(ctx context.Context, ids []id.ID) (map[id.ID]int64, error)

	// SignedPartnerTotals folds every entry of one partner with return
	// types negated. This is the authoritative input for the cached
	// partner balance figures.
	SignedPartnerTotals(ctx context.Context, partnerID id.ID) (Totals, error)

	// PartnerTotals sums balance and paid over one partner's entries as
	// stored, without sign handling. Used for display alongside the
	// partner's transaction history.
	PartnerTotals(ctx context.Context, partnerID id.ID) (Totals, error)

	// Stats aggregates quantity and line counts per entry type.
	Stats(ctx context.Context, filter StatsFilter) ([]TypeStat, error)

	// SerialExists reports whether a serial number is already taken.
	SerialExists(ctx context.Context, serial string) (bool, error)
}
