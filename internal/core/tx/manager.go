// Package tx defines the transaction-management contract used by the
// domain services. Ledger writes, balance recalculation and stock
// checks all run under one Manager so the services never know which
// database sits underneath.
package tx

import (
	"context"
)

// Manager runs a function inside a database transaction.
// The postgres implementation lives in infrastructure/storage/postgres.
type Manager interface {
	// RunInTransaction executes fn within a transaction. An error from
	// fn rolls the transaction back; nil commits it. Nested calls reuse
	// the transaction already carried by ctx.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds read-only transactions for aggregation queries
// (stock folds, partner statements) that must see a consistent snapshot
// without taking write locks.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction. Writes inside
	// fn fail.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
