// Package id provides UUIDv7 identifiers for catalogs, transactions
// and expenses. UUIDv7 is time-ordered, so primary keys sort by
// creation time without an extra index.
package id

import (
	"github.com/google/uuid"
)

// ID identifies any persisted record.
type ID = uuid.UUID

// New generates a UUIDv7 (RFC 9562). The embedded Unix timestamp in
// the first 48 bits gives chronological ordering and good B-tree
// locality in PostgreSQL.
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// uuid.NewV7 only fails if the entropy source does;
		// fall back to V4 rather than propagate an error here.
		return uuid.New()
	}
	return id
}

// Parse converts a string to an ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts a string to an ID, panicking on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero-value ID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether id is the zero value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
