// Package serial generates human-readable serial numbers for ledger entries.
// Format: {PREFIX}-{YYYYMMDD}-{RANDOM}, e.g. "TXN-20250901-4K7PQ2".
package serial

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

// Ambiguous characters (0/O, 1/I/L) are excluded from the suffix alphabet.
const suffixAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// DefaultSuffixLength is the number of random characters in a serial.
const DefaultSuffixLength = 6

// ErrExhausted is returned when a unique serial could not be produced
// within the configured number of attempts.
var ErrExhausted = fmt.Errorf("serial: exhausted unique generation attempts")

// ExistsFunc reports whether a candidate serial is already taken.
type ExistsFunc func(ctx context.Context, serial string) (bool, error)

// Generator produces serial numbers with a fixed prefix.
type Generator struct {
	prefix       string
	suffixLength int
	maxAttempts  int
	now          func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithSuffixLength overrides the random suffix length.
func WithSuffixLength(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.suffixLength = n
		}
	}
}

// WithMaxAttempts overrides the collision retry limit.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a Generator for the given prefix.
func NewGenerator(prefix string, opts ...Option) *Generator {
	g := &Generator{
		prefix:       strings.ToUpper(prefix),
		suffixLength: DefaultSuffixLength,
		maxAttempts:  5,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// New returns a single serial candidate without any uniqueness check.
func (g *Generator) New() (string, error) {
	suffix, err := randomSuffix(g.suffixLength)
	if err != nil {
		return "", fmt.Errorf("serial: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s", g.prefix, g.now().UTC().Format("20060102"), suffix), nil
}

// Next returns a serial that exists reports as free, retrying on collision.
// Returns ErrExhausted when every attempt collided.
func (g *Generator) Next(ctx context.Context, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		candidate, err := g.New()
		if err != nil {
			return "", err
		}

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("serial: check uniqueness: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}

// randomSuffix returns n characters drawn from suffixAlphabet using crypto/rand.
func randomSuffix(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = suffixAlphabet[int(buf[i])%len(suffixAlphabet)]
	}
	return string(buf), nil
}
