package serial

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2025, 9, 1, 10, 30, 0, 0, time.UTC)
}

func TestGenerator_New_Format(t *testing.T) {
	g := NewGenerator("txn", WithClock(fixedClock))

	s, err := g.New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	pattern := regexp.MustCompile(`^TXN-20250901-[A-HJ-NP-Z2-9]{6}$`)
	if !pattern.MatchString(s) {
		t.Errorf("serial %q does not match expected format", s)
	}
}

func TestGenerator_New_SuffixLength(t *testing.T) {
	g := NewGenerator("TXN", WithClock(fixedClock), WithSuffixLength(10))

	s, err := g.New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %d in %q", len(parts), s)
	}
	if len(parts[2]) != 10 {
		t.Errorf("suffix length mismatch: want 10, got %d", len(parts[2]))
	}
}

func TestGenerator_Next_RetriesOnCollision(t *testing.T) {
	g := NewGenerator("TXN", WithClock(fixedClock))

	calls := 0
	exists := func(ctx context.Context, serial string) (bool, error) {
		calls++
		// First two candidates collide, third is free.
		return calls < 3, nil
	}

	s, err := g.Next(context.Background(), exists)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if s == "" {
		t.Fatal("expected non-empty serial")
	}
	if calls != 3 {
		t.Errorf("expected 3 uniqueness checks, got %d", calls)
	}
}

func TestGenerator_Next_Exhausted(t *testing.T) {
	g := NewGenerator("TXN", WithClock(fixedClock), WithMaxAttempts(3))

	exists := func(ctx context.Context, serial string) (bool, error) {
		return true, nil
	}

	_, err := g.Next(context.Background(), exists)
	if err != ErrExhausted {
		t.Errorf("expected ErrExhausted, got %v", err)
	}
}

func TestGenerator_Next_ExistsError(t *testing.T) {
	g := NewGenerator("TXN", WithClock(fixedClock))

	exists := func(ctx context.Context, serial string) (bool, error) {
		return false, fmt.Errorf("db down")
	}

	_, err := g.Next(context.Background(), exists)
	if err == nil {
		t.Fatal("expected error from exists check")
	}
}

func TestGenerator_New_Distinct(t *testing.T) {
	g := NewGenerator("TXN", WithClock(fixedClock))

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s, err := g.New()
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		seen[s] = true
	}

	// 100 draws from a 31^6 space should effectively never collide.
	if len(seen) < 99 {
		t.Errorf("too many duplicate serials: %d unique of 100", len(seen))
	}
}
