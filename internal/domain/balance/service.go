// Package balance maintains the cached partner balance figures. The cache
// is refreshed synchronously after every ledger mutation referencing a
// partner; the ledger fold is the only source the figures ever come from.
package balance

import (
	"context"
	"fmt"

	"stockflow/internal/core/id"
	"stockflow/internal/core/types"
	"stockflow/internal/domain/catalogs/partner"
	"stockflow/internal/domain/ledger"
	"stockflow/pkg/logger"
)

// Ledger is the signed fold backing partner balances: return entries
// contribute balance and paid negated, everything else as stored.
type Ledger interface {
	SignedPartnerTotals(ctx context.Context, partnerID id.ID) (ledger.Totals, error)
}

// PartnerStore persists recomputed figures onto the partner record.
type PartnerStore interface {
	UpdateBalances(ctx context.Context, partnerID id.ID, balance, paid, left types.Money) (*partner.Partner, error)
}

// Service recomputes and persists partner balances.
type Service struct {
	ledger   Ledger
	partners PartnerStore
}

// NewService creates the balance service.
func NewService(ledgerRepo Ledger, partners PartnerStore) *Service {
	return &Service{ledger: ledgerRepo, partners: partners}
}

// Recalculate folds every ledger entry of the given partner and overwrites
// the partner's cached balance, paid and left with the result. Returns the
// updated partner record. A nil or nil-valued partnerID is a no-op
// returning nil: anonymous entries have nobody to recalculate.
func (s *Service) Recalculate(ctx context.Context, partnerID *id.ID) (*partner.Partner, error) {
	if partnerID == nil || id.IsNil(*partnerID) {
		return nil, nil
	}

	totals, err := s.ledger.SignedPartnerTotals(ctx, *partnerID)
	if err != nil {
		return nil, fmt.Errorf("fold partner %s ledger: %w", partnerID, err)
	}

	left := totals.Balance.Sub(totals.Paid)
	updated, err := s.partners.UpdateBalances(ctx, *partnerID, totals.Balance, totals.Paid, left)
	if err != nil {
		return nil, fmt.Errorf("persist partner %s balances: %w", partnerID, err)
	}

	logger.Debug(ctx, "partner balances recalculated",
		"partnerId", partnerID.String(),
		"balance", totals.Balance,
		"paid", totals.Paid,
		"left", left)

	return updated, nil
}
