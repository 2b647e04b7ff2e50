package postgres

import (
	"context"

	"stockflow/internal/core/id"
	"stockflow/internal/domain/ledger"
)

var _ ledger.Auditor = (*LedgerAudit)(nil)

// LedgerAudit adapts the audit service to the ledger's auditor contract.
type LedgerAudit struct {
	audit *AuditService
}

func NewLedgerAudit(audit *AuditService) *LedgerAudit {
	return &LedgerAudit{audit: audit}
}

func (a *LedgerAudit) Record(ctx context.Context, entryID id.ID, action string, changes map[string]any) error {
	return a.audit.LogChange(ctx, "transaction", entryID, AuditAction(action), changes)
}
