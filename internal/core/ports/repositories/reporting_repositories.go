package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ReportingRepository defines read-only aggregate queries over active entries
type ReportingRepository interface {
	// GetAccountMovements sums debits and credits per account for the filter,
	// returning only accounts with movement, ordered by code.
	GetAccountMovements(ctx context.Context, filter domain.ReportFilter) ([]domain.AccountMovement, error)

	// GetLedgerLines returns postings ordered by account code, entry date, sequence number and line.
	GetLedgerLines(ctx context.Context, filter domain.ReportFilter) ([]domain.LedgerLine, error)

	// GetEntryTotals returns stored header totals next to posting sums for every entry, in commit order.
	GetEntryTotals(ctx context.Context, companyID *string) ([]domain.EntryTotals, error)
}
