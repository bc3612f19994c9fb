package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ReportingService defines read-only financial reports. Every call either
// returns a complete report or an error.
type ReportingService interface {
	AccountBalance(ctx context.Context, accountID string, filter domain.ReportFilter) (*domain.AccountBalance, error)
	AccountBalances(ctx context.Context, filter domain.ReportFilter) ([]domain.AccountBalance, error)
	TrialBalance(ctx context.Context, filter domain.ReportFilter) (*domain.TrialBalanceReport, error)
	GeneralLedger(ctx context.Context, filter domain.ReportFilter) (*domain.GeneralLedgerReport, error)
	JournalBook(ctx context.Context, filter domain.ReportFilter) (*domain.JournalBookReport, error)
	BalanceSheet(ctx context.Context, filter domain.ReportFilter) (*domain.BalanceSheetReport, error)
	IncomeStatement(ctx context.Context, filter domain.ReportFilter) (*domain.IncomeStatementReport, error)
	VerifyIntegrity(ctx context.Context, companyID *string) (*domain.IntegrityReport, error)
}
