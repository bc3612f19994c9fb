package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/observability"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountReader
	metrics       *observability.Metrics
	timeout       time.Duration
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportTimeout bounds every report. Zero means no bound beyond the caller's context.
func WithReportTimeout(d time.Duration) ReportingServiceOption {
	return func(s *reportingService) {
		s.timeout = d
	}
}

// WithReportingMetrics records report durations.
func WithReportingMetrics(m *observability.Metrics) ReportingServiceOption {
	return func(s *reportingService) {
		s.metrics = m
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, accountRepo portsrepo.AccountReader, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
		accountRepo:   accountRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// begin applies the report timeout and validates the filter.
func (s *reportingService) begin(ctx context.Context, filter domain.ReportFilter) (context.Context, context.CancelFunc, error) {
	if err := filter.DateRange.Validate(); err != nil {
		return ctx, func() {}, err
	}
	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		return ctx, cancel, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	return ctx, cancel, nil
}

// fail turns a failed read into the error returned to the caller. When the
// report context expired the context error wins, so callers can tell a
// timeout from a storage fault.
func (s *reportingService) fail(ctx context.Context, report string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		s.LogWarn(ctx, "Report aborted", slog.String("report", report), slog.String("error", ctxErr.Error()))
		return fmt.Errorf("%s report aborted: %w", report, ctxErr)
	}
	if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
		s.LogError(ctx, err, "Failed to build report", slog.String("report", report))
	}
	return err
}

func (s *reportingService) movements(ctx context.Context, report string, filter domain.ReportFilter) ([]domain.AccountMovement, error) {
	movements, err := s.reportingRepo.GetAccountMovements(ctx, filter)
	if err != nil {
		return nil, s.fail(ctx, report, err)
	}
	// A read that raced the deadline must not be reported as complete.
	if err := ctx.Err(); err != nil {
		return nil, s.fail(ctx, report, err)
	}
	return movements, nil
}

func (s *reportingService) done(ctx context.Context, report string, start time.Time, keyvals ...any) {
	elapsed := time.Since(start)
	s.metrics.ObserveReport(report, elapsed)
	args := append([]any{slog.String("report", report), slog.Duration("elapsed", elapsed)}, keyvals...)
	s.LogInfo(ctx, "Report generated", args...)
}

// AccountBalance returns the raw balance of one account. Unknown accounts are NotFound.
func (s *reportingService) AccountBalance(ctx context.Context, accountID string, filter domain.ReportFilter) (*domain.AccountBalance, error) {
	const report = "account_balance"
	ctx, cancel, err := s.begin(ctx, filter)
	defer cancel()
	if err != nil {
		return nil, err
	}
	start := time.Now()

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, s.fail(ctx, report, err)
	}

	filter.AccountID = &account.AccountID
	movements, err := s.movements(ctx, report, filter)
	if err != nil {
		return nil, err
	}

	balance := accounting.ToAccountBalance(domain.AccountMovement{
		AccountID:   account.AccountID,
		Code:        account.Code,
		Name:        account.Name,
		AccountType: account.AccountType,
		Nature:      account.Nature,
		Subtype:     account.Subtype,
	})
	for _, m := range movements {
		if m.AccountID == account.AccountID {
			balance = accounting.ToAccountBalance(m)
		}
	}

	s.done(ctx, report, start, slog.String("account_id", accountID))
	return &balance, nil
}

func (s *reportingService) AccountBalances(ctx context.Context, filter domain.ReportFilter) ([]domain.AccountBalance, error) {
	const report = "account_balances"
	ctx, cancel, err := s.begin(ctx, filter)
	defer cancel()
	if err != nil {
		return nil, err
	}
	start := time.Now()

	movements, err := s.movements(ctx, report, filter)
	if err != nil {
		return nil, err
	}
	balances := accounting.BuildAccountBalances(movements)

	s.done(ctx, report, start, slog.Int("row_count", len(balances)))
	return balances, nil
}

func (s *reportingService) TrialBalance(ctx context.Context, filter domain.ReportFilter) (*domain.TrialBalanceReport, error) {
	const report = "trial_balance"
	ctx, cancel, err := s.begin(ctx, filter)
	defer cancel()
	if err != nil {
		return nil, err
	}
	start := time.Now()

	movements, err := s.movements(ctx, report, filter)
	if err != nil {
		return nil, err
	}
	tb := accounting.BuildTrialBalance(movements)
	if !tb.Balanced {
		s.LogWarn(ctx, "Trial balance does not close",
			slog.String("total_debit", tb.TotalDebit.String()),
			slog.String("total_credit", tb.TotalCredit.String()))
	}

	s.done(ctx, report, start, slog.Int("row_count", len(tb.Rows)))
	return &tb, nil
}

func (s *reportingService) GeneralLedger(ctx context.Context, filter domain.ReportFilter) (*domain.GeneralLedgerReport, error) {
	const report = "general_ledger"
	ctx, cancel, err := s.begin(ctx, filter)
	defer cancel()
	if err != nil {
		return nil, err
	}
	start := time.Now()

	if filter.AccountID != nil {
		if _, err := s.accountRepo.FindAccountByID(ctx, *filter.AccountID); err != nil {
			return nil, s.fail(ctx, report, err)
		}
	}

	lines, err := s.reportingRepo.GetLedgerLines(ctx, filter)
	if err != nil {
		return nil, s.fail(ctx, report, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, s.fail(ctx, report, err)
	}
	gl := accounting.BuildGeneralLedger(lines)

	s.done(ctx, report, start, slog.Int("account_count", len(gl.Accounts)), slog.Int("line_count", len(lines)))
	return &gl, nil
}

// JournalBook lists every active entry in the range in chronological order.
// An account filter does not apply: entries are always shown whole.
func (s *reportingService) JournalBook(ctx context.Context, filter domain.ReportFilter) (*domain.JournalBookReport, error) {
	const report = "journal_book"
	filter.AccountID = nil
	ctx, cancel, err := s.begin(ctx, filter)
	defer cancel()
	if err != nil {
		return nil, err
	}
	start := time.Now()

	lines, err := s.reportingRepo.GetLedgerLines(ctx, filter)
	if err != nil {
		return nil, s.fail(ctx, report, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, s.fail(ctx, report, err)
	}
	jb := accounting.BuildJournalBook(lines)

	s.done(ctx, report, start, slog.Int("entry_count", len(jb.Entries)), slog.Int("line_count", len(lines)))
	return &jb, nil
}

// BalanceSheet is cumulative: only the upper bound of the range applies.
func (s *reportingService) BalanceSheet(ctx context.Context, filter domain.ReportFilter) (*domain.BalanceSheetReport, error) {
	const report = "balance_sheet"
	filter.DateRange.From = nil
	filter.AccountID = nil
	ctx, cancel, err := s.begin(ctx, filter)
	defer cancel()
	if err != nil {
		return nil, err
	}
	start := time.Now()

	movements, err := s.movements(ctx, report, filter)
	if err != nil {
		return nil, err
	}
	bs := accounting.BuildBalanceSheet(movements)
	bs.AsOf = filter.DateRange.To
	if !bs.Balanced {
		s.LogWarn(ctx, "Balance sheet does not balance",
			slog.String("total_assets", bs.TotalAssets.String()),
			slog.String("total_liabilities_and_equity", bs.TotalLiabilitiesAndEquity.String()))
	}

	s.done(ctx, report, start)
	return &bs, nil
}

func (s *reportingService) IncomeStatement(ctx context.Context, filter domain.ReportFilter) (*domain.IncomeStatementReport, error) {
	const report = "income_statement"
	filter.AccountID = nil
	ctx, cancel, err := s.begin(ctx, filter)
	defer cancel()
	if err != nil {
		return nil, err
	}
	start := time.Now()

	movements, err := s.movements(ctx, report, filter)
	if err != nil {
		return nil, err
	}
	is := accounting.BuildIncomeStatement(movements)

	s.done(ctx, report, start, slog.String("net_income", is.NetIncome.String()))
	return &is, nil
}

// VerifyIntegrity cross-checks stored entry totals against their postings.
func (s *reportingService) VerifyIntegrity(ctx context.Context, companyID *string) (*domain.IntegrityReport, error) {
	const report = "integrity"
	ctx, cancel, err := s.begin(ctx, domain.ReportFilter{CompanyID: companyID})
	defer cancel()
	if err != nil {
		return nil, err
	}
	start := time.Now()

	totals, err := s.reportingRepo.GetEntryTotals(ctx, companyID)
	if err != nil {
		return nil, s.fail(ctx, report, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, s.fail(ctx, report, err)
	}
	ir := accounting.BuildIntegrityReport(totals)
	if !ir.OK {
		s.LogWarn(ctx, "Ledger integrity issues found", slog.Int("issue_count", len(ir.Issues)))
	}

	s.done(ctx, report, start, slog.Int("checked_entries", ir.CheckedEntries))
	return &ir, nil
}
