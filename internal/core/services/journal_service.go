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
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/observability"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/google/uuid"
)

// DefaultPostEntryAttempts is how many times a post is tried when sequence
// assignment conflicts with a concurrent writer.
const DefaultPostEntryAttempts = 3

// journalService validates proposed entries and hands them to the ledger store.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	companyRepo portsrepo.CompanyRepository
	metrics     *observability.Metrics
	maxAttempts int
	retryDelay  time.Duration
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithCompanyRepository enables company scope checks on posted entries.
func WithCompanyRepository(repo portsrepo.CompanyRepository) JournalServiceOption {
	return func(s *journalService) {
		s.companyRepo = repo
	}
}

// WithJournalMetrics records posted and rejected entries.
func WithJournalMetrics(m *observability.Metrics) JournalServiceOption {
	return func(s *journalService) {
		s.metrics = m
	}
}

// WithPostEntryMaxAttempts sets how many times a conflicting post is retried.
func WithPostEntryMaxAttempts(n int) JournalServiceOption {
	return func(s *journalService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithJournalClock overrides the clock used for audit fields.
func WithJournalClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.now = now
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		maxAttempts: DefaultPostEntryAttempts,
		retryDelay:  10 * time.Millisecond,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// PostEntry validates the request against the chart of accounts and persists it
// atomically. Sequence conflicts with concurrent writers are retried.
func (s *journalService) PostEntry(ctx context.Context, req dto.PostEntryRequest, userID string) (*domain.JournalEntry, error) {
	proposal := req.ToProposal()

	accounts := map[string]domain.Account{}
	if ids := accounting.AccountIDs(proposal.Lines); len(ids) > 0 {
		found, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
		if err != nil {
			s.LogError(ctx, err, "Failed to resolve posting accounts", slog.Any("account_ids", ids))
			s.reject(err)
			return nil, err
		}
		accounts = found
	}

	validated, err := accounting.ValidateEntry(proposal, accounts)
	if err != nil {
		s.LogDebug(ctx, "Journal entry rejected", slog.String("error", err.Error()))
		s.reject(err)
		return nil, err
	}

	if err := s.checkCompany(ctx, proposal.CompanyID); err != nil {
		s.reject(err)
		return nil, err
	}

	entry := s.buildEntry(*validated, userID)

	var saved *domain.JournalEntry
	for attempt := 1; ; attempt++ {
		saved, err = s.journalRepo.PostEntry(ctx, entry)
		if err == nil {
			break
		}
		var conflict *apperrors.SequenceConflictError
		if !errors.As(err, &conflict) || attempt >= s.maxAttempts {
			break
		}
		s.LogWarn(ctx, "Sequence conflict while posting entry, retrying",
			slog.String("entry_id", entry.EntryID),
			slog.Int("attempt", attempt))
		select {
		case <-ctx.Done():
			err = ctx.Err()
		case <-time.After(time.Duration(attempt) * s.retryDelay):
			continue
		}
		break
	}
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to post journal entry", slog.String("entry_id", entry.EntryID))
		}
		s.reject(err)
		return nil, err
	}

	s.metrics.EntryPosted()
	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", saved.EntryID),
		slog.Int64("sequence_number", saved.SequenceNumber),
		slog.String("total", saved.TotalDebit.StringFixed(accounting.AmountScale)))
	return saved, nil
}

func (s *journalService) checkCompany(ctx context.Context, companyID *string) error {
	if companyID == nil || s.companyRepo == nil {
		return nil
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, *companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &apperrors.UnknownCompanyError{CompanyID: *companyID}
		}
		s.LogError(ctx, err, "Failed to resolve company", slog.String("company_id", *companyID))
		return err
	}
	if !company.IsActive {
		return &apperrors.UnknownCompanyError{CompanyID: *companyID}
	}
	return nil
}

func (s *journalService) buildEntry(v domain.ValidatedEntry, userID string) domain.JournalEntry {
	now := s.Now()
	entryID := uuid.NewString()
	postings := make([]domain.Posting, len(v.Proposal.Lines))
	for i, line := range v.Proposal.Lines {
		postings[i] = domain.Posting{
			PostingID: uuid.NewString(),
			EntryID:   entryID,
			LineNo:    i + 1,
			AccountID: line.AccountID,
			Debit:     line.Debit,
			Credit:    line.Credit,
			Memo:      line.Memo,
		}
	}
	return domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   v.Proposal.EntryDate,
		Memo:        v.Proposal.Memo,
		Reference:   v.Proposal.Reference,
		CompanyID:   v.Proposal.CompanyID,
		TotalDebit:  v.TotalDebit,
		TotalCredit: v.TotalCredit,
		Status:      domain.EntryActive,
		PostedBy:    userID,
		Postings:    postings,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}

func (s *journalService) reject(err error) {
	s.metrics.EntryRejected(rejectionReason(err))
}

// rejectionReason maps an error to a low-cardinality metric label.
func rejectionReason(err error) string {
	var (
		missing    *apperrors.MissingFieldError
		lines      *apperrors.InsufficientLinesError
		empty      *apperrors.EmptyLineError
		amount     *apperrors.InvalidAmountError
		account    *apperrors.UnknownAccountError
		company    *apperrors.UnknownCompanyError
		unbalanced *apperrors.UnbalancedEntryError
		conflict   *apperrors.SequenceConflictError
	)
	switch {
	case errors.As(err, &missing):
		return "missing_field"
	case errors.As(err, &lines):
		return "insufficient_lines"
	case errors.As(err, &empty):
		return "empty_line"
	case errors.As(err, &amount):
		return "invalid_amount"
	case errors.As(err, &account):
		return "unknown_account"
	case errors.As(err, &company):
		return "unknown_company"
	case errors.As(err, &unbalanced):
		return "unbalanced"
	case errors.As(err, &conflict):
		return "sequence_conflict"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, apperrors.ErrStorage):
		return "storage"
	}
	return "other"
}

func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *journalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	filter, err := params.ToFilter()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if err := filter.DateRange.Validate(); err != nil {
		return nil, err
	}
	filter.Limit = pagination.NormalizeLimit(filter.Limit)

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, filter)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list journal entries")
		}
		return nil, err
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	s.LogDebug(ctx, "Journal entries listed", slog.Int("count", len(entries)))
	return &dto.ListEntriesResponse{Entries: entries, NextToken: nextToken}, nil
}

// VoidEntry flips an entry to VOIDED. Its sequence number stays allocated.
func (s *journalService) VoidEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.VoidEntry(ctx, entryID, userID, s.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to void journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Journal entry voided",
		slog.String("entry_id", entryID),
		slog.Int64("sequence_number", entry.SequenceNumber),
		slog.String("user_id", userID))
	return entry, nil
}

// DeleteEntry removes an entry and its postings. The counter is never rewound.
func (s *journalService) DeleteEntry(ctx context.Context, entryID string, userID string) error {
	if err := s.journalRepo.DeleteEntry(ctx, entryID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete journal entry", slog.String("entry_id", entryID))
		}
		return err
	}
	s.LogInfo(ctx, "Journal entry deleted", slog.String("entry_id", entryID), slog.String("user_id", userID))
	return nil
}
