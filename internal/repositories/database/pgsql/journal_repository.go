package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// entrySequenceCounter names the ledger_counters row that feeds sequence numbers.
const entrySequenceCounter = "journal_entry_sequence"

type PgxJournalRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
}

// newPgxJournalRepository creates the ledger store for journal entries and postings.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository) *PgxJournalRepository {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, sequence_number, entry_date, memo, reference, company_id,
	total_debit, total_credit, status, posted_by, voided_at, voided_by,
	created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.SequenceNumber,
		&m.EntryDate,
		&m.Memo,
		&m.Reference,
		&m.CompanyID,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.Status,
		&m.PostedBy,
		&m.VoidedAt,
		&m.VoidedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// NextSequenceNumber increments and returns the entry sequence counter inside tx.
// The upsert takes a row lock that is held until tx ends, so concurrent posters
// queue behind each other and can never observe the same value. A rolled-back
// transaction releases its increment; a committed one is never reused.
func (r *PgxJournalRepository) NextSequenceNumber(ctx context.Context, tx pgx.Tx) (int64, error) {
	query := `
		INSERT INTO ledger_counters (counter_name, last_value)
		VALUES ($1, 1)
		ON CONFLICT (counter_name) DO UPDATE SET last_value = ledger_counters.last_value + 1
		RETURNING last_value;
	`
	var seq int64
	if err := tx.QueryRow(ctx, query, entrySequenceCounter).Scan(&seq); err != nil {
		return 0, wrapErr("assign sequence number", err)
	}
	return seq, nil
}

// PostEntry persists an entry header and its postings in a single transaction.
// Referenced accounts are re-checked under a share lock, the sequence number is
// assigned, then the header and postings are written. Any failure rolls back
// every step.
func (r *PgxJournalRepository) PostEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	accountIDs := make([]string, 0, len(entry.Postings))
	seen := make(map[string]struct{}, len(entry.Postings))
	for _, p := range entry.Postings {
		if _, ok := seen[p.AccountID]; !ok {
			seen[p.AccountID] = struct{}{}
			accountIDs = append(accountIDs, p.AccountID)
		}
	}

	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		locked, err := r.accountRepo.lockAccountsForPosting(ctx, tx, accountIDs)
		if err != nil {
			return err
		}
		for _, id := range accountIDs {
			acc, ok := locked[id]
			if !ok {
				return &apperrors.UnknownAccountError{AccountID: id}
			}
			if !acc.IsActive {
				return &apperrors.UnknownAccountError{AccountID: id, Inactive: true}
			}
		}

		seq, err := r.NextSequenceNumber(ctx, tx)
		if err != nil {
			return err
		}
		entry.SequenceNumber = seq

		m := mapping.ToModelJournalEntry(entry)
		headerQuery := `
			INSERT INTO journal_entries (` + entryColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
		`
		_, err = tx.Exec(ctx, headerQuery,
			m.EntryID,
			m.SequenceNumber,
			m.EntryDate,
			m.Memo,
			m.Reference,
			m.CompanyID,
			m.TotalDebit,
			m.TotalCredit,
			m.Status,
			m.PostedBy,
			m.VoidedAt,
			m.VoidedBy,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			return mapEntryWriteErr(err, entry)
		}

		batch := &pgx.Batch{}
		postingQuery := `
			INSERT INTO postings (posting_id, entry_id, line_no, account_id, debit, credit, memo)
			VALUES ($1, $2, $3, $4, $5, $6, $7);
		`
		for i := range entry.Postings {
			p := &entry.Postings[i]
			p.EntryID = entry.EntryID
			acc := locked[p.AccountID]
			p.AccountCode = acc.Code
			p.AccountName = acc.Name
			mp := mapping.ToModelPosting(*p)
			batch.Queue(postingQuery, mp.PostingID, mp.EntryID, mp.LineNo, mp.AccountID, mp.Debit, mp.Credit, mp.Memo)
		}

		// Close reports the first failing insert of the batch.
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			if code, _ := pgErrorCode(err); code == pgNumericOutOfRange {
				return fmt.Errorf("%w: posting amount out of range for entry %s", apperrors.ErrValidation, entry.EntryID)
			}
			return wrapErrf(err, "insert postings for entry %s", entry.EntryID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func mapEntryWriteErr(err error, entry domain.JournalEntry) error {
	code, constraint := pgErrorCode(err)
	switch {
	case code == pgUniqueViolation && constraint == "journal_entries_sequence_number_key":
		return &apperrors.SequenceConflictError{Cause: err}
	case code == pgForeignKeyViolation && entry.CompanyID != nil:
		return &apperrors.UnknownCompanyError{CompanyID: *entry.CompanyID}
	case code == pgNumericOutOfRange:
		return &apperrors.InvalidAmountError{Amount: entry.TotalDebit, Reason: "entry total out of storable range"}
	}
	return wrapErrf(err, "insert journal entry %s", entry.EntryID)
}

// FindEntryByID retrieves an entry and its postings.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("journal entry", entryID)
		}
		return nil, wrapErrf(err, "find journal entry %s", entryID)
	}

	postings, err := r.findPostingsByEntryIDs(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournalEntry(m)
	if ps, ok := postings[entryID]; ok {
		entry.Postings = ps
	}
	return &entry, nil
}

// findPostingsByEntryIDs loads postings for several entries, grouped by entry id
// and ordered by line number.
func (r *PgxJournalRepository) findPostingsByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.Posting, error) {
	query := `
		SELECT p.posting_id, p.entry_id, p.line_no, p.account_id, a.code, a.name, p.debit, p.credit, p.memo
		FROM postings p
		JOIN accounts a ON a.account_id = p.account_id
		WHERE p.entry_id = ANY($1::uuid[])
		ORDER BY p.entry_id, p.line_no;
	`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, wrapErr("query postings", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.Posting, len(entryIDs))
	for rows.Next() {
		var m models.Posting
		if err := rows.Scan(
			&m.PostingID,
			&m.EntryID,
			&m.LineNo,
			&m.AccountID,
			&m.AccountCode,
			&m.AccountName,
			&m.Debit,
			&m.Credit,
			&m.Memo,
		); err != nil {
			return nil, wrapErr("scan posting row", err)
		}
		result[m.EntryID] = append(result[m.EntryID], mapping.ToDomainPosting(m))
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate posting rows", err)
	}
	return result, nil
}

// ListEntries retrieves a page of entries ordered by sequence number descending.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error) {
	limit := pagination.NormalizeLimit(filter.Limit)

	var before *int64
	if filter.NextToken != nil && *filter.NextToken != "" {
		seq, err := pagination.DecodeSequenceToken(*filter.NextToken)
		if err != nil {
			return nil, nil, errors.Join(apperrors.ErrValidation, err)
		}
		before = &seq
	}

	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE ($1::uuid IS NULL OR company_id = $1::uuid)
		  AND ($2::date IS NULL OR entry_date >= $2::date)
		  AND ($3::date IS NULL OR entry_date <= $3::date)
		  AND ($4::boolean OR status = 'ACTIVE')
		  AND ($5::bigint IS NULL OR sequence_number < $5::bigint)
		ORDER BY sequence_number DESC
		LIMIT $6;
	`
	// One extra row tells us whether another page exists.
	rows, err := r.Pool.Query(ctx, query,
		filter.CompanyID,
		filter.DateRange.From,
		filter.DateRange.To,
		filter.IncludeVoided,
		before,
		limit+1,
	)
	if err != nil {
		return nil, nil, wrapErr("list journal entries", err)
	}
	defer rows.Close()

	var ms []models.JournalEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, wrapErr("scan journal entry row", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, wrapErr("iterate journal entry rows", err)
	}
	rows.Close()

	var nextToken *string
	if len(ms) > limit {
		ms = ms[:limit]
		token := pagination.EncodeSequenceToken(ms[limit-1].SequenceNumber)
		nextToken = &token
	}

	entries := make([]domain.JournalEntry, len(ms))
	ids := make([]string, len(ms))
	for i, m := range ms {
		entries[i] = mapping.ToDomainJournalEntry(m)
		ids[i] = m.EntryID
	}
	if len(ids) > 0 {
		postings, err := r.findPostingsByEntryIDs(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
		for i := range entries {
			if ps, ok := postings[entries[i].EntryID]; ok {
				entries[i].Postings = ps
			}
		}
	}
	return entries, nextToken, nil
}

// VoidEntry flips an active entry to VOIDED under a row lock.
func (r *PgxJournalRepository) VoidEntry(ctx context.Context, entryID string, userID string, now time.Time) (*domain.JournalEntry, error) {
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		var status string
		err := tx.QueryRow(ctx, `SELECT status FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`, entryID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("journal entry", entryID)
			}
			return wrapErrf(err, "lock journal entry %s", entryID)
		}
		if domain.EntryStatus(status) == domain.EntryVoided {
			return &apperrors.EntryVoidedError{EntryID: entryID}
		}
		_, err = tx.Exec(ctx, `
			UPDATE journal_entries
			SET status = $2, voided_at = $3, voided_by = $4, last_updated_at = $3, last_updated_by = $4
			WHERE entry_id = $1;
		`, entryID, string(domain.EntryVoided), now, userID)
		if err != nil {
			return wrapErrf(err, "void journal entry %s", entryID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindEntryByID(ctx, entryID)
}

// DeleteEntry removes an entry; its postings go with it through ON DELETE CASCADE
// in the same statement. The sequence counter is untouched, so numbers are never reused.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return wrapErrf(err, "delete journal entry %s", entryID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFound("journal entry", entryID)
	}
	return nil
}
