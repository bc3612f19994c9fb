package pgsql

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) *reportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// activePostingsFilter restricts postings to active entries matching a ReportFilter.
// Parameters: $1 company, $2 from, $3 to, $4 account.
const activePostingsFilter = `
	j.status = 'ACTIVE'
	AND ($1::uuid IS NULL OR j.company_id = $1::uuid)
	AND ($2::date IS NULL OR j.entry_date >= $2::date)
	AND ($3::date IS NULL OR j.entry_date <= $3::date)
	AND ($4::uuid IS NULL OR p.account_id = $4::uuid)
`

func filterArgs(f domain.ReportFilter) []any {
	return []any{f.CompanyID, f.DateRange.From, f.DateRange.To, f.AccountID}
}

// GetAccountMovements sums postings per account. Deactivated accounts are
// included so historical reports stay complete.
func (r *reportingRepository) GetAccountMovements(ctx context.Context, filter domain.ReportFilter) ([]domain.AccountMovement, error) {
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			a.account_type,
			a.nature,
			COALESCE(a.subtype, ''),
			COALESCE(SUM(p.debit), 0) AS total_debit,
			COALESCE(SUM(p.credit), 0) AS total_credit
		FROM postings p
		JOIN journal_entries j ON j.entry_id = p.entry_id
		JOIN accounts a ON a.account_id = p.account_id
		WHERE ` + activePostingsFilter + `
		GROUP BY a.account_id, a.code, a.name, a.account_type, a.nature, a.subtype
		HAVING COALESCE(SUM(p.debit), 0) <> 0 OR COALESCE(SUM(p.credit), 0) <> 0
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, filterArgs(filter)...)
	if err != nil {
		return nil, wrapErr("query account movements", err)
	}
	defer rows.Close()

	result := []domain.AccountMovement{}
	for rows.Next() {
		var m domain.AccountMovement
		var accountType, nature, subtype string
		if err := rows.Scan(
			&m.AccountID,
			&m.Code,
			&m.Name,
			&accountType,
			&nature,
			&subtype,
			&m.TotalDebit,
			&m.TotalCredit,
		); err != nil {
			return nil, wrapErr("scan account movement row", err)
		}
		m.AccountType = domain.AccountType(accountType)
		m.Nature = domain.AccountNature(nature)
		m.Subtype = domain.AccountSubtype(subtype)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate account movement rows", err)
	}
	return result, nil
}

// GetLedgerLines returns individual postings in general ledger order.
func (r *reportingRepository) GetLedgerLines(ctx context.Context, filter domain.ReportFilter) ([]domain.LedgerLine, error) {
	query := `
		SELECT
			j.entry_id,
			j.sequence_number,
			j.entry_date,
			j.memo,
			j.reference,
			p.line_no,
			a.account_id,
			a.code,
			a.name,
			a.nature,
			p.debit,
			p.credit
		FROM postings p
		JOIN journal_entries j ON j.entry_id = p.entry_id
		JOIN accounts a ON a.account_id = p.account_id
		WHERE ` + activePostingsFilter + `
		ORDER BY a.code, j.entry_date, j.sequence_number, p.line_no;
	`
	rows, err := r.Pool.Query(ctx, query, filterArgs(filter)...)
	if err != nil {
		return nil, wrapErr("query ledger lines", err)
	}
	defer rows.Close()

	result := []domain.LedgerLine{}
	for rows.Next() {
		var l domain.LedgerLine
		var nature string
		if err := rows.Scan(
			&l.EntryID,
			&l.SequenceNumber,
			&l.EntryDate,
			&l.Memo,
			&l.Reference,
			&l.LineNo,
			&l.AccountID,
			&l.AccountCode,
			&l.AccountName,
			&nature,
			&l.Debit,
			&l.Credit,
		); err != nil {
			return nil, wrapErr("scan ledger line row", err)
		}
		l.Nature = domain.AccountNature(nature)
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate ledger line rows", err)
	}
	return result, nil
}

// GetEntryTotals compares stored header totals with posting sums for every
// entry, voided ones included, in sequence-number order.
func (r *reportingRepository) GetEntryTotals(ctx context.Context, companyID *string) ([]domain.EntryTotals, error) {
	query := `
		SELECT
			j.entry_id,
			j.sequence_number,
			j.status,
			j.total_debit,
			j.total_credit,
			COALESCE(SUM(p.debit), 0),
			COALESCE(SUM(p.credit), 0),
			COUNT(p.posting_id)
		FROM journal_entries j
		LEFT JOIN postings p ON p.entry_id = j.entry_id
		WHERE ($1::uuid IS NULL OR j.company_id = $1::uuid)
		GROUP BY j.entry_id, j.sequence_number, j.status, j.total_debit, j.total_credit
		ORDER BY j.sequence_number;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, wrapErr("query entry totals", err)
	}
	defer rows.Close()

	result := []domain.EntryTotals{}
	for rows.Next() {
		var t domain.EntryTotals
		var status string
		if err := rows.Scan(
			&t.EntryID,
			&t.SequenceNumber,
			&status,
			&t.HeaderDebit,
			&t.HeaderCredit,
			&t.PostingDebit,
			&t.PostingCredit,
			&t.LineCount,
		); err != nil {
			return nil, wrapErr("scan entry totals row", err)
		}
		t.Status = domain.EntryStatus(status)
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate entry totals rows", err)
	}
	return result, nil
}
