package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the row shape of the journal_entries table.
type JournalEntry struct {
	EntryID        string          `db:"entry_id"`
	SequenceNumber int64           `db:"sequence_number"`
	EntryDate      time.Time       `db:"entry_date"`
	Memo           string          `db:"memo"`
	Reference      *string         `db:"reference"`
	CompanyID      *string         `db:"company_id"`
	TotalDebit     decimal.Decimal `db:"total_debit"`
	TotalCredit    decimal.Decimal `db:"total_credit"`
	Status         string          `db:"status"`
	PostedBy       string          `db:"posted_by"`
	VoidedAt       *time.Time      `db:"voided_at"`
	VoidedBy       *string         `db:"voided_by"`
	AuditFields
}

// Posting is the row shape of the postings table, joined with the account
// code and name for display.
type Posting struct {
	PostingID   string          `db:"posting_id"`
	EntryID     string          `db:"entry_id"`
	LineNo      int             `db:"line_no"`
	AccountID   string          `db:"account_id"`
	AccountCode string          `db:"code"`
	AccountName string          `db:"name"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Memo        *string         `db:"memo"`
}
