package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	EntryActive EntryStatus = "ACTIVE"
	EntryVoided EntryStatus = "VOIDED"
)

// JournalEntry is one balanced accounting transaction.
type JournalEntry struct {
	EntryID        string          `json:"entryID"`
	SequenceNumber int64           `json:"sequenceNumber"`
	EntryDate      time.Time       `json:"entryDate"`
	Memo           string          `json:"memo"`
	Reference      *string         `json:"reference,omitempty"`
	CompanyID      *string         `json:"companyID,omitempty"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	Status         EntryStatus     `json:"status"`
	PostedBy       string          `json:"postedBy"`
	VoidedAt       *time.Time      `json:"voidedAt,omitempty"`
	VoidedBy       *string         `json:"voidedBy,omitempty"`
	Postings       []Posting       `json:"postings"`
	AuditFields
}

// Posting is one line of a journal entry against a single account.
// AccountCode and AccountName are filled in on reads for display.
type Posting struct {
	PostingID   string          `json:"postingID"`
	EntryID     string          `json:"entryID"`
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode,omitempty"`
	AccountName string          `json:"accountName,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Memo        *string         `json:"memo,omitempty"`
}

// PostingLine is a proposed posting as submitted by a caller, before validation.
type PostingLine struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      *string
}

// EntryProposal is an unvalidated journal entry.
type EntryProposal struct {
	EntryDate time.Time
	Memo      string
	Reference *string
	CompanyID *string
	Lines     []PostingLine
}

// EntryFilter narrows entry listings.
type EntryFilter struct {
	CompanyID     *string
	DateRange     DateRange
	IncludeVoided bool
	Limit         int
	NextToken     *string
}

// ValidatedEntry is a proposal that passed validation, with its computed totals.
type ValidatedEntry struct {
	Proposal    EntryProposal
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}
