package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportFilter narrows every report to a date range, an optional company
// and, for the general ledger and single-account balance, one account.
type ReportFilter struct {
	DateRange DateRange
	CompanyID *string
	AccountID *string
}

// AccountMovement is the aggregate of all active postings to one account in a filter.
type AccountMovement struct {
	AccountID   string
	Code        string
	Name        string
	AccountType AccountType
	Nature      AccountNature
	Subtype     AccountSubtype
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// LedgerLine is a single posting joined with its entry header, as read for the general ledger.
type LedgerLine struct {
	EntryID        string
	SequenceNumber int64
	EntryDate      time.Time
	Memo           string
	Reference      *string
	LineNo         int
	AccountID      string
	AccountCode    string
	AccountName    string
	Nature         AccountNature
	Debit          decimal.Decimal
	Credit         decimal.Decimal
}

// AccountBalance is the raw debit-minus-credit balance of an account.
// Sign interpretation by nature is left to the caller.
type AccountBalance struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Nature      AccountNature   `json:"nature"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceRow is one account line of a trial balance.
// Balance is debit minus credit. NaturalBalance flips the sign for credit-nature accounts.
type TrialBalanceRow struct {
	AccountID      string          `json:"accountID"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	Nature         AccountNature   `json:"nature"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	Balance        decimal.Decimal `json:"balance"`
	NaturalBalance decimal.Decimal `json:"naturalBalance"`
}

// TrialBalanceReport lists every account with movement plus column totals.
type TrialBalanceReport struct {
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebit   decimal.Decimal   `json:"totalDebit"`
	TotalCredit  decimal.Decimal   `json:"totalCredit"`
	TotalBalance decimal.Decimal   `json:"totalBalance"`
	Balanced     bool              `json:"balanced"`
}

// GeneralLedgerLine is a posting with the account's running balance after it.
type GeneralLedgerLine struct {
	EntryID        string          `json:"entryID"`
	SequenceNumber int64           `json:"sequenceNumber"`
	EntryDate      time.Time       `json:"entryDate"`
	Memo           string          `json:"memo"`
	Reference      *string         `json:"reference,omitempty"`
	LineNo         int             `json:"lineNo"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// GeneralLedgerAccount groups the chronological postings of one account.
type GeneralLedgerAccount struct {
	AccountID      string              `json:"accountID"`
	Code           string              `json:"code"`
	Name           string              `json:"name"`
	Nature         AccountNature       `json:"nature"`
	Lines          []GeneralLedgerLine `json:"lines"`
	TotalDebit     decimal.Decimal     `json:"totalDebit"`
	TotalCredit    decimal.Decimal     `json:"totalCredit"`
	ClosingBalance decimal.Decimal     `json:"closingBalance"`
}

// GeneralLedgerReport holds one block per account, ordered by account code.
type GeneralLedgerReport struct {
	Accounts []GeneralLedgerAccount `json:"accounts"`
}

// JournalBookLine is one posting as it appears in the journal book.
type JournalBookLine struct {
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalBookEntry is one entry with its lines in line order.
type JournalBookEntry struct {
	EntryID        string            `json:"entryID"`
	SequenceNumber int64             `json:"sequenceNumber"`
	EntryDate      time.Time         `json:"entryDate"`
	Memo           string            `json:"memo"`
	Reference      *string           `json:"reference,omitempty"`
	Lines          []JournalBookLine `json:"lines"`
	TotalDebit     decimal.Decimal   `json:"totalDebit"`
	TotalCredit    decimal.Decimal   `json:"totalCredit"`
}

// JournalBookReport lists entries chronologically by (date, sequence number).
type JournalBookReport struct {
	Entries     []JournalBookEntry `json:"entries"`
	TotalDebit  decimal.Decimal    `json:"totalDebit"`
	TotalCredit decimal.Decimal    `json:"totalCredit"`
}

// BalanceSheetSectionKey identifies a bucket within one side of the balance sheet.
type BalanceSheetSectionKey string

const (
	SectionCurrentAssets        BalanceSheetSectionKey = "CURRENT_ASSETS"
	SectionFixedAssets          BalanceSheetSectionKey = "FIXED_ASSETS"
	SectionOtherAssets          BalanceSheetSectionKey = "OTHER_ASSETS"
	SectionShortTermLiabilities BalanceSheetSectionKey = "SHORT_TERM_LIABILITIES"
	SectionLongTermLiabilities  BalanceSheetSectionKey = "LONG_TERM_LIABILITIES"
	SectionOtherLiabilities     BalanceSheetSectionKey = "OTHER_LIABILITIES"
	SectionEquity               BalanceSheetSectionKey = "EQUITY"
)

// BalanceSheetLine is an account amount shown with its natural sign.
type BalanceSheetLine struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// BalanceSheetSection is a bucket of lines with a subtotal.
type BalanceSheetSection struct {
	Key      BalanceSheetSectionKey `json:"key"`
	Lines    []BalanceSheetLine     `json:"lines"`
	Subtotal decimal.Decimal        `json:"subtotal"`
}

// BalanceSheetReport classifies balances as of a date.
// CurrentEarnings is unclosed income minus expense and is part of TotalEquity.
type BalanceSheetReport struct {
	AsOf                      *time.Time            `json:"asOf,omitempty"`
	Assets                    []BalanceSheetSection `json:"assets"`
	Liabilities               []BalanceSheetSection `json:"liabilities"`
	Equity                    []BalanceSheetSection `json:"equity"`
	CurrentEarnings           decimal.Decimal       `json:"currentEarnings"`
	TotalAssets               decimal.Decimal       `json:"totalAssets"`
	TotalLiabilities          decimal.Decimal       `json:"totalLiabilities"`
	TotalEquity               decimal.Decimal       `json:"totalEquity"`
	TotalLiabilitiesAndEquity decimal.Decimal       `json:"totalLiabilitiesAndEquity"`
	Balanced                  bool                  `json:"balanced"`
}

// IncomeStatementLine is an income or expense account amount for the period.
type IncomeStatementLine struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// IncomeStatementReport sums income and expense over a period.
type IncomeStatementReport struct {
	Income       []IncomeStatementLine `json:"income"`
	Expenses     []IncomeStatementLine `json:"expenses"`
	TotalIncome  decimal.Decimal       `json:"totalIncome"`
	TotalExpense decimal.Decimal       `json:"totalExpense"`
	NetIncome    decimal.Decimal       `json:"netIncome"`
}

// EntryTotals compares an entry's stored header totals with the sums of its postings.
type EntryTotals struct {
	EntryID        string
	SequenceNumber int64
	Status         EntryStatus
	HeaderDebit    decimal.Decimal
	HeaderCredit   decimal.Decimal
	PostingDebit   decimal.Decimal
	PostingCredit  decimal.Decimal
	LineCount      int
}

// IntegrityIssueKind classifies a problem found by the integrity check.
type IntegrityIssueKind string

const (
	IssueHeaderMismatch    IntegrityIssueKind = "HEADER_TOTAL_MISMATCH"
	IssueUnbalanced        IntegrityIssueKind = "UNBALANCED"
	IssueInsufficientLines IntegrityIssueKind = "INSUFFICIENT_LINES"
	IssueSequenceOrder     IntegrityIssueKind = "SEQUENCE_ORDER"
)

// IntegrityIssue describes one problem with one entry.
type IntegrityIssue struct {
	EntryID        string             `json:"entryID"`
	SequenceNumber int64              `json:"sequenceNumber"`
	Kind           IntegrityIssueKind `json:"kind"`
	Detail         string             `json:"detail"`
}

// IntegrityReport is the outcome of a ledger integrity check.
type IntegrityReport struct {
	CheckedEntries int              `json:"checkedEntries"`
	Issues         []IntegrityIssue `json:"issues"`
	OK             bool             `json:"ok"`
}
