package accounting

import (
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MinPostingLines is the smallest number of lines a journal entry may have.
const MinPostingLines = 2

// AmountScale is the number of decimal places the ledger stores.
const AmountScale = 2

// MaxAmount is the largest amount a line or entry total may carry; amounts
// are stored as NUMERIC(15,2).
var MaxAmount = decimal.New(1, 15-AmountScale).Sub(decimal.New(1, -AmountScale))

// BalanceTolerance is the largest absolute difference between total debit and
// total credit that still counts as balanced.
var BalanceTolerance = decimal.New(1, -AmountScale)

// WithinTolerance reports whether a and b differ by no more than BalanceTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(BalanceTolerance)
}

// ValidateEntry checks a proposed entry against the chart of accounts.
// accounts must contain every account the caller could resolve for the
// proposal's lines; missing keys are reported as unknown accounts.
// It performs no I/O and returns the entry totals on success.
func ValidateEntry(p domain.EntryProposal, accounts map[string]domain.Account) (*domain.ValidatedEntry, error) {
	if p.EntryDate.IsZero() {
		return nil, &apperrors.MissingFieldError{Field: "date"}
	}
	if strings.TrimSpace(p.Memo) == "" {
		return nil, &apperrors.MissingFieldError{Field: "memo"}
	}

	if len(p.Lines) < MinPostingLines {
		return nil, &apperrors.InsufficientLinesError{Got: len(p.Lines), Min: MinPostingLines}
	}

	for i, line := range p.Lines {
		lineNo := i + 1
		if !line.Debit.IsPositive() && !line.Credit.IsPositive() {
			return nil, &apperrors.EmptyLineError{Line: lineNo, AccountID: line.AccountID}
		}
		if err := validateAmount(lineNo, line.Debit); err != nil {
			return nil, err
		}
		if err := validateAmount(lineNo, line.Credit); err != nil {
			return nil, err
		}
	}

	for _, line := range p.Lines {
		acc, ok := accounts[line.AccountID]
		if !ok {
			return nil, &apperrors.UnknownAccountError{AccountID: line.AccountID}
		}
		if !acc.IsActive {
			return nil, &apperrors.UnknownAccountError{AccountID: line.AccountID, Inactive: true}
		}
	}

	totalDebit, totalCredit := SumLines(p.Lines)
	for _, total := range []decimal.Decimal{totalDebit, totalCredit} {
		if total.GreaterThan(MaxAmount) {
			return nil, &apperrors.InvalidAmountError{Amount: total, Reason: "entry total exceeds " + MaxAmount.StringFixed(AmountScale)}
		}
	}
	if !WithinTolerance(totalDebit, totalCredit) {
		return nil, &apperrors.UnbalancedEntryError{TotalDebit: totalDebit, TotalCredit: totalCredit}
	}

	return &domain.ValidatedEntry{
		Proposal:    p,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}, nil
}

// SumLines returns the debit and credit totals of the given lines.
func SumLines(lines []domain.PostingLine) (decimal.Decimal, decimal.Decimal) {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// AccountIDs returns the distinct account ids referenced by lines, in first-seen order.
func AccountIDs(lines []domain.PostingLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

func validateAmount(lineNo int, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return &apperrors.InvalidAmountError{Line: lineNo, Amount: amount, Reason: "must not be negative"}
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return &apperrors.InvalidAmountError{Line: lineNo, Amount: amount, Reason: "too many decimal places"}
	}
	if amount.GreaterThan(MaxAmount) {
		return &apperrors.InvalidAmountError{Line: lineNo, Amount: amount, Reason: "exceeds " + MaxAmount.StringFixed(AmountScale)}
	}
	return nil
}
