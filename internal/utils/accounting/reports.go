package accounting

import (
	"sort"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RawBalance is debit minus credit.
func RawBalance(debit, credit decimal.Decimal) decimal.Decimal {
	return debit.Sub(credit)
}

// NaturalBalance presents a raw balance on the account's normal side:
// credit-nature accounts are negated so a normal balance reads positive.
func NaturalBalance(nature domain.AccountNature, raw decimal.Decimal) decimal.Decimal {
	if nature == domain.CreditNature {
		return raw.Neg()
	}
	return raw
}

func hasMovement(m domain.AccountMovement) bool {
	return !m.TotalDebit.IsZero() || !m.TotalCredit.IsZero()
}

func sortMovements(movements []domain.AccountMovement) []domain.AccountMovement {
	out := make([]domain.AccountMovement, 0, len(movements))
	for _, m := range movements {
		if hasMovement(m) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// BuildAccountBalances turns movements into raw balances, ordered by code.
func BuildAccountBalances(movements []domain.AccountMovement) []domain.AccountBalance {
	sorted := sortMovements(movements)
	balances := make([]domain.AccountBalance, 0, len(sorted))
	for _, m := range sorted {
		balances = append(balances, ToAccountBalance(m))
	}
	return balances
}

// ToAccountBalance converts one movement into an AccountBalance.
func ToAccountBalance(m domain.AccountMovement) domain.AccountBalance {
	return domain.AccountBalance{
		AccountID:   m.AccountID,
		Code:        m.Code,
		Name:        m.Name,
		AccountType: m.AccountType,
		Nature:      m.Nature,
		TotalDebit:  m.TotalDebit,
		TotalCredit: m.TotalCredit,
		Balance:     RawBalance(m.TotalDebit, m.TotalCredit),
	}
}

// BuildTrialBalance lists every account with movement, ordered by code.
// The raw balances of a consistent ledger sum to zero.
func BuildTrialBalance(movements []domain.AccountMovement) domain.TrialBalanceReport {
	sorted := sortMovements(movements)
	report := domain.TrialBalanceReport{
		Rows:         make([]domain.TrialBalanceRow, 0, len(sorted)),
		TotalDebit:   decimal.Zero,
		TotalCredit:  decimal.Zero,
		TotalBalance: decimal.Zero,
	}
	for _, m := range sorted {
		raw := RawBalance(m.TotalDebit, m.TotalCredit)
		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountID:      m.AccountID,
			Code:           m.Code,
			Name:           m.Name,
			AccountType:    m.AccountType,
			Nature:         m.Nature,
			TotalDebit:     m.TotalDebit,
			TotalCredit:    m.TotalCredit,
			Balance:        raw,
			NaturalBalance: NaturalBalance(m.Nature, raw),
		})
		report.TotalDebit = report.TotalDebit.Add(m.TotalDebit)
		report.TotalCredit = report.TotalCredit.Add(m.TotalCredit)
		report.TotalBalance = report.TotalBalance.Add(raw)
	}
	report.Balanced = WithinTolerance(report.TotalDebit, report.TotalCredit)
	return report
}

// BuildGeneralLedger groups lines per account and computes running balances.
// Lines are ordered by (code, date, sequence number, line number) before summing.
func BuildGeneralLedger(lines []domain.LedgerLine) domain.GeneralLedgerReport {
	ordered := make([]domain.LedgerLine, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.AccountCode != b.AccountCode {
			return a.AccountCode < b.AccountCode
		}
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		if a.SequenceNumber != b.SequenceNumber {
			return a.SequenceNumber < b.SequenceNumber
		}
		return a.LineNo < b.LineNo
	})

	report := domain.GeneralLedgerReport{Accounts: []domain.GeneralLedgerAccount{}}
	var current *domain.GeneralLedgerAccount
	for _, l := range ordered {
		if current == nil || current.AccountID != l.AccountID {
			report.Accounts = append(report.Accounts, domain.GeneralLedgerAccount{
				AccountID:      l.AccountID,
				Code:           l.AccountCode,
				Name:           l.AccountName,
				Nature:         l.Nature,
				Lines:          []domain.GeneralLedgerLine{},
				TotalDebit:     decimal.Zero,
				TotalCredit:    decimal.Zero,
				ClosingBalance: decimal.Zero,
			})
			current = &report.Accounts[len(report.Accounts)-1]
		}
		running := current.ClosingBalance.Add(RawBalance(l.Debit, l.Credit))
		current.Lines = append(current.Lines, domain.GeneralLedgerLine{
			EntryID:        l.EntryID,
			SequenceNumber: l.SequenceNumber,
			EntryDate:      l.EntryDate,
			Memo:           l.Memo,
			Reference:      l.Reference,
			LineNo:         l.LineNo,
			Debit:          l.Debit,
			Credit:         l.Credit,
			RunningBalance: running,
		})
		current.TotalDebit = current.TotalDebit.Add(l.Debit)
		current.TotalCredit = current.TotalCredit.Add(l.Credit)
		current.ClosingBalance = running
	}
	return report
}

var assetSections = map[domain.AccountSubtype]domain.BalanceSheetSectionKey{
	domain.CurrentAsset: domain.SectionCurrentAssets,
	domain.FixedAsset:   domain.SectionFixedAssets,
}

var liabilitySections = map[domain.AccountSubtype]domain.BalanceSheetSectionKey{
	domain.ShortTermLiability: domain.SectionShortTermLiabilities,
	domain.LongTermLiability:  domain.SectionLongTermLiabilities,
}

type sectionBuilder struct {
	order    []domain.BalanceSheetSectionKey
	sections map[domain.BalanceSheetSectionKey]*domain.BalanceSheetSection
}

func newSectionBuilder(order ...domain.BalanceSheetSectionKey) *sectionBuilder {
	b := &sectionBuilder{order: order, sections: make(map[domain.BalanceSheetSectionKey]*domain.BalanceSheetSection, len(order))}
	for _, k := range order {
		b.sections[k] = &domain.BalanceSheetSection{Key: k, Lines: []domain.BalanceSheetLine{}, Subtotal: decimal.Zero}
	}
	return b
}

func (b *sectionBuilder) add(key domain.BalanceSheetSectionKey, m domain.AccountMovement, amount decimal.Decimal) {
	s := b.sections[key]
	s.Lines = append(s.Lines, domain.BalanceSheetLine{AccountID: m.AccountID, Code: m.Code, Name: m.Name, Amount: amount})
	s.Subtotal = s.Subtotal.Add(amount)
}

// build returns non-empty sections in their fixed order, and the side total.
func (b *sectionBuilder) build() ([]domain.BalanceSheetSection, decimal.Decimal) {
	total := decimal.Zero
	out := []domain.BalanceSheetSection{}
	for _, k := range b.order {
		s := b.sections[k]
		if len(s.Lines) == 0 {
			continue
		}
		out = append(out, *s)
		total = total.Add(s.Subtotal)
	}
	return out, total
}

// BuildBalanceSheet classifies nonzero balances into asset, liability and equity sections.
// Asset amounts are debit minus credit; liability and equity amounts are credit minus debit.
// Income and expense balances roll into CurrentEarnings so a balanced ledger satisfies
// assets = liabilities + equity.
func BuildBalanceSheet(movements []domain.AccountMovement) domain.BalanceSheetReport {
	assets := newSectionBuilder(domain.SectionCurrentAssets, domain.SectionFixedAssets, domain.SectionOtherAssets)
	liabilities := newSectionBuilder(domain.SectionShortTermLiabilities, domain.SectionLongTermLiabilities, domain.SectionOtherLiabilities)
	equity := newSectionBuilder(domain.SectionEquity)
	earnings := decimal.Zero

	for _, m := range sortMovements(movements) {
		raw := RawBalance(m.TotalDebit, m.TotalCredit)
		if raw.IsZero() {
			continue
		}
		switch m.AccountType {
		case domain.Asset:
			key, ok := assetSections[m.Subtype]
			if !ok {
				key = domain.SectionOtherAssets
			}
			assets.add(key, m, raw)
		case domain.Liability:
			key, ok := liabilitySections[m.Subtype]
			if !ok {
				key = domain.SectionOtherLiabilities
			}
			liabilities.add(key, m, raw.Neg())
		case domain.Equity:
			equity.add(domain.SectionEquity, m, raw.Neg())
		case domain.Income, domain.Expense:
			earnings = earnings.Sub(raw)
		}
	}

	report := domain.BalanceSheetReport{CurrentEarnings: earnings}
	report.Assets, report.TotalAssets = assets.build()
	report.Liabilities, report.TotalLiabilities = liabilities.build()
	report.Equity, report.TotalEquity = equity.build()
	report.TotalEquity = report.TotalEquity.Add(earnings)
	report.TotalLiabilitiesAndEquity = report.TotalLiabilities.Add(report.TotalEquity)
	report.Balanced = WithinTolerance(report.TotalAssets, report.TotalLiabilitiesAndEquity)
	return report
}

// BuildIncomeStatement sums income (credit minus debit) and expense (debit minus credit)
// accounts and computes net income.
func BuildIncomeStatement(movements []domain.AccountMovement) domain.IncomeStatementReport {
	report := domain.IncomeStatementReport{
		Income:       []domain.IncomeStatementLine{},
		Expenses:     []domain.IncomeStatementLine{},
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, m := range sortMovements(movements) {
		raw := RawBalance(m.TotalDebit, m.TotalCredit)
		switch m.AccountType {
		case domain.Income:
			amount := raw.Neg()
			report.Income = append(report.Income, domain.IncomeStatementLine{AccountID: m.AccountID, Code: m.Code, Name: m.Name, Amount: amount})
			report.TotalIncome = report.TotalIncome.Add(amount)
		case domain.Expense:
			report.Expenses = append(report.Expenses, domain.IncomeStatementLine{AccountID: m.AccountID, Code: m.Code, Name: m.Name, Amount: raw})
			report.TotalExpense = report.TotalExpense.Add(raw)
		}
	}
	report.NetIncome = report.TotalIncome.Sub(report.TotalExpense)
	return report
}

// BuildJournalBook groups posting lines into entries ordered by date, then
// sequence number, then line number.
func BuildJournalBook(lines []domain.LedgerLine) domain.JournalBookReport {
	ordered := make([]domain.LedgerLine, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		if a.SequenceNumber != b.SequenceNumber {
			return a.SequenceNumber < b.SequenceNumber
		}
		return a.LineNo < b.LineNo
	})

	report := domain.JournalBookReport{
		Entries:     []domain.JournalBookEntry{},
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	var current *domain.JournalBookEntry
	for _, l := range ordered {
		if current == nil || current.EntryID != l.EntryID {
			report.Entries = append(report.Entries, domain.JournalBookEntry{
				EntryID:        l.EntryID,
				SequenceNumber: l.SequenceNumber,
				EntryDate:      l.EntryDate,
				Memo:           l.Memo,
				Reference:      l.Reference,
				Lines:          []domain.JournalBookLine{},
				TotalDebit:     decimal.Zero,
				TotalCredit:    decimal.Zero,
			})
			current = &report.Entries[len(report.Entries)-1]
		}
		current.Lines = append(current.Lines, domain.JournalBookLine{
			LineNo:      l.LineNo,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			Debit:       l.Debit,
			Credit:      l.Credit,
		})
		current.TotalDebit = current.TotalDebit.Add(l.Debit)
		current.TotalCredit = current.TotalCredit.Add(l.Credit)
		report.TotalDebit = report.TotalDebit.Add(l.Debit)
		report.TotalCredit = report.TotalCredit.Add(l.Credit)
	}
	return report
}
