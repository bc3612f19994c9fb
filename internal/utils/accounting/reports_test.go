package accounting

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func movement(id, code string, t domain.AccountType, n domain.AccountNature, s domain.AccountSubtype, debit, credit string) domain.AccountMovement {
	return domain.AccountMovement{
		AccountID:   id,
		Code:        code,
		Name:        id,
		AccountType: t,
		Nature:      n,
		Subtype:     s,
		TotalDebit:  dec(debit),
		TotalCredit: dec(credit),
	}
}

func sampleMovements() []domain.AccountMovement {
	return []domain.AccountMovement{
		movement("sales", "4001", domain.Income, domain.CreditNature, "", "0", "2000"),
		movement("cash", "1001", domain.Asset, domain.DebitNature, domain.CurrentAsset, "17000", "500"),
		movement("capital", "3001", domain.Equity, domain.CreditNature, "", "0", "15000"),
		movement("rent", "5001", domain.Expense, domain.DebitNature, "", "500", "0"),
		movement("truck", "1501", domain.Asset, domain.DebitNature, domain.FixedAsset, "3000", "0"),
		movement("loan", "2501", domain.Liability, domain.CreditNature, domain.LongTermLiability, "0", "3000"),
		movement("idle", "1999", domain.Asset, domain.DebitNature, "", "0", "0"),
	}
}

func TestBuildTrialBalance_InitialCapital(t *testing.T) {
	report := BuildTrialBalance([]domain.AccountMovement{
		movement("capital", "3001", domain.Equity, domain.CreditNature, "", "0", "15000"),
		movement("cash", "1001", domain.Asset, domain.DebitNature, "", "15000", "0"),
	})

	require.Len(t, report.Rows, 2)
	assert.Equal(t, "1001", report.Rows[0].Code)
	assert.True(t, report.Rows[0].Balance.Equal(dec("15000")))
	assert.Equal(t, "3001", report.Rows[1].Code)
	assert.True(t, report.Rows[1].Balance.Equal(dec("-15000")))
	assert.True(t, report.Rows[1].NaturalBalance.Equal(dec("15000")))
	assert.True(t, report.TotalBalance.IsZero())
	assert.True(t, report.Balanced)
}

func TestBuildTrialBalance_ClosesToZero(t *testing.T) {
	report := BuildTrialBalance(sampleMovements())

	assert.Len(t, report.Rows, 6, "accounts without movement are omitted")
	for i := 1; i < len(report.Rows); i++ {
		assert.Less(t, report.Rows[i-1].Code, report.Rows[i].Code)
	}
	sum := decimal.Zero
	for _, r := range report.Rows {
		sum = sum.Add(r.Balance)
	}
	assert.True(t, sum.IsZero())
	assert.True(t, report.TotalDebit.Equal(report.TotalCredit))
	assert.True(t, report.Balanced)
}

func TestBuildTrialBalance_Empty(t *testing.T) {
	report := BuildTrialBalance(nil)
	assert.Empty(t, report.Rows)
	assert.True(t, report.Balanced)
}

func TestBuildGeneralLedger_RunningBalance(t *testing.T) {
	d1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	lines := []domain.LedgerLine{
		{EntryID: "e3", SequenceNumber: 3, EntryDate: d2, LineNo: 1, AccountID: "cash", AccountCode: "1001", Debit: dec("10"), Credit: decimal.Zero},
		{EntryID: "e2", SequenceNumber: 2, EntryDate: d1, LineNo: 2, AccountID: "cash", AccountCode: "1001", Debit: decimal.Zero, Credit: dec("40")},
		{EntryID: "e1", SequenceNumber: 1, EntryDate: d1, LineNo: 1, AccountID: "cash", AccountCode: "1001", Debit: dec("100"), Credit: decimal.Zero},
		{EntryID: "e1", SequenceNumber: 1, EntryDate: d1, LineNo: 2, AccountID: "capital", AccountCode: "3001", Debit: decimal.Zero, Credit: dec("100")},
	}

	report := BuildGeneralLedger(lines)
	require.Len(t, report.Accounts, 2)

	cash := report.Accounts[0]
	assert.Equal(t, "1001", cash.Code)
	require.Len(t, cash.Lines, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{cash.Lines[0].SequenceNumber, cash.Lines[1].SequenceNumber, cash.Lines[2].SequenceNumber})

	running := decimal.Zero
	for _, l := range cash.Lines {
		running = running.Add(l.Debit.Sub(l.Credit))
		assert.True(t, running.Equal(l.RunningBalance), "running balance at seq %d", l.SequenceNumber)
	}
	assert.True(t, cash.ClosingBalance.Equal(dec("70")))
	assert.True(t, cash.TotalDebit.Equal(dec("110")))
	assert.True(t, cash.TotalCredit.Equal(dec("40")))

	capital := report.Accounts[1]
	assert.True(t, capital.ClosingBalance.Equal(dec("-100")))
}

func TestBuildBalanceSheet(t *testing.T) {
	report := BuildBalanceSheet(sampleMovements())

	require.Len(t, report.Assets, 2)
	assert.Equal(t, domain.SectionCurrentAssets, report.Assets[0].Key)
	assert.True(t, report.Assets[0].Subtotal.Equal(dec("16500")))
	assert.Equal(t, domain.SectionFixedAssets, report.Assets[1].Key)
	assert.True(t, report.Assets[1].Subtotal.Equal(dec("3000")))

	require.Len(t, report.Liabilities, 1)
	assert.Equal(t, domain.SectionLongTermLiabilities, report.Liabilities[0].Key)
	assert.True(t, report.Liabilities[0].Lines[0].Amount.Equal(dec("3000")))

	assert.True(t, report.CurrentEarnings.Equal(dec("1500")))
	assert.True(t, report.TotalAssets.Equal(dec("19500")))
	assert.True(t, report.TotalLiabilities.Equal(dec("3000")))
	assert.True(t, report.TotalEquity.Equal(dec("16500")))
	assert.True(t, report.TotalLiabilitiesAndEquity.Equal(report.TotalAssets))
	assert.True(t, report.Balanced)
}

func TestBuildBalanceSheet_UnclassifiedGoesToOther(t *testing.T) {
	report := BuildBalanceSheet([]domain.AccountMovement{
		movement("misc", "1800", domain.Asset, domain.DebitNature, "", "50", "0"),
		movement("owed", "2800", domain.Liability, domain.CreditNature, "", "0", "50"),
	})
	require.Len(t, report.Assets, 1)
	assert.Equal(t, domain.SectionOtherAssets, report.Assets[0].Key)
	require.Len(t, report.Liabilities, 1)
	assert.Equal(t, domain.SectionOtherLiabilities, report.Liabilities[0].Key)
	assert.Empty(t, report.Equity)
	assert.True(t, report.Balanced)
}

func TestBuildIncomeStatement(t *testing.T) {
	report := BuildIncomeStatement(sampleMovements())

	require.Len(t, report.Income, 1)
	require.Len(t, report.Expenses, 1)
	assert.True(t, report.TotalIncome.Equal(dec("2000")))
	assert.True(t, report.TotalExpense.Equal(dec("500")))
	assert.True(t, report.NetIncome.Equal(dec("1500")))
}

func TestBuildAccountBalances(t *testing.T) {
	balances := BuildAccountBalances(sampleMovements())
	require.Len(t, balances, 6)
	assert.Equal(t, "1001", balances[0].Code)
	assert.True(t, balances[0].Balance.Equal(dec("16500")))
}

func TestNaturalBalance(t *testing.T) {
	assert.True(t, NaturalBalance(domain.DebitNature, dec("10")).Equal(dec("10")))
	assert.True(t, NaturalBalance(domain.CreditNature, dec("-10")).Equal(dec("10")))
}

func TestBuildJournalBook_ChronologicalByEntry(t *testing.T) {
	d1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	// e2 was posted after e3 but carries an earlier date.
	lines := []domain.LedgerLine{
		{EntryID: "e3", SequenceNumber: 2, EntryDate: d2, LineNo: 2, AccountID: "capital", AccountCode: "3001", Debit: decimal.Zero, Credit: dec("10")},
		{EntryID: "e3", SequenceNumber: 2, EntryDate: d2, LineNo: 1, AccountID: "cash", AccountCode: "1001", Debit: dec("10"), Credit: decimal.Zero},
		{EntryID: "e2", SequenceNumber: 3, EntryDate: d1, LineNo: 1, AccountID: "cash", AccountCode: "1001", Debit: dec("5"), Credit: decimal.Zero},
		{EntryID: "e2", SequenceNumber: 3, EntryDate: d1, LineNo: 2, AccountID: "capital", AccountCode: "3001", Debit: decimal.Zero, Credit: dec("5")},
		{EntryID: "e1", SequenceNumber: 1, EntryDate: d1, LineNo: 1, AccountID: "cash", AccountCode: "1001", Debit: dec("100"), Credit: decimal.Zero},
		{EntryID: "e1", SequenceNumber: 1, EntryDate: d1, LineNo: 2, AccountID: "capital", AccountCode: "3001", Debit: decimal.Zero, Credit: dec("100")},
	}

	report := BuildJournalBook(lines)

	require.Len(t, report.Entries, 3)
	assert.Equal(t, []string{"e1", "e2", "e3"}, []string{report.Entries[0].EntryID, report.Entries[1].EntryID, report.Entries[2].EntryID})
	e3 := report.Entries[2]
	require.Len(t, e3.Lines, 2)
	assert.Equal(t, 1, e3.Lines[0].LineNo)
	assert.Equal(t, "1001", e3.Lines[0].AccountCode)
	assert.True(t, e3.TotalDebit.Equal(e3.TotalCredit))
	assert.True(t, report.TotalDebit.Equal(dec("115")))
	assert.True(t, report.TotalCredit.Equal(dec("115")))
}

func TestBuildJournalBook_Empty(t *testing.T) {
	report := BuildJournalBook(nil)
	assert.Empty(t, report.Entries)
	assert.True(t, report.TotalDebit.IsZero())
}
