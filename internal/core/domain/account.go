package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// AccountNature is the side on which an account's balance normally grows.
type AccountNature string

const (
	DebitNature  AccountNature = "DEBIT"
	CreditNature AccountNature = "CREDIT"
)

// Valid reports whether n is one of the known natures.
func (n AccountNature) Valid() bool {
	return n == DebitNature || n == CreditNature
}

// AccountSubtype is the balance sheet bucket an account reports under.
// The zero value means "unclassified".
type AccountSubtype string

const (
	NoSubtype          AccountSubtype = ""
	CurrentAsset       AccountSubtype = "CURRENT_ASSET"
	FixedAsset         AccountSubtype = "FIXED_ASSET"
	ShortTermLiability AccountSubtype = "SHORT_TERM_LIABILITY"
	LongTermLiability  AccountSubtype = "LONG_TERM_LIABILITY"
)

// Valid reports whether s is a known subtype.
func (s AccountSubtype) Valid() bool {
	switch s {
	case NoSubtype, CurrentAsset, FixedAsset, ShortTermLiability, LongTermLiability:
		return true
	}
	return false
}

// CompatibleWith reports whether s may be used on an account of type t.
func (s AccountSubtype) CompatibleWith(t AccountType) bool {
	switch s {
	case NoSubtype:
		return true
	case CurrentAsset, FixedAsset:
		return t == Asset
	case ShortTermLiability, LongTermLiability:
		return t == Liability
	}
	return false
}

// Account represents a node in the chart of accounts.
// Type and Nature are fixed at creation time.
type Account struct {
	AccountID       string         `json:"accountID"`
	Code            string         `json:"code"`
	Name            string         `json:"name"`
	AccountType     AccountType    `json:"accountType"`
	Nature          AccountNature  `json:"nature"`
	Subtype         AccountSubtype `json:"subtype,omitempty"`
	ParentAccountID *string        `json:"parentAccountID,omitempty"`
	Level           int            `json:"level"`
	Description     string         `json:"description"`
	IsActive        bool           `json:"isActive"`
	AuditFields
}
