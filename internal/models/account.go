package models

// Account is the row shape of the accounts table.
type Account struct {
	AccountID       string  `db:"account_id"`
	Code            string  `db:"code"`
	Name            string  `db:"name"`
	AccountType     string  `db:"account_type"`
	Nature          string  `db:"nature"`
	Subtype         *string `db:"subtype"`
	ParentAccountID *string `db:"parent_account_id"`
	Level           int     `db:"level"`
	Description     string  `db:"description"`
	IsActive        bool    `db:"is_active"`
	AuditFields
}
