package models

// Company is the row shape of the companies table.
type Company struct {
	CompanyID string  `db:"company_id"`
	Name      string  `db:"name"`
	TaxID     *string `db:"tax_id"`
	Address   *string `db:"address"`
	Phone     *string `db:"phone"`
	Email     *string `db:"email"`
	IsActive  bool    `db:"is_active"`
	AuditFields
}
