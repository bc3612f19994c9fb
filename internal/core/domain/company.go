package domain

// Company is the optional tenant scope an entry can be posted under.
type Company struct {
	CompanyID string  `json:"companyID"`
	Name      string  `json:"name"`
	TaxID     *string `json:"taxID,omitempty"`
	Address   *string `json:"address,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	IsActive  bool    `json:"isActive"`
	AuditFields
}
