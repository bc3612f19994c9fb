package dto

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ReportParams are the query parameters shared by every report.
type ReportParams struct {
	From      string  `form:"from"`
	To        string  `form:"to"`
	AsOf      string  `form:"asOf"`
	CompanyID *string `form:"companyID" binding:"omitempty,uuid"`
	AccountID *string `form:"accountID" binding:"omitempty,uuid"`
}

// ToFilter converts the query parameters into a report filter.
// AsOf, when given, bounds the range from above and wins over To.
func (p ReportParams) ToFilter() (domain.ReportFilter, error) {
	from, err := ParseOptionalDate(p.From)
	if err != nil {
		return domain.ReportFilter{}, err
	}
	to, err := ParseOptionalDate(p.To)
	if err != nil {
		return domain.ReportFilter{}, err
	}
	asOf, err := ParseOptionalDate(p.AsOf)
	if err != nil {
		return domain.ReportFilter{}, err
	}
	if asOf != nil {
		to = asOf
	}
	return domain.ReportFilter{
		DateRange: domain.DateRange{From: from, To: to},
		CompanyID: p.CompanyID,
		AccountID: p.AccountID,
	}, nil
}

// AccountBalancesResponse wraps per-account balances.
type AccountBalancesResponse struct {
	Balances []domain.AccountBalance `json:"balances"`
}
