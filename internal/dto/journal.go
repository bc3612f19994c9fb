package dto

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostingLineRequest is one proposed posting.
type PostingLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit" binding:"decimal2"`
	Credit    decimal.Decimal `json:"credit" binding:"decimal2"`
	Memo      *string         `json:"memo" binding:"omitempty,max=300"`
}

// PostEntryRequest defines the data needed to post a journal entry.
// Line count, balance and account checks happen in the ledger, which
// reports them as structured validation errors.
type PostEntryRequest struct {
	EntryDate Date                 `json:"entryDate"`
	Memo      string               `json:"memo" binding:"max=500"`
	Reference *string              `json:"reference" binding:"omitempty,max=100"`
	CompanyID *string              `json:"companyID" binding:"omitempty,uuid"`
	Lines     []PostingLineRequest `json:"lines" binding:"dive"`
}

// ToProposal converts the request into an unvalidated domain proposal.
func (r PostEntryRequest) ToProposal() domain.EntryProposal {
	lines := make([]domain.PostingLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.PostingLine{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}
	return domain.EntryProposal{
		EntryDate: r.EntryDate.Time,
		Memo:      r.Memo,
		Reference: r.Reference,
		CompanyID: r.CompanyID,
		Lines:     lines,
	}
}

// ListEntriesParams defines query parameters for listing entries.
type ListEntriesParams struct {
	CompanyID     *string `form:"companyID" binding:"omitempty,uuid"`
	From          string  `form:"from" binding:"omitempty"`
	To            string  `form:"to" binding:"omitempty"`
	IncludeVoided bool    `form:"includeVoided"`
	Limit         int     `form:"limit,default=20" binding:"min=0,max=200"`
	NextToken     *string `form:"nextToken"`
}

// ToFilter converts the query parameters into a domain filter.
func (p ListEntriesParams) ToFilter() (domain.EntryFilter, error) {
	from, err := ParseOptionalDate(p.From)
	if err != nil {
		return domain.EntryFilter{}, err
	}
	to, err := ParseOptionalDate(p.To)
	if err != nil {
		return domain.EntryFilter{}, err
	}
	return domain.EntryFilter{
		CompanyID:     p.CompanyID,
		DateRange:     domain.DateRange{From: from, To: to},
		IncludeVoided: p.IncludeVoided,
		Limit:         p.Limit,
		NextToken:     p.NextToken,
	}, nil
}

// ListEntriesResponse is a page of journal entries.
type ListEntriesResponse struct {
	Entries   []domain.JournalEntry `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}
