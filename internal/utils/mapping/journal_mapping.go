package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:        d.EntryID,
		SequenceNumber: d.SequenceNumber,
		EntryDate:      d.EntryDate,
		Memo:           d.Memo,
		Reference:      d.Reference,
		CompanyID:      d.CompanyID,
		TotalDebit:     d.TotalDebit,
		TotalCredit:    d.TotalCredit,
		Status:         string(d.Status),
		PostedBy:       d.PostedBy,
		VoidedAt:       utcPtr(d.VoidedAt),
		VoidedBy:       d.VoidedBy,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry without postings
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:        m.EntryID,
		SequenceNumber: m.SequenceNumber,
		EntryDate:      m.EntryDate,
		Memo:           m.Memo,
		Reference:      m.Reference,
		CompanyID:      m.CompanyID,
		TotalDebit:     m.TotalDebit,
		TotalCredit:    m.TotalCredit,
		Status:         domain.EntryStatus(m.Status),
		PostedBy:       m.PostedBy,
		VoidedAt:       utcPtr(m.VoidedAt),
		VoidedBy:       m.VoidedBy,
		Postings:       []domain.Posting{},
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPosting converts a domain Posting to a model Posting
func ToModelPosting(d domain.Posting) models.Posting {
	return models.Posting{
		PostingID:   d.PostingID,
		EntryID:     d.EntryID,
		LineNo:      d.LineNo,
		AccountID:   d.AccountID,
		AccountCode: d.AccountCode,
		AccountName: d.AccountName,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Memo:        d.Memo,
	}
}

// ToDomainPosting converts a model Posting to a domain Posting
func ToDomainPosting(m models.Posting) domain.Posting {
	return domain.Posting{
		PostingID:   m.PostingID,
		EntryID:     m.EntryID,
		LineNo:      m.LineNo,
		AccountID:   m.AccountID,
		AccountCode: m.AccountCode,
		AccountName: m.AccountName,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Memo:        m.Memo,
	}
}

// ToDomainPostingSlice converts a slice of model Postings to a slice of domain Postings
func ToDomainPostingSlice(ms []models.Posting) []domain.Posting {
	ds := make([]domain.Posting, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPosting(m)
	}
	return ds
}
