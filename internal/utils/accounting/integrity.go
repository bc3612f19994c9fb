package accounting

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// BuildIntegrityReport checks stored entry totals against their postings.
// Rows are checked in sequence-number order whatever order they arrive in.
// Sequence numbers must be unique; gaps left by deleted entries are allowed.
func BuildIntegrityReport(totals []domain.EntryTotals) domain.IntegrityReport {
	report := domain.IntegrityReport{CheckedEntries: len(totals), Issues: []domain.IntegrityIssue{}}

	ordered := slices.Clone(totals)
	slices.SortStableFunc(ordered, func(a, b domain.EntryTotals) int {
		return cmp.Compare(a.SequenceNumber, b.SequenceNumber)
	})

	seen := make(map[int64]string, len(ordered))
	for _, t := range ordered {
		issue := func(kind domain.IntegrityIssueKind, format string, args ...any) {
			report.Issues = append(report.Issues, domain.IntegrityIssue{
				EntryID:        t.EntryID,
				SequenceNumber: t.SequenceNumber,
				Kind:           kind,
				Detail:         fmt.Sprintf(format, args...),
			})
		}

		if !t.HeaderDebit.Equal(t.PostingDebit) || !t.HeaderCredit.Equal(t.PostingCredit) {
			issue(domain.IssueHeaderMismatch, "header %s/%s, postings %s/%s",
				t.HeaderDebit.StringFixed(2), t.HeaderCredit.StringFixed(2),
				t.PostingDebit.StringFixed(2), t.PostingCredit.StringFixed(2))
		}
		if !WithinTolerance(t.PostingDebit, t.PostingCredit) {
			issue(domain.IssueUnbalanced, "postings debit %s, credit %s",
				t.PostingDebit.StringFixed(2), t.PostingCredit.StringFixed(2))
		}
		if t.LineCount < MinPostingLines {
			issue(domain.IssueInsufficientLines, "%d posting lines", t.LineCount)
		}
		if t.SequenceNumber <= 0 {
			issue(domain.IssueSequenceOrder, "sequence number %d is not positive", t.SequenceNumber)
		} else if other, dup := seen[t.SequenceNumber]; dup {
			issue(domain.IssueSequenceOrder, "sequence number %d shared with entry %s", t.SequenceNumber, other)
		} else {
			seen[t.SequenceNumber] = t.EntryID
		}
	}

	report.OK = len(report.Issues) == 0
	return report
}
