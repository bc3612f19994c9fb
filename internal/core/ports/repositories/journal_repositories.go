package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindEntryByID retrieves an entry with its postings, each carrying the account code and name.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entries, newest sequence number first.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// PostEntry atomically assigns the next sequence number and persists the entry
	// header and all postings. Nothing is persisted if any step fails.
	PostEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error)

	// VoidEntry flips an active entry to VOIDED, keeping its rows and sequence number.
	VoidEntry(ctx context.Context, entryID string, userID string, now time.Time) (*domain.JournalEntry, error)

	// DeleteEntry removes an entry and, by cascade, its postings.
	DeleteEntry(ctx context.Context, entryID string) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
