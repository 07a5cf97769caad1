package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/pocket_ledger/internal/core/domain"
)

// JournalFilter narrows ListJournals. Results are ordered by date then id, newest first.
type JournalFilter struct {
	Range     domain.DateRange
	Kind      *domain.JournalKind
	Limit     int
	NextToken *string
}

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a journal with its lines in line order.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals returns one page of journals with their lines and the token for the next page.
	ListJournals(ctx context.Context, filter JournalFilter) ([]domain.Journal, *string, error)

	CountJournals(ctx context.Context) (int, error)
}

// JournalWriter defines write operations for journal data. Every method is one
// storage transaction; on error nothing was written.
type JournalWriter interface {
	// SaveJournal persists header and lines together.
	SaveJournal(ctx context.Context, journal domain.ValidatedJournal) error

	// ReplaceJournal swaps the stored header and lines for the validated state.
	ReplaceJournal(ctx context.Context, journal domain.ValidatedJournal) error

	// DeleteJournal removes header and lines.
	DeleteJournal(ctx context.Context, journalID string) error

	// SetAttachment stores ref as the entry's only attachment; nil clears it.
	SetAttachment(ctx context.Context, journalID string, ref *string, updatedAt time.Time) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
