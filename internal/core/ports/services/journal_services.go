package services

import (
	"context"

	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	"github.com/SscSPs/pocket_ledger/internal/dto"
)

// DraftBuilderSvc turns drafts into validated journals or rejects them with a structured
// reason. It never writes journals.
type DraftBuilderSvc interface {
	// Build normalizes any draft into a candidate entry and runs the validation pass.
	Build(ctx context.Context, draft domain.Draft, opts ...domain.ValidationOption) (*domain.ValidatedJournal, error)

	// ParseImportPayload decodes raw import JSON, rejecting unknown keys.
	ParseImportPayload(raw []byte) (*domain.ImportPayload, error)

	// ResolveImport maps an import payload onto a guided draft, reporting every field problem.
	ResolveImport(ctx context.Context, payload domain.ImportPayload) (*domain.GuidedDraft, error)
}

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalByID retrieves a specific journal by its ID.
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves one page of journals, newest first.
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalWriterSvc defines write operations for journal data. A draft is either fully
// persisted or nothing is written.
type JournalWriterSvc interface {
	// CommitJournal validates a draft and persists it as a new entry.
	CommitJournal(ctx context.Context, draft domain.Draft) (*domain.Journal, error)

	// ReplaceJournal validates a draft and atomically swaps it in for an existing entry.
	ReplaceJournal(ctx context.Context, journalID string, draft domain.Draft) (*domain.Journal, error)

	// DeleteJournal removes an entry and its lines.
	DeleteJournal(ctx context.Context, journalID string) error

	// SetAttachment records ref as the entry's only attachment, replacing any previous one.
	SetAttachment(ctx context.Context, journalID string, ref string) (*domain.Journal, error)

	// ClearAttachment removes the entry's attachment reference.
	ClearAttachment(ctx context.Context, journalID string) (*domain.Journal, error)

	// ImportJournal parses, resolves and commits a raw import payload as one entry.
	ImportJournal(ctx context.Context, raw []byte) (*domain.Journal, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
