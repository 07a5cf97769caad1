package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/pocket_ledger/internal/apperrors"
	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pocket_ledger/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger/internal/dto"
	"github.com/SscSPs/pocket_ledger/internal/platform/metrics"
	"github.com/SscSPs/pocket_ledger/internal/utils/dates"
	"github.com/SscSPs/pocket_ledger/internal/utils/pagination"
)

const (
	defaultJournalPageSize = 20
	maxJournalPageSize     = 200
)

// journalService validates drafts through the draft builder and owns every journal write.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	builder     portssvc.DraftBuilderSvc
	recorder    metrics.Recorder
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithMetrics sets the recorder for write outcomes. The default records nothing.
func WithMetrics(recorder metrics.Recorder) JournalServiceOption {
	return func(s *journalService) {
		s.recorder = recorder
	}
}

// WithJournalBase applies shared service options such as the clock.
func WithJournalBase(options ...ServiceOption) JournalServiceOption {
	return func(s *journalService) {
		for _, opt := range options {
			opt(&s.BaseService)
		}
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, builder portssvc.DraftBuilderSvc, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo: journalRepo,
		builder:     builder,
		recorder:    metrics.Nop{},
	}
	for _, opt := range options {
		opt(svc)
	}
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) CommitJournal(ctx context.Context, draft domain.Draft) (*domain.Journal, error) {
	return s.commit(ctx, "commit", draft)
}

func (s *journalService) ImportJournal(ctx context.Context, raw []byte) (*domain.Journal, error) {
	payload, err := s.builder.ParseImportPayload(raw)
	if err != nil {
		s.recorder.JournalRejected(err)
		return nil, err
	}
	return s.commit(ctx, "import", *payload)
}

func (s *journalService) commit(ctx context.Context, operation string, draft domain.Draft) (*domain.Journal, error) {
	validated, err := s.builder.Build(ctx, draft)
	if err != nil {
		s.recorder.JournalRejected(err)
		return nil, err
	}

	if err := s.journalRepo.SaveJournal(ctx, *validated); err != nil {
		s.recorder.StorageFailed(operation)
		s.LogError(ctx, err, "Failed to save journal", slog.String("operation", operation))
		return nil, err
	}

	journal := validated.Journal()
	s.recorder.JournalWritten(operation, string(journal.Kind))
	s.LogInfo(ctx, "Journal committed",
		slog.String("journal_id", journal.JournalID),
		slog.String("kind", string(journal.Kind)),
		slog.Int("lines", len(journal.Lines)))
	return &journal, nil
}

func (s *journalService) ReplaceJournal(ctx context.Context, journalID string, draft domain.Draft) (*domain.Journal, error) {
	prior, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load journal for replace", slog.String("journal_id", journalID))
		}
		return nil, err
	}

	validated, err := s.builder.Build(ctx, keepAttachment(draft, prior.AttachmentRef), domain.AllowInactive(prior.AccountIDs()...))
	if err != nil {
		s.recorder.JournalRejected(err)
		return nil, err
	}
	replacement := validated.WithIdentity(prior.JournalID, prior.CreatedAt)

	if err := s.journalRepo.ReplaceJournal(ctx, replacement); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.recorder.StorageFailed("replace")
			s.LogError(ctx, err, "Failed to replace journal", slog.String("journal_id", journalID))
		}
		return nil, err
	}

	journal := replacement.Journal()
	s.recorder.JournalWritten("replace", string(journal.Kind))
	s.LogInfo(ctx, "Journal replaced",
		slog.String("journal_id", journal.JournalID),
		slog.Int("lines", len(journal.Lines)))
	return &journal, nil
}

// keepAttachment carries the stored attachment over when the replacement names none.
func keepAttachment(draft domain.Draft, ref *string) domain.Draft {
	if ref == nil {
		return draft
	}
	switch d := draft.(type) {
	case domain.GuidedDraft:
		if d.AttachmentRef == nil {
			d.AttachmentRef = ref
		}
		return d
	case domain.GeneralDraft:
		if d.AttachmentRef == nil {
			d.AttachmentRef = ref
		}
		return d
	}
	return draft
}

func (s *journalService) DeleteJournal(ctx context.Context, journalID string) error {
	if err := s.journalRepo.DeleteJournal(ctx, journalID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.recorder.StorageFailed("delete")
			s.LogError(ctx, err, "Failed to delete journal", slog.String("journal_id", journalID))
		}
		return err
	}
	s.recorder.JournalWritten("delete", "")
	s.LogInfo(ctx, "Journal deleted", slog.String("journal_id", journalID))
	return nil
}

func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal by ID", slog.String("journal_id", journalID))
		}
		return nil, err
	}
	if err := s.checkStoredBalance(ctx, journal); err != nil {
		return nil, err
	}
	return journal, nil
}

// checkStoredBalance reports a stored journal whose lines do not balance. Writes
// never produce one, so this means the storage was modified out of band.
func (s *journalService) checkStoredBalance(ctx context.Context, journal *domain.Journal) error {
	if journal.IsBalanced() {
		return nil
	}
	debits, credits := journal.Totals()
	err := fmt.Errorf("%w: journal %s has debits %s and credits %s",
		apperrors.ErrInvariantViolation, journal.JournalID, debits.String(), credits.String())
	s.recorder.InvariantViolated()
	s.LogError(ctx, err, "Stored journal is unbalanced",
		slog.String("journal_id", journal.JournalID),
		slog.String("debit_total", debits.String()),
		slog.String("credit_total", credits.String()))
	return err
}

func (s *journalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	dateRange, err := dates.ParseRange(params.From, params.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	filter := portsrepo.JournalFilter{Range: dateRange, Limit: params.Limit, NextToken: params.NextToken}
	if filter.Limit <= 0 {
		filter.Limit = defaultJournalPageSize
	}
	if filter.Limit > maxJournalPageSize {
		filter.Limit = maxJournalPageSize
	}
	if params.Kind != "" {
		kind := domain.JournalKind(params.Kind)
		if kind != domain.KindExpense && kind != domain.KindGeneral {
			return nil, fmt.Errorf("%w: unknown journal kind %q", apperrors.ErrValidation, params.Kind)
		}
		filter.Kind = &kind
	}
	if params.NextToken != nil && *params.NextToken != "" {
		if _, _, err := pagination.DecodeToken(*params.NextToken); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	} else {
		filter.NextToken = nil
	}

	journals, nextToken, err := s.journalRepo.ListJournals(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journals")
		return nil, err
	}

	resp := &dto.ListJournalsResponse{
		Journals:  make([]dto.JournalResponse, 0, len(journals)),
		NextToken: nextToken,
	}
	for i := range journals {
		if err := s.checkStoredBalance(ctx, &journals[i]); err != nil {
			return nil, err
		}
		resp.Journals = append(resp.Journals, dto.ToJournalResponse(&journals[i]))
	}
	return resp, nil
}

func (s *journalService) SetAttachment(ctx context.Context, journalID string, ref string) (*domain.Journal, error) {
	if err := domain.ValidateAttachmentRef(ref); err != nil {
		s.recorder.JournalRejected(err)
		return nil, err
	}
	return s.writeAttachment(ctx, journalID, &ref)
}

func (s *journalService) ClearAttachment(ctx context.Context, journalID string) (*domain.Journal, error) {
	return s.writeAttachment(ctx, journalID, nil)
}

func (s *journalService) writeAttachment(ctx context.Context, journalID string, ref *string) (*domain.Journal, error) {
	journal, err := s.GetJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	if err := s.journalRepo.SetAttachment(ctx, journalID, ref, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.recorder.StorageFailed("attachment")
			s.LogError(ctx, err, "Failed to store attachment reference", slog.String("journal_id", journalID))
		}
		return nil, err
	}

	journal.AttachmentRef = ref
	journal.LastUpdatedAt = now
	s.recorder.JournalWritten("attachment", string(journal.Kind))
	s.LogInfo(ctx, "Journal attachment updated",
		slog.String("journal_id", journalID),
		slog.Bool("attached", ref != nil))
	return journal, nil
}
