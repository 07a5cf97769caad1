package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/pocket_ledger/internal/apperrors"
	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/pocket_ledger/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger/internal/utils/dates"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// pendingCategoryPrefix marks a guided line whose expense account does not exist yet.
const pendingCategoryPrefix = "pending-category:"

// draftBuilder normalizes drafts into candidate journals and validates them.
type draftBuilder struct {
	BaseService
	accountSvc       portssvc.AccountSvcFacade
	scale            int32
	domesticCurrency string
	validate         *validator.Validate
}

// DraftBuilderOption is a functional option for configuring the draft builder
type DraftBuilderOption func(*draftBuilder)

// WithAmountScale sets how many decimal places an amount may carry.
func WithAmountScale(scale int32) DraftBuilderOption {
	return func(b *draftBuilder) {
		b.scale = scale
	}
}

// WithDomesticCurrency sets the currency recorded on imported lines that name none.
func WithDomesticCurrency(code string) DraftBuilderOption {
	return func(b *draftBuilder) {
		b.domesticCurrency = strings.ToUpper(code)
	}
}

// WithBuilderBase applies shared service options such as the clock.
func WithBuilderBase(options ...ServiceOption) DraftBuilderOption {
	return func(b *draftBuilder) {
		for _, opt := range options {
			opt(&b.BaseService)
		}
	}
}

// NewDraftBuilder creates a new draft builder.
func NewDraftBuilder(accountSvc portssvc.AccountSvcFacade, options ...DraftBuilderOption) portssvc.DraftBuilderSvc {
	b := &draftBuilder{
		accountSvc:       accountSvc,
		scale:            domain.DefaultAmountScale,
		domesticCurrency: "GBP",
		validate:         newImportValidator(),
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

var _ portssvc.DraftBuilderSvc = (*draftBuilder)(nil)

func (b *draftBuilder) Build(ctx context.Context, draft domain.Draft, opts ...domain.ValidationOption) (*domain.ValidatedJournal, error) {
	if draft == nil {
		return nil, fmt.Errorf("%w: draft is required", apperrors.ErrValidation)
	}
	opts = append([]domain.ValidationOption{domain.WithAmountScale(b.scale)}, opts...)

	var (
		validated domain.ValidatedJournal
		err       error
	)
	switch d := draft.(type) {
	case domain.GeneralDraft:
		validated, err = b.buildGeneral(ctx, d, opts)
	case domain.GuidedDraft:
		validated, err = b.buildGuided(ctx, d, opts)
	case domain.ImportPayload:
		guided, resolveErr := b.ResolveImport(ctx, d)
		if resolveErr != nil {
			return nil, resolveErr
		}
		validated, err = b.buildGuided(ctx, *guided, opts)
	default:
		return nil, fmt.Errorf("%w: unsupported draft type %T", apperrors.ErrValidation, draft)
	}
	if err != nil {
		b.LogDebug(ctx, "Draft rejected",
			slog.String("kind", string(draft.Kind())),
			slog.String("error", err.Error()))
		return nil, err
	}
	return &validated, nil
}

// newCandidate builds the header shared by every draft shape.
func (b *draftBuilder) newCandidate(kind domain.JournalKind, date, title, memo string, attachmentRef *string) (domain.Journal, error) {
	if strings.TrimSpace(date) == "" {
		return domain.Journal{}, &apperrors.StructuralError{Field: "date", Reason: apperrors.ReasonMissingDate}
	}
	journalDate, err := dates.ParseDate(date)
	if err != nil {
		return domain.Journal{}, &apperrors.StructuralError{Field: "date", Reason: apperrors.ReasonInvalidDate, Detail: err.Error()}
	}

	now := b.Now()
	return domain.Journal{
		JournalID:     uuid.NewString(),
		JournalDate:   journalDate,
		Kind:          kind,
		Title:         strings.TrimSpace(title),
		Memo:          strings.TrimSpace(memo),
		AttachmentRef: attachmentRef,
		AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}, nil
}

func (b *draftBuilder) buildGeneral(ctx context.Context, d domain.GeneralDraft, opts []domain.ValidationOption) (domain.ValidatedJournal, error) {
	candidate, err := b.newCandidate(domain.KindGeneral, d.Date, d.Title, d.Memo, d.AttachmentRef)
	if err != nil {
		return domain.ValidatedJournal{}, err
	}

	for _, l := range d.Lines {
		candidate.Lines = append(candidate.Lines, domain.JournalLine{
			LineID:           uuid.NewString(),
			JournalID:        candidate.JournalID,
			AccountID:        strings.TrimSpace(l.AccountID),
			Side:             domain.Side(strings.ToUpper(string(l.Side))),
			Amount:           l.Amount,
			Category:         strings.TrimSpace(l.Category),
			Note:             strings.TrimSpace(l.Note),
			OriginalAmount:   l.OriginalAmount,
			OriginalCurrency: upperPtr(l.OriginalCurrency),
		})
	}

	accounts, err := b.accountSvc.GetAccountByIDs(ctx, nonBlank(candidate.AccountIDs()))
	if err != nil {
		return domain.ValidatedJournal{}, err
	}
	return domain.ValidateJournal(candidate, accounts, opts...)
}

// buildGuided synthesizes one debit per category and one credit on the payment account.
// Missing category accounts are created only once the entry passed validation with
// placeholders standing in for them.
func (b *draftBuilder) buildGuided(ctx context.Context, d domain.GuidedDraft, opts []domain.ValidationOption) (domain.ValidatedJournal, error) {
	candidate, err := b.newCandidate(domain.KindExpense, d.Date, d.Title, d.Memo, d.AttachmentRef)
	if err != nil {
		return domain.ValidatedJournal{}, err
	}
	if len(d.Lines) == 0 {
		return domain.ValidatedJournal{}, &apperrors.StructuralError{Field: "lines", Reason: apperrors.ReasonEmptyLines}
	}
	for i, l := range d.Lines {
		if strings.TrimSpace(l.Category) == "" {
			return domain.ValidatedJournal{}, &apperrors.StructuralError{
				Field:  fmt.Sprintf("lines[%d].category", i),
				Reason: apperrors.ReasonMissingCategory,
			}
		}
	}

	allowed := domain.InactiveAllowed(opts...)
	accounts := make(map[string]domain.Account, len(d.Lines)+1)
	categories := make(map[string]*domain.Account, len(d.Lines))
	var categoryErr error
	for i, l := range d.Lines {
		category := strings.TrimSpace(l.Category)
		key := strings.ToLower(category)
		if _, seen := categories[key]; seen {
			continue
		}
		acc, err := b.accountSvc.LookupExpenseAccount(ctx, category)
		if errors.Is(err, apperrors.ErrReferential) && len(allowed) > 0 {
			retired, lookupErr := b.retiredCategory(ctx, category, allowed)
			if lookupErr != nil {
				return domain.ValidatedJournal{}, lookupErr
			}
			if retired != nil {
				acc, err = retired, nil
			}
		}
		switch {
		case err == nil:
			categories[key] = acc
			accounts[acc.AccountID] = *acc
		case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrReferential):
			var ref *apperrors.ReferentialError
			if categoryErr == nil && errors.As(err, &ref) {
				categoryErr = &apperrors.ReferentialError{
					Field:      fmt.Sprintf("lines[%d].category", i),
					AccountRef: category,
					Reason:     ref.Reason,
				}
			}
			categories[key] = nil
			accounts[pendingCategoryPrefix+key] = domain.Account{
				AccountID:   pendingCategoryPrefix + key,
				Name:        category,
				AccountType: domain.Expense,
				IsActive:    true,
			}
		default:
			return domain.ValidatedJournal{}, err
		}
	}

	paymentID := strings.TrimSpace(d.PaymentAccountID)
	if paymentID != "" {
		payment, err := b.accountSvc.GetAccountByID(ctx, paymentID)
		switch {
		case err == nil:
			if payment.AccountType == domain.Asset || payment.AccountType == domain.Liability {
				accounts[payment.AccountID] = *payment
			}
		case errors.Is(err, apperrors.ErrNotFound):
		default:
			return domain.ValidatedJournal{}, err
		}
	}

	currency := upperPtr(d.CurrencyOriginal)
	originalTotal := decimal.Zero
	allOriginal := true
	for _, l := range d.Lines {
		category := strings.TrimSpace(l.Category)
		accountID := pendingCategoryPrefix + strings.ToLower(category)
		if acc := categories[strings.ToLower(category)]; acc != nil {
			accountID = acc.AccountID
		}
		if l.OriginalAmount != nil {
			originalTotal = originalTotal.Add(*l.OriginalAmount)
		} else {
			allOriginal = false
		}
		candidate.Lines = append(candidate.Lines, domain.JournalLine{
			LineID:           uuid.NewString(),
			JournalID:        candidate.JournalID,
			AccountID:        accountID,
			Side:             domain.Debit,
			Amount:           l.Amount,
			Category:         category,
			Note:             strings.TrimSpace(l.Note),
			OriginalAmount:   l.OriginalAmount,
			OriginalCurrency: currency,
		})
	}
	paymentLine := domain.JournalLine{
		LineID:           uuid.NewString(),
		JournalID:        candidate.JournalID,
		AccountID:        paymentID,
		Side:             domain.Credit,
		Amount:           d.Total(),
		OriginalCurrency: currency,
	}
	if allOriginal {
		paymentLine.OriginalAmount = &originalTotal
	}
	candidate.Lines = append(candidate.Lines, paymentLine)

	if _, err := domain.ValidateJournal(candidate, accounts, opts...); err != nil {
		var ref *apperrors.ReferentialError
		if errors.As(err, &ref) && ref.AccountRef == paymentID {
			return domain.ValidatedJournal{}, &apperrors.ReferentialError{
				Field:      "payment_account",
				AccountRef: paymentID,
				Reason:     apperrors.ReasonUnknownPaymentAccount,
			}
		}
		if categoryErr != nil && !errors.Is(err, apperrors.ErrStructural) {
			return domain.ValidatedJournal{}, categoryErr
		}
		return domain.ValidatedJournal{}, err
	}
	if categoryErr != nil {
		return domain.ValidatedJournal{}, categoryErr
	}

	for i := range candidate.Lines {
		accountID := candidate.Lines[i].AccountID
		if !strings.HasPrefix(accountID, pendingCategoryPrefix) {
			continue
		}
		key := strings.TrimPrefix(accountID, pendingCategoryPrefix)
		acc := categories[key]
		if acc == nil {
			acc, err = b.accountSvc.EnsureExpenseAccount(ctx, candidate.Lines[i].Category)
			if err != nil {
				return domain.ValidatedJournal{}, err
			}
			categories[key] = acc
			accounts[acc.AccountID] = *acc
		}
		candidate.Lines[i].AccountID = acc.AccountID
	}
	return domain.ValidateJournal(candidate, accounts, opts...)
}

func upperPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToUpper(strings.TrimSpace(*s))
	if v == "" {
		return nil
	}
	return &v
}

func nonBlank(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// retiredCategory finds a deactivated expense account named category among the ids an
// edit may keep using. It returns nil when none matches.
func (b *draftBuilder) retiredCategory(ctx context.Context, category string, allowed []string) (*domain.Account, error) {
	accounts, err := b.accountSvc.GetAccountByIDs(ctx, allowed)
	if err != nil {
		return nil, err
	}
	for _, id := range allowed {
		acc, ok := accounts[id]
		if ok && acc.AccountType == domain.Expense && strings.EqualFold(acc.Name, category) {
			return &acc, nil
		}
	}
	return nil, nil
}
