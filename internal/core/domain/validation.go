package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Rhymond/go-money"
	"github.com/SscSPs/pocket_ledger/internal/apperrors"
)

const (
	MaxTitleLength         = 200
	MaxMemoLength          = 500
	MaxAttachmentRefLength = 1024
	DefaultAmountScale     = 2
)

// ValidatedJournal is a journal that passed every ledger invariant. It can only be
// obtained from ValidateJournal, so the journal store never sees unchecked input.
type ValidatedJournal struct {
	journal Journal
}

// Journal returns a copy of the validated journal.
func (v ValidatedJournal) Journal() Journal {
	j := v.journal
	j.Lines = append([]JournalLine(nil), v.journal.Lines...)
	return j
}

// WithIdentity re-keys the journal and its lines to journalID and sets the creation time.
// Identity is not part of any ledger invariant.
func (v ValidatedJournal) WithIdentity(journalID string, createdAt time.Time) ValidatedJournal {
	out := v.Journal()
	out.JournalID = journalID
	out.CreatedAt = createdAt
	for i := range out.Lines {
		out.Lines[i].JournalID = journalID
	}
	return ValidatedJournal{journal: out}
}

type validationConfig struct {
	allowInactive map[string]struct{}
	scale         int32
}

// ValidationOption tunes a single validation pass.
type ValidationOption func(*validationConfig)

// AllowInactive admits lines on the given deactivated accounts. Used when replacing
// an entry that already referenced them.
func AllowInactive(accountIDs ...string) ValidationOption {
	return func(c *validationConfig) {
		for _, id := range accountIDs {
			c.allowInactive[id] = struct{}{}
		}
	}
}

// InactiveAllowed returns the deactivated account ids the options admit, sorted.
func InactiveAllowed(opts ...ValidationOption) []string {
	cfg := validationConfig{allowInactive: map[string]struct{}{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	ids := make([]string, 0, len(cfg.allowInactive))
	for id := range cfg.allowInactive {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WithAmountScale sets the number of decimal places an amount may carry.
func WithAmountScale(scale int32) ValidationOption {
	return func(c *validationConfig) {
		c.scale = scale
	}
}

// ValidateJournal runs the ledger's validation pass and stops at the first failure:
// structure, then account references, then balance, then the attachment handle.
// accounts must contain every account the caller could resolve for the lines.
func ValidateJournal(candidate Journal, accounts map[string]Account, opts ...ValidationOption) (ValidatedJournal, error) {
	cfg := validationConfig{allowInactive: map[string]struct{}{}, scale: DefaultAmountScale}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := checkStructure(candidate, cfg.scale); err != nil {
		return ValidatedJournal{}, err
	}
	if err := checkReferences(candidate, accounts, cfg.allowInactive); err != nil {
		return ValidatedJournal{}, err
	}
	if debits, credits := candidate.Totals(); !debits.Equal(credits) {
		return ValidatedJournal{}, &apperrors.UnbalancedEntryError{DebitTotal: debits, CreditTotal: credits}
	}
	if candidate.AttachmentRef != nil {
		if err := ValidateAttachmentRef(*candidate.AttachmentRef); err != nil {
			return ValidatedJournal{}, err
		}
	}

	out := candidate
	out.Lines = make([]JournalLine, len(candidate.Lines))
	for i, l := range candidate.Lines {
		l.LineNo = i + 1
		out.Lines[i] = l
	}
	return ValidatedJournal{journal: out}, nil
}

func checkStructure(j Journal, scale int32) error {
	if j.JournalDate.IsZero() {
		return &apperrors.StructuralError{Field: "date", Reason: apperrors.ReasonMissingDate}
	}
	if j.Kind != KindExpense && j.Kind != KindGeneral {
		return &apperrors.StructuralError{Field: "kind", Reason: "InvalidKind", Detail: string(j.Kind)}
	}
	if utf8.RuneCountInString(j.Title) > MaxTitleLength {
		return &apperrors.StructuralError{Field: "title", Reason: apperrors.ReasonFieldTooLong}
	}
	if utf8.RuneCountInString(j.Memo) > MaxMemoLength {
		return &apperrors.StructuralError{Field: "memo", Reason: apperrors.ReasonFieldTooLong}
	}
	if len(j.Lines) < 2 {
		return &apperrors.StructuralError{
			Field:  "lines",
			Reason: apperrors.ReasonTooFewLines,
			Detail: fmt.Sprintf("got %d, need at least 2", len(j.Lines)),
		}
	}
	for i, l := range j.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		if !l.Side.IsValid() {
			return &apperrors.StructuralError{Field: field + ".side", Reason: apperrors.ReasonInvalidSide, Detail: string(l.Side)}
		}
		if !l.Amount.IsPositive() {
			return &apperrors.StructuralError{Field: field + ".amount", Reason: apperrors.ReasonNonPositiveAmount, Detail: l.Amount.String()}
		}
		if !l.Amount.Equal(l.Amount.Truncate(scale)) {
			return &apperrors.StructuralError{
				Field:  field + ".amount",
				Reason: apperrors.ReasonAmountPrecision,
				Detail: fmt.Sprintf("%s has more than %d decimal places", l.Amount.String(), scale),
			}
		}
		if utf8.RuneCountInString(l.Note) > MaxMemoLength {
			return &apperrors.StructuralError{Field: field + ".note", Reason: apperrors.ReasonFieldTooLong}
		}
		if l.OriginalAmount != nil && l.OriginalAmount.IsZero() {
			return &apperrors.StructuralError{Field: field + ".original_amount", Reason: apperrors.ReasonNonPositiveAmount}
		}
		if l.OriginalCurrency != nil && !IsCurrencyCode(*l.OriginalCurrency) {
			return &apperrors.StructuralError{Field: field + ".original_currency", Reason: apperrors.ReasonInvalidCurrency, Detail: *l.OriginalCurrency}
		}
	}
	return nil
}

func checkReferences(j Journal, accounts map[string]Account, allowInactive map[string]struct{}) error {
	for i, l := range j.Lines {
		field := fmt.Sprintf("lines[%d].account", i)
		acc, ok := accounts[l.AccountID]
		if !ok || l.AccountID == "" {
			return &apperrors.ReferentialError{Field: field, AccountRef: l.AccountID, Reason: apperrors.ReasonUnknownAccount}
		}
		if !acc.IsActive {
			if _, allowed := allowInactive[l.AccountID]; !allowed {
				return &apperrors.ReferentialError{Field: field, AccountRef: l.AccountID, Reason: apperrors.ReasonInactiveAccount}
			}
		}
	}
	return nil
}

// ValidateAttachmentRef checks that ref is one opaque handle: non-blank, single line, bounded.
func ValidateAttachmentRef(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return &apperrors.StructuralError{Field: "attachment_ref", Reason: apperrors.ReasonInvalidAttachment, Detail: "blank reference"}
	}
	if len(ref) > MaxAttachmentRefLength {
		return &apperrors.StructuralError{Field: "attachment_ref", Reason: apperrors.ReasonInvalidAttachment, Detail: "reference too long"}
	}
	for _, r := range ref {
		if unicode.IsControl(r) {
			return &apperrors.StructuralError{Field: "attachment_ref", Reason: apperrors.ReasonInvalidAttachment, Detail: "reference must be a single handle"}
		}
	}
	return nil
}

// IsCurrencyCode reports whether s is an upper-case ISO 4217 code known to go-money.
func IsCurrencyCode(s string) bool {
	return len(s) == 3 && s == strings.ToUpper(s) && money.GetCurrency(s) != nil
}
