package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Draft is an unvalidated candidate journal entry. The set of drafts is closed:
// GuidedDraft, GeneralDraft and ImportPayload.
type Draft interface {
	Kind() JournalKind
	isDraft()
}

// GuidedDraft is the expense form: one payment account pays for one or more categories.
type GuidedDraft struct {
	Date             string
	Title            string
	Memo             string
	PaymentAccountID string
	CurrencyOriginal *string
	Lines            []GuidedLine
	AttachmentRef    *string
}

// GuidedLine is one (category, amount) pair of a guided draft.
type GuidedLine struct {
	Category       string
	Amount         decimal.Decimal
	Note           string
	OriginalAmount *decimal.Decimal
}

// Total sums the category amounts.
func (d GuidedDraft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.Amount)
	}
	return total
}

func (GuidedDraft) Kind() JournalKind { return KindExpense }
func (GuidedDraft) isDraft()          {}

// GeneralDraft carries the full ordered line list; nothing is synthesized.
type GeneralDraft struct {
	Date          string
	Title         string
	Memo          string
	Lines         []GeneralLine
	AttachmentRef *string
}

// GeneralLine is one caller-specified debit or credit.
type GeneralLine struct {
	AccountID        string
	Side             Side
	Amount           decimal.Decimal
	Category         string
	Note             string
	OriginalAmount   *decimal.Decimal
	OriginalCurrency *string
}

func (GeneralDraft) Kind() JournalKind { return KindGeneral }
func (GeneralDraft) isDraft()          {}

// ImportPayload is the structured record handed over by an importer or drafting
// assistant. Names are unresolved and amounts are raw JSON until resolution.
type ImportPayload struct {
	Date             *string      `json:"date"`
	Store            *string      `json:"store"`
	Note             *string      `json:"note"`
	PaymentAccount   *string      `json:"payment_account"`
	CurrencyOriginal *string      `json:"currency_original"`
	Lines            []ImportLine `json:"lines"`
}

// ImportLine is one expense line of an import payload.
type ImportLine struct {
	ExpenseCategory *string         `json:"expense_category"`
	Note            *string         `json:"note"`
	AmountDomestic  json.RawMessage `json:"amount_domestic"`
	AmountOriginal  json.RawMessage `json:"amount_original"`
}

func (ImportPayload) Kind() JournalKind { return KindExpense }
func (ImportPayload) isDraft()          {}
