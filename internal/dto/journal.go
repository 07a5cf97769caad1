package dto

import (
	"time"

	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GeneralLineRequest is one caller-specified debit or credit.
type GeneralLineRequest struct {
	AccountID        string           `json:"accountID"`
	Side             domain.Side      `json:"side"`
	Amount           decimal.Decimal  `json:"amount"`
	Category         string           `json:"category"`
	Note             string           `json:"note"`
	OriginalAmount   *decimal.Decimal `json:"originalAmount"`
	OriginalCurrency *string          `json:"originalCurrency"`
}

// CreateGeneralJournalRequest is the general-journal form: every line is given explicitly.
type CreateGeneralJournalRequest struct {
	Date          string               `json:"date"`
	Title         string               `json:"title"`
	Memo          string               `json:"memo"`
	AttachmentRef *string              `json:"attachmentRef"`
	Lines         []GeneralLineRequest `json:"lines"`
}

// ToDraft converts the request into a general draft.
func (r CreateGeneralJournalRequest) ToDraft() domain.GeneralDraft {
	lines := make([]domain.GeneralLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.GeneralLine{
			AccountID:        l.AccountID,
			Side:             l.Side,
			Amount:           l.Amount,
			Category:         l.Category,
			Note:             l.Note,
			OriginalAmount:   l.OriginalAmount,
			OriginalCurrency: l.OriginalCurrency,
		}
	}
	return domain.GeneralDraft{
		Date:          r.Date,
		Title:         r.Title,
		Memo:          r.Memo,
		Lines:         lines,
		AttachmentRef: r.AttachmentRef,
	}
}

// ExpenseLineRequest is one (category, amount) pair of the expense form.
type ExpenseLineRequest struct {
	Category       string           `json:"category"`
	Amount         decimal.Decimal  `json:"amount"`
	Note           string           `json:"note"`
	OriginalAmount *decimal.Decimal `json:"originalAmount"`
}

// CreateExpenseJournalRequest is the guided expense form.
type CreateExpenseJournalRequest struct {
	Date             string               `json:"date"`
	Title            string               `json:"title"`
	Memo             string               `json:"memo"`
	PaymentAccountID string               `json:"paymentAccountID"`
	CurrencyOriginal *string              `json:"currencyOriginal"`
	AttachmentRef    *string              `json:"attachmentRef"`
	Lines            []ExpenseLineRequest `json:"lines"`
}

// ToDraft converts the request into a guided draft.
func (r CreateExpenseJournalRequest) ToDraft() domain.GuidedDraft {
	lines := make([]domain.GuidedLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.GuidedLine{
			Category:       l.Category,
			Amount:         l.Amount,
			Note:           l.Note,
			OriginalAmount: l.OriginalAmount,
		}
	}
	return domain.GuidedDraft{
		Date:             r.Date,
		Title:            r.Title,
		Memo:             r.Memo,
		PaymentAccountID: r.PaymentAccountID,
		CurrencyOriginal: r.CurrencyOriginal,
		Lines:            lines,
		AttachmentRef:    r.AttachmentRef,
	}
}

// SetAttachmentRequest carries the opaque handle produced by the attachment store.
type SetAttachmentRequest struct {
	AttachmentRef string `json:"attachmentRef" binding:"required"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID           string           `json:"lineID"`
	LineNo           int              `json:"lineNo"`
	AccountID        string           `json:"accountID"`
	Side             domain.Side      `json:"side"`
	Amount           decimal.Decimal  `json:"amount"`
	Category         string           `json:"category,omitempty"`
	Note             string           `json:"note,omitempty"`
	OriginalAmount   *decimal.Decimal `json:"originalAmount,omitempty"`
	OriginalCurrency *string          `json:"originalCurrency,omitempty"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID     string                `json:"journalID"`
	Date          string                `json:"date"`
	Kind          domain.JournalKind    `json:"kind"`
	Title         string                `json:"title"`
	Memo          string                `json:"memo"`
	AttachmentRef *string               `json:"attachmentRef,omitempty"`
	Lines         []JournalLineResponse `json:"lines"`
	CreatedAt     time.Time             `json:"createdAt"`
	LastUpdatedAt time.Time             `json:"lastUpdatedAt"`
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	lines := make([]JournalLineResponse, len(j.Lines))
	for i, l := range j.Lines {
		lines[i] = JournalLineResponse{
			LineID:           l.LineID,
			LineNo:           l.LineNo,
			AccountID:        l.AccountID,
			Side:             l.Side,
			Amount:           l.Amount,
			Category:         l.Category,
			Note:             l.Note,
			OriginalAmount:   l.OriginalAmount,
			OriginalCurrency: l.OriginalCurrency,
		}
	}
	return JournalResponse{
		JournalID:     j.JournalID,
		Date:          j.JournalDate.Format(domain.DateLayout),
		Kind:          j.Kind,
		Title:         j.Title,
		Memo:          j.Memo,
		AttachmentRef: j.AttachmentRef,
		Lines:         lines,
		CreatedAt:     j.CreatedAt,
		LastUpdatedAt: j.LastUpdatedAt,
	}
}

// ListJournalsParams defines query parameters for listing journals.
type ListJournalsParams struct {
	From      string  `form:"from"`
	To        string  `form:"to"`
	Kind      string  `form:"kind" binding:"omitempty,oneof=EXPENSE GENERAL"`
	Limit     int     `form:"limit,default=20" binding:"min=1,max=200"`
	NextToken *string `form:"nextToken"`
}

// ListJournalsResponse is one page of journals.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}
