package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalKind tells how an entry was drafted.
type JournalKind string

const (
	// KindExpense entries come from the guided expense form or an import payload.
	KindExpense JournalKind = "EXPENSE"
	KindGeneral JournalKind = "GENERAL"
)

// Side indicates whether a journal line is a Debit or a Credit.
type Side string

const (
	Debit  Side = "DEBIT"
	Credit Side = "CREDIT"
)

// IsValid reports whether s is DEBIT or CREDIT.
func (s Side) IsValid() bool {
	return s == Debit || s == Credit
}

// Journal is one balanced financial event: a header and its ordered lines.
type Journal struct {
	JournalID     string        `json:"journalID"`
	JournalDate   time.Time     `json:"journalDate"`
	Kind          JournalKind   `json:"kind"`
	Title         string        `json:"title"`
	Memo          string        `json:"memo"`
	AttachmentRef *string       `json:"attachmentRef,omitempty"`
	Lines         []JournalLine `json:"lines"`
	AuditFields
}

// JournalLine is a single debit or credit against one account.
type JournalLine struct {
	LineID           string           `json:"lineID"`
	JournalID        string           `json:"journalID"`
	LineNo           int              `json:"lineNo"`
	AccountID        string           `json:"accountID"`
	Side             Side             `json:"side"`
	Amount           decimal.Decimal  `json:"amount"`
	Category         string           `json:"category,omitempty"`
	Note             string           `json:"note,omitempty"`
	OriginalAmount   *decimal.Decimal `json:"originalAmount,omitempty"`
	OriginalCurrency *string          `json:"originalCurrency,omitempty"`
}

// Totals returns the debit and credit sums of the journal's lines.
func (j Journal) Totals() (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range j.Lines {
		switch l.Side {
		case Debit:
			debits = debits.Add(l.Amount)
		case Credit:
			credits = credits.Add(l.Amount)
		}
	}
	return debits, credits
}

// IsBalanced reports exact equality of debits and credits.
func (j Journal) IsBalanced() bool {
	d, c := j.Totals()
	return d.Equal(c)
}

// AccountIDs returns the distinct account ids referenced by the lines, in line order.
func (j Journal) AccountIDs() []string {
	seen := make(map[string]struct{}, len(j.Lines))
	ids := make([]string, 0, len(j.Lines))
	for _, l := range j.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

// HasOriginalAmount reports whether the line records an informational foreign amount.
func (l JournalLine) HasOriginalAmount() bool {
	return l.OriginalAmount != nil && l.OriginalCurrency != nil
}
