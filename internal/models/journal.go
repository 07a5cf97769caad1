package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journal represents a row of the journals table.
type Journal struct {
	JournalID     string    `db:"journal_id"`
	JournalDate   time.Time `db:"journal_date"`
	Kind          string    `db:"kind"`
	Title         string    `db:"title"`
	Memo          string    `db:"memo"`
	AttachmentRef *string   `db:"attachment_ref"` // Nullable
	AuditFields
}

// JournalLine represents a row of the journal_lines table.
type JournalLine struct {
	LineID           string           `db:"line_id"`
	JournalID        string           `db:"journal_id"`
	LineNo           int              `db:"line_no"`
	AccountID        string           `db:"account_id"`
	Side             string           `db:"side"`
	Amount           decimal.Decimal  `db:"amount"`
	Category         *string          `db:"category"`          // Nullable
	Note             *string          `db:"note"`              // Nullable
	OriginalAmount   *decimal.Decimal `db:"original_amount"`   // Nullable
	OriginalCurrency *string          `db:"original_currency"` // Nullable
}
