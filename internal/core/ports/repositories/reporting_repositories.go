package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/pocket_ledger/internal/core/domain"
)

// ReportingRepository defines the read-only aggregate queries behind every report.
// Cutoff dates are inclusive.
type ReportingRepository interface {
	// GetAccountTotals sums the debits and credits of one account up to asOf (all time when nil).
	GetAccountTotals(ctx context.Context, accountID string, asOf *time.Time) (*domain.AccountTotals, error)

	// ListAccountTotals returns per-account sums for the given types. Accounts are included when
	// active or when they have at least one line up to asOf.
	ListAccountTotals(ctx context.Context, types []domain.AccountType, asOf *time.Time) ([]domain.AccountTotals, error)

	// ListAccountLines returns the account's lines with their headers ordered by date, journal id
	// and line number.
	ListAccountLines(ctx context.Context, accountID string, dateRange domain.DateRange) ([]domain.AccountLineEntry, error)

	// ListExpenseDailyTotals sums expense-typed lines per day and category.
	ListExpenseDailyTotals(ctx context.Context, dateRange domain.DateRange) ([]domain.DailyCategoryTotal, error)

	// ListDailyTypeMovements sums lines per day and account type, ordered by date.
	ListDailyTypeMovements(ctx context.Context, types []domain.AccountType, dateRange domain.DateRange) ([]domain.DailyTypeMovement, error)
}
