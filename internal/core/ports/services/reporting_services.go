package services

import (
	"context"
	"time"

	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingService answers balance and history queries. It never mutates state and keeps
// nothing between calls.
type ReportingService interface {
	// AccountBalance returns the account's balance signed by its normal side, up to asOf.
	AccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error)

	// BalanceSheet groups asset and liability balances as of a date.
	BalanceSheet(ctx context.Context, asOf *time.Time) (*domain.BalanceSheet, error)

	// AccountTransactions lists the account's lines with running balances.
	AccountTransactions(ctx context.Context, accountID string, dateRange domain.DateRange) ([]domain.AccountLineEntry, error)

	// ExpenseAggregate sums expense lines per bucket and category.
	ExpenseAggregate(ctx context.Context, dateRange domain.DateRange, granularity domain.Granularity) ([]domain.ExpenseBucket, error)

	// NetAssetsSeries returns the asset and liability position at the end of every bucket.
	NetAssetsSeries(ctx context.Context, dateRange domain.DateRange, granularity domain.Granularity) ([]domain.NetAssetsPoint, error)
}
