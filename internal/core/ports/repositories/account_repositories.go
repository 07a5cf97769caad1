package repositories

import (
	"context"

	"github.com/SscSPs/pocket_ledger/internal/core/domain"
)

// AccountFilter narrows ListAccounts.
type AccountFilter struct {
	AccountType *domain.AccountType
	ActiveOnly  bool
}

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing ids are absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountsByName matches name case-insensitively among the given types (all types when none
	// are given). Active accounts come first.
	FindAccountsByName(ctx context.Context, name string, types ...domain.AccountType) ([]domain.Account, error)

	// ListAccounts retrieves accounts ordered by code.
	ListAccounts(ctx context.Context, filter AccountFilter) ([]domain.Account, error)

	CountAccounts(ctx context.Context) (int, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount allocates the next code for the account's type and inserts the account
	// in one transaction. The returned account carries the code.
	SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error)

	// UpdateAccount persists name, description and active flag. Code and type are never written.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount hard-deletes an account that no journal line references.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
