package services

import (
	"context"

	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	"github.com/SscSPs/pocket_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for account data. None of them have side effects.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByIDs retrieves multiple accounts by their IDs.
	GetAccountByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts ordered by code, optionally filtered by type and active flag.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)

	// FindActiveAccountByName resolves a user-facing name case-insensitively among active
	// accounts of the given types.
	FindActiveAccountByName(ctx context.Context, name string, types ...domain.AccountType) (*domain.Account, error)

	// LookupExpenseAccount finds the active expense account named after category. It returns
	// ErrNotFound when none exists and a ReferentialError when only an inactive one does.
	LookupExpenseAccount(ctx context.Context, category string) (*domain.Account, error)
}

// AccountWriterSvc defines write operations for account data. Each is one atomic write.
type AccountWriterSvc interface {
	// CreateAccount generates the account code and persists a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount renames an account and/or changes its description.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// SetAccountActive deactivates or reactivates an account. The code is never regenerated.
	SetAccountActive(ctx context.Context, accountID string, active bool) (*domain.Account, error)

	// DeleteAccount removes an account that has never been posted to.
	DeleteAccount(ctx context.Context, accountID string) error

	// EnsureExpenseAccount returns the active expense account named after category, creating it
	// when no expense account of that name exists.
	EnsureExpenseAccount(ctx context.Context, category string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
