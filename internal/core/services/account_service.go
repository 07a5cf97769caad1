package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/pocket_ledger/internal/apperrors"
	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pocket_ledger/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger/internal/dto"
	"github.com/google/uuid"
)

const maxAccountNameLength = 255

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{accountRepo: repo}
	for _, opt := range options {
		opt(&svc.BaseService)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	name, err := normalizeAccountName(req.Name)
	if err != nil {
		return nil, err
	}
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if err := s.ensureNameAvailable(ctx, name, req.AccountType, ""); err != nil {
		return nil, err
	}

	now := s.Now()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Name:        name,
		AccountType: req.AccountType,
		Description: strings.TrimSpace(req.Description),
		IsActive:    true,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}

	saved, err := s.accountRepo.SaveAccount(ctx, account)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, &apperrors.DuplicateNameError{Name: name, AccountType: string(req.AccountType)}
		}
		s.LogError(ctx, err, "Failed to save account in repository", slog.String("account_name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", saved.AccountID),
		slog.String("code", saved.Code),
		slog.String("account_type", string(saved.AccountType)))
	return saved, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs", slog.Int("count", len(accountIDs)))
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	filter := portsrepo.AccountFilter{ActiveOnly: params.ActiveOnly}
	if params.AccountType != "" {
		accountType, err := domain.ParseAccountType(params.AccountType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		filter.AccountType = &accountType
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) FindActiveAccountByName(ctx context.Context, name string, types ...domain.AccountType) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrNotFound
	}
	matches, err := s.accountRepo.FindAccountsByName(ctx, name, types...)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by name", slog.String("account_name", name))
		return nil, err
	}
	for i := range matches {
		if matches[i].IsActive {
			return &matches[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *accountService) LookupExpenseAccount(ctx context.Context, category string) (*domain.Account, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apperrors.ErrNotFound
	}
	matches, err := s.accountRepo.FindAccountsByName(ctx, category, domain.Expense)
	if err != nil {
		s.LogError(ctx, err, "Failed to find expense account", slog.String("category", category))
		return nil, err
	}
	if len(matches) == 0 {
		return nil, apperrors.ErrNotFound
	}
	for i := range matches {
		if matches[i].IsActive {
			return &matches[i], nil
		}
	}
	return nil, &apperrors.ReferentialError{
		Field:      "category",
		AccountRef: category,
		Reason:     apperrors.ReasonInactiveAccount,
	}
}

func (s *accountService) EnsureExpenseAccount(ctx context.Context, category string) (*domain.Account, error) {
	account, err := s.LookupExpenseAccount(ctx, category)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	created, err := s.CreateAccount(ctx, dto.CreateAccountRequest{Name: category, AccountType: domain.Expense})
	if err != nil {
		// Lost a race with a concurrent writer creating the same category.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.LookupExpenseAccount(ctx, category)
		}
		return nil, err
	}
	return created, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		name, err := normalizeAccountName(*req.Name)
		if err != nil {
			return nil, err
		}
		if name != account.Name {
			if account.IsActive && !strings.EqualFold(name, account.Name) {
				if err := s.ensureNameAvailable(ctx, name, account.AccountType, account.AccountID); err != nil {
					return nil, err
				}
			}
			account.Name = name
			updated = true
		}
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description != account.Description {
			account.Description = description
			updated = true
		}
	}
	if !updated {
		return account, nil
	}

	return s.persistUpdate(ctx, account)
}

func (s *accountService) SetAccountActive(ctx context.Context, accountID string, active bool) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.IsActive == active {
		return account, nil
	}
	if active {
		if err := s.ensureNameAvailable(ctx, account.Name, account.AccountType, account.AccountID); err != nil {
			return nil, err
		}
	}

	account.IsActive = active
	saved, err := s.persistUpdate(ctx, account)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Account active flag changed",
		slog.String("account_id", accountID),
		slog.Bool("is_active", active))
	return saved, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrAccountInUse) {
			s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		}
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) persistUpdate(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	account.LastUpdatedAt = s.Now()
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, &apperrors.DuplicateNameError{Name: account.Name, AccountType: string(account.AccountType)}
		}
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", account.AccountID))
		return nil, err
	}
	return account, nil
}

// ensureNameAvailable rejects name when another active account of the same type already uses it.
func (s *accountService) ensureNameAvailable(ctx context.Context, name string, accountType domain.AccountType, exceptID string) error {
	matches, err := s.accountRepo.FindAccountsByName(ctx, name, accountType)
	if err != nil {
		s.LogError(ctx, err, "Failed to check account name", slog.String("account_name", name))
		return err
	}
	for _, m := range matches {
		if m.IsActive && m.AccountID != exceptID {
			return &apperrors.DuplicateNameError{Name: name, AccountType: string(accountType)}
		}
	}
	return nil
}

func normalizeAccountName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	if len([]rune(name)) > maxAccountNameLength {
		return "", fmt.Errorf("%w: account name exceeds %d characters", apperrors.ErrValidation, maxAccountNameLength)
	}
	return name, nil
}
