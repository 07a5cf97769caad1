package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/pocket_ledger/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) accountResult(args mock.Arguments) (*domain.Account, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	return m.accountResult(m.Called(ctx, req))
}
func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return m.accountResult(m.Called(ctx, accountID))
}
func (m *MockAccountService) GetAccountByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) FindActiveAccountByName(ctx context.Context, name string, types ...domain.AccountType) (*domain.Account, error) {
	return m.accountResult(m.Called(ctx, name, types))
}
func (m *MockAccountService) LookupExpenseAccount(ctx context.Context, category string) (*domain.Account, error) {
	return m.accountResult(m.Called(ctx, category))
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	return m.accountResult(m.Called(ctx, accountID, req))
}
func (m *MockAccountService) SetAccountActive(ctx context.Context, accountID string, active bool) (*domain.Account, error) {
	return m.accountResult(m.Called(ctx, accountID, active))
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string) error {
	return m.Called(ctx, accountID).Error(0)
}
func (m *MockAccountService) EnsureExpenseAccount(ctx context.Context, category string) (*domain.Account, error) {
	return m.accountResult(m.Called(ctx, category))
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) journalResult(args mock.Arguments) (*domain.Journal, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	return m.journalResult(m.Called(ctx, journalID))
}
func (m *MockJournalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalsResponse), args.Error(1)
}
func (m *MockJournalService) CommitJournal(ctx context.Context, draft domain.Draft) (*domain.Journal, error) {
	return m.journalResult(m.Called(ctx, draft))
}
func (m *MockJournalService) ReplaceJournal(ctx context.Context, journalID string, draft domain.Draft) (*domain.Journal, error) {
	return m.journalResult(m.Called(ctx, journalID, draft))
}
func (m *MockJournalService) DeleteJournal(ctx context.Context, journalID string) error {
	return m.Called(ctx, journalID).Error(0)
}
func (m *MockJournalService) SetAttachment(ctx context.Context, journalID string, ref string) (*domain.Journal, error) {
	return m.journalResult(m.Called(ctx, journalID, ref))
}
func (m *MockJournalService) ClearAttachment(ctx context.Context, journalID string) (*domain.Journal, error) {
	return m.journalResult(m.Called(ctx, journalID))
}
func (m *MockJournalService) ImportJournal(ctx context.Context, raw []byte) (*domain.Journal, error) {
	return m.journalResult(m.Called(ctx, raw))
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) AccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockReportingService) BalanceSheet(ctx context.Context, asOf *time.Time) (*domain.BalanceSheet, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheet), args.Error(1)
}
func (m *MockReportingService) AccountTransactions(ctx context.Context, accountID string, dateRange domain.DateRange) ([]domain.AccountLineEntry, error) {
	args := m.Called(ctx, accountID, dateRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountLineEntry), args.Error(1)
}
func (m *MockReportingService) ExpenseAggregate(ctx context.Context, dateRange domain.DateRange, granularity domain.Granularity) ([]domain.ExpenseBucket, error) {
	args := m.Called(ctx, dateRange, granularity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseBucket), args.Error(1)
}
func (m *MockReportingService) NetAssetsSeries(ctx context.Context, dateRange domain.DateRange, granularity domain.Granularity) ([]domain.NetAssetsPoint, error) {
	args := m.Called(ctx, dateRange, granularity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NetAssetsPoint), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)
