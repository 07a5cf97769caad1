package services_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/pocket_ledger/internal/apperrors"
	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pocket_ledger/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger/internal/core/services"
	"github.com/SscSPs/pocket_ledger/internal/dto"
	"github.com/SscSPs/pocket_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory stand-in for the pgsql repositories.
type memStore struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	seq      map[domain.AccountType]int64
	journals map[string]domain.Journal
	failSave error
}

var (
	_ portsrepo.AccountRepositoryFacade = (*memStore)(nil)
	_ portsrepo.JournalRepositoryFacade = (*memStore)(nil)
	_ portsrepo.ReportingRepository     = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		accounts: map[string]domain.Account{},
		seq:      map[domain.AccountType]int64{},
		journals: map[string]domain.Journal{},
	}
}

// --- accounts ---

func (m *memStore) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (m *memStore) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]domain.Account{}
	for _, id := range accountIDs {
		if acc, ok := m.accounts[id]; ok {
			out[id] = acc
		}
	}
	return out, nil
}

func (m *memStore) FindAccountsByName(_ context.Context, name string, types ...domain.AccountType) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Account
	for _, acc := range m.accounts {
		if !strings.EqualFold(acc.Name, strings.TrimSpace(name)) {
			continue
		}
		if len(types) > 0 && !containsType(types, acc.AccountType) {
			continue
		}
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsActive != out[j].IsActive {
			return out[i].IsActive
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (m *memStore) ListAccounts(_ context.Context, filter portsrepo.AccountFilter) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Account{}
	for _, acc := range m.accounts {
		if filter.ActiveOnly && !acc.IsActive {
			continue
		}
		if filter.AccountType != nil && acc.AccountType != *filter.AccountType {
			continue
		}
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memStore) CountAccounts(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts), nil
}

func (m *memStore) SaveAccount(_ context.Context, account domain.Account) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTakenLocked(account) {
		return nil, apperrors.ErrDuplicate
	}
	code, err := domain.FormatAccountCode(account.AccountType, m.seq[account.AccountType]+1)
	if err != nil {
		return nil, err
	}
	m.seq[account.AccountType]++
	account.Code = code
	m.accounts[account.AccountID] = account
	return &account, nil
}

func (m *memStore) UpdateAccount(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.accounts[account.AccountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if account.IsActive && m.nameTakenLocked(account) {
		return apperrors.ErrDuplicate
	}
	stored.Name = account.Name
	stored.Description = account.Description
	stored.IsActive = account.IsActive
	stored.LastUpdatedAt = account.LastUpdatedAt
	m.accounts[account.AccountID] = stored
	return nil
}

func (m *memStore) DeleteAccount(_ context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[accountID]; !ok {
		return apperrors.ErrNotFound
	}
	for _, j := range m.journals {
		for _, l := range j.Lines {
			if l.AccountID == accountID {
				return apperrors.ErrAccountInUse
			}
		}
	}
	delete(m.accounts, accountID)
	return nil
}

func (m *memStore) nameTakenLocked(account domain.Account) bool {
	for _, other := range m.accounts {
		if other.AccountID != account.AccountID && other.IsActive &&
			other.AccountType == account.AccountType && strings.EqualFold(other.Name, account.Name) {
			return true
		}
	}
	return false
}

// --- journals ---

func (m *memStore) FindJournalByID(_ context.Context, journalID string) (*domain.Journal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.journals[journalID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return copyJournal(j), nil
}

func (m *memStore) ListJournals(_ context.Context, filter portsrepo.JournalFilter) ([]domain.Journal, *string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]domain.Journal, 0, len(m.journals))
	for _, j := range m.journals {
		if !filter.Range.Contains(j.JournalDate) {
			continue
		}
		if filter.Kind != nil && j.Kind != *filter.Kind {
			continue
		}
		all = append(all, *copyJournal(j))
	}
	sort.Slice(all, func(i, k int) bool {
		if !all[i].JournalDate.Equal(all[k].JournalDate) {
			return all[i].JournalDate.After(all[k].JournalDate)
		}
		return all[i].JournalID > all[k].JournalID
	})
	if filter.NextToken != nil {
		date, id, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, err
		}
		for len(all) > 0 && (all[0].JournalDate.After(date) || (all[0].JournalDate.Equal(date) && all[0].JournalID >= id)) {
			all = all[1:]
		}
	}
	var next *string
	if len(all) > filter.Limit {
		all = all[:filter.Limit]
		last := all[len(all)-1]
		token := pagination.EncodeToken(last.JournalDate, last.JournalID)
		next = &token
	}
	return all, next, nil
}

func (m *memStore) CountJournals(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.journals), nil
}

func (m *memStore) SaveJournal(_ context.Context, validated domain.ValidatedJournal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave != nil {
		return m.failSave
	}
	j := validated.Journal()
	m.journals[j.JournalID] = j
	return nil
}

func (m *memStore) ReplaceJournal(_ context.Context, validated domain.ValidatedJournal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave != nil {
		return m.failSave
	}
	j := validated.Journal()
	if _, ok := m.journals[j.JournalID]; !ok {
		return apperrors.ErrNotFound
	}
	m.journals[j.JournalID] = j
	return nil
}

func (m *memStore) DeleteJournal(_ context.Context, journalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.journals[journalID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.journals, journalID)
	return nil
}

func (m *memStore) SetAttachment(_ context.Context, journalID string, ref *string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.journals[journalID]
	if !ok {
		return apperrors.ErrNotFound
	}
	j.AttachmentRef = ref
	j.LastUpdatedAt = updatedAt
	m.journals[journalID] = j
	return nil
}

// --- reporting ---

type memLine struct {
	journal domain.Journal
	line    domain.JournalLine
	account domain.Account
}

func (m *memStore) linesLocked(keep func(memLine) bool) []memLine {
	var out []memLine
	for _, j := range m.journals {
		for _, l := range j.Lines {
			ml := memLine{journal: j, line: l, account: m.accounts[l.AccountID]}
			if keep(ml) {
				out = append(out, ml)
			}
		}
	}
	sort.Slice(out, func(i, k int) bool {
		a, b := out[i], out[k]
		if !a.journal.JournalDate.Equal(b.journal.JournalDate) {
			return a.journal.JournalDate.Before(b.journal.JournalDate)
		}
		if a.journal.JournalID != b.journal.JournalID {
			return a.journal.JournalID < b.journal.JournalID
		}
		return a.line.LineNo < b.line.LineNo
	})
	return out
}

func (m *memStore) GetAccountTotals(_ context.Context, accountID string, asOf *time.Time) (*domain.AccountTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	totals := &domain.AccountTotals{Account: acc, DebitTotal: decimal.Zero, CreditTotal: decimal.Zero}
	for _, ml := range m.linesLocked(func(ml memLine) bool {
		return ml.line.AccountID == accountID && (asOf == nil || !ml.journal.JournalDate.After(*asOf))
	}) {
		addSide(&totals.DebitTotal, &totals.CreditTotal, ml.line)
		totals.LineCount++
	}
	return totals, nil
}

func (m *memStore) ListAccountTotals(_ context.Context, types []domain.AccountType, asOf *time.Time) ([]domain.AccountTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byID := map[string]*domain.AccountTotals{}
	for _, acc := range m.accounts {
		if containsType(types, acc.AccountType) {
			byID[acc.AccountID] = &domain.AccountTotals{Account: acc, DebitTotal: decimal.Zero, CreditTotal: decimal.Zero}
		}
	}
	for _, ml := range m.linesLocked(func(ml memLine) bool {
		return asOf == nil || !ml.journal.JournalDate.After(*asOf)
	}) {
		if t, ok := byID[ml.line.AccountID]; ok {
			addSide(&t.DebitTotal, &t.CreditTotal, ml.line)
			t.LineCount++
		}
	}
	out := []domain.AccountTotals{}
	for _, t := range byID {
		if t.Account.IsActive || t.LineCount > 0 {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Account.Code < out[k].Account.Code })
	return out, nil
}

func (m *memStore) ListAccountLines(_ context.Context, accountID string, dateRange domain.DateRange) ([]domain.AccountLineEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.AccountLineEntry{}
	for _, ml := range m.linesLocked(func(ml memLine) bool {
		return ml.line.AccountID == accountID && dateRange.Contains(ml.journal.JournalDate)
	}) {
		out = append(out, domain.AccountLineEntry{
			Line:        ml.line,
			JournalDate: ml.journal.JournalDate,
			Kind:        ml.journal.Kind,
			Title:       ml.journal.Title,
			Memo:        ml.journal.Memo,
		})
	}
	return out, nil
}

func (m *memStore) ListExpenseDailyTotals(_ context.Context, dateRange domain.DateRange) ([]domain.DailyCategoryTotal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	type key struct {
		date     time.Time
		category string
	}
	sums := map[key]*domain.DailyCategoryTotal{}
	var order []key
	for _, ml := range m.linesLocked(func(ml memLine) bool {
		return ml.account.AccountType == domain.Expense && dateRange.Contains(ml.journal.JournalDate)
	}) {
		category := ml.line.Category
		if category == "" {
			category = ml.account.Name
		}
		k := key{ml.journal.JournalDate, category}
		if _, ok := sums[k]; !ok {
			sums[k] = &domain.DailyCategoryTotal{Date: k.date, Category: category, DebitTotal: decimal.Zero, CreditTotal: decimal.Zero}
			order = append(order, k)
		}
		addSide(&sums[k].DebitTotal, &sums[k].CreditTotal, ml.line)
	}
	out := make([]domain.DailyCategoryTotal, 0, len(order))
	for _, k := range order {
		out = append(out, *sums[k])
	}
	return out, nil
}

func (m *memStore) ListDailyTypeMovements(_ context.Context, types []domain.AccountType, dateRange domain.DateRange) ([]domain.DailyTypeMovement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	type key struct {
		date time.Time
		t    domain.AccountType
	}
	sums := map[key]*domain.DailyTypeMovement{}
	var order []key
	for _, ml := range m.linesLocked(func(ml memLine) bool {
		return containsType(types, ml.account.AccountType) && dateRange.Contains(ml.journal.JournalDate)
	}) {
		k := key{ml.journal.JournalDate, ml.account.AccountType}
		if _, ok := sums[k]; !ok {
			sums[k] = &domain.DailyTypeMovement{Date: k.date, AccountType: k.t, DebitTotal: decimal.Zero, CreditTotal: decimal.Zero}
			order = append(order, k)
		}
		addSide(&sums[k].DebitTotal, &sums[k].CreditTotal, ml.line)
	}
	out := make([]domain.DailyTypeMovement, 0, len(order))
	for _, k := range order {
		out = append(out, *sums[k])
	}
	return out, nil
}

// corrupt overwrites a stored line amount, simulating an out-of-band edit.
func (m *memStore) corrupt(journalID string, lineIdx int, amount decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j := m.journals[journalID]
	j.Lines[lineIdx].Amount = amount
	m.journals[journalID] = j
}

func addSide(debits, credits *decimal.Decimal, l domain.JournalLine) {
	if l.Side == domain.Debit {
		*debits = debits.Add(l.Amount)
	} else {
		*credits = credits.Add(l.Amount)
	}
}

func containsType(types []domain.AccountType, t domain.AccountType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func copyJournal(j domain.Journal) *domain.Journal {
	out := j
	out.Lines = append([]domain.JournalLine(nil), j.Lines...)
	return &out
}

// --- wiring helpers ---

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

type ledgerFixture struct {
	store     *memStore
	accounts  portssvc.AccountSvcFacade
	drafts    portssvc.DraftBuilderSvc
	journals  portssvc.JournalSvcFacade
	reporting portssvc.ReportingService
}

func newLedgerFixture() *ledgerFixture {
	store := newMemStore()
	clock := services.WithClock(func() time.Time { return fixedNow })
	accounts := services.NewAccountService(store, clock)
	drafts := services.NewDraftBuilder(accounts,
		services.WithDomesticCurrency("GBP"),
		services.WithBuilderBase(clock))
	return &ledgerFixture{
		store:     store,
		accounts:  accounts,
		drafts:    drafts,
		journals:  services.NewJournalService(store, drafts, services.WithJournalBase(clock)),
		reporting: services.NewReportingService(store, services.WithReportingBase(clock)),
	}
}

func (f *ledgerFixture) mustAccount(t *testing.T, name string, accountType domain.AccountType) *domain.Account {
	t.Helper()
	acc, err := f.accounts.CreateAccount(context.Background(), dto.CreateAccountRequest{Name: name, AccountType: accountType})
	require.NoError(t, err)
	return acc
}

func (f *ledgerFixture) journalCount(t *testing.T) int {
	t.Helper()
	n, err := f.store.CountJournals(context.Background())
	require.NoError(t, err)
	return n
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func general(date string, lines ...domain.GeneralLine) domain.GeneralDraft {
	return domain.GeneralDraft{Date: date, Title: fmt.Sprintf("entry %s", date), Lines: lines}
}

func debit(acc *domain.Account, amount string) domain.GeneralLine {
	return domain.GeneralLine{AccountID: acc.AccountID, Side: domain.Debit, Amount: dec(amount)}
}

func credit(acc *domain.Account, amount string) domain.GeneralLine {
	return domain.GeneralLine{AccountID: acc.AccountID, Side: domain.Credit, Amount: dec(amount)}
}
