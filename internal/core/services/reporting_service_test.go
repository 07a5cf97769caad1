package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/pocket_ledger/internal/apperrors"
	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	"github.com/SscSPs/pocket_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) *time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

// seededLedger posts a small history:
//
//	01-10 capital 1000 into cash
//	01-15 card pays 40 food
//	02-03 cash pays 25 food and 10 transport
//	02-20 food refund 5 back to card
//	03-01 cash settles 40 of the card
type seededLedger struct {
	*ledgerFixture
	cash, card, capital, food, transport *domain.Account
}

func newSeededLedger(t *testing.T) *seededLedger {
	f := newLedgerFixture()
	s := &seededLedger{
		ledgerFixture: f,
		cash:          f.mustAccount(t, "Cash", domain.Asset),
		card:          f.mustAccount(t, "Credit card", domain.Liability),
		capital:       f.mustAccount(t, "Capital", domain.Equity),
		food:          f.mustAccount(t, "Food", domain.Expense),
		transport:     f.mustAccount(t, "Transport", domain.Expense),
	}
	ctx := context.Background()
	drafts := []domain.Draft{
		general("2024-01-10", debit(s.cash, "1000.00"), credit(s.capital, "1000.00")),
		domain.GuidedDraft{Date: "2024-01-15", PaymentAccountID: s.card.AccountID,
			Lines: []domain.GuidedLine{{Category: "Food", Amount: dec("40.00")}}},
		domain.GuidedDraft{Date: "2024-02-03", PaymentAccountID: s.cash.AccountID,
			Lines: []domain.GuidedLine{{Category: "Food", Amount: dec("25.00")}, {Category: "Transport", Amount: dec("10.00")}}},
		general("2024-02-20", debit(s.card, "5.00"), credit(s.food, "5.00")),
		general("2024-03-01", debit(s.card, "40.00"), credit(s.cash, "40.00")),
	}
	for _, d := range drafts {
		_, err := f.journals.CommitJournal(ctx, d)
		require.NoError(t, err)
	}
	return s
}

func TestAccountBalance(t *testing.T) {
	s := newSeededLedger(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		account *domain.Account
		asOf    *time.Time
		want    string
	}{
		{"cash all time", s.cash, nil, "925.00"},
		{"cash before settlement", s.cash, day("2024-02-29"), "965.00"},
		{"card is credit-positive", s.card, day("2024-01-31"), "40.00"},
		{"card settled", s.card, nil, "-5.00"},
		{"capital", s.capital, nil, "1000.00"},
		{"food net of refund", s.food, nil, "60.00"},
		{"before any entry", s.cash, day("2023-12-31"), "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.reporting.AccountBalance(ctx, tt.account.AccountID, tt.asOf)
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}

	_, err := s.reporting.AccountBalance(ctx, "missing", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBalanceSheet(t *testing.T) {
	s := newSeededLedger(t)
	ctx := context.Background()

	sheet, err := s.reporting.BalanceSheet(ctx, day("2024-01-31"))
	require.NoError(t, err)
	require.Len(t, sheet.Assets, 1)
	require.Len(t, sheet.Liabilities, 1)
	assert.True(t, dec("1000.00").Equal(sheet.TotalAssets))
	assert.True(t, dec("40.00").Equal(sheet.TotalLiabilities))
	assert.True(t, dec("960.00").Equal(sheet.Net))

	// Deactivated accounts with history stay on the sheet; unused inactive ones drop off.
	_, err = s.accounts.SetAccountActive(ctx, s.card.AccountID, false)
	require.NoError(t, err)
	spare := s.mustAccount(t, "Spare wallet", domain.Asset)
	_, err = s.accounts.SetAccountActive(ctx, spare.AccountID, false)
	require.NoError(t, err)

	sheet, err = s.reporting.BalanceSheet(ctx, nil)
	require.NoError(t, err)
	require.Len(t, sheet.Liabilities, 1)
	assert.False(t, sheet.Liabilities[0].IsActive)
	assert.True(t, dec("-5.00").Equal(sheet.Liabilities[0].Balance))
	assert.Len(t, sheet.Assets, 1)
	assert.True(t, dec("930.00").Equal(sheet.Net))
}

func TestAccountTransactions_RunningBalance(t *testing.T) {
	s := newSeededLedger(t)
	ctx := context.Background()

	entries, err := s.reporting.AccountTransactions(ctx, s.cash.AccountID, domain.DateRange{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	want := []string{"1000.00", "965.00", "925.00"}
	for i, e := range entries {
		assert.True(t, dec(want[i]).Equal(e.RunningBalance), "entry %d running %s", i, e.RunningBalance)
	}
	assert.True(t, dec("-35.00").Equal(entries[1].SignedAmount))

	ranged, err := s.reporting.AccountTransactions(ctx, s.cash.AccountID, domain.DateRange{From: day("2024-02-01")})
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.True(t, dec("965.00").Equal(ranged[0].RunningBalance), "opening balance carried in")

	_, err = s.reporting.AccountTransactions(ctx, "missing", domain.DateRange{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestExpenseAggregate(t *testing.T) {
	s := newSeededLedger(t)
	ctx := context.Background()

	monthly, err := s.reporting.ExpenseAggregate(ctx, domain.DateRange{}, domain.Monthly)
	require.NoError(t, err)
	require.Len(t, monthly, 3)
	assert.Equal(t, "2024-01", monthly[0].Bucket)
	assert.True(t, dec("40.00").Equal(monthly[0].Amount))
	assert.Equal(t, "2024-02", monthly[1].Bucket)
	assert.Equal(t, "Food", monthly[1].Category)
	assert.True(t, dec("20.00").Equal(monthly[1].Amount), "refund reduces the bucket")
	assert.Equal(t, "Transport", monthly[2].Category)

	daily, err := s.reporting.ExpenseAggregate(ctx, domain.DateRange{From: day("2024-02-01"), To: day("2024-02-10")}, domain.Daily)
	require.NoError(t, err)
	require.Len(t, daily, 2)
	assert.Equal(t, "2024-02-03", daily[0].Bucket)

	again, err := s.reporting.ExpenseAggregate(ctx, domain.DateRange{}, domain.Monthly)
	require.NoError(t, err)
	assert.Equal(t, monthly, again)
}

func TestNetAssetsSeries(t *testing.T) {
	s := newSeededLedger(t)
	ctx := context.Background()

	points, err := s.reporting.NetAssetsSeries(ctx, domain.DateRange{}, domain.Monthly)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "2024-01", points[0].Bucket)
	assert.True(t, dec("1000.00").Equal(points[0].AssetsTotal))
	assert.True(t, dec("40.00").Equal(points[0].LiabilitiesTotal))
	assert.True(t, dec("960.00").Equal(points[0].Net))
	assert.True(t, dec("930.00").Equal(points[1].Net))
	assert.True(t, dec("930.00").Equal(points[2].Net))
	assert.True(t, dec("-5.00").Equal(points[2].LiabilitiesTotal))

	// Buckets without movement still appear and carry the opening position.
	ranged, err := s.reporting.NetAssetsSeries(ctx, domain.DateRange{From: day("2024-02-01"), To: day("2024-05-31")}, domain.Monthly)
	require.NoError(t, err)
	require.Len(t, ranged, 4)
	assert.Equal(t, "2024-05", ranged[3].Bucket)
	assert.True(t, dec("930.00").Equal(ranged[3].Net))

	daily, err := s.reporting.NetAssetsSeries(ctx, domain.DateRange{From: day("2024-01-09"), To: day("2024-01-11")}, domain.Daily)
	require.NoError(t, err)
	require.Len(t, daily, 3)
	assert.True(t, daily[0].Net.IsZero())
	assert.True(t, dec("1000.00").Equal(daily[1].Net))
}

func TestNetAssetsSeries_EmptyLedger(t *testing.T) {
	f := newLedgerFixture()

	points, err := f.reporting.NetAssetsSeries(context.Background(), domain.DateRange{}, domain.Monthly)

	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestReads_RepeatWithoutWrites(t *testing.T) {
	s := newSeededLedger(t)
	ctx := context.Background()

	for _, asOf := range []*time.Time{nil, day("2024-02-10")} {
		first, err := s.reporting.BalanceSheet(ctx, asOf)
		require.NoError(t, err)
		second, err := s.reporting.BalanceSheet(ctx, asOf)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		for _, acc := range []*domain.Account{s.cash, s.card, s.food} {
			b1, err := s.reporting.AccountBalance(ctx, acc.AccountID, asOf)
			require.NoError(t, err)
			b2, err := s.reporting.AccountBalance(ctx, acc.AccountID, asOf)
			require.NoError(t, err)
			assert.True(t, b1.Equal(b2), "%s: %s then %s", acc.Name, b1, b2)
		}
	}
}

func TestDeactivation_PreservesHistory(t *testing.T) {
	s := newSeededLedger(t)
	ctx := context.Background()

	for _, acc := range []*domain.Account{s.food, s.card} {
		balanceBefore, err := s.reporting.AccountBalance(ctx, acc.AccountID, nil)
		require.NoError(t, err)
		historyBefore, err := s.reporting.AccountTransactions(ctx, acc.AccountID, domain.DateRange{})
		require.NoError(t, err)
		require.NotEmpty(t, historyBefore)

		_, err = s.accounts.SetAccountActive(ctx, acc.AccountID, false)
		require.NoError(t, err)

		balanceAfter, err := s.reporting.AccountBalance(ctx, acc.AccountID, nil)
		require.NoError(t, err)
		assert.True(t, balanceBefore.Equal(balanceAfter), "%s: %s then %s", acc.Name, balanceBefore, balanceAfter)
		historyAfter, err := s.reporting.AccountTransactions(ctx, acc.AccountID, domain.DateRange{})
		require.NoError(t, err)
		assert.Equal(t, historyBefore, historyAfter)

		active, err := s.accounts.ListAccounts(ctx, dto.ListAccountsParams{ActiveOnly: true})
		require.NoError(t, err)
		for _, a := range active {
			assert.NotEqual(t, acc.AccountID, a.AccountID, "%s still listed as active", acc.Name)
		}
	}
}
