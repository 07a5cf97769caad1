package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/pocket_ledger/internal/apperrors"
	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGuided_SynthesizesBalancedEntry(t *testing.T) {
	f := newLedgerFixture()
	cash := f.mustAccount(t, "Cash", domain.Asset)
	food := f.mustAccount(t, "Food", domain.Expense)
	transport := f.mustAccount(t, "Transport", domain.Expense)

	validated, err := f.drafts.Build(context.Background(), domain.GuidedDraft{
		Date:             "2024-03-01",
		Title:            "Corner shop",
		PaymentAccountID: cash.AccountID,
		Lines: []domain.GuidedLine{
			{Category: "Food", Amount: dec("2.15")},
			{Category: "transport", Amount: dec("3.40"), Note: "bus"},
		},
	})
	require.NoError(t, err)

	j := validated.Journal()
	assert.Equal(t, domain.KindExpense, j.Kind)
	require.Len(t, j.Lines, 3)

	assert.Equal(t, food.AccountID, j.Lines[0].AccountID)
	assert.Equal(t, domain.Debit, j.Lines[0].Side)
	assert.True(t, dec("2.15").Equal(j.Lines[0].Amount))
	assert.Equal(t, "Food", j.Lines[0].Category)

	assert.Equal(t, transport.AccountID, j.Lines[1].AccountID)
	assert.Equal(t, "bus", j.Lines[1].Note)

	assert.Equal(t, cash.AccountID, j.Lines[2].AccountID)
	assert.Equal(t, domain.Credit, j.Lines[2].Side)
	assert.True(t, dec("5.55").Equal(j.Lines[2].Amount))

	for i, l := range j.Lines {
		assert.Equal(t, i+1, l.LineNo)
		assert.Equal(t, j.JournalID, l.JournalID)
	}
	assert.True(t, j.IsBalanced())
}

func TestBuildGuided_RejectsBadPaymentAccount(t *testing.T) {
	f := newLedgerFixture()
	card := f.mustAccount(t, "Old card", domain.Liability)
	salary := f.mustAccount(t, "Salary", domain.Income)
	f.mustAccount(t, "Food", domain.Expense)
	_, err := f.accounts.SetAccountActive(context.Background(), card.AccountID, false)
	require.NoError(t, err)

	for name, paymentID := range map[string]string{
		"missing":  "",
		"unknown":  "no-such-account",
		"inactive": card.AccountID,
		"income":   salary.AccountID,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.drafts.Build(context.Background(), domain.GuidedDraft{
				Date:             "2024-03-01",
				PaymentAccountID: paymentID,
				Lines:            []domain.GuidedLine{{Category: "Food", Amount: dec("1.00")}},
			})
			var ref *apperrors.ReferentialError
			require.ErrorAs(t, err, &ref)
			assert.Equal(t, "payment_account", ref.Field)
			assert.Equal(t, apperrors.ReasonUnknownPaymentAccount, ref.Reason)
		})
	}
}

func TestBuildGuided_EmptyLines(t *testing.T) {
	f := newLedgerFixture()
	cash := f.mustAccount(t, "Cash", domain.Asset)

	_, err := f.drafts.Build(context.Background(), domain.GuidedDraft{Date: "2024-03-01", PaymentAccountID: cash.AccountID})

	var structural *apperrors.StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Equal(t, apperrors.ReasonEmptyLines, structural.Reason)
}

func TestBuildGuided_CreatesCategoryOnlyAfterValidation(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	cash := f.mustAccount(t, "Cash", domain.Asset)

	_, err := f.drafts.Build(ctx, domain.GuidedDraft{
		Date:             "2024-03-01",
		PaymentAccountID: cash.AccountID,
		Lines:            []domain.GuidedLine{{Category: "Pets", Amount: dec("1.005")}},
	})
	require.ErrorIs(t, err, apperrors.ErrStructural)
	_, err = f.accounts.LookupExpenseAccount(ctx, "Pets")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "rejected draft must not create accounts")

	_, err = f.drafts.Build(ctx, domain.GuidedDraft{
		Date:             "2024-03-01",
		PaymentAccountID: "no-such-account",
		Lines:            []domain.GuidedLine{{Category: "Pets", Amount: dec("1.00")}},
	})
	require.ErrorIs(t, err, apperrors.ErrReferential)
	_, err = f.accounts.LookupExpenseAccount(ctx, "Pets")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	validated, err := f.drafts.Build(ctx, domain.GuidedDraft{
		Date:             "2024-03-01",
		PaymentAccountID: cash.AccountID,
		Lines: []domain.GuidedLine{
			{Category: "Pets", Amount: dec("1.00")},
			{Category: "pets", Amount: dec("2.00")},
		},
	})
	require.NoError(t, err)

	pets, err := f.accounts.LookupExpenseAccount(ctx, "Pets")
	require.NoError(t, err)
	lines := validated.Journal().Lines
	assert.Equal(t, pets.AccountID, lines[0].AccountID)
	assert.Equal(t, pets.AccountID, lines[1].AccountID)
}

func TestBuildGuided_InactiveCategory(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	cash := f.mustAccount(t, "Cash", domain.Asset)
	books := f.mustAccount(t, "Books", domain.Expense)
	_, err := f.accounts.SetAccountActive(ctx, books.AccountID, false)
	require.NoError(t, err)

	_, err = f.drafts.Build(ctx, domain.GuidedDraft{
		Date:             "2024-03-01",
		PaymentAccountID: cash.AccountID,
		Lines:            []domain.GuidedLine{{Category: "Books", Amount: dec("9.99")}},
	})

	var ref *apperrors.ReferentialError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "lines[0].category", ref.Field)
	assert.Equal(t, apperrors.ReasonInactiveAccount, ref.Reason)
}

func TestBuildGeneral(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	cash := f.mustAccount(t, "Cash", domain.Asset)
	capital := f.mustAccount(t, "Capital", domain.Equity)

	tests := []struct {
		name   string
		draft  domain.GeneralDraft
		target error
		reason string
	}{
		{
			name:  "balanced",
			draft: general("2024-01-01", debit(cash, "100.00"), credit(capital, "100.00")),
		},
		{
			name:   "unbalanced",
			draft:  general("2024-01-01", debit(cash, "12.00"), credit(capital, "10.00")),
			target: apperrors.ErrUnbalanced,
		},
		{
			name:   "missing date",
			draft:  general("", debit(cash, "1.00"), credit(capital, "1.00")),
			target: apperrors.ErrStructural,
			reason: apperrors.ReasonMissingDate,
		},
		{
			name:   "bad date",
			draft:  general("01/02/2024", debit(cash, "1.00"), credit(capital, "1.00")),
			target: apperrors.ErrStructural,
			reason: apperrors.ReasonInvalidDate,
		},
		{
			name:   "single line",
			draft:  general("2024-01-01", debit(cash, "1.00")),
			target: apperrors.ErrStructural,
			reason: apperrors.ReasonTooFewLines,
		},
		{
			name:   "unknown account",
			draft:  general("2024-01-01", debit(cash, "1.00"), domain.GeneralLine{AccountID: "ghost", Side: domain.Credit, Amount: dec("1.00")}),
			target: apperrors.ErrReferential,
			reason: apperrors.ReasonUnknownAccount,
		},
		{
			name:   "lowercase side accepted",
			draft:  general("2024-01-01", domain.GeneralLine{AccountID: cash.AccountID, Side: "debit", Amount: dec("1.00")}, credit(capital, "1.00")),
			target: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validated, err := f.drafts.Build(ctx, tt.draft)
			if tt.target == nil {
				require.NoError(t, err)
				assert.True(t, validated.Journal().IsBalanced())
				return
			}
			require.ErrorIs(t, err, tt.target)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			if tt.reason != "" {
				var structural *apperrors.StructuralError
				var ref *apperrors.ReferentialError
				switch {
				case tt.target == apperrors.ErrStructural:
					require.ErrorAs(t, err, &structural)
					assert.Equal(t, tt.reason, structural.Reason)
				default:
					require.ErrorAs(t, err, &ref)
					assert.Equal(t, tt.reason, ref.Reason)
				}
			}
		})
	}
}

func TestBuild_UnbalancedReportsTotals(t *testing.T) {
	f := newLedgerFixture()
	cash := f.mustAccount(t, "Cash", domain.Asset)
	capital := f.mustAccount(t, "Capital", domain.Equity)

	_, err := f.drafts.Build(context.Background(), general("2024-01-01", debit(cash, "12.00"), credit(capital, "10.00")))

	var unbalanced *apperrors.UnbalancedEntryError
	require.ErrorAs(t, err, &unbalanced)
	assert.True(t, dec("12.00").Equal(unbalanced.DebitTotal))
	assert.True(t, dec("10.00").Equal(unbalanced.CreditTotal))
}

func TestBuild_ImportPayloadDraft(t *testing.T) {
	f := newLedgerFixture()
	cash := f.mustAccount(t, "Cash", domain.Asset)
	food := f.mustAccount(t, "Food", domain.Expense)

	validated, err := f.drafts.Build(context.Background(), domain.ImportPayload{
		PaymentAccount: strPtr("cash"),
		Lines: []domain.ImportLine{
			{ExpenseCategory: strPtr("Food"), AmountDomestic: []byte(`2.15`)},
		},
	})
	require.NoError(t, err)

	j := validated.Journal()
	assert.Equal(t, "2024-03-15", j.JournalDate.Format(domain.DateLayout))
	require.Len(t, j.Lines, 2)
	assert.Equal(t, food.AccountID, j.Lines[0].AccountID)
	assert.Equal(t, cash.AccountID, j.Lines[1].AccountID)
	require.NotNil(t, j.Lines[1].OriginalCurrency)
	assert.Equal(t, "GBP", *j.Lines[1].OriginalCurrency)
	require.NotNil(t, j.Lines[1].OriginalAmount)
	assert.True(t, dec("2.15").Equal(*j.Lines[1].OriginalAmount))
}

func TestParseImportPayload(t *testing.T) {
	f := newLedgerFixture()

	payload, err := f.drafts.ParseImportPayload([]byte(`{
		"date": null,
		"store": "Corner shop",
		"payment_account": "Cash",
		"lines": [{"expense_category": "Food", "amount_domestic": "2.15", "amount_original": 3}]
	}`))
	require.NoError(t, err)
	assert.Nil(t, payload.Date)
	assert.Equal(t, "Corner shop", *payload.Store)
	require.Len(t, payload.Lines, 1)

	_, err = f.drafts.ParseImportPayload([]byte(`{"payment_account": "Cash", "tip": 1, "lines": []}`))
	var importErr *apperrors.ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, "tip", importErr.Fields[0].Field)

	_, err = f.drafts.ParseImportPayload([]byte(`{"payment_account": "Cash", "lines": [{"expense_category": "Food", "amount": 1}]}`))
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, "amount", importErr.Fields[0].Field)

	_, err = f.drafts.ParseImportPayload([]byte(`{"payment_account": "Cash", `))
	assert.ErrorIs(t, err, apperrors.ErrPayloadParse)

	_, err = f.drafts.ParseImportPayload([]byte(`{} {}`))
	assert.ErrorIs(t, err, apperrors.ErrPayloadParse)
}

func TestResolveImport_CollectsFieldErrors(t *testing.T) {
	f := newLedgerFixture()
	f.mustAccount(t, "Cash", domain.Asset)
	f.mustAccount(t, "Food", domain.Expense)

	_, err := f.drafts.ResolveImport(context.Background(), domain.ImportPayload{
		Date:             strPtr("2024-13-01"),
		PaymentAccount:   strPtr("Cashh"),
		CurrencyOriginal: strPtr("zzz"),
		Lines: []domain.ImportLine{
			{ExpenseCategory: strPtr("Food"), AmountDomestic: []byte(`0`)},
			{ExpenseCategory: strPtr("Gadgets"), AmountDomestic: []byte(`"abc"`)},
			{AmountDomestic: []byte(`-1`), AmountOriginal: []byte(`null`)},
		},
	})

	var importErr *apperrors.ImportError
	require.ErrorAs(t, err, &importErr)
	assert.ErrorIs(t, err, apperrors.ErrReferential)

	fields := map[string]string{}
	for _, fe := range importErr.Fields {
		fields[fe.Field] = fe.Reason
	}
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "payment_account")
	assert.Contains(t, fields, "currency_original")
	assert.Equal(t, "must not be zero", fields["lines[0].amount_domestic"])
	assert.Contains(t, fields, "lines[1].expense_category")
	assert.Equal(t, "must be a number", fields["lines[1].amount_domestic"])
	assert.Equal(t, "is required", fields["lines[2].expense_category"])
	assert.Equal(t, "must be positive", fields["lines[2].amount_domestic"])
}

func TestResolveImport_Defaults(t *testing.T) {
	f := newLedgerFixture()
	card := f.mustAccount(t, "Credit card", domain.Liability)
	f.mustAccount(t, "Food", domain.Expense)

	draft, err := f.drafts.ResolveImport(context.Background(), domain.ImportPayload{
		PaymentAccount:   strPtr(" CREDIT CARD "),
		CurrencyOriginal: strPtr("usd"),
		Note:             strPtr("  lunch  "),
		Lines: []domain.ImportLine{
			{ExpenseCategory: strPtr("food"), AmountDomestic: []byte(`"8.00"`), AmountOriginal: []byte(`10.50`)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-15", draft.Date)
	assert.Equal(t, card.AccountID, draft.PaymentAccountID)
	assert.Equal(t, "USD", *draft.CurrencyOriginal)
	assert.Equal(t, "lunch", draft.Memo)
	require.Len(t, draft.Lines, 1)
	assert.True(t, dec("8.00").Equal(draft.Lines[0].Amount))
	assert.True(t, dec("10.50").Equal(*draft.Lines[0].OriginalAmount))
}

func TestResolveImport_LineCountLimits(t *testing.T) {
	f := newLedgerFixture()
	f.mustAccount(t, "Cash", domain.Asset)

	_, err := f.drafts.ResolveImport(context.Background(), domain.ImportPayload{PaymentAccount: strPtr("Cash")})
	var importErr *apperrors.ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, "lines", importErr.Fields[0].Field)

	lines := make([]domain.ImportLine, 501)
	_, err = f.drafts.ResolveImport(context.Background(), domain.ImportPayload{PaymentAccount: strPtr("Cash"), Lines: lines})
	require.ErrorAs(t, err, &importErr)
	require.Len(t, importErr.Fields, 1)
	assert.Equal(t, "must contain at most 500 items", importErr.Fields[0].Reason)
}
