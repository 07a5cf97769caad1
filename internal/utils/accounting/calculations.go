package accounting

import (
	"fmt"

	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the normal-balance sign of accountType to a line amount.
//
//	DEBIT to ASSET/EXPENSE -> +     CREDIT to ASSET/EXPENSE -> -
//	DEBIT to LIABILITY/EQUITY/INCOME -> -     CREDIT to LIABILITY/EQUITY/INCOME -> +
func CalculateSignedAmount(side domain.Side, amount decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
	if !side.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown side '%s'", side)
	}
	if (side == domain.Debit) == accountType.IsDebitNormal() {
		return amount, nil
	}
	return amount.Neg(), nil
}

// NetBalance turns raw debit and credit totals into the balance signed by accountType.
func NetBalance(debits, credits decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
	if accountType.IsDebitNormal() {
		return debits.Sub(credits), nil
	}
	return credits.Sub(debits), nil
}
