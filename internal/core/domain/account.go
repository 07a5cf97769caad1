package domain

import (
	"fmt"
	"strings"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// AccountTypes lists every account type in chart-of-accounts order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Income, Expense}

// codePrefixes is the leading digit of a generated account code per type.
var codePrefixes = map[AccountType]int{
	Asset:     1,
	Liability: 2,
	Equity:    3,
	Income:    4,
	Expense:   5,
}

// CodeSequenceWidth is the number of zero-padded sequence digits after the type prefix.
const CodeSequenceWidth = 9

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	_, ok := codePrefixes[t]
	return ok
}

// ParseAccountType parses an account type case-insensitively.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown account type %q", s)
	}
	return t, nil
}

// IsDebitNormal reports whether debits increase the account's natural balance.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// FormatAccountCode builds the account code for the given type and sequence value,
// e.g. (Expense, 12) -> "5000000012".
func FormatAccountCode(t AccountType, seq int64) (string, error) {
	prefix, ok := codePrefixes[t]
	if !ok {
		return "", fmt.Errorf("unknown account type %q", t)
	}
	if seq <= 0 || seq >= 1_000_000_000 {
		return "", fmt.Errorf("account code sequence %d out of range for %s", seq, t)
	}
	return fmt.Sprintf("%d%0*d", prefix, CodeSequenceWidth, seq), nil
}

// Account represents a financial account within the core domain.
// Code and AccountType never change after creation.
type Account struct {
	AccountID   string      `json:"accountID"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	Description string      `json:"description"`
	IsActive    bool        `json:"isActive"`
	AuditFields
}

// Label renders the account as "Type:Name", e.g. "EXPENSE:Food".
func (a Account) Label() string {
	return string(a.AccountType) + ":" + a.Name
}
