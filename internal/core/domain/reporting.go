package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountTotals is the raw debit/credit sum of one account up to a cutoff.
type AccountTotals struct {
	Account     Account
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
	LineCount   int
}

// AccountAmount represents an account with its signed balance for financial reports.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	IsActive  bool            `json:"isActive"`
	Balance   decimal.Decimal `json:"balance"`
}

// BalanceSheet is a point-in-time grouping of asset and liability balances.
type BalanceSheet struct {
	AsOf             *time.Time      `json:"asOf,omitempty"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	Net              decimal.Decimal `json:"net"`
}

// AccountLineEntry is one journal line of an account together with its parent header.
type AccountLineEntry struct {
	Line           JournalLine     `json:"line"`
	JournalDate    time.Time       `json:"journalDate"`
	Kind           JournalKind     `json:"kind"`
	Title          string          `json:"title"`
	Memo           string          `json:"memo"`
	SignedAmount   decimal.Decimal `json:"signedAmount"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// DailyCategoryTotal is the debit/credit sum of expense lines for one day and category.
type DailyCategoryTotal struct {
	Date        time.Time
	Category    string
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

// ExpenseBucket is the summed expense amount of one category in one time bucket.
type ExpenseBucket struct {
	Bucket   string          `json:"bucket"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// DailyTypeMovement is the debit/credit sum of one account type on one day.
type DailyTypeMovement struct {
	Date        time.Time
	AccountType AccountType
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

// NetAssetsPoint is the point-in-time asset and liability position at the end of a bucket.
type NetAssetsPoint struct {
	Bucket           string          `json:"bucket"`
	AssetsTotal      decimal.Decimal `json:"assetsTotal"`
	LiabilitiesTotal decimal.Decimal `json:"liabilitiesTotal"`
	Net              decimal.Decimal `json:"net"`
}
