package dto

import (
	"time"

	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	IsActive  bool            `json:"isActive"`
	Amount    decimal.Decimal `json:"amount"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf        string                  `json:"asOf,omitempty"`
	Assets      []AccountAmountResponse `json:"assets"`
	Liabilities []AccountAmountResponse `json:"liabilities"`
	Summary     struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		Net              decimal.Decimal `json:"net"`
	} `json:"summary"`
}

// AccountTransactionResponse is one line of an account's history with its running balance.
type AccountTransactionResponse struct {
	JournalID      string          `json:"journalID"`
	LineID         string          `json:"lineID"`
	Date           string          `json:"date"`
	Kind           string          `json:"kind"`
	Title          string          `json:"title"`
	Memo           string          `json:"memo"`
	Side           string          `json:"side"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category,omitempty"`
	Note           string          `json:"note,omitempty"`
	SignedAmount   decimal.Decimal `json:"signedAmount"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// ListAccountTransactionsResponse wraps an account's history.
type ListAccountTransactionsResponse struct {
	AccountID    string                       `json:"accountID"`
	Transactions []AccountTransactionResponse `json:"transactions"`
}

// DateRangeParams are the optional from/to query parameters shared by reports.
type DateRangeParams struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// SeriesParams adds a bucket granularity to a date range.
type SeriesParams struct {
	DateRangeParams
	Granularity string `form:"granularity" binding:"omitempty,oneof=day daily month monthly"`
}

// ExpenseAggregateResponse is the expense trend grouped by bucket and category.
type ExpenseAggregateResponse struct {
	Granularity domain.Granularity     `json:"granularity"`
	Buckets     []domain.ExpenseBucket `json:"buckets"`
}

// NetAssetsSeriesResponse is the point-in-time net asset series.
type NetAssetsSeriesResponse struct {
	Granularity domain.Granularity      `json:"granularity"`
	Points      []domain.NetAssetsPoint `json:"points"`
}

func toAccountAmountResponses(in []domain.AccountAmount) []AccountAmountResponse {
	out := make([]AccountAmountResponse, len(in))
	for i, a := range in {
		out[i] = AccountAmountResponse{
			AccountID: a.AccountID,
			Code:      a.Code,
			Name:      a.Name,
			IsActive:  a.IsActive,
			Amount:    a.Balance,
		}
	}
	return out
}

// ToBalanceSheetResponse converts a domain balance sheet report to a DTO response
func ToBalanceSheetResponse(report *domain.BalanceSheet, asOf *time.Time) BalanceSheetResponse {
	response := BalanceSheetResponse{
		Assets:      toAccountAmountResponses(report.Assets),
		Liabilities: toAccountAmountResponses(report.Liabilities),
	}
	if asOf != nil {
		response.AsOf = asOf.Format(domain.DateLayout)
	}
	response.Summary.TotalAssets = report.TotalAssets
	response.Summary.TotalLiabilities = report.TotalLiabilities
	response.Summary.Net = report.Net
	return response
}

// ToAccountTransactionsResponse converts an account history to its DTO.
func ToAccountTransactionsResponse(accountID string, entries []domain.AccountLineEntry) ListAccountTransactionsResponse {
	out := make([]AccountTransactionResponse, len(entries))
	for i, e := range entries {
		out[i] = AccountTransactionResponse{
			JournalID:      e.Line.JournalID,
			LineID:         e.Line.LineID,
			Date:           e.JournalDate.Format(domain.DateLayout),
			Kind:           string(e.Kind),
			Title:          e.Title,
			Memo:           e.Memo,
			Side:           string(e.Line.Side),
			Amount:         e.Line.Amount,
			Category:       e.Line.Category,
			Note:           e.Line.Note,
			SignedAmount:   e.SignedAmount,
			RunningBalance: e.RunningBalance,
		}
	}
	return ListAccountTransactionsResponse{AccountID: accountID, Transactions: out}
}
