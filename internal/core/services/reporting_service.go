package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/pocket_ledger/internal/apperrors"
	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pocket_ledger/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger/internal/utils/accounting"
	"github.com/SscSPs/pocket_ledger/internal/utils/dates"
	"github.com/shopspring/decimal"
)

var balanceSheetTypes = []domain.AccountType{domain.Asset, domain.Liability}

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingBase applies shared service options such as the clock.
func WithReportingBase(options ...ServiceOption) ReportingServiceOption {
	return func(s *reportingService) {
		for _, opt := range options {
			opt(&s.BaseService)
		}
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) AccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	totals, err := s.reportingRepo.GetAccountTotals(ctx, accountID, asOf)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to retrieve account totals", slog.String("account_id", accountID))
		}
		return decimal.Zero, err
	}
	return accounting.NetBalance(totals.DebitTotal, totals.CreditTotal, totals.Account.AccountType)
}

// BalanceSheet lists asset and liability balances at the cutoff. Net is assets minus liabilities.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf *time.Time) (*domain.BalanceSheet, error) {
	rows, err := s.reportingRepo.ListAccountTotals(ctx, balanceSheetTypes, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve balance sheet data")
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}

	report := &domain.BalanceSheet{
		AsOf:             asOf,
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
	}
	for _, row := range rows {
		balance, err := accounting.NetBalance(row.DebitTotal, row.CreditTotal, row.Account.AccountType)
		if err != nil {
			return nil, err
		}
		item := domain.AccountAmount{
			AccountID: row.Account.AccountID,
			Code:      row.Account.Code,
			Name:      row.Account.Name,
			IsActive:  row.Account.IsActive,
			Balance:   balance,
		}
		switch row.Account.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, item)
			report.TotalAssets = report.TotalAssets.Add(balance)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, item)
			report.TotalLiabilities = report.TotalLiabilities.Add(balance)
		}
	}
	report.Net = report.TotalAssets.Sub(report.TotalLiabilities)

	s.LogDebug(ctx, "Balance sheet generated",
		slog.Int("assets", len(report.Assets)),
		slog.Int("liabilities", len(report.Liabilities)))
	return report, nil
}

// AccountTransactions returns the account's lines in the range with a running balance
// that starts from the balance just before the range.
func (s *reportingService) AccountTransactions(ctx context.Context, accountID string, dateRange domain.DateRange) ([]domain.AccountLineEntry, error) {
	var openingCutoff *time.Time
	if dateRange.From != nil {
		cutoff := dateRange.From.AddDate(0, 0, -1)
		openingCutoff = &cutoff
	}
	opening, err := s.reportingRepo.GetAccountTotals(ctx, accountID, openingCutoff)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to retrieve opening balance", slog.String("account_id", accountID))
		}
		return nil, err
	}
	accountType := opening.Account.AccountType

	running := decimal.Zero
	if openingCutoff != nil {
		if running, err = accounting.NetBalance(opening.DebitTotal, opening.CreditTotal, accountType); err != nil {
			return nil, err
		}
	}

	entries, err := s.reportingRepo.ListAccountLines(ctx, accountID, dateRange)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve account lines", slog.String("account_id", accountID))
		return nil, err
	}
	for i := range entries {
		signed, err := accounting.CalculateSignedAmount(entries[i].Line.Side, entries[i].Line.Amount, accountType)
		if err != nil {
			return nil, err
		}
		running = running.Add(signed)
		entries[i].SignedAmount = signed
		entries[i].RunningBalance = running
	}
	return entries, nil
}

// ExpenseAggregate sums expense lines by bucket and category, debits adding and credits
// (refunds) subtracting. Buckets are ascending, categories alphabetical within a bucket.
func (s *reportingService) ExpenseAggregate(ctx context.Context, dateRange domain.DateRange, granularity domain.Granularity) ([]domain.ExpenseBucket, error) {
	rows, err := s.reportingRepo.ListExpenseDailyTotals(ctx, dateRange)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve expense totals")
		return nil, err
	}

	type key struct{ bucket, category string }
	sums := make(map[key]decimal.Decimal)
	for _, row := range rows {
		k := key{dates.BucketLabel(row.Date, granularity), row.Category}
		sums[k] = sums[k].Add(row.DebitTotal.Sub(row.CreditTotal))
	}

	out := make([]domain.ExpenseBucket, 0, len(sums))
	for k, amount := range sums {
		out = append(out, domain.ExpenseBucket{Bucket: k.bucket, Category: k.category, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bucket != out[j].Bucket {
			return out[i].Bucket < out[j].Bucket
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// NetAssetsSeries emits one point per bucket between the range bounds. Open bounds default
// to the first and last movement; an empty ledger yields an empty series.
func (s *reportingService) NetAssetsSeries(ctx context.Context, dateRange domain.DateRange, granularity domain.Granularity) ([]domain.NetAssetsPoint, error) {
	movements, err := s.reportingRepo.ListDailyTypeMovements(ctx, balanceSheetTypes, domain.DateRange{To: dateRange.To})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve balance movements")
		return nil, err
	}
	if len(movements) == 0 {
		return []domain.NetAssetsPoint{}, nil
	}

	start := dates.Truncate(movements[0].Date)
	if dateRange.From != nil {
		start = dates.Truncate(*dateRange.From)
	}
	end := dates.Truncate(movements[len(movements)-1].Date)
	if dateRange.To != nil {
		end = dates.Truncate(*dateRange.To)
	} else if end.Before(start) {
		end = start
	}

	assets, liabilities := decimal.Zero, decimal.Zero
	apply := func(m domain.DailyTypeMovement) {
		switch m.AccountType {
		case domain.Asset:
			assets = assets.Add(m.DebitTotal.Sub(m.CreditTotal))
		case domain.Liability:
			liabilities = liabilities.Add(m.CreditTotal.Sub(m.DebitTotal))
		}
	}

	next := 0
	for next < len(movements) && movements[next].Date.Before(start) {
		apply(movements[next])
		next++
	}

	points := []domain.NetAssetsPoint{}
	for bucket := dates.BucketStart(start, granularity); !bucket.After(end); bucket = dates.NextBucket(bucket, granularity) {
		bucketEnd := dates.NextBucket(bucket, granularity)
		for next < len(movements) && movements[next].Date.Before(bucketEnd) && !movements[next].Date.After(end) {
			apply(movements[next])
			next++
		}
		points = append(points, domain.NetAssetsPoint{
			Bucket:           dates.BucketLabel(bucket, granularity),
			AssetsTotal:      assets,
			LiabilitiesTotal: liabilities,
			Net:              assets.Sub(liabilities),
		})
	}
	return points, nil
}
