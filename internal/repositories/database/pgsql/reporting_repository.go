package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/pocket_ledger/internal/apperrors"
	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pocket_ledger/internal/models"
	"github.com/SscSPs/pocket_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

const sideSums = `
	COALESCE(SUM(CASE WHEN l.side = 'DEBIT' THEN l.amount END), 0) AS total_debit,
	COALESCE(SUM(CASE WHEN l.side = 'CREDIT' THEN l.amount END), 0) AS total_credit`

// dateConditions renders inclusive bounds on j.journal_date, numbering placeholders after args.
func dateConditions(dateRange domain.DateRange, args []any) ([]string, []any) {
	var conditions []string
	if dateRange.From != nil {
		args = append(args, *dateRange.From)
		conditions = append(conditions, fmt.Sprintf("j.journal_date >= $%d", len(args)))
	}
	if dateRange.To != nil {
		args = append(args, *dateRange.To)
		conditions = append(conditions, fmt.Sprintf("j.journal_date <= $%d", len(args)))
	}
	return conditions, args
}

// GetAccountTotals sums one account's lines up to asOf.
func (r *reportingRepository) GetAccountTotals(ctx context.Context, accountID string, asOf *time.Time) (*domain.AccountTotals, error) {
	if !isRowID(accountID) {
		return nil, apperrors.ErrNotFound
	}
	query := `
		SELECT
			a.account_id, a.code, a.name, a.account_type, a.description, a.is_active, a.created_at, a.last_updated_at,
			` + sideSums + `,
			COUNT(l.line_id) AS line_count
		FROM accounts a
		LEFT JOIN (
			journal_lines l JOIN journals j ON j.journal_id = l.journal_id AND ($2::date IS NULL OR j.journal_date <= $2::date)
		) ON l.account_id = a.account_id
		WHERE a.account_id = $1
		GROUP BY a.account_id;
	`
	var m models.Account
	totals := &domain.AccountTotals{}
	err := r.Pool.QueryRow(ctx, query, accountID, asOf).Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.LastUpdatedAt,
		&totals.DebitTotal,
		&totals.CreditTotal,
		&totals.LineCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageError("error querying totals of account %s", err, accountID)
	}
	totals.Account = mapping.ToDomainAccount(m)
	return totals, nil
}

// ListAccountTotals returns per-account sums for the given types, ordered by code.
func (r *reportingRepository) ListAccountTotals(ctx context.Context, types []domain.AccountType, asOf *time.Time) ([]domain.AccountTotals, error) {
	query := `
		SELECT
			a.account_id, a.code, a.name, a.account_type, a.description, a.is_active, a.created_at, a.last_updated_at,
			` + sideSums + `,
			COUNT(l.line_id) AS line_count
		FROM accounts a
		LEFT JOIN (
			journal_lines l JOIN journals j ON j.journal_id = l.journal_id AND ($2::date IS NULL OR j.journal_date <= $2::date)
		) ON l.account_id = a.account_id
		WHERE a.account_type = ANY($1)
		GROUP BY a.account_id
		HAVING a.is_active OR COUNT(l.line_id) > 0
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, typeStrings(types), asOf)
	if err != nil {
		return nil, storageError("error querying account totals", err)
	}
	defer rows.Close()

	result := []domain.AccountTotals{}
	for rows.Next() {
		var m models.Account
		var row domain.AccountTotals
		if err := rows.Scan(
			&m.AccountID,
			&m.Code,
			&m.Name,
			&m.AccountType,
			&m.Description,
			&m.IsActive,
			&m.CreatedAt,
			&m.LastUpdatedAt,
			&row.DebitTotal,
			&row.CreditTotal,
			&row.LineCount,
		); err != nil {
			return nil, storageError("error scanning account totals row", err)
		}
		row.Account = mapping.ToDomainAccount(m)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating account totals rows", err)
	}
	return result, nil
}

// ListAccountLines returns the account's lines joined with their headers in posting order.
func (r *reportingRepository) ListAccountLines(ctx context.Context, accountID string, dateRange domain.DateRange) ([]domain.AccountLineEntry, error) {
	if !isRowID(accountID) {
		return []domain.AccountLineEntry{}, nil
	}
	conditions, args := dateConditions(dateRange, []any{accountID})
	query := `
		SELECT
			l.line_id, l.journal_id, l.line_no, l.account_id, l.side, l.amount, l.category, l.note,
			l.original_amount, l.original_currency,
			j.journal_date, j.kind, j.title, j.memo
		FROM journal_lines l
		JOIN journals j ON j.journal_id = l.journal_id
		WHERE l.account_id = $1`
	if len(conditions) > 0 {
		query += ` AND ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY j.journal_date, j.journal_id, l.line_no;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageError("error querying lines of account %s", err, accountID)
	}
	defer rows.Close()

	result := []domain.AccountLineEntry{}
	for rows.Next() {
		var line models.JournalLine
		var entry domain.AccountLineEntry
		var kind string
		if err := rows.Scan(
			&line.LineID,
			&line.JournalID,
			&line.LineNo,
			&line.AccountID,
			&line.Side,
			&line.Amount,
			&line.Category,
			&line.Note,
			&line.OriginalAmount,
			&line.OriginalCurrency,
			&entry.JournalDate,
			&kind,
			&entry.Title,
			&entry.Memo,
		); err != nil {
			return nil, storageError("error scanning account line row", err)
		}
		entry.Line = mapping.ToDomainJournalLine(line)
		entry.Kind = domain.JournalKind(kind)
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating account line rows", err)
	}
	return result, nil
}

// ListExpenseDailyTotals sums expense lines per day and category. Lines without a category
// fall under their account's name.
func (r *reportingRepository) ListExpenseDailyTotals(ctx context.Context, dateRange domain.DateRange) ([]domain.DailyCategoryTotal, error) {
	conditions, args := dateConditions(dateRange, nil)
	conditions = append([]string{"a.account_type = 'EXPENSE'"}, conditions...)
	query := `
		SELECT
			j.journal_date,
			COALESCE(NULLIF(l.category, ''), a.name) AS category,
			` + sideSums + `
		FROM journal_lines l
		JOIN journals j ON j.journal_id = l.journal_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE ` + strings.Join(conditions, " AND ") + `
		GROUP BY j.journal_date, COALESCE(NULLIF(l.category, ''), a.name)
		ORDER BY j.journal_date, category;
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageError("error querying expense totals", err)
	}
	defer rows.Close()

	result := []domain.DailyCategoryTotal{}
	for rows.Next() {
		var row domain.DailyCategoryTotal
		if err := rows.Scan(&row.Date, &row.Category, &row.DebitTotal, &row.CreditTotal); err != nil {
			return nil, storageError("error scanning expense totals row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating expense totals rows", err)
	}
	return result, nil
}

// ListDailyTypeMovements sums lines per day and account type.
func (r *reportingRepository) ListDailyTypeMovements(ctx context.Context, types []domain.AccountType, dateRange domain.DateRange) ([]domain.DailyTypeMovement, error) {
	conditions, args := dateConditions(dateRange, []any{typeStrings(types)})
	conditions = append([]string{"a.account_type = ANY($1)"}, conditions...)
	query := `
		SELECT
			j.journal_date,
			a.account_type,
			` + sideSums + `
		FROM journal_lines l
		JOIN journals j ON j.journal_id = l.journal_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE ` + strings.Join(conditions, " AND ") + `
		GROUP BY j.journal_date, a.account_type
		ORDER BY j.journal_date, a.account_type;
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageError("error querying daily movements", err)
	}
	defer rows.Close()

	result := []domain.DailyTypeMovement{}
	for rows.Next() {
		var row domain.DailyTypeMovement
		var accountType string
		if err := rows.Scan(&row.Date, &accountType, &row.DebitTotal, &row.CreditTotal); err != nil {
			return nil, storageError("error scanning daily movement row", err)
		}
		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating daily movement rows", err)
	}
	return result, nil
}
