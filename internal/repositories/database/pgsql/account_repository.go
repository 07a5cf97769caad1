package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/pocket_ledger/internal/apperrors"
	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pocket_ledger/internal/models"
	"github.com/SscSPs/pocket_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, code, name, account_type, description, is_active, created_at, last_updated_at`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()
	accounts := []models.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}

func typeStrings(types []domain.AccountType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

// SaveAccount draws the next code for the account type and inserts the account in the same
// transaction, so a failed insert never burns a code.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	var seq int64
	err = tx.QueryRow(ctx,
		`UPDATE account_code_sequences SET last_value = last_value + 1 WHERE account_type = $1 RETURNING last_value;`,
		string(account.AccountType),
	).Scan(&seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storageError("no code sequence for account type %s", err, account.AccountType)
		}
		return nil, storageError("failed to allocate code for account type %s", err, account.AccountType)
	}
	account.Code, err = domain.FormatAccountCode(account.AccountType, seq)
	if err != nil {
		return nil, storageError("failed to format account code", err)
	}

	m := mapping.ToModelAccount(account)
	_, err = tx.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.Description,
		m.IsActive,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return nil, fmt.Errorf("%w: account %q of type %s", apperrors.ErrDuplicate, account.Name, account.AccountType)
		}
		return nil, storageError("failed to save account %s", err, account.AccountID)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &account, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if !isRowID(accountID) {
		return nil, apperrors.ErrNotFound
	}
	m, err := scanAccount(r.Pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id = $1;`, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageError("failed to find account %s", err, accountID)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs in one query.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	accountIDs = rowIDs(accountIDs)
	if len(accountIDs) == 0 {
		return result, nil
	}
	rows, err := r.Pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id = ANY($1);`, accountIDs)
	if err != nil {
		return nil, storageError("failed to query accounts by ids", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, storageError("failed to scan accounts by ids", err)
	}
	for _, a := range accounts {
		result[a.AccountID] = a
	}
	return result, nil
}

// FindAccountsByName matches on lower(name), which the partial unique index also covers.
func (r *PgxAccountRepository) FindAccountsByName(ctx context.Context, name string, types ...domain.AccountType) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE lower(name) = lower($1)`
	args := []any{strings.TrimSpace(name)}
	if len(types) > 0 {
		query += ` AND account_type = ANY($2)`
		args = append(args, typeStrings(types))
	}
	query += ` ORDER BY is_active DESC, code;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageError("failed to query accounts named %q", err, name)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, storageError("failed to scan accounts named %q", err, name)
	}
	return accounts, nil
}

// ListAccounts retrieves accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountFilter) ([]domain.Account, error) {
	var conditions []string
	var args []any
	if filter.AccountType != nil {
		args = append(args, string(*filter.AccountType))
		conditions = append(conditions, fmt.Sprintf("account_type = $%d", len(args)))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active")
	}
	query := `SELECT ` + accountColumns + ` FROM accounts`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY code;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageError("failed to list accounts", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, storageError("failed to scan accounts", err)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) CountAccounts(ctx context.Context) (int, error) {
	var n int
	if err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM accounts;`).Scan(&n); err != nil {
		return 0, storageError("failed to count accounts", err)
	}
	return n, nil
}

// UpdateAccount writes the mutable columns only; code and type stay as created.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE accounts
		SET name = $2, description = $3, is_active = $4, last_updated_at = $5
		WHERE account_id = $1;`,
		m.AccountID,
		m.Name,
		m.Description,
		m.IsActive,
		m.LastUpdatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return fmt.Errorf("%w: account %q of type %s", apperrors.ErrDuplicate, account.Name, account.AccountType)
		}
		return storageError("failed to update account %s", err, account.AccountID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteAccount relies on the journal_lines foreign key to refuse accounts still in use.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	if !isRowID(accountID) {
		return apperrors.ErrNotFound
	}
	tag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("%w: %s", apperrors.ErrAccountInUse, accountID)
		}
		return storageError("failed to delete account %s", err, accountID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
