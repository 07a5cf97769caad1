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
	"github.com/SscSPs/pocket_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	journalColumns = `journal_id, journal_date, kind, title, memo, attachment_ref, created_at, last_updated_at`
	lineColumns    = `line_id, journal_id, line_no, account_id, side, amount, category, note, original_amount, original_currency`
)

// PgxJournalRepository implements portsrepo.JournalRepositoryFacade
type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// SaveJournal inserts the header and all lines in a single transaction.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, validated domain.ValidatedJournal) error {
	journal := validated.Journal()
	modelJournal := mapping.ToModelJournal(journal)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	_, err = tx.Exec(ctx, `
		INSERT INTO journals (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		modelJournal.JournalID,
		modelJournal.JournalDate,
		modelJournal.Kind,
		modelJournal.Title,
		modelJournal.Memo,
		modelJournal.AttachmentRef,
		modelJournal.CreatedAt,
		modelJournal.LastUpdatedAt,
	)
	if err != nil {
		return storageError("failed to insert journal %s", err, journal.JournalID)
	}

	if err := insertLines(ctx, tx, journal); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// ReplaceJournal rewrites the header and swaps every line in one transaction.
func (r *PgxJournalRepository) ReplaceJournal(ctx context.Context, validated domain.ValidatedJournal) error {
	journal := validated.Journal()
	modelJournal := mapping.ToModelJournal(journal)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `
		UPDATE journals
		SET journal_date = $2, kind = $3, title = $4, memo = $5, attachment_ref = $6, last_updated_at = $7
		WHERE journal_id = $1;`,
		modelJournal.JournalID,
		modelJournal.JournalDate,
		modelJournal.Kind,
		modelJournal.Title,
		modelJournal.Memo,
		modelJournal.AttachmentRef,
		modelJournal.LastUpdatedAt,
	)
	if err != nil {
		return storageError("failed to update journal %s", err, journal.JournalID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE journal_id = $1;`, journal.JournalID); err != nil {
		return storageError("failed to clear lines of journal %s", err, journal.JournalID)
	}
	if err := insertLines(ctx, tx, journal); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// insertLines queues one insert per line in a batch on the open transaction.
func insertLines(ctx context.Context, tx pgx.Tx, journal domain.Journal) error {
	batch := &pgx.Batch{}
	query := `INSERT INTO journal_lines (` + lineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	for _, line := range journal.Lines {
		m := mapping.ToModelJournalLine(line)
		batch.Queue(query,
			m.LineID,
			m.JournalID,
			m.LineNo,
			m.AccountID,
			m.Side,
			m.Amount,
			m.Category,
			m.Note,
			m.OriginalAmount,
			m.OriginalCurrency,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range journal.Lines {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return storageError("failed to insert lines of journal %s", err, journal.JournalID)
		}
	}
	if err := br.Close(); err != nil {
		return storageError("failed to close line batch of journal %s", err, journal.JournalID)
	}
	return nil
}

// DeleteJournal removes the header; lines go with it through ON DELETE CASCADE.
func (r *PgxJournalRepository) DeleteJournal(ctx context.Context, journalID string) error {
	if !isRowID(journalID) {
		return apperrors.ErrNotFound
	}
	tag, err := r.Pool.Exec(ctx, `DELETE FROM journals WHERE journal_id = $1;`, journalID)
	if err != nil {
		return storageError("failed to delete journal %s", err, journalID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxJournalRepository) SetAttachment(ctx context.Context, journalID string, ref *string, updatedAt time.Time) error {
	if !isRowID(journalID) {
		return apperrors.ErrNotFound
	}
	tag, err := r.Pool.Exec(ctx,
		`UPDATE journals SET attachment_ref = $2, last_updated_at = $3 WHERE journal_id = $1;`,
		journalID, ref, updatedAt)
	if err != nil {
		return storageError("failed to set attachment of journal %s", err, journalID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanJournal(row pgx.Row) (models.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.JournalDate,
		&m.Kind,
		&m.Title,
		&m.Memo,
		&m.AttachmentRef,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func scanLine(row pgx.Row) (models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID,
		&m.JournalID,
		&m.LineNo,
		&m.AccountID,
		&m.Side,
		&m.Amount,
		&m.Category,
		&m.Note,
		&m.OriginalAmount,
		&m.OriginalCurrency,
	)
	return m, err
}

// FindJournalByID retrieves a journal header and its lines.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	if !isRowID(journalID) {
		return nil, apperrors.ErrNotFound
	}
	m, err := scanJournal(r.Pool.QueryRow(ctx,
		`SELECT `+journalColumns+` FROM journals WHERE journal_id = $1;`, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageError("failed to find journal by ID %s", err, journalID)
	}

	lines, err := r.linesByJournal(ctx, []string{journalID})
	if err != nil {
		return nil, err
	}
	journal := mapping.ToDomainJournal(m)
	journal.Lines = mapping.ToDomainJournalLineSlice(lines[journalID])
	return &journal, nil
}

// linesByJournal loads the lines of several journals keyed by journal id, in line order.
func (r *PgxJournalRepository) linesByJournal(ctx context.Context, journalIDs []string) (map[string][]models.JournalLine, error) {
	result := make(map[string][]models.JournalLine, len(journalIDs))
	if len(journalIDs) == 0 {
		return result, nil
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT `+lineColumns+`
		FROM journal_lines
		WHERE journal_id = ANY($1)
		ORDER BY journal_id, line_no;`, journalIDs)
	if err != nil {
		return nil, storageError("failed to query journal lines", err)
	}
	defer rows.Close()

	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, storageError("failed to scan journal line", err)
		}
		result[line.JournalID] = append(result[line.JournalID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating journal lines", err)
	}
	return result, nil
}

// ListJournals retrieves one page of journals using keyset pagination over (journal_date, journal_id).
// It returns the journals, a token for the next page, and an error.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, filter portsrepo.JournalFilter) ([]domain.Journal, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	var conditions []string
	var args []any
	addArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Range.From != nil {
		conditions = append(conditions, "journal_date >= "+addArg(*filter.Range.From))
	}
	if filter.Range.To != nil {
		conditions = append(conditions, "journal_date <= "+addArg(*filter.Range.To))
	}
	if filter.Kind != nil {
		conditions = append(conditions, "kind = "+addArg(string(*filter.Kind)))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastID, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		if !isRowID(lastID) {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		// Tuple comparison matches the ORDER BY below.
		conditions = append(conditions, fmt.Sprintf("(journal_date, journal_id) < (%s, %s)", addArg(lastDate), addArg(lastID)))
	}

	query := `SELECT ` + journalColumns + ` FROM journals`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY journal_date DESC, journal_id DESC LIMIT ` + addArg(fetchLimit) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, storageError("failed to list journals", err)
	}
	headers := make([]models.Journal, 0, fetchLimit)
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			rows.Close()
			return nil, nil, storageError("failed to scan journal row", err)
		}
		headers = append(headers, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, storageError("error iterating journal rows", err)
	}

	var nextToken *string
	if len(headers) > limit {
		headers = headers[:limit]
		last := headers[limit-1]
		token := pagination.EncodeToken(last.JournalDate, last.JournalID)
		nextToken = &token
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.JournalID
	}
	lines, err := r.linesByJournal(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	journals := make([]domain.Journal, len(headers))
	for i, h := range headers {
		journals[i] = mapping.ToDomainJournal(h)
		journals[i].Lines = mapping.ToDomainJournalLineSlice(lines[h.JournalID])
	}
	return journals, nextToken, nil
}

func (r *PgxJournalRepository) CountJournals(ctx context.Context) (int, error) {
	var n int
	if err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM journals;`).Scan(&n); err != nil {
		return 0, storageError("failed to count journals", err)
	}
	return n, nil
}
