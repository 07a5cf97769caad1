package pgsql

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/pocket_ledger/internal/apperrors"
	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestDateConditions(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		r        domain.DateRange
		wantCond []string
		wantArgs int
	}{
		{"open", domain.DateRange{}, nil, 1},
		{"from only", domain.DateRange{From: &from}, []string{"j.journal_date >= $2"}, 2},
		{"both", domain.DateRange{From: &from, To: &to}, []string{"j.journal_date >= $2", "j.journal_date <= $3"}, 3},
		{"to only", domain.DateRange{To: &to}, []string{"j.journal_date <= $2"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, args := dateConditions(tt.r, []any{"EXPENSE"})
			assert.Equal(t, tt.wantCond, cond)
			assert.Len(t, args, tt.wantArgs)
		})
	}
}

func TestPgErrorCode(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgUniqueViolation})

	assert.Equal(t, pgUniqueViolation, pgErrorCode(wrapped))
	assert.Equal(t, "", pgErrorCode(errors.New("connection reset")))
}

func TestStorageError(t *testing.T) {
	err := storageError("failed to save journal %s", errors.New("disk full"), "j-1")

	assert.ErrorIs(t, err, apperrors.ErrStorage)
	assert.Contains(t, err.Error(), "j-1")
}

func TestTypeStrings(t *testing.T) {
	assert.Equal(t, []string{"ASSET", "LIABILITY"}, typeStrings([]domain.AccountType{domain.Asset, domain.Liability}))
	assert.Empty(t, typeStrings(nil))
}
