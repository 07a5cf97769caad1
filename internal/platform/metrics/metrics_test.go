package metrics

import (
	"fmt"
	"testing"

	"github.com/SscSPs/pocket_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRejectionReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&apperrors.StructuralError{Reason: apperrors.ReasonTooFewLines}, "structural"},
		{&apperrors.ReferentialError{Reason: apperrors.ReasonUnknownAccount}, "referential"},
		{&apperrors.UnbalancedEntryError{DebitTotal: decimal.NewFromInt(12), CreditTotal: decimal.NewFromInt(10)}, "unbalanced"},
		{fmt.Errorf("wrapped: %w", apperrors.ErrPayloadParse), "parse"},
		{&apperrors.ImportError{Fields: []apperrors.FieldError{{Field: "lines[0].amount_domestic", Reason: "must not be zero"}}}, "import"},
		{apperrors.ErrNotFound, "other"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, RejectionReason(tt.err))
		})
	}
}
