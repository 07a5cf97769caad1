package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
// Every user-correctable rejection matches it via errors.Is.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

var (
	ErrStructural   = errors.New("structurally invalid journal entry")
	ErrReferential  = errors.New("unknown or inactive account reference")
	ErrUnbalanced   = errors.New("journal entry does not balance")
	ErrPayloadParse = errors.New("import payload could not be parsed")
	ErrAccountInUse = errors.New("account is referenced by journal lines")
	// ErrStorage marks a storage transaction that could not complete. Nothing was written.
	ErrStorage = errors.New("storage failure")
	// ErrInvariantViolation is an internal bug: storage returned state the ledger never accepts.
	ErrInvariantViolation = errors.New("ledger invariant violated")
)

// Reasons carried by StructuralError and ReferentialError.
const (
	ReasonMissingDate           = "MissingDate"
	ReasonTooFewLines           = "TooFewLines"
	ReasonEmptyLines            = "EmptyLines"
	ReasonNonPositiveAmount     = "NonPositiveAmount"
	ReasonAmountPrecision       = "AmountPrecision"
	ReasonInvalidSide           = "InvalidSide"
	ReasonFieldTooLong          = "FieldTooLong"
	ReasonInvalidDate           = "InvalidDate"
	ReasonInvalidAttachment     = "InvalidAttachment"
	ReasonUnknownAccount        = "UnknownAccount"
	ReasonInactiveAccount       = "InactiveAccount"
	ReasonUnknownPaymentAccount = "UnknownPaymentAccount"
	ReasonMissingCategory       = "MissingCategory"
	ReasonInvalidCurrency       = "InvalidCurrency"
)

// AppError carries an HTTP-ish status code alongside the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError. Code 500 errors are storage failures.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Is lets a 500 AppError match ErrStorage even when the wrapped cause is a driver error.
func (e *AppError) Is(target error) bool {
	return target == ErrStorage && e.Code >= 500
}

// StructuralError rejects a draft whose shape is wrong before any lookup happens.
type StructuralError struct {
	Field  string
	Reason string
	Detail string
}

func (e *StructuralError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrStructural.Error(), e.Reason)
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural || target == ErrValidation
}

// ReferentialError rejects a line or payment account that does not resolve to a usable account.
type ReferentialError struct {
	Field      string
	AccountRef string
	Reason     string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("%s: %s %q (%s)", ErrReferential.Error(), e.Reason, e.AccountRef, e.Field)
}

func (e *ReferentialError) Is(target error) bool {
	return target == ErrReferential || target == ErrValidation
}

// UnbalancedEntryError carries both totals so callers can show the exact discrepancy.
type UnbalancedEntryError struct {
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("%s: debits sum is %s and credits sum is %s",
		ErrUnbalanced.Error(), e.DebitTotal.String(), e.CreditTotal.String())
}

func (e *UnbalancedEntryError) Is(target error) bool {
	return target == ErrUnbalanced || target == ErrValidation
}

// DuplicateNameError is returned by the account registry; the registry is left unchanged.
type DuplicateNameError struct {
	Name        string
	AccountType string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("an active %s account named %q already exists", strings.ToLower(e.AccountType), e.Name)
}

func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicate
}

// FieldError is a single field-level problem found while resolving an import payload.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ImportError collects every field-level resolution failure of one import payload.
type ImportError struct {
	Fields []FieldError
}

func (e *ImportError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "import payload rejected: " + strings.Join(parts, "; ")
}

func (e *ImportError) Is(target error) bool {
	if target == ErrValidation {
		return true
	}
	// an unknown payment account is the one referential failure callers branch on
	if target == ErrReferential {
		for _, f := range e.Fields {
			if f.Field == "payment_account" {
				return true
			}
		}
	}
	return false
}

// Add appends a field error.
func (e *ImportError) Add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// OrNil returns nil when no field errors were collected.
func (e *ImportError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
