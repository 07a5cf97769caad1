package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"

	"github.com/SscSPs/pocket_ledger/internal/apperrors"
	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	"github.com/SscSPs/pocket_ledger/internal/utils/dates"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// importHeader carries the top-level payload fields that have plain length/presence rules.
type importHeader struct {
	Store          string `json:"store" validate:"max=200"`
	Note           string `json:"note" validate:"max=500"`
	PaymentAccount string `json:"payment_account" validate:"required"`
	LineCount      int    `json:"lines" validate:"min=1,max=500"`
}

type importLine struct {
	ExpenseCategory string `json:"expense_category" validate:"required"`
	Note            string `json:"note" validate:"max=500"`
}

func newImportValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (b *draftBuilder) ParseImportPayload(raw []byte) (*domain.ImportPayload, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var payload domain.ImportPayload
	if err := dec.Decode(&payload); err != nil {
		if field, ok := unknownField(err); ok {
			fieldErrs := &apperrors.ImportError{}
			fieldErrs.Add(field, "unexpected field")
			return nil, fieldErrs
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			fieldErrs := &apperrors.ImportError{}
			fieldErrs.Add(typeErr.Field, fmt.Sprintf("must not be a JSON %s", typeErr.Value))
			return nil, fieldErrs
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPayloadParse, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: unexpected data after payload object", apperrors.ErrPayloadParse)
	}
	return &payload, nil
}

// unknownField extracts the key from encoding/json's DisallowUnknownFields error.
func unknownField(err error) (string, bool) {
	rest, ok := strings.CutPrefix(err.Error(), "json: unknown field ")
	if !ok {
		return "", false
	}
	name, uerr := strconv.Unquote(rest)
	if uerr != nil {
		return rest, true
	}
	return name, true
}

func (b *draftBuilder) ResolveImport(ctx context.Context, payload domain.ImportPayload) (*domain.GuidedDraft, error) {
	fieldErrs := &apperrors.ImportError{}

	header := importHeader{
		Store:          trimmed(payload.Store),
		Note:           trimmed(payload.Note),
		PaymentAccount: trimmed(payload.PaymentAccount),
		LineCount:      len(payload.Lines),
	}
	b.collectViolations(fieldErrs, "", header)

	draft := &domain.GuidedDraft{Title: header.Store, Memo: header.Note}

	if date := trimmed(payload.Date); date == "" {
		draft.Date = dates.Truncate(b.Now()).Format(domain.DateLayout)
	} else if _, err := dates.ParseDate(date); err != nil {
		fieldErrs.Add("date", "must be YYYY-MM-DD or null")
	} else {
		draft.Date = date
	}

	currency := strings.ToUpper(trimmed(payload.CurrencyOriginal))
	if currency == "" {
		currency = b.domesticCurrency
	} else if !domain.IsCurrencyCode(currency) {
		fieldErrs.Add("currency_original", fmt.Sprintf("unknown currency code %q", currency))
	}
	draft.CurrencyOriginal = &currency

	if header.PaymentAccount != "" {
		acc, err := b.accountSvc.FindActiveAccountByName(ctx, header.PaymentAccount, domain.Asset, domain.Liability)
		switch {
		case err == nil:
			draft.PaymentAccountID = acc.AccountID
		case errors.Is(err, apperrors.ErrNotFound):
			fieldErrs.Add("payment_account", fmt.Sprintf("no active asset or liability account named %q", header.PaymentAccount))
		default:
			return nil, err
		}
	}

	if len(payload.Lines) <= maxImportLines {
		for i, raw := range payload.Lines {
			line, err := b.resolveImportLine(ctx, fieldErrs, i, raw)
			if err != nil {
				return nil, err
			}
			draft.Lines = append(draft.Lines, line)
		}
	}

	if err := fieldErrs.OrNil(); err != nil {
		b.LogDebug(ctx, "Import payload rejected", slog.Int("field_errors", len(fieldErrs.Fields)))
		return nil, err
	}
	return draft, nil
}

const maxImportLines = 500

func (b *draftBuilder) resolveImportLine(ctx context.Context, fieldErrs *apperrors.ImportError, i int, raw domain.ImportLine) (domain.GuidedLine, error) {
	prefix := fmt.Sprintf("lines[%d].", i)
	line := importLine{ExpenseCategory: trimmed(raw.ExpenseCategory), Note: trimmed(raw.Note)}
	b.collectViolations(fieldErrs, prefix, line)

	if line.ExpenseCategory != "" {
		_, err := b.accountSvc.LookupExpenseAccount(ctx, line.ExpenseCategory)
		switch {
		case err == nil:
		case errors.Is(err, apperrors.ErrNotFound):
			fieldErrs.Add(prefix+"expense_category", fmt.Sprintf("no expense account named %q", line.ExpenseCategory))
		case errors.Is(err, apperrors.ErrReferential):
			fieldErrs.Add(prefix+"expense_category", fmt.Sprintf("expense account %q is inactive", line.ExpenseCategory))
		default:
			return domain.GuidedLine{}, err
		}
	}

	amount, err := parseImportAmount(raw.AmountDomestic)
	if err != nil {
		fieldErrs.Add(prefix+"amount_domestic", err.Error())
	}
	original := amount
	if !isJSONNull(raw.AmountOriginal) {
		if original, err = parseImportAmount(raw.AmountOriginal); err != nil {
			fieldErrs.Add(prefix+"amount_original", err.Error())
		}
	}

	out := domain.GuidedLine{Category: line.ExpenseCategory, Amount: amount, Note: line.Note}
	if original.IsPositive() {
		out.OriginalAmount = &original
	}
	return out, nil
}

// collectViolations runs struct validation and records each failure under prefix.
func (b *draftBuilder) collectViolations(fieldErrs *apperrors.ImportError, prefix string, v any) {
	err := b.validate.Struct(v)
	if err == nil {
		return
	}
	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		fieldErrs.Add(strings.TrimSuffix(prefix, "."), err.Error())
		return
	}
	for _, fe := range violations {
		fieldErrs.Add(prefix+fe.Field(), violationReason(fe))
	}
}

func violationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be %s characters or less", fe.Param())
		}
		return fmt.Sprintf("must contain at most %s items", fe.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s items", fe.Param())
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// parseImportAmount accepts a JSON number or a numeric string.
func parseImportAmount(raw json.RawMessage) (decimal.Decimal, error) {
	if isJSONNull(raw) {
		return decimal.Zero, errors.New("is required")
	}
	text := string(bytes.TrimSpace(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, errors.New("must be a number")
		}
		text = strings.TrimSpace(s)
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, errors.New("must be a number")
	}
	if amount.IsZero() {
		return decimal.Zero, errors.New("must not be zero")
	}
	if amount.IsNegative() {
		return decimal.Zero, errors.New("must be positive")
	}
	return amount, nil
}

func isJSONNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
