package dates

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/pocket_ledger/internal/core/domain"
)

// Today returns the current calendar date at UTC midnight.
func Today() time.Time {
	return Truncate(time.Now())
}

// Truncate drops the time of day, keeping the calendar date of t's own location.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "2006-01-02" calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseOptionalDate returns nil for an empty string.
func ParseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseRange parses optional from/to bounds and rejects an inverted range.
func ParseRange(from, to string) (domain.DateRange, error) {
	f, err := ParseOptionalDate(from)
	if err != nil {
		return domain.DateRange{}, err
	}
	t, err := ParseOptionalDate(to)
	if err != nil {
		return domain.DateRange{}, err
	}
	if f != nil && t != nil && t.Before(*f) {
		return domain.DateRange{}, fmt.Errorf("date range is inverted: %s is after %s", from, to)
	}
	return domain.DateRange{From: f, To: t}, nil
}

// BucketStart returns the first day of the bucket containing t.
func BucketStart(t time.Time, g domain.Granularity) time.Time {
	t = Truncate(t)
	if g == domain.Monthly {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}

// NextBucket returns the start of the bucket after the one starting at start.
func NextBucket(start time.Time, g domain.Granularity) time.Time {
	if g == domain.Monthly {
		return start.AddDate(0, 1, 0)
	}
	return start.AddDate(0, 0, 1)
}

// BucketLabel renders the bucket containing t as "2006-01-02" (day) or "2006-01" (month).
func BucketLabel(t time.Time, g domain.Granularity) string {
	if g == domain.Monthly {
		return t.Format("2006-01")
	}
	return t.Format(domain.DateLayout)
}
