package domain

import (
	"fmt"
	"strings"
	"time"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// DateLayout is the calendar date format used on every external surface.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar dates. A nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether d falls inside the range, boundaries included.
func (r DateRange) Contains(d time.Time) bool {
	if r.From != nil && d.Before(*r.From) {
		return false
	}
	if r.To != nil && d.After(*r.To) {
		return false
	}
	return true
}

// Granularity is the bucket size used by time-bucketed queries.
type Granularity string

const (
	Daily   Granularity = "day"
	Monthly Granularity = "month"
)

// ParseGranularity accepts "day"/"daily" and "month"/"monthly"; empty means monthly.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "daily":
		return Daily, nil
	case "", "month", "monthly":
		return Monthly, nil
	default:
		return "", fmt.Errorf("unknown granularity %q", s)
	}
}
