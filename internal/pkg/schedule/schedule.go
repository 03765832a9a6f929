// Package schedule normalizes the two external formats used for booking:
// calendar dates (DD-MM-YYYY) and clock times (HH:mm). The two values are
// normalized independently, each against its own fixed reference, and are
// stored as two separate instants. Conflict search relies on exact equality
// of normalized dates, so both fields must always go through this package.
package schedule

import (
	"fmt"
	"time"

	"github.com/medbook-api/internal/domain"
)

const (
	// DateLayout is the external calendar-date format (DD-MM-YYYY).
	DateLayout = "02-01-2006"
	// TimeLayout is the external clock-time format (HH:mm).
	TimeLayout = "15:04"
)

// ConflictWindow is the half-width of the booking conflict window: an
// appointment blocks every slot within one hour of it, inclusive.
const ConflictWindow = time.Hour

// ParseDate normalizes DD-MM-YYYY to UTC midnight of that calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in DD-MM-YYYY format: %w", domain.ErrBadRequest)
	}
	return t, nil
}

// ParseTime normalizes HH:mm to an instant on the layout reference day.
// Two equal clock times always normalize to an identical instant, which is
// what makes the stored time field comparable.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("time must be in HH:mm format: %w", domain.ErrBadRequest)
	}
	return t, nil
}

// Window returns the inclusive conflict window [t-1h, t+1h] around a
// normalized clock time.
func Window(t time.Time) (from, to time.Time) {
	return t.Add(-ConflictWindow), t.Add(ConflictWindow)
}
