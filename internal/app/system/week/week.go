// internal/app/system/week/week.go

// Package week buckets calendar dates into Monday-start weeks and formats
// week labels for display.
//
// A week key is the ISO date string ("2006-01-02") of the Monday that
// begins the week. Weeks run Monday through Sunday, so a Sunday belongs to
// the week that started six days earlier. All functions work on calendar
// dates only; any time-of-day in the input is discarded.
package week

import (
	"fmt"
	"strings"
	"time"

	"github.com/rollcallhq/rollcall/internal/app/system/apierr"
)

// DateLayout is the calendar-date wire format used throughout the app.
const DateLayout = "2006-01-02"

// weekdayNumbers maps lowercase weekday names to ISO numbers (Monday=1).
var weekdayNumbers = map[string]int{
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
	"sunday":    7,
}

// ParseDate parses a calendar date, tolerating a trailing time-of-day
// (RFC 3339) by truncating it. Malformed input is an InvalidInput error.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, apierr.InvalidInput(fmt.Sprintf("invalid date %q", s), nil)
}

// NormalizeDate parses a calendar date and re-renders it in DateLayout,
// stripping any time-of-day. Handlers use it to canonicalize client input
// before it reaches storage.
func NormalizeDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// Start returns the week key for the week containing date: the ISO date of
// that week's Monday.
func Start(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return startOf(t).Format(DateLayout), nil
}

// End returns the Sunday that closes the week identified by weekKey
// (six days after the Monday start).
func End(weekKey string) (string, error) {
	t, err := ParseDate(weekKey)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, 6).Format(DateLayout), nil
}

// ShortLabel formats a date as "DD/MM" for compact display.
func ShortLabel(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.Format("02/01"), nil
}

// Label formats a week for display. When the program's anchor weekday is
// known, the label is the full date of the day the program actually met
// that week, e.g. "3 February 2025 (Monday)". Otherwise it falls back to a
// "DD/MM – DD/MM" start–end range.
func Label(weekKey, anchorWeekday string) (string, error) {
	start, err := ParseDate(weekKey)
	if err != nil {
		return "", err
	}
	if n, ok := WeekdayNumber(anchorWeekday); ok {
		met := start.AddDate(0, 0, n-1)
		return met.Format("2 January 2006 (Monday)"), nil
	}
	end := start.AddDate(0, 0, 6)
	return start.Format("02/01") + " – " + end.Format("02/01"), nil
}

// WeekdayNumber maps a weekday name (any case) to its ISO number,
// Monday=1 through Sunday=7. Unrecognized or empty names return ok=false.
func WeekdayNumber(name string) (int, bool) {
	n, ok := weekdayNumbers[strings.ToLower(strings.TrimSpace(name))]
	return n, ok
}

// startOf returns the Monday 00:00 UTC of the week containing t.
func startOf(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return t.AddDate(0, 0, -(weekday - 1))
}
