package expiry

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// ErrInvalidInput is matched by every error returned for a missing or
// unparsable date.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError describes a date that could not be parsed.
type InvalidInputError struct {
	Input string
	Err   error
}

func (e *InvalidInputError) Error() string {
	if e.Input == "" {
		return "invalid input: missing date"
	}
	return fmt.Sprintf("invalid input: unparsable date %q", e.Input)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// Accepted input layouts, tried in order. Date-times without an offset are
// read as UTC.
var layouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// ParseDate parses an ISO-8601 date or date-time and returns the UTC midnight
// of its UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &InvalidInputError{}
	}

	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return DateOf(t), nil
		}
		lastErr = err
	}
	return time.Time{}, &InvalidInputError{Input: s, Err: lastErr}
}

// DateOf truncates t to midnight of its UTC calendar date.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate formats the UTC calendar date of t using DateLayout.
func FormatDate(t time.Time) string {
	return DateOf(t).Format(DateLayout)
}

// NormalizeDate parses s and re-formats it using DateLayout.
func NormalizeDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// DaysBetween returns the number of calendar days from the date of from to the
// date of to. It is negative when to falls before from.
func DaysBetween(from, to time.Time) int {
	// UTC midnights are exact multiples of a day in Unix time.
	return int((DateOf(to).Unix() - DateOf(from).Unix()) / secondsPerDay)
}
