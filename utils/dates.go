package utils

import (
	"errors"
	"time"
)

// DateLayout is the canonical date key format.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date, use YYYY-MM-DD")

// FormatDate renders t as a date key in t's location.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// ParseDate parses a canonical date key. Non-canonical spellings such as
// "2024-1-5" are rejected so keys stay comparable as strings.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil || t.Format(DateLayout) != s {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// IsDateKey reports whether s is a canonical YYYY-MM-DD key.
func IsDateKey(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// AddDays shifts a date key by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// ValidClock reports whether s is a 24h HH:MM time.
func ValidClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil && len(s) == 5
}
