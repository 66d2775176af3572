package types

import (
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used for every entry date.
const DateLayout = "2006-01-02"

// HabitEntry is the value recorded for one habit on one calendar date.
// At most one entry exists per (HabitID, Date). An empty Value is a
// recorded "no value", distinct from the absence of an entry.
type HabitEntry struct {
	ID      int64  `json:"id"`
	HabitID int64  `json:"habit_id"`
	Date    string `json:"date"`
	Value   string `json:"value"`
}

// DayEntry pairs a habit's display fields with its value on one date.
// Value is empty when the habit has no entry that day.
type DayEntry struct {
	HabitID int64  `json:"habit_id"`
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	Color   string `json:"color"`
	Value   string `json:"value"`
}

// MonthEntries maps habit ID to a date-to-value map for one month. Every
// existing habit has a key, even when it recorded nothing that month.
type MonthEntries map[int64]map[string]string

// Record is one row of the CSV interchange format: a habit and at most one
// of its entries. Date and Value are empty for a habit without entries.
type Record struct {
	Name  string
	Icon  string
	Date  string
	Value string
}

// ValidateDate returns ErrInvalidDate unless s is a YYYY-MM-DD calendar date.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return nil
}

// MonthRange returns the half-open date range [start, end) covering the
// given month. December rolls over to January of the following year.
func MonthRange(year, month int) (start, end string, err error) {
	if month < 1 || month > 12 || year < 1 || year > 9998 {
		return "", "", fmt.Errorf("%w: %04d-%02d", ErrInvalidMonth, year, month)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	return first.Format(DateLayout), next.Format(DateLayout), nil
}
