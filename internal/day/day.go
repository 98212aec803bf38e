// Package day provides calendar-date helpers shared by the store, the
// day-note service and the calendar.
//
// A day is identified by its ISO date string (YYYY-MM-DD). Dates parsed from
// such strings are pinned to local noon so that DST transitions and offset
// rounding can never move them onto a neighbouring calendar day.
package day

import (
	"fmt"
	"time"
)

const (
	// ISOLayout is the layout of a day key, e.g. "2024-02-15".
	ISOLayout = "2006-01-02"

	// MonthLayout is the layout of a month key, e.g. "2024-02".
	MonthLayout = "2006-01"

	// NoonHour is the hour a parsed date is fixed to.
	NoonHour = 12
)

// Noon returns 12:00:00 local time for t's calendar date.
func Noon(t time.Time) time.Time {
	year, month, d := t.Date()
	return time.Date(year, month, d, NoonHour, 0, 0, 0, time.Local)
}

// ParseISO parses a YYYY-MM-DD string as local noon of that date.
func ParseISO(s string) (time.Time, error) {
	t, err := time.ParseInLocation(ISOLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return Noon(t), nil
}

// FormatISO formats t's calendar date as YYYY-MM-DD.
func FormatISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// ValidateISO checks that s is a well-formed YYYY-MM-DD date.
func ValidateISO(s string) error {
	_, err := ParseISO(s)
	return err
}

// MonthKey returns the YYYY-MM key of t's month.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// ParseMonthKey parses a YYYY-MM key and returns the first day of that month
// at local noon.
func ParseMonthKey(s string) (time.Time, error) {
	t, err := time.ParseInLocation(MonthLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (use YYYY-MM): %w", s, err)
	}
	return Noon(t), nil
}

// InMonth reports whether the ISO date s falls in the month identified by the
// YYYY-MM key monthKey. It does not validate s beyond its prefix.
func InMonth(s, monthKey string) bool {
	return len(s) == len(ISOLayout) && s[:len(MonthLayout)] == monthKey
}

// SameDay reports whether a and b fall on the same calendar day, comparing
// year, month and day only.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
