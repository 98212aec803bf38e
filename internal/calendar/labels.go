package calendar

import (
	"strconv"
	"time"
)

// Translator looks up localized UI strings.
type Translator interface {
	T(key string) string
}

// Locale keys for the calendar. The February key keeps its historical
// spelling so existing translations still match.
const (
	KeyCannotFindDayNote = "calendar.cannot_find_day_note"
	KeyCannotLoadMonth   = "calendar.cannot_load_month"
)

var monthKeys = [12]string{
	"calendar.january",
	"calendar.febuary",
	"calendar.march",
	"calendar.april",
	"calendar.may",
	"calendar.june",
	"calendar.july",
	"calendar.august",
	"calendar.september",
	"calendar.october",
	"calendar.november",
	"calendar.december",
}

var weekdayKeys = [7]string{
	"calendar.mon",
	"calendar.tue",
	"calendar.wed",
	"calendar.thu",
	"calendar.fri",
	"calendar.sat",
	"calendar.sun",
}

// MonthLabel returns the localized name of m.
func MonthLabel(tr Translator, m time.Month) string {
	return tr.T(monthKeys[m-1])
}

// YearLabel returns the year as shown in the header.
func YearLabel(m Month) string {
	return strconv.Itoa(m.Year)
}

// WeekdayLabels returns the localized Monday-first weekday header.
func WeekdayLabels(tr Translator) []string {
	labels := make([]string, len(weekdayKeys))
	for i, k := range weekdayKeys {
		labels[i] = tr.T(k)
	}
	return labels
}

// MonthNames returns the twelve localized month names, January first.
func MonthNames(tr Translator) []string {
	names := make([]string, len(monthKeys))
	for i, k := range monthKeys {
		names[i] = tr.T(k)
	}
	return names
}
