package calendar

import (
	"fmt"
	"time"

	"github.com/chris-regnier/daycal/internal/day"
)

// Month is a displayed calendar month. It has no day component, so it always
// denotes "day 1" of the month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a YYYY-MM month key.
func ParseMonth(key string) (Month, error) {
	t, err := day.ParseMonthKey(key)
	if err != nil {
		return Month{}, err
	}
	return MonthOf(t), nil
}

// Key returns the YYYY-MM month key.
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) String() string {
	return m.Key()
}

// First returns local noon on the 1st of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, day.NoonHour, 0, 0, 0, time.Local)
}

// Contains reports whether t falls in the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// AddMonths steps the month by n, rolling the year over as needed.
func (m Month) AddMonths(n int) Month {
	return MonthOf(m.First().AddDate(0, n, 0))
}

// Next returns the following month.
func (m Month) Next() Month { return m.AddMonths(1) }

// Prev returns the preceding month.
func (m Month) Prev() Month { return m.AddMonths(-1) }

// NextYear returns the same month one year later.
func (m Month) NextYear() Month { return m.AddMonths(12) }

// PrevYear returns the same month one year earlier.
func (m Month) PrevYear() Month { return m.AddMonths(-12) }
