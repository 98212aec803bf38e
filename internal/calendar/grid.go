package calendar

import (
	"time"

	"github.com/chris-regnier/daycal/internal/day"
)

// ColumnWidthPercent is the share of a week row taken by one weekday column.
const ColumnWidthPercent = 14.28

// DayCell is one rendered day of the displayed month.
type DayCell struct {
	Day      int
	Date     string // YYYY-MM-DD
	Weekday  time.Weekday
	Column   int    // 0 = Monday .. 6 = Sunday
	NoteID   string // empty unless HasNote
	HasNote  bool
	IsActive bool
	IsToday  bool
}

// Grid is the rendered month: one cell per day in ascending order.
type Grid struct {
	Month       Month
	Cells       []DayCell
	FirstColumn int // weekday column of the 1st
}

// FirstColumn maps a weekday to its column in a Monday-first week.
// Sunday is the seventh column.
func FirstColumn(wd time.Weekday) int {
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}

// BuildGrid renders m against the month's existence map. active may be nil.
// Flags compare calendar year, month and day only.
func BuildGrid(m Month, existence map[string]string, active *time.Time, today time.Time) Grid {
	first := m.First()
	g := Grid{
		Month:       m,
		FirstColumn: FirstColumn(first.Weekday()),
	}

	for d := first; m.Contains(d); d = d.AddDate(0, 0, 1) {
		iso := day.FormatISO(d)
		noteID := existence[iso]
		g.Cells = append(g.Cells, DayCell{
			Day:      d.Day(),
			Date:     iso,
			Weekday:  d.Weekday(),
			Column:   FirstColumn(d.Weekday()),
			NoteID:   noteID,
			HasNote:  noteID != "",
			IsActive: active != nil && day.SameDay(d, *active),
			IsToday:  day.SameDay(d, today),
		})
	}
	return g
}

// EmptyGrid renders m with no existing notes.
func EmptyGrid(m Month, active *time.Time, today time.Time) Grid {
	return BuildGrid(m, nil, active, today)
}

// OffsetPercent is the left offset of the first cell as a percentage of the
// row width.
func (g Grid) OffsetPercent() float64 {
	return float64(g.FirstColumn) * ColumnWidthPercent
}

// Cell returns the cell for day-of-month d.
func (g Grid) Cell(d int) (DayCell, bool) {
	if d < 1 || d > len(g.Cells) {
		return DayCell{}, false
	}
	return g.Cells[d-1], true
}

// Weeks lays the cells out in Monday-first rows of seven. Slots before the
// 1st and after the last day are nil.
func (g Grid) Weeks() [][]*DayCell {
	var weeks [][]*DayCell
	row := make([]*DayCell, 7)
	for i := range g.Cells {
		c := &g.Cells[i]
		row[c.Column] = c
		if c.Column == 6 {
			weeks = append(weeks, row)
			row = make([]*DayCell, 7)
		}
	}
	for _, c := range row {
		if c != nil {
			weeks = append(weeks, row)
			break
		}
	}
	return weeks
}

// Position returns the week row and column of day-of-month d.
func (g Grid) Position(d int) (row, col int) {
	idx := g.FirstColumn + d - 1
	return idx / 7, idx % 7
}

// DayAt returns the day-of-month at a week row and column, or 0 for an
// empty slot.
func (g Grid) DayAt(row, col int) int {
	if row < 0 || col < 0 || col > 6 {
		return 0
	}
	d := row*7 + col - g.FirstColumn + 1
	if d < 1 || d > len(g.Cells) {
		return 0
	}
	return d
}
