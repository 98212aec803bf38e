package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chris-regnier/daycal/internal/calendar"
	"github.com/chris-regnier/daycal/internal/note"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

const timeLayout = "2006-01-02 15:04"

// gridCellWidth is the width of one day in plain-text grids.
const gridCellWidth = 5

var (
	noteDay   = color.New(color.Bold)
	todayDay  = color.New(color.Underline)
	activeDay = color.New(color.FgCyan, color.Bold)
	titleLine = color.New(color.Bold, color.Underline)
	faint     = color.New(color.Faint)
)

// FormatJSON writes any value as JSON to the writer.
func FormatJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// DayCellJSON is the JSON representation of one grid day.
type DayCellJSON struct {
	Day     int    `json:"day"`
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Column  int    `json:"column"`
	NoteID  string `json:"note_id,omitempty"`
	HasNote bool   `json:"has_note"`
	Active  bool   `json:"active"`
	Today   bool   `json:"today"`
}

// GridJSON is the JSON representation of a rendered month.
type GridJSON struct {
	Month         string        `json:"month"`
	Label         string        `json:"label"`
	Year          string        `json:"year"`
	FirstColumn   int           `json:"first_column"`
	OffsetPercent float64       `json:"offset_percent"`
	Days          []DayCellJSON `json:"days"`
}

// ToGridJSON converts a grid for JSON output, labelled with tr.
func ToGridJSON(g calendar.Grid, tr calendar.Translator) GridJSON {
	weekdays := calendar.WeekdayLabels(tr)
	out := GridJSON{
		Month:         g.Month.Key(),
		Label:         calendar.MonthLabel(tr, g.Month.Month),
		Year:          calendar.YearLabel(g.Month),
		FirstColumn:   g.FirstColumn,
		OffsetPercent: g.OffsetPercent(),
		Days:          make([]DayCellJSON, len(g.Cells)),
	}
	for i, c := range g.Cells {
		out.Days[i] = DayCellJSON{
			Day:     c.Day,
			Date:    c.Date,
			Weekday: weekdays[c.Column],
			Column:  c.Column,
			NoteID:  c.NoteID,
			HasNote: c.HasNote,
			Active:  c.IsActive,
			Today:   c.IsToday,
		}
	}
	return out
}

// gridCell renders one day as "[15*]" (active), "(15*)" (today) or " 15* ".
// The star marks a day with a note.
func gridCell(c *calendar.DayCell) string {
	mark := " "
	if c.HasNote {
		mark = "*"
	}
	left, right := " ", " "
	switch {
	case c.IsActive:
		left, right = "[", "]"
	case c.IsToday:
		left, right = "(", ")"
	}
	text := fmt.Sprintf("%s%2d%s%s", left, c.Day, mark, right)

	switch {
	case c.IsActive:
		return activeDay.Sprint(text)
	case c.IsToday:
		return todayDay.Sprint(text)
	case c.HasNote:
		return noteDay.Sprint(text)
	}
	return text
}

// FormatGrid writes a month as a Monday-first text calendar.
func FormatGrid(w io.Writer, g calendar.Grid, tr calendar.Translator) {
	title := fmt.Sprintf("%s %s", calendar.MonthLabel(tr, g.Month.Month), calendar.YearLabel(g.Month))
	fmt.Fprintln(w, titleLine.Sprint(title))

	var b strings.Builder
	for _, l := range calendar.WeekdayLabels(tr) {
		r := []rune(l)
		if len(r) > 3 {
			r = r[:3]
		}
		fmt.Fprintf(&b, " %-4s", string(r))
	}
	fmt.Fprintln(w, faint.Sprint(strings.TrimRight(b.String(), " ")))

	for _, week := range g.Weeks() {
		b.Reset()
		for _, c := range week {
			if c == nil {
				b.WriteString(strings.Repeat(" ", gridCellWidth))
				continue
			}
			b.WriteString(gridCell(c))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
	fmt.Fprintln(w, faint.Sprint("* note  [ ] active  ( ) today"))
}

// FormatMonthTable lists the days of g that have a note.
func FormatMonthTable(w io.Writer, g calendar.Grid, tr calendar.Translator) {
	label := fmt.Sprintf("%s %s", calendar.MonthLabel(tr, g.Month.Month), calendar.YearLabel(g.Month))
	weekdays := calendar.WeekdayLabels(tr)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, c := range g.Cells {
		if c.HasNote {
			tbl.AddRow(c.Date, weekdays[c.Column], c.NoteID)
		}
	}
	if len(tbl.Rows) == 0 {
		fmt.Fprintf(w, "No day notes in %s.\n", label)
		return
	}

	fmt.Fprintln(w, titleLine.Sprint(label))
	fmt.Fprintln(w, tbl)
}

// NoteJSON is the JSON representation of a note.
type NoteJSON struct {
	ID        string    `json:"id"`
	Date      string    `json:"date,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Created   bool      `json:"created,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToNoteJSON converts a note for JSON output.
func ToNoteJSON(n *note.Note, created bool) NoteJSON {
	return NoteJSON{
		ID:        n.ID,
		Date:      n.Date,
		Title:     n.Title(),
		Content:   n.Content,
		Created:   created,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// FormatNoteCreated formats a creation confirmation message.
func FormatNoteCreated(w io.Writer, n *note.Note) {
	fmt.Fprintf(w, "Created day note %s for %s\n", n.ID, n.Date)
}

// FormatNoteUpdated formats an update confirmation message.
func FormatNoteUpdated(w io.Writer, n *note.Note) {
	fmt.Fprintf(w, "Updated note %s (%s)\n", n.ID, n.UpdatedAt.Local().Format(timeLayout))
}

// FormatNoChanges formats a "no changes" message.
func FormatNoChanges(w io.Writer, id string) {
	fmt.Fprintf(w, "No changes detected for note %s.\n", id)
}

// FormatNoteFull formats a note with a metadata header and its content
// rendered through glamour in the given style.
func FormatNoteFull(w io.Writer, n *note.Note, markdownStyle string) {
	fmt.Fprintf(w, "Note: %s\n", n.ID)
	if n.Date != "" {
		fmt.Fprintf(w, "Date: %s\n", n.Date)
	}
	fmt.Fprintf(w, "Created: %s\n", n.CreatedAt.Local().Format(timeLayout))
	fmt.Fprintf(w, "Modified: %s\n", n.UpdatedAt.Local().Format(timeLayout))
	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderNote(n.Content, 80, markdownStyle))
}
