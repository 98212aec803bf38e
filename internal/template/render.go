package template

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/chris-regnier/daycal/internal/day"
)

// Render executes a Go text/template with the provided variables.
// Missing variables render as "<no value>".
//
//	content, err := Render("# {{.Date}}", map[string]string{"Date": "2024-02-15"})
//	// content = "# 2024-02-15"
func Render(tmplContent string, vars map[string]string) (string, error) {
	tmpl, err := template.New("content").Parse(tmplContent)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}

// DayNoteVars returns the variables available to a day-note template:
// Date (YYYY-MM-DD), Year, Month (name), MonthNumber, Day and Weekday.
func DayNoteVars(isoDate string) (map[string]string, error) {
	t, err := day.ParseISO(isoDate)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"Date":        day.FormatISO(t),
		"Year":        strconv.Itoa(t.Year()),
		"Month":       t.Month().String(),
		"MonthNumber": fmt.Sprintf("%02d", int(t.Month())),
		"Day":         strconv.Itoa(t.Day()),
		"Weekday":     t.Weekday().String(),
	}, nil
}

// RenderDayNote renders the initial content of a new day note. The result
// is never blank: an empty rendering falls back to a heading with the date.
func RenderDayNote(tmplContent string, isoDate string) (string, error) {
	vars, err := DayNoteVars(isoDate)
	if err != nil {
		return "", err
	}
	content, err := Render(tmplContent, vars)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "# " + vars["Date"] + "\n", nil
	}
	return content, nil
}
