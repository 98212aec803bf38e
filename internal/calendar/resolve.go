package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris-regnier/daycal/internal/logs"
	"github.com/chris-regnier/daycal/internal/note"
)

// ErrUnresolved is returned when the resolver yields no note.
var ErrUnresolved = errors.New("day note could not be resolved")

// DayNoteResolver finds or creates the note bound to an ISO date. A nil note
// with a nil error is a resolution failure.
type DayNoteResolver interface {
	GetOrCreateDayNote(ctx context.Context, isoDate string) (*note.Note, error)
}

// Host is what the calendar needs from the application around it.
type Host interface {
	SetActiveNote(noteID string)
	ShowError(message string)
	CloseDropdown()
}

// Resolution is the outcome of activating a day cell.
type Resolution struct {
	Date string
	Note *note.Note
	Err  error
}

// OK reports whether a note was resolved.
func (r Resolution) OK() bool {
	return r.Err == nil && r.Note != nil
}

// Resolve looks up or creates the day note for isoDate.
func Resolve(ctx context.Context, resolver DayNoteResolver, isoDate string) Resolution {
	n, err := resolver.GetOrCreateDayNote(ctx, isoDate)
	if err != nil {
		return Resolution{Date: isoDate, Err: err}
	}
	if n == nil {
		return Resolution{Date: isoDate, Err: fmt.Errorf("%w: %s", ErrUnresolved, isoDate)}
	}
	return Resolution{Date: isoDate, Note: n}
}

// ApplyResolution navigates the host to the resolved note and closes the
// dropdown. On failure it shows an error and leaves the dropdown open.
// It reports whether navigation happened.
func ApplyResolution(host Host, tr Translator, res Resolution) bool {
	if !res.OK() {
		logs.Logger.Printf("resolving day note for %s: %v", res.Date, res.Err)
		host.ShowError(tr.T(KeyCannotFindDayNote))
		return false
	}
	host.SetActiveNote(res.Note.ID)
	host.CloseDropdown()
	return true
}
