package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chris-regnier/daycal/internal/calendar"
	"github.com/chris-regnier/daycal/internal/note"
)

// Dropdown is a pop-over component the host app can mount. The host routes
// input to it while it is open and draws its View over the note pane.
type Dropdown interface {
	// Open starts a session for the note dated activeDate ("" for none).
	Open(activeDate string) tea.Cmd
	Close()
	IsOpen() bool
	Update(msg tea.Msg) tea.Cmd
	View() string
	// HandleClick processes a left click at x, y relative to View's
	// top-left corner.
	HandleClick(x, y int) tea.Cmd
}

// DayNoteService is the day-note API the TUI needs.
type DayNoteService interface {
	calendar.ExistenceFetcher
	calendar.DayNoteResolver
	GetDayNote(ctx context.Context, isoDate string, create bool) (*note.Note, bool, error)
	GetNote(ctx context.Context, id string) (*note.Note, error)
	UpdateNote(ctx context.Context, id string, content string) (*note.Note, error)
}

// NoteSelectedMsg asks the host to make a note the active note.
type NoteSelectedMsg struct {
	ID string
}

// ErrorMsg asks the host to show a non-fatal error notification.
type ErrorMsg struct {
	Message string
}

// teaHost adapts calendar.Host to bubbletea: navigation and errors become
// messages for the app, closing acts on the dropdown directly.
type teaHost struct {
	dropdown Dropdown
	cmds     []tea.Cmd
}

func (h *teaHost) SetActiveNote(noteID string) {
	h.cmds = append(h.cmds, func() tea.Msg { return NoteSelectedMsg{ID: noteID} })
}

func (h *teaHost) ShowError(message string) {
	h.cmds = append(h.cmds, func() tea.Msg { return ErrorMsg{Message: message} })
}

func (h *teaHost) CloseDropdown() {
	h.dropdown.Close()
}

func (h *teaHost) cmd() tea.Cmd {
	return tea.Batch(h.cmds...)
}
