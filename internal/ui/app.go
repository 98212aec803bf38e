package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chris-regnier/daycal/internal/calendar"
	"github.com/chris-regnier/daycal/internal/day"
	"github.com/chris-regnier/daycal/internal/daynote"
	"github.com/chris-regnier/daycal/internal/editor"
	"github.com/chris-regnier/daycal/internal/logs"
	"github.com/chris-regnier/daycal/internal/note"
)

const toastDuration = 4 * time.Second

// AppConfig holds configuration needed by the TUI.
type AppConfig struct {
	Editor       string              // editor command ("" resolves from the environment)
	MaxWidth     int                 // maximum content width (0 = no limit)
	Theme        Theme               // resolved theme
	Translator   calendar.Translator // UI strings
	StartDate    string              // day note shown at startup ("" = today)
	OpenCalendar bool                // open the dropdown once the start note has loaded
	FetchTimeout time.Duration       // per-request service timeout
	Now          func() time.Time    // defaults to time.Now
}

type noteLoadedMsg struct {
	note *note.Note
	date string // requested date when loading by date
	err  error
}

type editorFinishedMsg struct {
	id  string
	err error
}

type toastExpiredMsg struct {
	seq int
}

// appModel hosts a note pane and the calendar dropdown.
type appModel struct {
	svc      DayNoteService
	cfg      AppConfig
	dropdown Dropdown

	note     *note.Note
	date     string // date shown when no note is open
	viewport viewport.Model

	toast    string
	toastErr bool
	toastSeq int

	width  int
	height int
	ready  bool

	openOnLoad bool // open the dropdown once the start note has loaded
}

func newAppModel(svc DayNoteService, cfg AppConfig) appModel {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 5 * time.Second
	}
	if cfg.StartDate == "" {
		cfg.StartDate = day.FormatISO(cfg.Now())
	}
	dd := NewCalendarDropdown(svc, cfg.Translator, CalendarOptions{
		Theme:        cfg.Theme,
		FetchTimeout: cfg.FetchTimeout,
		Now:          cfg.Now,
	})
	return appModel{svc: svc, cfg: cfg, dropdown: dd, openOnLoad: cfg.OpenCalendar}
}

func (m appModel) Init() tea.Cmd {
	return m.loadDayNoteCmd(m.cfg.StartDate)
}

func (m appModel) loadDayNoteCmd(isoDate string) tea.Cmd {
	svc, timeout := m.svc, m.cfg.FetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		n, _, err := svc.GetDayNote(ctx, isoDate, false)
		return noteLoadedMsg{note: n, date: isoDate, err: err}
	}
}

func (m appModel) loadNoteCmd(id string) tea.Cmd {
	svc, timeout := m.svc, m.cfg.FetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		n, err := svc.GetNote(ctx, id)
		return noteLoadedMsg{note: n, err: err}
	}
}

func (m appModel) showToast(message string, isError bool) (appModel, tea.Cmd) {
	m.toastSeq++
	m.toast = message
	m.toastErr = isError
	seq := m.toastSeq
	return m, tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := max(m.height-2, 1) // header + footer
		if !m.ready {
			m.viewport = viewport.New(m.contentWidth(), vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.contentWidth()
			m.viewport.Height = vpHeight
		}
		m.refreshContent()
		return m, nil

	case noteLoadedMsg:
		next, cmd := m.applyLoaded(msg)
		if next.openOnLoad {
			// The active date comes from the loaded note, not the requested date.
			next.openOnLoad = false
			cmd = tea.Batch(cmd, next.dropdown.Open(next.activeDate()))
		}
		return next, cmd

	case NoteSelectedMsg:
		return m, m.loadNoteCmd(msg.ID)

	case ErrorMsg:
		return m.showToast(msg.Message, true)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case editorFinishedMsg:
		if msg.err != nil {
			logs.Logger.Printf("editing note: %v", msg.err)
			return m.showToast(msg.err.Error(), true)
		}
		if msg.id == "" {
			return m, nil
		}
		return m, m.loadNoteCmd(msg.id)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.dropdown.IsOpen() {
			return m, m.dropdown.Update(msg)
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "c":
			return m, m.dropdown.Open(m.activeDate())
		case "e":
			return m.startEdit()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	// Async results for the dropdown.
	return m, m.dropdown.Update(msg)
}

func (m appModel) applyLoaded(msg noteLoadedMsg) (appModel, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, daynote.ErrNoDayNote) {
			m.note = nil
			m.date = msg.date
			m.refreshContent()
			return m, nil
		}
		logs.Logger.Printf("loading note: %v", msg.err)
		return m.showToast(msg.err.Error(), true)
	}
	m.note = msg.note
	m.refreshContent()
	m.viewport.GotoTop()
	return m, nil
}

// activeDate is the date of the open note, "" for none or undated notes.
func (m appModel) activeDate() string {
	if m.note == nil {
		return ""
	}
	return m.note.Date
}

func (m appModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.dropdown.IsOpen() {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	ox, oy := m.dropdownOrigin()
	view := m.dropdown.View()
	x, y := msg.X-ox, msg.Y-oy
	if x < 0 || y < 0 || x >= lipgloss.Width(view) || y >= lipgloss.Height(view) {
		m.dropdown.Close()
		return m, nil
	}
	return m, m.dropdown.HandleClick(x, y)
}

// dropdownOrigin is the screen position of the dropdown's top-left corner:
// right-aligned in the content area, just below the header.
func (m appModel) dropdownOrigin() (x, y int) {
	cw := m.contentWidth()
	leftPad := 0
	if cw < m.width {
		leftPad = (m.width - cw) / 2
	}
	return leftPad + max(cw-lipgloss.Width(m.dropdown.View()), 0), 1
}

func (m appModel) startEdit() (tea.Model, tea.Cmd) {
	if m.note == nil {
		return m.showToast(m.cfg.Translator.T("app.no_note"), false)
	}
	s, err := editor.Prepare(editor.ResolveEditor(m.cfg.Editor), m.note.Content)
	if err != nil {
		return m.showToast(err.Error(), true)
	}

	id, svc, timeout := m.note.ID, m.svc, m.cfg.FetchTimeout
	return m, tea.ExecProcess(s.Cmd, func(err error) tea.Msg {
		if err != nil {
			s.Cleanup()
			return editorFinishedMsg{err: fmt.Errorf("editor exited with error: %w", err)}
		}
		content, changed, err := s.Result()
		if err != nil || !changed {
			return editorFinishedMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := svc.UpdateNote(ctx, id, content); err != nil {
			return editorFinishedMsg{err: err}
		}
		return editorFinishedMsg{id: id}
	})
}

func (m *appModel) refreshContent() {
	if !m.ready {
		return
	}
	if m.note == nil {
		m.viewport.SetContent(m.cfg.Translator.T("app.no_note"))
		return
	}
	m.viewport.SetContent(RenderNote(m.note.Content, m.viewport.Width, m.cfg.Theme.MarkdownStyle))
}

// contentWidth returns the effective content width, respecting MaxWidth configuration.
func (m appModel) contentWidth() int {
	if m.cfg.MaxWidth > 0 && m.width > m.cfg.MaxWidth {
		return m.cfg.MaxWidth
	}
	return m.width
}

func (m appModel) headerText() string {
	if m.note == nil {
		if m.date != "" {
			return fmt.Sprintf("daycal · %s", m.date)
		}
		return "daycal"
	}
	if m.note.Date == "" {
		return fmt.Sprintf("daycal · %s", m.note.Title())
	}
	return fmt.Sprintf("daycal · %s", m.note.Date)
}

func (m appModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	cw := m.contentWidth()
	header := m.cfg.Theme.HeaderStyle().Width(cw).Render(m.headerText())

	body := m.cfg.Theme.ViewPaneStyle().Width(cw).Render(m.viewport.View())
	if m.dropdown.IsOpen() {
		dd := m.dropdown.View()
		ddW := lipgloss.Width(dd)
		pane := m.cfg.Theme.ViewPaneStyle().
			Width(max(cw-ddW, 0)).
			MaxWidth(max(cw-ddW, 0)).
			Height(m.viewport.Height).
			MaxHeight(m.viewport.Height).
			Render(m.viewport.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, pane, dd)
	}

	footerText := m.cfg.Translator.T("app.help")
	footerStyle := m.cfg.Theme.HelpStyle()
	if m.toast != "" {
		footerText = m.toast
		footerStyle = m.cfg.Theme.ToastStyle(m.toastErr)
	}
	footer := footerStyle.Width(cw).Render(footerText)

	result := strings.Join([]string{header, body, footer}, "\n")
	return m.cfg.Theme.PaintScreen(result, m.width, m.height, cw)
}

// RunApp launches the interactive day-note viewer with its calendar dropdown.
func RunApp(svc DayNoteService, cfg AppConfig) error {
	m := newAppModel(svc, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
