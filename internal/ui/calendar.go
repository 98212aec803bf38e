package ui

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chris-regnier/daycal/internal/calendar"
	"github.com/chris-regnier/daycal/internal/logs"
	"github.com/sahilm/fuzzy"
)

// Grid geometry, in terminal cells, of the dropdown content area.
const (
	cellWidth  = 4
	gridWidth  = 7 * cellWidth
	headerRows = 2 // selector row + weekday row
	statusRows = 2

	// Header hit zones: "‹ <month> ›  ‹ <year> ›".
	monthPrevStart = 0
	monthLabelW    = 10
	monthNextStart = 2 + monthLabelW
	yearPrevStart  = monthNextStart + 4
	yearLabelW     = 8
	yearNextStart  = yearPrevStart + 2 + yearLabelW
	arrowW         = 2

	// Offset of the content area inside the bordered, padded View.
	frameX = 2
	frameY = 1
)

var monthKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

type calendarKeyMap struct {
	PrevMonth key.Binding
	NextMonth key.Binding
	PrevYear  key.Binding
	NextYear  key.Binding
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Today     key.Binding
	GoTo      key.Binding
	Close     key.Binding
}

func defaultCalendarKeys() calendarKeyMap {
	return calendarKeyMap{
		PrevMonth: key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p", "previous month")),
		NextMonth: key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next month")),
		PrevYear:  key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "previous year")),
		NextYear:  key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "next year")),
		Left:      key.NewBinding(key.WithKeys("left", "h")),
		Right:     key.NewBinding(key.WithKeys("right", "l")),
		Up:        key.NewBinding(key.WithKeys("up", "k")),
		Down:      key.NewBinding(key.WithKeys("down", "j")),
		Select:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open day note")),
		Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		GoTo:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to month")),
		Close:     key.NewBinding(key.WithKeys("esc", "c"), key.WithHelp("esc", "close")),
	}
}

// renderedMsg carries a month render back to the dropdown that issued it.
type renderedMsg struct {
	gen    int
	result calendar.RenderResult
}

// resolvedMsg carries a day-cell resolution back to the dropdown.
type resolvedMsg struct {
	gen int
	res calendar.Resolution
}

// CalendarDropdown is the calendar pop-over: month/year navigation over a
// grid of days, opening the day note of the chosen day.
type CalendarDropdown struct {
	svc     DayNoteService
	tr      calendar.Translator
	theme   Theme
	timeout time.Duration
	now     func() time.Time
	keys    calendarKeyMap

	open      bool
	gen       int // bumped per session; drops messages from older sessions
	session   *calendar.Session
	cursorDay int
	resolving string // date being resolved, "" when idle

	gotoActive bool
	gotoInput  textinput.Model
}

// CalendarOptions configures a CalendarDropdown.
type CalendarOptions struct {
	Theme        Theme
	FetchTimeout time.Duration
	Now          func() time.Time // defaults to time.Now
}

// NewCalendarDropdown builds a closed calendar dropdown.
func NewCalendarDropdown(svc DayNoteService, tr calendar.Translator, opts CalendarOptions) *CalendarDropdown {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 5 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ti := textinput.New()
	ti.Prompt = tr.T("calendar.goto_prompt")
	ti.CharLimit = 32
	ti.Width = gridWidth - lipgloss.Width(ti.Prompt)

	return &CalendarDropdown{
		svc:       svc,
		tr:        tr,
		theme:     opts.Theme,
		timeout:   opts.FetchTimeout,
		now:       opts.Now,
		keys:      defaultCalendarKeys(),
		gotoInput: ti,
	}
}

// Open starts a new session and requests the first month render.
func (d *CalendarDropdown) Open(activeDate string) tea.Cmd {
	d.gen++
	d.open = true
	d.resolving = ""
	d.gotoActive = false
	d.session = calendar.NewSession(activeDate, d.now())
	if err := d.session.InvalidActive(); err != nil {
		logs.Logger.Printf("ignoring active date: %v", err)
	}
	d.cursorDay = d.defaultCursorDay()
	return d.renderCmd(d.session.Request())
}

// Close discards the session.
func (d *CalendarDropdown) Close() {
	d.open = false
	d.session = nil
	d.resolving = ""
	d.gotoActive = false
	d.gotoInput.Blur()
}

// IsOpen reports whether a session is active.
func (d *CalendarDropdown) IsOpen() bool {
	return d.open
}

// Session exposes the current navigation state, or nil when closed.
func (d *CalendarDropdown) Session() *calendar.Session {
	return d.session
}

// CursorDay returns the keyboard-selected day of month.
func (d *CalendarDropdown) CursorDay() int {
	return d.cursorDay
}

func (d *CalendarDropdown) renderCmd(req calendar.RenderRequest) tea.Cmd {
	svc, timeout, gen := d.svc, d.timeout, d.gen
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return renderedMsg{gen: gen, result: calendar.Render(ctx, svc, req)}
	}
}

func (d *CalendarDropdown) resolveCmd(isoDate string) tea.Cmd {
	svc, timeout, gen := d.svc, d.timeout, d.gen
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return resolvedMsg{gen: gen, res: calendar.Resolve(ctx, svc, isoDate)}
	}
}

// navigate applies a cursor step and requests the new month.
func (d *CalendarDropdown) navigate(step func() calendar.RenderRequest) tea.Cmd {
	req := step()
	d.cursorDay = d.clampDay(d.cursorDay)
	return d.renderCmd(req)
}

// Update handles keys and async results while open.
func (d *CalendarDropdown) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case renderedMsg:
		return d.handleRendered(msg)
	case resolvedMsg:
		return d.handleResolved(msg)
	}

	if !d.open {
		return nil
	}

	if d.gotoActive {
		return d.updateGoTo(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	s := d.session
	switch {
	case key.Matches(km, d.keys.Close):
		d.Close()
	case key.Matches(km, d.keys.PrevMonth):
		return d.navigate(s.PrevMonth)
	case key.Matches(km, d.keys.NextMonth):
		return d.navigate(s.NextMonth)
	case key.Matches(km, d.keys.PrevYear):
		return d.navigate(s.PrevYear)
	case key.Matches(km, d.keys.NextYear):
		return d.navigate(s.NextYear)
	case key.Matches(km, d.keys.Today):
		cmd := d.navigate(s.Today)
		d.cursorDay = s.TodayDate().Day()
		return cmd
	case key.Matches(km, d.keys.GoTo):
		d.gotoActive = true
		d.gotoInput.SetValue("")
		return d.gotoInput.Focus()
	case key.Matches(km, d.keys.Left):
		d.moveCursor(-1)
	case key.Matches(km, d.keys.Right):
		d.moveCursor(1)
	case key.Matches(km, d.keys.Up):
		d.moveCursor(-7)
	case key.Matches(km, d.keys.Down):
		d.moveCursor(7)
	case key.Matches(km, d.keys.Select):
		return d.activate(d.cursorDay)
	}
	return nil
}

func (d *CalendarDropdown) handleRendered(msg renderedMsg) tea.Cmd {
	if !d.open || msg.gen != d.gen {
		return nil
	}
	if !d.session.Accept(msg.result) {
		logs.Logger.Printf("discarding stale render for %s", msg.result.Request.Month.Key())
		return nil
	}
	d.cursorDay = d.clampDay(d.cursorDay)
	if msg.result.Err != nil {
		logs.Logger.Printf("render failed: %v", msg.result.Err)
		h := &teaHost{dropdown: d}
		h.ShowError(d.tr.T(calendar.KeyCannotLoadMonth))
		return h.cmd()
	}
	return nil
}

func (d *CalendarDropdown) handleResolved(msg resolvedMsg) tea.Cmd {
	if !d.open || msg.gen != d.gen {
		return nil
	}
	if msg.res.Date == d.resolving {
		d.resolving = ""
	}
	h := &teaHost{dropdown: d}
	calendar.ApplyResolution(h, d.tr, msg.res)
	return h.cmd()
}

// activate starts resolving the cell for day-of-month n. The dropdown stays
// interactive while the lookup runs. Cells of a grid that is about to be
// replaced are not selectable.
func (d *CalendarDropdown) activate(n int) tea.Cmd {
	if !d.session.Loaded() || d.resolving != "" {
		return nil
	}
	cell, ok := d.session.Grid().Cell(n)
	if !ok {
		return nil
	}
	d.cursorDay = n
	d.resolving = cell.Date
	return d.resolveCmd(cell.Date)
}

func (d *CalendarDropdown) updateGoTo(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.Type {
		case tea.KeyEsc:
			d.gotoActive = false
			d.gotoInput.Blur()
			return nil
		case tea.KeyEnter:
			d.gotoActive = false
			d.gotoInput.Blur()
			m, ok := d.matchGoTo(d.gotoInput.Value())
			if !ok {
				return nil
			}
			return d.navigate(func() calendar.RenderRequest { return d.session.GoTo(m) })
		}
	}
	var cmd tea.Cmd
	d.gotoInput, cmd = d.gotoInput.Update(msg)
	return cmd
}

// matchGoTo interprets goto input: "YYYY-MM", a month name, or a month name
// followed by a year. Month names match fuzzily against the locale's names.
func (d *CalendarDropdown) matchGoTo(input string) (calendar.Month, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return calendar.Month{}, false
	}
	if monthKeyPattern.MatchString(input) {
		m, err := calendar.ParseMonth(input)
		return m, err == nil
	}

	year := d.session.Cursor().Year
	fields := strings.Fields(input)
	if len(fields) > 1 {
		if y, err := strconv.Atoi(fields[len(fields)-1]); err == nil && y > 0 {
			year = y
			fields = fields[:len(fields)-1]
		}
	}
	if len(fields) == 1 {
		if y, err := strconv.Atoi(fields[0]); err == nil && len(fields[0]) == 4 {
			return calendar.Month{Year: y, Month: d.session.Cursor().Month}, true
		}
	}

	matches := fuzzy.Find(strings.Join(fields, " "), calendar.MonthNames(d.tr))
	if len(matches) == 0 {
		return calendar.Month{}, false
	}
	return calendar.Month{Year: year, Month: time.Month(matches[0].Index + 1)}, true
}

func (d *CalendarDropdown) defaultCursorDay() int {
	s := d.session
	m := s.Cursor()
	if a := s.Active(); a != nil && m.Contains(*a) {
		return a.Day()
	}
	if m.Contains(s.TodayDate()) {
		return s.TodayDate().Day()
	}
	return 1
}

func (d *CalendarDropdown) clampDay(n int) int {
	days := d.session.Cursor().First().AddDate(0, 1, -1).Day()
	switch {
	case n < 1:
		return 1
	case n > days:
		return days
	}
	return n
}

func (d *CalendarDropdown) moveCursor(delta int) {
	d.cursorDay = d.clampDay(d.cursorDay + delta)
}

// hitTarget identifies what a click landed on.
type hitTarget int

const (
	hitNone hitTarget = iota
	hitPrevMonth
	hitNextMonth
	hitPrevYear
	hitNextYear
	hitCell
)

// hitTest classifies a point in content coordinates. Header targets and
// cells never overlap, so a header click cannot open a day note.
func (d *CalendarDropdown) hitTest(x, y int) (hitTarget, int) {
	if x < 0 || y < 0 || x >= gridWidth {
		return hitNone, 0
	}
	if y == 0 {
		switch {
		case x >= monthPrevStart && x < monthPrevStart+arrowW:
			return hitPrevMonth, 0
		case x >= monthNextStart && x < monthNextStart+arrowW:
			return hitNextMonth, 0
		case x >= yearPrevStart && x < yearPrevStart+arrowW:
			return hitPrevYear, 0
		case x >= yearNextStart && x < yearNextStart+arrowW:
			return hitNextYear, 0
		}
		return hitNone, 0
	}
	if y < headerRows {
		return hitNone, 0
	}
	n := d.session.Grid().DayAt(y-headerRows, x/cellWidth)
	if n == 0 {
		return hitNone, 0
	}
	return hitCell, n
}

// HandleClick maps a click in View coordinates to navigation or a cell.
func (d *CalendarDropdown) HandleClick(x, y int) tea.Cmd {
	if !d.open || d.gotoActive {
		return nil
	}
	target, n := d.hitTest(x-frameX, y-frameY)
	s := d.session
	switch target {
	case hitPrevMonth:
		return d.navigate(s.PrevMonth)
	case hitNextMonth:
		return d.navigate(s.NextMonth)
	case hitPrevYear:
		return d.navigate(s.PrevYear)
	case hitNextYear:
		return d.navigate(s.NextYear)
	case hitCell:
		return d.activate(n)
	}
	return nil
}

func center(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

// headerView labels the displayed grid, which trails the cursor until the
// pending render lands.
func (d *CalendarDropdown) headerView() string {
	m := d.session.Grid().Month
	hs := d.theme.HeaderStyle()
	as := d.theme.AccentStyle()
	bg := lipgloss.NewStyle().Background(d.theme.Background)
	return as.Render("‹ ") +
		hs.Render(center(calendar.MonthLabel(d.tr, m.Month), monthLabelW)) +
		as.Render(" ›") +
		bg.Render("  ") +
		as.Render("‹ ") +
		hs.Render(center(calendar.YearLabel(m), yearLabelW)) +
		as.Render(" ›")
}

func (d *CalendarDropdown) weekdayView() string {
	st := d.theme.HelpStyle().Width(cellWidth).Align(lipgloss.Right)
	var b strings.Builder
	for _, l := range calendar.WeekdayLabels(d.tr) {
		b.WriteString(st.Render(l))
	}
	return b.String()
}

func (d *CalendarDropdown) gridView() string {
	g := d.session.Grid()
	blank := lipgloss.NewStyle().Background(d.theme.Background).Render(strings.Repeat(" ", cellWidth))
	var rows []string
	for _, week := range g.Weeks() {
		var b strings.Builder
		for _, c := range week {
			if c == nil {
				b.WriteString(blank)
				continue
			}
			st := d.theme.CellStyle(c.HasNote, c.IsToday, c.IsActive, c.Day == d.cursorDay)
			label := strconv.Itoa(c.Day)
			if c.HasNote {
				label += "•"
			} else {
				label += " "
			}
			b.WriteString(st.Render(label))
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

func (d *CalendarDropdown) statusView() string {
	switch {
	case d.gotoActive:
		return d.gotoInput.View()
	case d.resolving != "":
		return d.theme.HelpStyle().Render(fmt.Sprintf("%s %s", d.tr.T("calendar.loading"), d.resolving))
	case !d.session.Loaded():
		return d.theme.HelpStyle().Render(d.tr.T("calendar.loading"))
	}
	return d.theme.HelpStyle().Render(d.tr.T("calendar.help"))
}

// View renders the dropdown, or "" when closed.
func (d *CalendarDropdown) View() string {
	if !d.open {
		return ""
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		d.headerView(),
		d.weekdayView(),
		d.gridView(),
		"",
		lipgloss.NewStyle().Width(gridWidth).Height(statusRows).MaxHeight(statusRows).Render(d.statusView()),
	)
	return d.theme.DropdownStyle().Render(body)
}

var _ Dropdown = (*CalendarDropdown)(nil)
