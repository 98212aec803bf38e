package calendar

import (
	"time"

	"github.com/chris-regnier/daycal/internal/day"
)

// RenderRequest asks for one month to be rendered. Seq identifies the
// navigation step that issued it.
type RenderRequest struct {
	Month  Month
	Seq    uint64
	Active *time.Time
	Today  time.Time
}

// Session is the navigation state of one open dropdown: the displayed
// month, the active date and today's date. It is owned by a single event
// loop and is not safe for concurrent use.
type Session struct {
	cursor        Month
	seq           uint64
	active        *time.Time
	today         time.Time
	invalidActive error
	grid          Grid
	loaded        bool
}

// NewSession starts a session. activeDate is the YYYY-MM-DD date bound to
// the open note, or "". It is fixed to local noon; a malformed value means
// no active date and is reported by InvalidActive. The cursor starts on the
// active date's month, else today's.
func NewSession(activeDate string, now time.Time) *Session {
	s := &Session{today: now}
	if activeDate != "" {
		t, err := day.ParseISO(activeDate)
		if err != nil {
			s.invalidActive = err
		} else {
			s.active = &t
		}
	}

	start := now
	if s.active != nil {
		start = *s.active
	}
	s.cursor = MonthOf(start)
	s.grid = EmptyGrid(s.cursor, s.active, s.today)
	return s
}

// InvalidActive returns the parse error for a malformed active date.
func (s *Session) InvalidActive() error { return s.invalidActive }

// Active returns the active date, or nil.
func (s *Session) Active() *time.Time { return s.active }

// TodayDate returns the date captured when the session opened.
func (s *Session) TodayDate() time.Time { return s.today }

// Cursor returns the displayed month.
func (s *Session) Cursor() Month { return s.cursor }

// Grid returns the last accepted grid. Until the first render is accepted
// it is an empty grid for the cursor month.
func (s *Session) Grid() Grid { return s.grid }

// Loaded reports whether a render for the current cursor has been accepted.
func (s *Session) Loaded() bool { return s.loaded }

// Request returns a render request for the current cursor.
func (s *Session) Request() RenderRequest {
	return RenderRequest{
		Month:  s.cursor,
		Seq:    s.seq,
		Active: s.active,
		Today:  s.today,
	}
}

// GoTo moves the cursor to m and returns the render request for it.
func (s *Session) GoTo(m Month) RenderRequest {
	s.cursor = m
	s.seq++
	s.loaded = false
	return s.Request()
}

// NextMonth steps the cursor forward one month.
func (s *Session) NextMonth() RenderRequest { return s.GoTo(s.cursor.Next()) }

// PrevMonth steps the cursor back one month.
func (s *Session) PrevMonth() RenderRequest { return s.GoTo(s.cursor.Prev()) }

// NextYear steps the cursor forward one year.
func (s *Session) NextYear() RenderRequest { return s.GoTo(s.cursor.NextYear()) }

// PrevYear steps the cursor back one year.
func (s *Session) PrevYear() RenderRequest { return s.GoTo(s.cursor.PrevYear()) }

// Today moves the cursor to the month of the session's today date.
func (s *Session) Today() RenderRequest { return s.GoTo(MonthOf(s.today)) }

// Accept installs res as the displayed grid if it answers the latest
// request. Results for superseded requests are discarded and false is
// returned.
func (s *Session) Accept(res RenderResult) bool {
	if res.Request.Seq != s.seq || res.Request.Month != s.cursor {
		return false
	}
	s.grid = res.Grid
	s.loaded = true
	return true
}
