package ui

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chris-regnier/daycal/internal/daynote"
	"github.com/chris-regnier/daycal/internal/note"
	"github.com/chris-regnier/daycal/internal/storage"
)

// stripANSI removes ANSI escape sequences from a string.
// This is a test utility function used to strip color codes for assertion testing.
func stripANSI(s string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(s, "")
}

// countLines returns the number of lines in the given string.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// cmdTimeout bounds how long a test waits on a command. Timers (toast
// expiry, cursor blink) outlive it and are dropped.
const cmdTimeout = 200 * time.Millisecond

// runCmd executes cmd and flattens batches into their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(cmdTimeout):
		return nil
	}

	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// fakeService is an in-memory DayNoteService.
type fakeService struct {
	mu         sync.Mutex
	byID       map[string]*note.Note
	byDate     map[string]string
	nextID     int
	monthErr   error
	resolveErr error
	months     []string
	resolved   []string
}

func newFakeService() *fakeService {
	return &fakeService{
		byID:   map[string]*note.Note{},
		byDate: map[string]string{},
	}
}

func (f *fakeService) add(date, content string) *note.Note {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(date, content)
}

func (f *fakeService) addLocked(date, content string) *note.Note {
	f.nextID++
	now := time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC)
	n := &note.Note{
		ID:        fmt.Sprintf("note%04d", f.nextID),
		Date:      date,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.byID[n.ID] = n
	if date != "" {
		f.byDate[date] = n.ID
	}
	return n
}

func (f *fakeService) NotesForMonth(_ context.Context, month string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.months = append(f.months, month)
	if f.monthErr != nil {
		return nil, f.monthErr
	}
	out := map[string]string{}
	for date, id := range f.byDate {
		if strings.HasPrefix(date, month+"-") {
			out[date] = id
		}
	}
	return out, nil
}

func (f *fakeService) GetOrCreateDayNote(ctx context.Context, isoDate string) (*note.Note, error) {
	n, _, err := f.GetDayNote(ctx, isoDate, true)
	return n, err
}

func (f *fakeService) GetDayNote(_ context.Context, isoDate string, create bool) (*note.Note, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if create {
		f.resolved = append(f.resolved, isoDate)
		if f.resolveErr != nil {
			return nil, false, f.resolveErr
		}
	}
	if id, ok := f.byDate[isoDate]; ok {
		return f.byID[id], false, nil
	}
	if !create {
		return nil, false, fmt.Errorf("%w: %s", daynote.ErrNoDayNote, isoDate)
	}
	return f.addLocked(isoDate, "# "+isoDate+"\n"), true, nil
}

func (f *fakeService) GetNote(_ context.Context, id string) (*note.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: note %s", storage.ErrNotFound, id)
	}
	return n, nil
}

func (f *fakeService) UpdateNote(_ context.Context, id string, content string) (*note.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: note %s", storage.ErrNotFound, id)
	}
	n.Content = content
	return n, nil
}

func (f *fakeService) resolvedDates() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.resolved...)
}
