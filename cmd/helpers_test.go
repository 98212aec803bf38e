package cmd

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/chris-regnier/daycal/internal/config"
	"github.com/chris-regnier/daycal/internal/daynote"
	"github.com/chris-regnier/daycal/internal/i18n"
	"github.com/chris-regnier/daycal/internal/note"
	"github.com/chris-regnier/daycal/internal/storage"
	"github.com/chris-regnier/daycal/internal/storage/markdown"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func stripANSI(s string) string {
	return regexp.MustCompile(`\x1b\[[0-9;]*m`).ReplaceAllString(s, "")
}

func setupTestStore(t *testing.T) storage.Storage {
	t.Helper()
	dir := t.TempDir()
	s, err := markdown.New(dir)
	if err != nil {
		t.Fatalf("creating test storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// setupTestEnv wires a local service over a fresh store with the clock
// fixed to 2024-02-15.
func setupTestEnv(t *testing.T) {
	t.Helper()
	store = setupTestStore(t)
	appConfig = &config.Config{
		Storage:  "markdown",
		Calendar: config.CalendarConfig{FetchTimeout: time.Second},
		Theme:    config.ThemeConfig{MarkdownStyle: "notty"},
	}
	localService = daynote.New(store, daynote.Options{Template: config.DefaultDayNoteTemplate})
	dayNotes = localService
	translator = i18n.MustNew("en")
	jsonOutput = false

	prevNow, prevConfirm, prevEdit := now, confirmCreate, editNote
	now = func() time.Time { return time.Date(2024, 2, 15, 10, 30, 0, 0, time.Local) }
	confirmCreate = func(string) (bool, error) {
		t.Error("unexpected confirmation prompt")
		return false, nil
	}
	t.Cleanup(func() {
		now, confirmCreate, editNote = prevNow, prevConfirm, prevEdit
	})
}

// setCreateMissing rebuilds the local service with the given policy.
func setCreateMissing(create bool) {
	appConfig.DayNote.CreateMissing = create
	localService = daynote.New(store, daynote.Options{
		Template:      config.DefaultDayNoteTemplate,
		CreateMissing: create,
	})
	dayNotes = localService
}

func seedDayNote(t *testing.T, date, content string) note.Note {
	t.Helper()
	n, err := note.NewDayNote(date, content)
	if err != nil {
		t.Fatalf("NewDayNote: %v", err)
	}
	if err := store.Create(n); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return n
}

var errUnavailable = errors.New("service unavailable")

// unavailableProvider fails every call.
type unavailableProvider struct{}

func (unavailableProvider) NotesForMonth(context.Context, string) (map[string]string, error) {
	return nil, errUnavailable
}

func (unavailableProvider) GetDayNote(context.Context, string, bool) (*note.Note, bool, error) {
	return nil, false, errUnavailable
}

func (unavailableProvider) GetOrCreateDayNote(context.Context, string) (*note.Note, error) {
	return nil, errUnavailable
}

func (unavailableProvider) GetNote(context.Context, string) (*note.Note, error) {
	return nil, errUnavailable
}

func (unavailableProvider) UpdateNote(context.Context, string, string) (*note.Note, error) {
	return nil, errUnavailable
}

func (unavailableProvider) Close() error { return nil }

var _ daynote.Provider = unavailableProvider{}
