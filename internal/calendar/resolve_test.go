package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chris-regnier/daycal/internal/note"
)

type fakeResolver struct {
	note *note.Note
	err  error
	got  string
}

func (f *fakeResolver) GetOrCreateDayNote(_ context.Context, isoDate string) (*note.Note, error) {
	f.got = isoDate
	return f.note, f.err
}

type fakeHost struct {
	active string
	errors []string
	closed bool
}

func (h *fakeHost) SetActiveNote(id string)  { h.active = id }
func (h *fakeHost) ShowError(message string) { h.errors = append(h.errors, message) }
func (h *fakeHost) CloseDropdown()           { h.closed = true }

type mapTranslator map[string]string

func (m mapTranslator) T(key string) string {
	if s, ok := m[key]; ok {
		return s
	}
	return key
}

func TestResolveSuccessNavigatesAndCloses(t *testing.T) {
	resolver := &fakeResolver{note: &note.Note{ID: "newnote1", Date: "2024-02-10"}}
	host := &fakeHost{}

	// The clicked day has no entry in the existence map.
	s := NewSession("", time.Date(2024, time.February, 15, 0, 0, 0, 0, time.Local))
	s.Accept(Render(context.Background(), &fakeFetcher{}, s.Request()))
	cell, _ := s.Grid().Cell(10)
	if cell.HasNote {
		t.Fatal("precondition: cell should have no note")
	}

	res := Resolve(context.Background(), resolver, cell.Date)
	if resolver.got != "2024-02-10" {
		t.Errorf("resolver got %q", resolver.got)
	}
	if !ApplyResolution(host, mapTranslator{}, res) {
		t.Fatal("expected navigation")
	}
	if host.active != "newnote1" {
		t.Errorf("active note = %q, want newnote1", host.active)
	}
	if !host.closed {
		t.Error("dropdown should close")
	}
	if len(host.errors) != 0 {
		t.Errorf("unexpected errors: %v", host.errors)
	}
}

func TestResolveFailureKeepsDropdownOpen(t *testing.T) {
	tr := mapTranslator{KeyCannotFindDayNote: "Cannot find day note"}
	tests := []struct {
		name     string
		resolver *fakeResolver
	}{
		{"nil note", &fakeResolver{}},
		{"error", &fakeResolver{err: errors.New("service down")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &fakeHost{}
			s := NewSession("", time.Date(2024, time.February, 15, 0, 0, 0, 0, time.Local))
			s.Accept(Render(context.Background(), &fakeFetcher{}, s.Request()))
			before := s.Grid()
			cursor := s.Cursor()

			res := Resolve(context.Background(), tt.resolver, "2024-02-10")
			if res.OK() {
				t.Fatal("expected failure")
			}
			if ApplyResolution(host, tr, res) {
				t.Fatal("unexpected navigation")
			}
			if host.closed {
				t.Error("dropdown should stay open")
			}
			if host.active != "" {
				t.Errorf("active note changed to %q", host.active)
			}
			if len(host.errors) != 1 || host.errors[0] != "Cannot find day note" {
				t.Errorf("errors = %v", host.errors)
			}
			if s.Cursor() != cursor || len(s.Grid().Cells) != len(before.Cells) {
				t.Error("cursor or grid changed")
			}
		})
	}
}

func TestResolveNilNoteIsUnresolved(t *testing.T) {
	res := Resolve(context.Background(), &fakeResolver{}, "2024-02-10")
	if !errors.Is(res.Err, ErrUnresolved) {
		t.Errorf("Err = %v, want ErrUnresolved", res.Err)
	}
}

func TestLabels(t *testing.T) {
	tr := mapTranslator{"calendar.febuary": "February", "calendar.mon": "Mon", "calendar.sun": "Sun"}
	if got := MonthLabel(tr, time.February); got != "February" {
		t.Errorf("MonthLabel = %q", got)
	}
	if got := MonthLabel(tr, time.December); got != "calendar.december" {
		t.Errorf("MonthLabel fallback = %q", got)
	}
	if got := YearLabel(Month{2024, time.February}); got != "2024" {
		t.Errorf("YearLabel = %q", got)
	}
	wd := WeekdayLabels(tr)
	if len(wd) != 7 || wd[0] != "Mon" || wd[6] != "Sun" {
		t.Errorf("WeekdayLabels = %v", wd)
	}
	if names := MonthNames(tr); len(names) != 12 || names[1] != "February" {
		t.Errorf("MonthNames = %v", names)
	}
}
