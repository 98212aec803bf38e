// Package daynote resolves calendar dates to their day notes on top of a
// note store.
package daynote

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris-regnier/daycal/internal/day"
	"github.com/chris-regnier/daycal/internal/logs"
	"github.com/chris-regnier/daycal/internal/note"
	"github.com/chris-regnier/daycal/internal/storage"
	"github.com/chris-regnier/daycal/internal/template"
)

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrNoDayNote   = errors.New("no day note for date")
)

// Provider is the day-note API shared by the local service and the MCP
// client.
type Provider interface {
	// NotesForMonth returns ISO date -> note ID for a YYYY-MM month.
	NotesForMonth(ctx context.Context, month string) (map[string]string, error)
	// GetDayNote returns the note bound to isoDate, creating it when create
	// is set. The bool reports whether a note was created.
	GetDayNote(ctx context.Context, isoDate string, create bool) (*note.Note, bool, error)
	// GetOrCreateDayNote applies the provider's creation policy.
	GetOrCreateDayNote(ctx context.Context, isoDate string) (*note.Note, error)
	GetNote(ctx context.Context, id string) (*note.Note, error)
	UpdateNote(ctx context.Context, id string, content string) (*note.Note, error)
	Close() error
}

// Options configures day-note creation.
type Options struct {
	Template      string // text/template for new day notes
	CreateMissing bool   // GetOrCreateDayNote creates absent notes
}

// Service implements Provider over a storage.Storage.
type Service struct {
	store storage.Storage
	opts  Options
}

// New returns a Service backed by store.
func New(store storage.Storage, opts Options) *Service {
	return &Service{store: store, opts: opts}
}

// Close closes the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}

// NotesForMonth returns the existence map for month.
func (s *Service) NotesForMonth(ctx context.Context, month string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := day.ParseMonthKey(month); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	notes, err := s.store.NotesForMonth(month)
	if err != nil {
		return nil, fmt.Errorf("listing notes for %s: %w", month, err)
	}
	return notes, nil
}

// GetOrCreateDayNote finds the day note for isoDate, creating it when the
// service is configured to. Without creation a missing note is ErrNoDayNote.
func (s *Service) GetOrCreateDayNote(ctx context.Context, isoDate string) (*note.Note, error) {
	n, _, err := s.GetDayNote(ctx, isoDate, s.opts.CreateMissing)
	return n, err
}

// GetDayNote finds the day note for isoDate and, if create is set, creates a
// missing one from the configured template.
func (s *Service) GetDayNote(ctx context.Context, isoDate string, create bool) (*note.Note, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if err := day.ValidateISO(isoDate); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	existing, err := s.store.GetByDate(isoDate)
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, fmt.Errorf("looking up day note for %s: %w", isoDate, err)
	}
	if !create {
		return nil, false, fmt.Errorf("%w: %s", ErrNoDayNote, isoDate)
	}

	content, err := template.RenderDayNote(s.opts.Template, isoDate)
	if err != nil {
		logs.Logger.Printf("day note template failed for %s, using default: %v", isoDate, err)
		content = "# " + isoDate + "\n"
	}

	n, err := note.NewDayNote(isoDate, content)
	if err != nil {
		return nil, false, fmt.Errorf("building day note for %s: %w", isoDate, err)
	}
	if err := s.store.Create(n); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			// Created concurrently; return the winner.
			existing, getErr := s.store.GetByDate(isoDate)
			if getErr == nil {
				return &existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("creating day note for %s: %w", isoDate, err)
	}
	logs.Logger.Printf("created day note %s for %s", n.ID, isoDate)
	return &n, true, nil
}

// GetNote returns any note by ID.
func (s *Service) GetNote(ctx context.Context, id string) (*note.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n, err := s.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("getting note %s: %w", id, err)
	}
	return &n, nil
}

// UpdateNote replaces a note's content.
func (s *Service) UpdateNote(ctx context.Context, id string, content string) (*note.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n, err := s.store.Update(id, content)
	if err != nil {
		return nil, fmt.Errorf("updating note %s: %w", id, err)
	}
	return &n, nil
}
