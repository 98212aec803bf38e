package storage

import (
	"errors"

	"github.com/chris-regnier/daycal/internal/note"
)

// Sentinel errors for storage operations.
var (
	ErrNotFound   = errors.New("note not found")
	ErrConflict   = errors.New("concurrent write conflict")
	ErrStorage    = errors.New("storage error")
	ErrValidation = errors.New("validation error")
)

// Storage defines the interface for note persistence.
//
// At most one note may be bound to a given date. Creating a second day note
// for a date that already has one returns ErrConflict.
type Storage interface {
	// Create persists a new note. The caller sets ID and timestamps.
	Create(n note.Note) error

	// Get returns a note by ID, or ErrNotFound.
	Get(id string) (note.Note, error)

	// GetByDate returns the day note bound to the ISO date, or ErrNotFound.
	GetByDate(date string) (note.Note, error)

	// NotesForMonth returns ISO date -> note ID for every day note in the
	// YYYY-MM month. Days without a note are absent. Never returns nil on
	// success.
	NotesForMonth(month string) (map[string]string, error)

	// Update replaces a note's content and bumps UpdatedAt.
	Update(id string, content string) (note.Note, error)

	// Delete removes a note permanently, or returns ErrNotFound.
	Delete(id string) error

	Close() error
}
