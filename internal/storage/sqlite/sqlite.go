package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chris-regnier/daycal/internal/day"
	"github.com/chris-regnier/daycal/internal/note"
	"github.com/chris-regnier/daycal/internal/storage"
	_ "github.com/tursodatabase/go-libsql"
)

// Store implements storage.Storage using SQLite via Turso/libSQL.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite storage backend.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %v", storage.ErrStorage, err)
	}

	dbPath := filepath.Join(dataDir, "daycal.db")
	db, err := sql.Open("libsql", "file:"+dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", storage.ErrStorage, err)
	}

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: enabling WAL mode: %v", storage.ErrStorage, err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// note_date is NULL for undated notes; the partial unique index keeps one
// note per date.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS notes (
			id         TEXT PRIMARY KEY,
			note_date  TEXT,
			content    TEXT NOT NULL CHECK(length(trim(content)) > 0),
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			CHECK(created_at <= updated_at)
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_notes_date ON notes(note_date) WHERE note_date IS NOT NULL;
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("%w: creating schema: %v", storage.ErrStorage, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func nullableDate(date string) any {
	if date == "" {
		return nil
	}
	return date
}

// Create persists a new note.
func (s *Store) Create(n note.Note) error {
	if err := n.Validate(); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}

	_, err := s.db.Exec(
		"INSERT INTO notes (id, note_date, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		n.ID,
		nullableDate(n.Date),
		n.Content,
		n.CreatedAt.UTC().Format(time.RFC3339),
		n.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("%w: %v", storage.ErrConflict, err)
		}
		return fmt.Errorf("%w: inserting note: %v", storage.ErrStorage, err)
	}
	return nil
}

func scanNote(row interface{ Scan(...any) error }) (note.Note, error) {
	var n note.Note
	var date sql.NullString
	var createdStr, updatedStr string
	if err := row.Scan(&n.ID, &date, &n.Content, &createdStr, &updatedStr); err != nil {
		if err == sql.ErrNoRows {
			return note.Note{}, storage.ErrNotFound
		}
		return note.Note{}, fmt.Errorf("%w: querying note: %v", storage.ErrStorage, err)
	}
	n.Date = date.String

	var err error
	n.CreatedAt, err = time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return note.Note{}, fmt.Errorf("%w: parsing created_at: %v", storage.ErrStorage, err)
	}
	n.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr)
	if err != nil {
		return note.Note{}, fmt.Errorf("%w: parsing updated_at: %v", storage.ErrStorage, err)
	}
	return n, nil
}

// Get retrieves a note by ID.
func (s *Store) Get(id string) (note.Note, error) {
	return scanNote(s.db.QueryRow(
		"SELECT id, note_date, content, created_at, updated_at FROM notes WHERE id = ?", id,
	))
}

// GetByDate retrieves the day note for an ISO date.
func (s *Store) GetByDate(date string) (note.Note, error) {
	if err := day.ValidateISO(date); err != nil {
		return note.Note{}, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}
	return scanNote(s.db.QueryRow(
		"SELECT id, note_date, content, created_at, updated_at FROM notes WHERE note_date = ?", date,
	))
}

// NotesForMonth uses a prefix match on the ISO date column.
func (s *Store) NotesForMonth(month string) (map[string]string, error) {
	if _, err := day.ParseMonthKey(month); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}

	rows, err := s.db.Query(
		"SELECT note_date, id FROM notes WHERE note_date LIKE ? ORDER BY note_date", month+"-%",
	)
	if err != nil {
		return nil, fmt.Errorf("%w: listing month: %v", storage.ErrStorage, err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var date, id string
		if err := rows.Scan(&date, &id); err != nil {
			return nil, fmt.Errorf("%w: scanning row: %v", storage.ErrStorage, err)
		}
		result[date] = id
	}
	return result, rows.Err()
}

// Update modifies an existing note's content.
func (s *Store) Update(id string, content string) (note.Note, error) {
	if err := note.ValidateContent(content); err != nil {
		return note.Note{}, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		return note.Note{}, fmt.Errorf("%w: beginning transaction: %v", storage.ErrStorage, err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow("SELECT COUNT(*) FROM notes WHERE id = ?", id).Scan(&exists); err != nil {
		return note.Note{}, fmt.Errorf("%w: checking note: %v", storage.ErrStorage, err)
	}
	if exists == 0 {
		return note.Note{}, storage.ErrNotFound
	}

	if _, err := tx.Exec(
		"UPDATE notes SET content = ?, updated_at = ? WHERE id = ?",
		content, now, id,
	); err != nil {
		return note.Note{}, fmt.Errorf("%w: updating note: %v", storage.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return note.Note{}, fmt.Errorf("%w: committing: %v", storage.ErrStorage, err)
	}

	return s.Get(id)
}

// Delete removes a note permanently.
func (s *Store) Delete(id string) error {
	result, err := s.db.Exec("DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: deleting note: %v", storage.ErrStorage, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking rows affected: %v", storage.ErrStorage, err)
	}
	if rows == 0 {
		return storage.ErrNotFound
	}

	return nil
}
