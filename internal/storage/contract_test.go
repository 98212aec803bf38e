package storage_test

import (
	"errors"
	"testing"
	"time"

	"github.com/chris-regnier/daycal/internal/note"
	"github.com/chris-regnier/daycal/internal/storage"
	"github.com/chris-regnier/daycal/internal/storage/kv"
	"github.com/chris-regnier/daycal/internal/storage/markdown"
	"github.com/chris-regnier/daycal/internal/storage/sqlite"
)

type storageFactory func(t *testing.T) storage.Storage

func markdownFactory(t *testing.T) storage.Storage {
	t.Helper()
	s, err := markdown.New(t.TempDir())
	if err != nil {
		t.Fatalf("creating markdown storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sqliteFactory(t *testing.T) storage.Storage {
	t.Helper()
	s, err := sqlite.New(t.TempDir())
	if err != nil {
		t.Fatalf("creating sqlite storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func kvFactory(t *testing.T) storage.Storage {
	t.Helper()
	s, err := kv.New(t.TempDir())
	if err != nil {
		t.Fatalf("creating kv storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeNote(t *testing.T, date, content string) note.Note {
	t.Helper()
	id, err := note.NewID()
	if err != nil {
		t.Fatalf("generating ID: %v", err)
	}
	now := time.Now().UTC().Truncate(time.Second)
	return note.Note{
		ID:        id,
		Date:      date,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func mustCreate(t *testing.T, s storage.Storage, n note.Note) {
	t.Helper()
	if err := s.Create(n); err != nil {
		t.Fatalf("Create %s (%s): %v", n.ID, n.Date, err)
	}
}

func runContractTests(t *testing.T, name string, factory storageFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Create and Get", func(t *testing.T) {
			s := factory(t)
			n := makeNote(t, "2024-02-15", "# Thursday")
			mustCreate(t, s, n)

			got, err := s.Get(n.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Content != n.Content {
				t.Errorf("content = %q, want %q", got.Content, n.Content)
			}
			if got.Date != "2024-02-15" {
				t.Errorf("date = %q, want 2024-02-15", got.Date)
			}
			if !got.CreatedAt.Equal(n.CreatedAt) {
				t.Errorf("created_at = %v, want %v", got.CreatedAt, n.CreatedAt)
			}
		})

		t.Run("Create undated", func(t *testing.T) {
			s := factory(t)
			n := makeNote(t, "", "loose note")
			mustCreate(t, s, n)

			got, err := s.Get(n.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Date != "" {
				t.Errorf("date = %q, want empty", got.Date)
			}
		})

		t.Run("Create empty content", func(t *testing.T) {
			s := factory(t)
			err := s.Create(makeNote(t, "2024-02-15", "   "))
			if !errors.Is(err, storage.ErrValidation) {
				t.Errorf("expected ErrValidation, got: %v", err)
			}
		})

		t.Run("Create invalid date", func(t *testing.T) {
			s := factory(t)
			err := s.Create(makeNote(t, "2023-02-30", "content"))
			if !errors.Is(err, storage.ErrValidation) {
				t.Errorf("expected ErrValidation, got: %v", err)
			}
		})

		t.Run("One note per date", func(t *testing.T) {
			s := factory(t)
			mustCreate(t, s, makeNote(t, "2024-02-15", "first"))
			err := s.Create(makeNote(t, "2024-02-15", "second"))
			if !errors.Is(err, storage.ErrConflict) {
				t.Errorf("expected ErrConflict, got: %v", err)
			}
		})

		t.Run("Get not found", func(t *testing.T) {
			s := factory(t)
			_, err := s.Get("nonexist")
			if !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got: %v", err)
			}
		})

		t.Run("GetByDate", func(t *testing.T) {
			s := factory(t)
			n := makeNote(t, "2023-12-25", "# Christmas")
			mustCreate(t, s, n)

			got, err := s.GetByDate("2023-12-25")
			if err != nil {
				t.Fatalf("GetByDate: %v", err)
			}
			if got.ID != n.ID {
				t.Errorf("id = %s, want %s", got.ID, n.ID)
			}

			_, err = s.GetByDate("2023-12-24")
			if !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("expected ErrNotFound for missing date, got: %v", err)
			}
		})

		t.Run("GetByDate invalid", func(t *testing.T) {
			s := factory(t)
			_, err := s.GetByDate("12/25/2023")
			if !errors.Is(err, storage.ErrValidation) {
				t.Errorf("expected ErrValidation, got: %v", err)
			}
		})

		t.Run("NotesForMonth empty", func(t *testing.T) {
			s := factory(t)
			got, err := s.NotesForMonth("2024-02")
			if err != nil {
				t.Fatalf("NotesForMonth: %v", err)
			}
			if got == nil {
				t.Fatal("expected non-nil map")
			}
			if len(got) != 0 {
				t.Errorf("expected empty map, got %v", got)
			}
		})

		t.Run("NotesForMonth scoped to month", func(t *testing.T) {
			s := factory(t)
			jan31 := makeNote(t, "2024-01-31", "jan 31")
			feb01 := makeNote(t, "2024-02-01", "feb 1")
			feb29 := makeNote(t, "2024-02-29", "leap day")
			mar01 := makeNote(t, "2024-03-01", "mar 1")
			feb2023 := makeNote(t, "2023-02-14", "last year")
			undated := makeNote(t, "", "undated")
			for _, n := range []note.Note{jan31, feb01, feb29, mar01, feb2023, undated} {
				mustCreate(t, s, n)
			}

			got, err := s.NotesForMonth("2024-02")
			if err != nil {
				t.Fatalf("NotesForMonth: %v", err)
			}
			want := map[string]string{
				"2024-02-01": feb01.ID,
				"2024-02-29": feb29.ID,
			}
			if len(got) != len(want) {
				t.Fatalf("got %v, want %v", got, want)
			}
			for date, id := range want {
				if got[date] != id {
					t.Errorf("got[%s] = %q, want %q", date, got[date], id)
				}
			}
		})

		t.Run("NotesForMonth invalid key", func(t *testing.T) {
			s := factory(t)
			_, err := s.NotesForMonth("2024-2")
			if !errors.Is(err, storage.ErrValidation) {
				t.Errorf("expected ErrValidation, got: %v", err)
			}
		})

		t.Run("Update content", func(t *testing.T) {
			s := factory(t)
			n := makeNote(t, "2024-02-15", "original content")
			n.CreatedAt = n.CreatedAt.Add(-time.Hour) // created an hour ago
			n.UpdatedAt = n.CreatedAt
			mustCreate(t, s, n)

			updated, err := s.Update(n.ID, "new content")
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if updated.Content != "new content" {
				t.Errorf("content = %q, want %q", updated.Content, "new content")
			}
			if !updated.UpdatedAt.After(updated.CreatedAt) {
				t.Error("updated_at should be after created_at")
			}
			if !updated.CreatedAt.Equal(n.CreatedAt) {
				t.Error("created_at should be preserved")
			}
			if updated.Date != n.Date {
				t.Errorf("date = %q, want %q", updated.Date, n.Date)
			}
		})

		t.Run("Update not found", func(t *testing.T) {
			s := factory(t)
			_, err := s.Update("nonexist", "new content")
			if !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got: %v", err)
			}
		})

		t.Run("Delete", func(t *testing.T) {
			s := factory(t)
			n := makeNote(t, "2024-02-15", "delete me")
			mustCreate(t, s, n)
			if err := s.Delete(n.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Get(n.ID); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("expected ErrNotFound after delete, got: %v", err)
			}
			got, err := s.NotesForMonth("2024-02")
			if err != nil {
				t.Fatalf("NotesForMonth: %v", err)
			}
			if len(got) != 0 {
				t.Errorf("expected deleted note gone from month, got %v", got)
			}
			// The date is free again.
			mustCreate(t, s, makeNote(t, "2024-02-15", "replacement"))
		})

		t.Run("Delete not found", func(t *testing.T) {
			s := factory(t)
			if err := s.Delete("nonexist"); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got: %v", err)
			}
		})
	})
}

func TestMarkdownContract(t *testing.T) {
	runContractTests(t, "markdown", markdownFactory)
}

func TestSQLiteContract(t *testing.T) {
	runContractTests(t, "sqlite", sqliteFactory)
}

func TestKVContract(t *testing.T) {
	runContractTests(t, "kv", kvFactory)
}
