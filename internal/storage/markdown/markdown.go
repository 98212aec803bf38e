package markdown

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/chris-regnier/daycal/internal/day"
	"github.com/chris-regnier/daycal/internal/note"
	"github.com/chris-regnier/daycal/internal/storage"
	"gopkg.in/yaml.v3"
)

const undatedDir = "undated"

// Store implements storage.Storage using Markdown files with YAML front-matter.
//
// Day notes live at notes/YYYY/MM/DD.md so the filesystem enforces one note
// per date; undated notes live at notes/undated/<id>.md.
type Store struct {
	baseDir string // e.g. ~/.daycal/notes/
}

// New creates a new Markdown file storage backend.
func New(dataDir string) (*Store, error) {
	notesDir := filepath.Join(dataDir, "notes")
	if err := os.MkdirAll(notesDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating notes directory: %v", storage.ErrStorage, err)
	}
	return &Store{baseDir: notesDir}, nil
}

// Close is a no-op for the Markdown backend.
func (s *Store) Close() error {
	return nil
}

func (s *Store) monthDir(month string) string {
	// month is YYYY-MM
	return filepath.Join(s.baseDir, month[:4], month[5:7])
}

func (s *Store) notePath(n note.Note) string {
	if n.Date == "" {
		return filepath.Join(s.baseDir, undatedDir, n.ID+".md")
	}
	return filepath.Join(s.monthDir(n.Date[:7]), n.Date[8:]+".md")
}

type frontMatter struct {
	ID        string `yaml:"id"`
	Date      string `yaml:"date,omitempty"`
	CreatedAt string `yaml:"created_at"`
	UpdatedAt string `yaml:"updated_at"`
}

func (s *Store) marshal(n note.Note) ([]byte, error) {
	fm, err := yaml.Marshal(frontMatter{
		ID:        n.ID,
		Date:      n.Date,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: n.UpdatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding front-matter: %v", storage.ErrStorage, err)
	}
	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString(n.Content)
	return b.Bytes(), nil
}

func (s *Store) unmarshal(data []byte) (note.Note, error) {
	var fm frontMatter
	content, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return note.Note{}, fmt.Errorf("%w: parsing front-matter: %v", storage.ErrStorage, err)
	}

	createdAt, err := time.Parse(time.RFC3339, fm.CreatedAt)
	if err != nil {
		return note.Note{}, fmt.Errorf("%w: parsing created_at: %v", storage.ErrStorage, err)
	}
	updatedAt, err := time.Parse(time.RFC3339, fm.UpdatedAt)
	if err != nil {
		return note.Note{}, fmt.Errorf("%w: parsing updated_at: %v", storage.ErrStorage, err)
	}

	return note.Note{
		ID:        fm.ID,
		Date:      fm.Date,
		Content:   strings.TrimSpace(string(content)),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func (s *Store) readNote(path string) (note.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return note.Note{}, storage.ErrNotFound
		}
		return note.Note{}, fmt.Errorf("%w: reading file: %v", storage.ErrStorage, err)
	}
	return s.unmarshal(data)
}

// atomicWrite writes data to a temp file then renames it to the target path.
func (s *Store) atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: creating directory: %v", storage.ErrStorage, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", storage.ErrStorage, err)
	}
	tmpName := tmp.Name()

	// Lock the temp file during write
	if err := syscall.Flock(int(tmp.Fd()), syscall.LOCK_EX); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: acquiring lock: %v", storage.ErrStorage, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing temp file: %v", storage.ErrStorage, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file: %v", storage.ErrStorage, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: renaming file: %v", storage.ErrStorage, err)
	}

	return nil
}

// Create persists a new note as a Markdown file.
func (s *Store) Create(n note.Note) error {
	if err := n.Validate(); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}

	path := s.notePath(n)
	if _, err := os.Stat(path); err == nil {
		if n.Date != "" {
			return fmt.Errorf("%w: day note for %s already exists", storage.ErrConflict, n.Date)
		}
		return fmt.Errorf("%w: note %s already exists", storage.ErrConflict, n.ID)
	}

	data, err := s.marshal(n)
	if err != nil {
		return err
	}
	return s.atomicWrite(path, data)
}

// Get retrieves a note by ID by scanning the directory tree.
func (s *Store) Get(id string) (note.Note, error) {
	path, err := s.findNotePath(id)
	if err != nil {
		return note.Note{}, err
	}
	return s.readNote(path)
}

// GetByDate reads the day note file for the given date.
func (s *Store) GetByDate(date string) (note.Note, error) {
	if err := day.ValidateISO(date); err != nil {
		return note.Note{}, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}
	return s.readNote(s.notePath(note.Note{Date: date}))
}

// findNotePath locates the file for a given note ID. Undated notes are found
// by name; day notes need their front matter read.
func (s *Store) findNotePath(id string) (string, error) {
	undated := filepath.Join(s.baseDir, undatedDir, id+".md")
	if _, err := os.Stat(undated); err == nil {
		return undated, nil
	}

	var found string
	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if d.IsDir() {
			if d.Name() == undatedDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		n, err := s.readNote(path)
		if err != nil {
			return nil // skip malformed files
		}
		if n.ID == id {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: scanning notes: %v", storage.ErrStorage, err)
	}
	if found == "" {
		return "", storage.ErrNotFound
	}
	return found, nil
}

// NotesForMonth reads only the month's directory.
func (s *Store) NotesForMonth(month string) (map[string]string, error) {
	if _, err := day.ParseMonthKey(month); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}

	result := make(map[string]string)
	entries, err := os.ReadDir(s.monthDir(month))
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("%w: reading month directory: %v", storage.ErrStorage, err)
	}

	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".md") {
			continue
		}
		n, err := s.readNote(filepath.Join(s.monthDir(month), de.Name()))
		if err != nil {
			continue
		}
		if !day.InMonth(n.Date, month) {
			continue
		}
		result[n.Date] = n.ID
	}
	return result, nil
}

// Update modifies an existing note's content.
func (s *Store) Update(id string, content string) (note.Note, error) {
	if err := note.ValidateContent(content); err != nil {
		return note.Note{}, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}

	path, err := s.findNotePath(id)
	if err != nil {
		return note.Note{}, err
	}

	n, err := s.readNote(path)
	if err != nil {
		return note.Note{}, err
	}

	n.Content = content
	n.UpdatedAt = time.Now().UTC()

	data, err := s.marshal(n)
	if err != nil {
		return note.Note{}, err
	}
	if err := s.atomicWrite(path, data); err != nil {
		return note.Note{}, err
	}
	return n, nil
}

// Delete removes a note permanently.
func (s *Store) Delete(id string) error {
	path, err := s.findNotePath(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: deleting file: %v", storage.ErrStorage, err)
	}

	return nil
}
