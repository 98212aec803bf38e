// Package kv implements storage.Storage on a diskv key-value tree.
//
// Keys encode their own location: day notes are "d-YYYY-MM-DD-<id>" and
// undated notes are "u-<id>". The transform splits keys on "-" so a day note
// lands at d/YYYY/MM/DD/<id> and a month is a single directory to scan.
package kv

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chris-regnier/daycal/internal/day"
	"github.com/chris-regnier/daycal/internal/note"
	"github.com/chris-regnier/daycal/internal/storage"
	"github.com/peterbourgon/diskv/v3"
)

const (
	dayPrefix     = "d-"
	undatedPrefix = "u-"
)

// Store implements storage.Storage using diskv.
type Store struct {
	mu sync.Mutex // serializes check-then-write on a date
	d  *diskv.Diskv
}

// New creates a diskv store rooted at dataDir/kv.
func New(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: empty data directory", storage.ErrStorage)
	}
	return &Store{d: diskv.New(diskv.Options{
		BasePath:          filepath.Join(dataDir, "kv"),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	})}, nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

func toKey(n note.Note) string {
	if n.Date == "" {
		return undatedPrefix + n.ID
	}
	return dayPrefix + n.Date + "-" + n.ID
}

// Close is a no-op; diskv holds no open handles between calls.
func (s *Store) Close() error {
	return nil
}

func (s *Store) read(key string) (note.Note, error) {
	val, err := s.d.Read(key)
	if err != nil {
		return note.Note{}, fmt.Errorf("%w: reading %s: %v", storage.ErrStorage, key, err)
	}
	var n note.Note
	if err := json.Unmarshal(val, &n); err != nil {
		return note.Note{}, fmt.Errorf("%w: decoding %s: %v", storage.ErrStorage, key, err)
	}
	return n, nil
}

func (s *Store) write(n note.Note) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%w: encoding note: %v", storage.ErrStorage, err)
	}
	if err := s.d.Write(toKey(n), data); err != nil {
		return fmt.Errorf("%w: writing note: %v", storage.ErrStorage, err)
	}
	return nil
}

// firstKey returns the first key with the given prefix, or "".
func (s *Store) firstKey(prefix string) string {
	cancel := make(chan struct{})
	defer close(cancel)
	for key := range s.d.KeysPrefix(prefix, cancel) {
		return key
	}
	return ""
}

// keyForID locates a note's key from its ID.
func (s *Store) keyForID(id string) (string, error) {
	if err := note.ValidateID(id); err != nil {
		return "", storage.ErrNotFound
	}
	if s.d.Has(undatedPrefix + id) {
		return undatedPrefix + id, nil
	}
	cancel := make(chan struct{})
	defer close(cancel)
	for key := range s.d.KeysPrefix(dayPrefix, cancel) {
		if strings.HasSuffix(key, "-"+id) {
			return key, nil
		}
	}
	return "", storage.ErrNotFound
}

// Create persists a new note.
func (s *Store) Create(n note.Note) error {
	if err := n.Validate(); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if n.Date != "" && s.firstKey(dayPrefix+n.Date+"-") != "" {
		return fmt.Errorf("%w: day note for %s already exists", storage.ErrConflict, n.Date)
	}
	if s.d.Has(toKey(n)) {
		return fmt.Errorf("%w: note %s already exists", storage.ErrConflict, n.ID)
	}
	return s.write(n)
}

// Get retrieves a note by ID.
func (s *Store) Get(id string) (note.Note, error) {
	key, err := s.keyForID(id)
	if err != nil {
		return note.Note{}, err
	}
	return s.read(key)
}

// GetByDate retrieves the day note for an ISO date.
func (s *Store) GetByDate(date string) (note.Note, error) {
	if err := day.ValidateISO(date); err != nil {
		return note.Note{}, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}
	key := s.firstKey(dayPrefix + date + "-")
	if key == "" {
		return note.Note{}, storage.ErrNotFound
	}
	return s.read(key)
}

// NotesForMonth decodes IDs straight from the keys without reading values.
func (s *Store) NotesForMonth(month string) (map[string]string, error) {
	if _, err := day.ParseMonthKey(month); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}

	result := make(map[string]string)
	for key := range s.d.KeysPrefix(dayPrefix+month+"-", nil) {
		// d-YYYY-MM-DD-<id>
		rest := strings.TrimPrefix(key, dayPrefix)
		if len(rest) <= len(day.ISOLayout)+1 {
			continue
		}
		date, id := rest[:len(day.ISOLayout)], rest[len(day.ISOLayout)+1:]
		if day.InMonth(date, month) {
			result[date] = id
		}
	}
	return result, nil
}

// Update modifies an existing note's content.
func (s *Store) Update(id string, content string) (note.Note, error) {
	if err := note.ValidateContent(content); err != nil {
		return note.Note{}, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.keyForID(id)
	if err != nil {
		return note.Note{}, err
	}
	n, err := s.read(key)
	if err != nil {
		return note.Note{}, err
	}

	n.Content = content
	n.UpdatedAt = time.Now().UTC()
	if err := s.write(n); err != nil {
		return note.Note{}, err
	}
	return n, nil
}

// Delete removes a note permanently.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.keyForID(id)
	if err != nil {
		return err
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("%w: erasing note: %v", storage.ErrStorage, err)
	}
	return nil
}
