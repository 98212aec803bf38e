package note

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/chris-regnier/daycal/internal/day"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 8
)

var idPattern = regexp.MustCompile(`^[a-z0-9]{8}$`)

// Note is a single note. Day notes carry the ISO date they are bound to;
// other notes leave Date empty.
type Note struct {
	ID        string    `json:"id"`
	Date      string    `json:"date,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewID generates a new nanoid for a note.
func NewID() (string, error) {
	return gonanoid.Generate(idAlphabet, idLength)
}

// ValidateID checks whether an ID matches the expected pattern.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("invalid note ID: %q (must be 8 lowercase alphanumeric characters)", id)
	}
	return nil
}

// ValidateContent checks whether content is non-empty.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("note content must not be empty")
	}
	return nil
}

// Validate checks the ID, content and, for day notes, the date.
func (n *Note) Validate() error {
	if err := ValidateID(n.ID); err != nil {
		return err
	}
	if err := ValidateContent(n.Content); err != nil {
		return err
	}
	if n.Date != "" {
		if err := day.ValidateISO(n.Date); err != nil {
			return err
		}
	}
	return nil
}

// NewDayNote builds a day note for the ISO date with a fresh ID and
// timestamps set to now.
func NewDayNote(date string, content string) (Note, error) {
	if err := day.ValidateISO(date); err != nil {
		return Note{}, err
	}
	if err := ValidateContent(content); err != nil {
		return Note{}, err
	}
	id, err := NewID()
	if err != nil {
		return Note{}, fmt.Errorf("generating note ID: %w", err)
	}
	now := time.Now().UTC()
	return Note{
		ID:        id,
		Date:      date,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsDayNote reports whether the note is bound to a calendar date.
func (n *Note) IsDayNote() bool {
	return n.Date != ""
}

// Title returns the text of the first level-1 heading in the content. Day
// notes without a heading fall back to their date.
func (n *Note) Title() string {
	src := []byte(n.Content)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var title string
	ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && node.Kind() == ast.KindHeading {
			if node.(*ast.Heading).Level == 1 {
				title = strings.TrimSpace(string(node.Text(src)))
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})

	switch {
	case title != "":
		return title
	case n.Date != "":
		return n.Date
	default:
		return "Untitled"
	}
}

// Preview returns a truncated single-line preview of the note content.
func (n *Note) Preview(maxLen int) string {
	content := strings.ReplaceAll(n.Content, "\n", " ")
	if len(content) <= maxLen {
		return content
	}
	return content[:maxLen-3] + "..."
}
