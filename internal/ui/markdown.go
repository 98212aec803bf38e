package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// noteRenderer caches one glamour renderer per (width, style).
type noteRenderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	width    int
	style    string
}

var defaultRenderer noteRenderer

func (r *noteRenderer) get(width int, style string) (*glamour.TermRenderer, error) {
	if width < 1 {
		width = 80
	}
	if style == "" {
		style = "dark"
	}
	if r.renderer != nil && r.width == width && r.style == style {
		return r.renderer, nil
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.renderer, r.width, r.style = tr, width, style
	return tr, nil
}

// RenderNote renders note markdown for a terminal of the given width using
// a glamour style ("dark", "light", "notty", ...). It returns the raw
// content if rendering fails.
func RenderNote(content string, width int, style string) string {
	if content == "" {
		return ""
	}

	defaultRenderer.mu.Lock()
	defer defaultRenderer.mu.Unlock()

	tr, err := defaultRenderer.get(width, style)
	if err != nil {
		return content
	}
	rendered, err := tr.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}
