package ui

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chris-regnier/daycal/internal/config"
	"gopkg.in/yaml.v3"
)

// Theme holds resolved lipgloss colors for TUI rendering.
type Theme struct {
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Accent        lipgloss.Color
	Muted         lipgloss.Color
	Danger        lipgloss.Color
	Background    lipgloss.Color
	MarkdownStyle string
}

const defaultPreset = "default-dark"

//go:embed themes.yaml
var presetsYAML []byte

// preset mirrors one entry of themes.yaml.
type preset struct {
	Primary       string `yaml:"primary"`
	Secondary     string `yaml:"secondary"`
	Accent        string `yaml:"accent"`
	Muted         string `yaml:"muted"`
	Danger        string `yaml:"danger"`
	Background    string `yaml:"background"`
	MarkdownStyle string `yaml:"markdown_style"`
}

var presets = func() map[string]preset {
	out := map[string]preset{}
	if err := yaml.Unmarshal(presetsYAML, &out); err != nil {
		panic(fmt.Sprintf("ui: parsing themes.yaml: %v", err))
	}
	return out
}()

// Presets returns the names of the built-in themes, sorted.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveTheme builds a Theme from config: the named preset (default-dark
// when unknown) with any non-empty field of cfg laid over it.
func ResolveTheme(cfg config.ThemeConfig) Theme {
	p, ok := presets[cfg.Preset]
	if !ok {
		p = presets[defaultPreset]
	}
	return Theme{
		Primary:       lipgloss.Color(or(cfg.Primary, p.Primary)),
		Secondary:     lipgloss.Color(or(cfg.Secondary, p.Secondary)),
		Accent:        lipgloss.Color(or(cfg.Accent, p.Accent)),
		Muted:         lipgloss.Color(or(cfg.Muted, p.Muted)),
		Danger:        lipgloss.Color(or(cfg.Danger, p.Danger)),
		Background:    lipgloss.Color(or(cfg.Background, p.Background)),
		MarkdownStyle: or(cfg.MarkdownStyle, p.MarkdownStyle),
	}
}

func or(override, base string) string {
	if override != "" {
		return override
	}
	return base
}

// HelpStyle returns a lipgloss style for help/footer text.
func (t Theme) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted).Background(t.Background)
}

// HeaderStyle returns a lipgloss style for headers.
func (t Theme) HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Background(t.Background)
}

// AccentStyle returns a lipgloss style for accented/focused elements.
func (t Theme) AccentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Background(t.Background)
}

// DangerStyle returns a lipgloss style for warnings/delete prompts.
func (t Theme) DangerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Danger).Background(t.Background)
}

// BorderStyle returns a lipgloss style with a rounded border using secondary color.
func (t Theme) BorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		BorderBackground(t.Background).
		Background(t.Background).
		Foreground(t.Primary)
}

// bgEscapeCode returns the raw ANSI escape sequence to set the theme's
// background color, for use with terminal control codes like \x1b[K.
func (t Theme) bgEscapeCode() string {
	s := string(t.Background)
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		var r, g, b int
		fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b)
		return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b)
	}
	return "\x1b[48;5;" + s + "m"
}

// PaintScreen pads content to a termWidth x termHeight block in the theme
// background, centering it when contentWidth is narrower than the terminal.
// Lines end in \x1b[K so the background reaches the right edge.
func (t Theme) PaintScreen(content string, termWidth, termHeight, contentWidth int) string {
	bgPad := lipgloss.NewStyle().Background(t.Background)
	clearEOL := t.bgEscapeCode() + "\x1b[K"

	leftPad := 0
	if contentWidth > 0 && contentWidth < termWidth {
		leftPad = (termWidth - contentWidth) / 2
	}

	leftStr := ""
	if leftPad > 0 {
		leftStr = bgPad.Render(strings.Repeat(" ", leftPad))
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		w := lipgloss.Width(line)
		rightPad := max(termWidth-leftPad-w, 0)

		var b strings.Builder
		if leftPad > 0 {
			b.WriteString(leftStr)
		}
		b.WriteString(line)
		if rightPad > 0 {
			b.WriteString(bgPad.Render(strings.Repeat(" ", rightPad)))
		}
		b.WriteString(clearEOL)
		lines[i] = b.String()
	}

	emptyLine := bgPad.Render(strings.Repeat(" ", termWidth)) + clearEOL
	for len(lines) < termHeight {
		lines = append(lines, emptyLine)
	}

	return strings.Join(lines[:termHeight], "\n")
}

// ViewPaneStyle returns a lipgloss style for the note pane.
func (t Theme) ViewPaneStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(t.Background).
		Foreground(t.Primary)
}

// CellStyle returns the style for a calendar day cell. Flags layer in order:
// note, today, active, cursor.
func (t Theme) CellStyle(hasNote, isToday, isActive, isCursor bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Width(cellWidth).
		Align(lipgloss.Right).
		Foreground(t.Muted).
		Background(t.Background)
	if hasNote {
		s = s.Foreground(t.Primary).Bold(true)
	}
	if isToday {
		s = s.Underline(true).Foreground(t.Accent)
	}
	if isActive {
		s = s.Foreground(t.Background).Background(t.Accent)
	}
	if isCursor {
		s = s.Reverse(true)
	}
	return s
}

// DropdownStyle returns the framed style of the calendar pop-over.
func (t Theme) DropdownStyle() lipgloss.Style {
	return t.BorderStyle().Padding(0, 1)
}

// ToastStyle returns the style for transient notifications.
func (t Theme) ToastStyle(isError bool) lipgloss.Style {
	if isError {
		return t.DangerStyle().Bold(true)
	}
	return t.AccentStyle()
}
