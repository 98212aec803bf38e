package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/chris-regnier/daycal/internal/config"
)

func TestPresetsLoaded(t *testing.T) {
	want := []string{"catppuccin-mocha", "default-dark", "default-light", "dracula", "gruvbox-light"}
	if got := Presets(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Presets() = %v, want %v", got, want)
	}
	for _, name := range Presets() {
		theme := ResolveTheme(config.ThemeConfig{Preset: name})
		for field, c := range map[string]lipgloss.Color{
			"primary": theme.Primary, "secondary": theme.Secondary, "accent": theme.Accent,
			"muted": theme.Muted, "danger": theme.Danger, "background": theme.Background,
		} {
			if c == "" {
				t.Errorf("%s: %s color empty", name, field)
			}
		}
		if theme.MarkdownStyle != "dark" && theme.MarkdownStyle != "light" {
			t.Errorf("%s: markdown style %q", name, theme.MarkdownStyle)
		}
	}
}

func TestResolveTheme(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.ThemeConfig
		check func(Theme) bool
	}{
		{"empty preset is default-dark", config.ThemeConfig{}, func(th Theme) bool {
			return th.Background == "235" && th.MarkdownStyle == "dark"
		}},
		{"unknown preset falls back", config.ThemeConfig{Preset: "solarized"}, func(th Theme) bool {
			return th.Background == "235"
		}},
		{"light preset", config.ThemeConfig{Preset: "default-light"}, func(th Theme) bool {
			return th.MarkdownStyle == "light"
		}},
		{"color override", config.ThemeConfig{Preset: "dracula", Primary: "#FF0000"}, func(th Theme) bool {
			return th.Primary == "#FF0000" && th.Background == "#282A36"
		}},
		{"background override", config.ThemeConfig{Background: "#112233"}, func(th Theme) bool {
			return th.Background == "#112233"
		}},
		{"markdown override", config.ThemeConfig{MarkdownStyle: "notty"}, func(th Theme) bool {
			return th.MarkdownStyle == "notty"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveTheme(tt.cfg); !tt.check(got) {
				t.Errorf("ResolveTheme(%+v) = %+v", tt.cfg, got)
			}
		})
	}
}

func TestPaintScreen(t *testing.T) {
	theme := ResolveTheme(config.ThemeConfig{})
	tests := []struct {
		name         string
		content      string
		width        int
		height       int
		contentWidth int
		leftPad      int
	}{
		{"single line", "hello", 40, 10, 40, 0},
		{"pads height", "line1\nline2", 40, 10, 40, 0},
		{"centers narrow content", "hello", 100, 5, 60, 20},
		{"truncates tall content", "a\nb\nc\nd", 20, 2, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := theme.PaintScreen(tt.content, tt.width, tt.height, tt.contentWidth)
			raw := strings.Split(out, "\n")
			if len(raw) != tt.height {
				t.Fatalf("lines = %d, want %d", len(raw), tt.height)
			}
			for i, line := range raw {
				if !strings.HasSuffix(line, "\x1b[K") {
					t.Errorf("line %d does not end in erase-to-EOL", i)
				}
				if w := len(stripANSI(line)); w < tt.width {
					t.Errorf("line %d width = %d, want >= %d", i, w, tt.width)
				}
			}
			first := stripANSI(raw[0])
			if got := len(first) - len(strings.TrimLeft(first, " ")); got != tt.leftPad {
				t.Errorf("left padding = %d, want %d", got, tt.leftPad)
			}
		})
	}
}

func TestAllStylesIncludeBackground(t *testing.T) {
	theme := ResolveTheme(config.ThemeConfig{Preset: "default-dark"})

	styles := map[string]lipgloss.Style{
		"HelpStyle":     theme.HelpStyle(),
		"HeaderStyle":   theme.HeaderStyle(),
		"AccentStyle":   theme.AccentStyle(),
		"DangerStyle":   theme.DangerStyle(),
		"BorderStyle":   theme.BorderStyle(),
		"ViewPaneStyle": theme.ViewPaneStyle(),
	}

	for name, style := range styles {
		if style.GetBackground() != theme.Background {
			t.Errorf("%s: expected background %v, got %v", name, theme.Background, style.GetBackground())
		}
	}
}

func TestBorderStyleIncludesBorderBackground(t *testing.T) {
	theme := ResolveTheme(config.ThemeConfig{Preset: "default-dark"})
	style := theme.BorderStyle()

	if style.GetBorderBottomBackground() != theme.Background {
		t.Errorf("expected border background %v, got %v", theme.Background, style.GetBorderBottomBackground())
	}
}

func TestCellStyleFlags(t *testing.T) {
	theme := ResolveTheme(config.ThemeConfig{Preset: "default-dark"})

	plain := theme.CellStyle(false, false, false, false)
	if plain.GetForeground() != theme.Muted {
		t.Errorf("plain cell foreground = %v, want muted", plain.GetForeground())
	}
	if plain.GetWidth() != cellWidth {
		t.Errorf("cell width = %d, want %d", plain.GetWidth(), cellWidth)
	}

	withNote := theme.CellStyle(true, false, false, false)
	if !withNote.GetBold() || withNote.GetForeground() != theme.Primary {
		t.Error("note cell should be bold primary")
	}

	today := theme.CellStyle(false, true, false, false)
	if !today.GetUnderline() {
		t.Error("today cell should be underlined")
	}

	active := theme.CellStyle(true, true, true, false)
	if active.GetBackground() != theme.Accent {
		t.Errorf("active cell background = %v, want accent", active.GetBackground())
	}

	if !theme.CellStyle(false, false, false, true).GetReverse() {
		t.Error("cursor cell should be reversed")
	}
}

func TestToastStyle(t *testing.T) {
	theme := ResolveTheme(config.ThemeConfig{Preset: "default-dark"})
	if theme.ToastStyle(true).GetForeground() != theme.Danger {
		t.Error("error toast should use danger color")
	}
	if theme.ToastStyle(false).GetForeground() != theme.Accent {
		t.Error("info toast should use accent color")
	}
}

func TestBgEscapeCode(t *testing.T) {
	// 256-color theme (default-dark uses "235")
	theme256 := ResolveTheme(config.ThemeConfig{Preset: "default-dark"})
	code256 := theme256.bgEscapeCode()
	if code256 != "\x1b[48;5;235m" {
		t.Errorf("expected 256-color escape, got %q", code256)
	}

	// True-color theme (dracula uses "#282A36")
	themeHex := ResolveTheme(config.ThemeConfig{Preset: "dracula"})
	codeHex := themeHex.bgEscapeCode()
	if codeHex != "\x1b[48;2;40;42;54m" {
		t.Errorf("expected true-color escape, got %q", codeHex)
	}
}
