package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// pagerModel scrolls rendered output that does not fit the terminal.
type pagerModel struct {
	viewport viewport.Model
	title    string
	content  string
	theme    Theme
	ready    bool
	maxWidth int // maximum viewport width (0 = no limit)
	width    int // terminal width
	height   int // terminal height
}

func (m pagerModel) Init() tea.Cmd {
	return nil
}

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := max(msg.Height-m.chromeHeight(), 1)
		if !m.ready {
			m.viewport = viewport.New(m.contentWidth(), vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.contentWidth()
			m.viewport.Height = vpHeight
		}
		m.viewport.SetContent(m.content)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// chromeHeight is the number of lines around the viewport.
func (m pagerModel) chromeHeight() int {
	if m.title != "" {
		return 2
	}
	return 1
}

// contentWidth returns the effective content width, respecting maxWidth configuration.
func (m pagerModel) contentWidth() int {
	if m.maxWidth > 0 && m.width > m.maxWidth {
		return m.maxWidth
	}
	return m.width
}

func (m pagerModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	cw := m.contentWidth()
	var sections []string
	if m.title != "" {
		sections = append(sections, m.theme.HeaderStyle().Width(cw).Render(m.title))
	}
	sections = append(sections,
		m.theme.ViewPaneStyle().Width(cw).Render(m.viewport.View()),
		m.theme.HelpStyle().Width(cw).Render(fmt.Sprintf("↑/↓ scroll • q quit  %3.f%%", m.viewport.ScrollPercent()*100)),
	)
	return m.theme.PaintScreen(strings.Join(sections, "\n"), m.width, m.height, cw)
}

// PagerOptions controls how PageOutput presents content.
type PagerOptions struct {
	Title    string
	Theme    Theme
	MaxWidth int // 0 = no limit
}

// PageOutput displays content through a Bubble Tea pager when stdout is a TTY
// and the content exceeds the terminal height. Otherwise it writes directly
// to stdout.
func PageOutput(content string, opts PagerOptions) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fmt.Print(content)
		return nil
	}

	_, height, err := term.GetSize(fd)
	if err != nil {
		fmt.Print(content)
		return nil
	}

	lineCount := strings.Count(content, "\n") + 1
	if lineCount <= height-2 {
		fmt.Print(content)
		return nil
	}

	m := pagerModel{
		title:    opts.Title,
		content:  content,
		theme:    opts.Theme,
		maxWidth: opts.MaxWidth,
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// OutputOrPage writes content to w, paging it when w is stdout.
// When jsonOutput is true, always writes directly (no paging).
func OutputOrPage(w io.Writer, content string, jsonOutput bool, opts PagerOptions) error {
	if jsonOutput || w != os.Stdout {
		fmt.Fprint(w, content)
		return nil
	}
	return PageOutput(content, opts)
}
