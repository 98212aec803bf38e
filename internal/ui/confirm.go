package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type confirmModel struct {
	prompt     string
	defaultYes bool
	confirmed  bool
	done       bool
	theme      Theme
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch strings.ToLower(msg.String()) {
		case "y":
			m.confirmed = true
		case "n", "esc", "ctrl+c":
			m.confirmed = false
		case "enter":
			m.confirmed = m.defaultYes
		default:
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) hint() string {
	if m.defaultYes {
		return "[Y/n]"
	}
	return "[y/N]"
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	promptStyle := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Primary)
	return fmt.Sprintf("%s %s",
		promptStyle.Render(m.prompt),
		m.theme.AccentStyle().Render(m.hint()),
	) + " "
}

// Confirm asks a yes/no question. Enter picks defaultYes.
func Confirm(prompt string, defaultYes bool, theme Theme) (bool, error) {
	m := confirmModel{prompt: prompt, defaultYes: defaultYes, theme: theme}
	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return false, err
	}
	return result.(confirmModel).confirmed, nil
}
