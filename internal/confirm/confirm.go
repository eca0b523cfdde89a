// Package confirm asks the operator to type an explicit yes before anything
// destructive happens.
package confirm

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Accepted lists the answers that confirm. Anything else cancels.
var Accepted = []string{"o", "oui", "y", "yes"}

// KeyMap defines key bindings for the prompt.
type KeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

var DefaultKeys = KeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "cancel"),
	),
}

// Model is a single-question prompt.
type Model struct {
	question  string
	input     textinput.Model
	keys      KeyMap
	done      bool
	confirmed bool
}

// NewModel creates a prompt for question.
func NewModel(question string) Model {
	ti := textinput.New()
	ti.Placeholder = "yes/N"
	ti.CharLimit = 16
	ti.Prompt = "> "
	ti.Focus()

	return Model{
		question: question,
		input:    ti,
		keys:     DefaultKeys,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.done = true
			m.confirmed = false
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			m.done = true
			m.confirmed = IsAccepted(m.input.Value())
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(warningStyle.Render(m.question))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("type yes to confirm, anything else cancels"))
	b.WriteString("\n")
	return b.String()
}

// Confirmed reports whether the operator accepted.
func (m Model) Confirmed() bool {
	return m.confirmed
}

// IsAccepted reports whether answer is one of Accepted, ignoring case and
// surrounding whitespace.
func IsAccepted(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	for _, a := range Accepted {
		if answer == a {
			return true
		}
	}
	return false
}

// Ask runs the prompt on in/out and returns the operator's decision.
func Ask(in io.Reader, out io.Writer, question string) (bool, error) {
	p := tea.NewProgram(NewModel(question), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("failed to run confirmation prompt: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return false, nil
	}
	return m.Confirmed(), nil
}
