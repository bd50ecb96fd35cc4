package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/estatevault/vaultmeter/internal/progress"
	"github.com/estatevault/vaultmeter/internal/tui/styles"
)

// ValueModal prompts for an explicit percentage to display
type ValueModal struct {
	visible bool
	title   string
	input   textinput.Model
}

// NewValueModal creates a hidden value prompt
func NewValueModal() ValueModal {
	ti := textinput.New()
	ti.Placeholder = "0-100, empty to clear"
	ti.CharLimit = 8
	ti.Width = 24
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return ValueModal{
		input: ti,
	}
}

// Show displays the modal with a title
func (m *ValueModal) Show(title string) tea.Cmd {
	m.visible = true
	m.title = title
	m.input.SetValue("")
	return m.input.Focus()
}

// Hide dismisses the modal
func (m *ValueModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m ValueModal) IsVisible() bool {
	return m.visible
}

// Value parses the input. Empty input reports ok=false, meaning no explicit
// value. Anything else is read as a percentage, non-numeric text being 0.
func (m ValueModal) Value() (v float64, ok bool) {
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		return 0, false
	}
	return progress.ParseValue(raw), true
}

// Update handles input events, returns (modal, cmd, submitted)
func (m ValueModal) Update(msg tea.Msg) (ValueModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m, nil, true
		case "esc":
			m.Hide()
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, false
}

// View renders the value prompt
func (m ValueModal) View() string {
	if !m.visible {
		return ""
	}

	const modalWidth = 30

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.White).
		Bold(true).
		Width(modalWidth).
		Background(styles.SlateDark)

	inputStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Background(styles.SlateDark)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.title),
		inputStyle.Render(m.input.View()),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.VaultGold).
		Background(styles.SlateDark).
		Padding(1, 2).
		Render(content)
}
