package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/estatevault/vaultmeter/internal/config"
	"github.com/estatevault/vaultmeter/internal/domain"
	"github.com/estatevault/vaultmeter/internal/tui/components"
	"github.com/estatevault/vaultmeter/internal/tui/styles"
	"github.com/estatevault/vaultmeter/internal/vault"
)

// Gauge identifiers carried by frame messages
const (
	RingGaugeID = 1
	BarGaugeID  = 2
)

// statusTimeout is how long a status message stays in the footer
const statusTimeout = 3 * time.Second

// Options configures the dashboard model
type Options struct {
	Profile   string
	Style     config.GaugeStyle
	Duration  time.Duration
	Radius    float64
	FrameRate int
	Targets   vault.Targets
	Override  *float64 // Fixed percentage instead of the computed completion
	Logger    *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	Vault   VaultService
	Profile string
	Logger  *slog.Logger

	// UI Components
	Gauges     []*components.Gauge
	Categories *components.CategoryList
	ValueInput components.ValueModal

	// Data
	Counts     domain.Counts
	Completion int
	Revision   uint64 // Revision of the counts shown
	Override   *float64
	Targets    vault.Targets

	// Dimensions
	Width  int
	Height int

	// UI state
	Ready       bool
	ShowHelp    bool
	StatusMsg   string
	StatusIsErr bool
	StatusID    int
}

// NewModel creates a new application model
func NewModel(svc VaultService, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	targets := vault.DefaultTargets()
	for c, n := range opts.Targets {
		if n > 0 {
			targets[c] = n
		}
	}

	gaugeOpts := func(id int, kind components.GaugeKind, title string) components.GaugeOptions {
		return components.GaugeOptions{
			ID:        id,
			Kind:      kind,
			Title:     title,
			Duration:  opts.Duration,
			Radius:    opts.Radius,
			FrameRate: opts.FrameRate,
			Logger:    logger,
		}
	}

	var gauges []*components.Gauge
	if opts.Style != config.GaugeBar {
		gauges = append(gauges, components.NewGauge(gaugeOpts(RingGaugeID, components.GaugeRing, "Vault completion")))
	}
	if opts.Style != config.GaugeRing {
		gauges = append(gauges, components.NewGauge(gaugeOpts(BarGaugeID, components.GaugeBar, "Progress")))
	}

	return Model{
		Vault:      svc,
		Profile:    opts.Profile,
		Logger:     logger,
		Gauges:     gauges,
		Categories: components.NewCategoryList(),
		ValueInput: components.NewValueModal(),
		Counts:     domain.Counts{},
		Override:   opts.Override,
		Targets:    targets,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{LoadCountsCmd(m.Vault, m.Profile)}
	for _, g := range m.Gauges {
		cmds = append(cmds, g.Init())
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case components.FrameMsg:
		for _, g := range m.Gauges {
			if g.ID() == msg.GaugeID {
				return m, g.Update(msg)
			}
		}
		return m, nil

	case CountsLoadedMsg:
		// Loads run concurrently; one read before a later write must not win
		if msg.Revision < m.Revision {
			m.Logger.Debug("dropping stale counts", "revision", msg.Revision, "current", m.Revision)
			return m, nil
		}
		m.Revision = msg.Revision
		m.Counts = msg.Counts
		m.Completion = msg.Completion
		m.refreshRows()
		return m, m.updateGauges()

	case SnapshotSavedMsg:
		text := fmt.Sprintf("Snapshot saved: %d%% complete", msg.Snapshot.Completion)
		if msg.HasPrevious {
			text += fmt.Sprintf(" (%+d since last)", msg.Delta)
		}
		cmd := m.setStatus(text, false)
		return m, cmd

	case ErrMsg:
		m.Logger.Error("dashboard error", "context", msg.Context, "error", msg.Err)
		cmd := m.setStatus(msg.Error(), true)
		return m, cmd

	case ClearStatusMsg:
		if msg.ID != m.StatusID {
			return m, nil
		}
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	if m.ValueInput.IsVisible() {
		var cmd tea.Cmd
		m.ValueInput, cmd, _ = m.ValueInput.Update(msg)
		return m, cmd
	}
	return m, m.Categories.Update(msg)
}

// setStatus shows text in the footer and schedules its removal
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusID++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusTimeout, m.StatusID)
}

// handleKeyMsg routes key presses
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ValueInput.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.ValueInput, cmd, submitted = m.ValueInput.Update(msg)
		if !submitted {
			if !m.ValueInput.IsVisible() {
				m.Categories.SetFocused(true)
			}
			return m, cmd
		}
		if v, ok := m.ValueInput.Value(); ok {
			m.Override = &v
		} else {
			m.Override = nil
		}
		m.ValueInput.Hide()
		m.Categories.SetFocused(true)
		return m, m.updateGauges()
	}

	if m.Categories.Filtering() {
		switch {
		case key.Matches(msg, Keys.Escape):
			m.Categories.ClearFilter()
			return m, nil
		case key.Matches(msg, Keys.Enter):
			m.Categories.AcceptFilter()
			return m, nil
		}
		return m, m.Categories.Update(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		for _, g := range m.Gauges {
			g.Detach()
		}
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = !m.ShowHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		m.Categories.ClearFilter()
		m.ShowHelp = false
		return m, nil

	case key.Matches(msg, Keys.Up):
		m.Categories.CursorUp()
		return m, nil

	case key.Matches(msg, Keys.Down):
		m.Categories.CursorDown()
		return m, nil

	case key.Matches(msg, Keys.Filter):
		return m, m.Categories.StartFilter()

	case key.Matches(msg, Keys.Increment):
		return m, m.adjustSelected(1)

	case key.Matches(msg, Keys.Decrement):
		return m, m.adjustSelected(-1)

	case key.Matches(msg, Keys.Snapshot):
		return m, SnapshotCmd(m.Vault, m.Profile)

	case key.Matches(msg, Keys.SetValue):
		m.Categories.SetFocused(false)
		cmd := m.ValueInput.Show("Display percentage")
		return m, cmd

	case key.Matches(msg, Keys.Reload):
		return m, LoadCountsCmd(m.Vault, m.Profile)
	}

	return m, nil
}

func (m Model) adjustSelected(delta int) tea.Cmd {
	cat, ok := m.Categories.Selected()
	if !ok {
		return nil
	}
	return AdjustCountCmd(m.Vault, m.Profile, cat, delta)
}

// DisplayValue is the percentage the gauges animate toward
func (m Model) DisplayValue() float64 {
	if m.Override != nil {
		return *m.Override
	}
	return float64(m.Completion)
}

// updateGauges pushes the display value to every gauge
func (m Model) updateGauges() tea.Cmd {
	v := m.DisplayValue()
	cmds := make([]tea.Cmd, 0, len(m.Gauges))
	for _, g := range m.Gauges {
		cmds = append(cmds, g.UpdateProgress(v))
	}
	m.Logger.Debug("gauges updated", "profile", m.Profile, "value", v)
	return tea.Batch(cmds...)
}

func (m Model) refreshRows() {
	rows := make([]components.CategoryRow, len(domain.Categories))
	for i, c := range domain.Categories {
		rows[i] = components.CategoryRow{
			Category: c,
			Count:    m.Counts[c],
			Target:   m.Targets[c],
		}
	}
	m.Categories.SetRows(rows)
}

// updateLayout sizes components for the current terminal
func (m *Model) updateLayout() {
	listWidth := m.Width / 2
	if listWidth < 30 {
		listWidth = 30
	}
	m.Categories.SetWidth(listWidth)

	barWidth := m.Width - listWidth - 16
	for _, g := range m.Gauges {
		g.SetWidth(barWidth)
	}
}

// View renders the dashboard
func (m Model) View() string {
	if !m.Ready {
		return "Loading vault..."
	}

	header := styles.TitleStyle.Render("vaultmeter") + styles.DimStyle.Render("  profile: ") + styles.AccentStyle.Render(m.Profile)

	gaugeViews := make([]string, 0, len(m.Gauges))
	for _, g := range m.Gauges {
		gaugeViews = append(gaugeViews, g.View())
	}
	left := styles.GaugePanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, gaugeViews...))
	border := styles.InactiveBorder
	if m.Categories.Filtering() {
		border = styles.ActiveBorder
	}
	right := border.Render(styles.ListPanelStyle.Render(m.Categories.View()))
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	sections := []string{header, body}
	if vault.ShowOnboarding(m.Counts) {
		filled := vault.FilledCount(m.Counts)
		hint := fmt.Sprintf("Getting started: fill at least %d categories (%d so far)", vault.OnboardingThreshold, filled)
		sections = append(sections, styles.OnboardingStyle.Render(hint))
	}
	if m.ValueInput.IsVisible() {
		sections = append(sections, m.ValueInput.View())
	}
	if m.ShowHelp {
		sections = append(sections, m.renderHelp())
	}
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return styles.ErrorStyle.Render(m.StatusMsg)
		}
		return styles.SuccessStyle.Render(m.StatusMsg)
	}
	return styles.DimStyle.Render("? help  q quit")
}

func (m Model) renderHelp() string {
	var parts []string
	for _, b := range Keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
