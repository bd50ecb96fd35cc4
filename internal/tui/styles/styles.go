package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/estatevault/vaultmeter/internal/progress"
)

// Color palette
var (
	VaultGold  = lipgloss.Color("#E5A00D")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#3B82F6")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(VaultGold)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(VaultGold)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Panel styles
var (
	GaugePanelStyle = lipgloss.NewStyle().
			Padding(1, 2)

	ListPanelStyle = lipgloss.NewStyle().
			Padding(1, 2)
)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(VaultGold)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Gauge styles
var (
	GaugeEmptyStyle = lipgloss.NewStyle().
			Foreground(SlateLight)

	GaugeLabelStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)
)

// Filter styles
var (
	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(VaultGold).
				Bold(true)

	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(VaultGold).
				Bold(true)
)

// Onboarding hint
var OnboardingStyle = lipgloss.NewStyle().
	Foreground(SlateDark).
	Background(VaultGold).
	Padding(0, 1)

// LevelColor returns the display color for a progress level
func LevelColor(level progress.Level) lipgloss.Color {
	switch level {
	case progress.LevelMedium:
		return VaultGold
	case progress.LevelHigh:
		return Blue
	case progress.LevelComplete:
		return Green
	default:
		return Red
	}
}

// LevelStyle returns the foreground style for a progress level
func LevelStyle(level progress.Level) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(LevelColor(level))
}

// Helper functions

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// Pad pads a string to the given display width
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
