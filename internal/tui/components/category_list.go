package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/estatevault/vaultmeter/internal/domain"
	"github.com/estatevault/vaultmeter/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// CategoryRow is one category with its current count
type CategoryRow struct {
	Category domain.Category
	Count    int
	Target   int
}

// CategoryList shows vault categories with counts and a fuzzy filter
type CategoryList struct {
	rows        []CategoryRow
	cursor      int
	width       int
	focused     bool
	filterInput textinput.Model

	filterActive bool
	filteredIdx  []int // nil = no filter
	matched      map[int][]int
}

// NewCategoryList creates a category list
func NewCategoryList() *CategoryList {
	ti := textinput.New()
	ti.Placeholder = "filter categories"
	ti.CharLimit = 40
	ti.Width = 24
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle

	return &CategoryList{
		filterInput: ti,
		focused:     true,
		width:       36,
	}
}

// SetRows replaces the rows, keeping the cursor on the same category
func (l *CategoryList) SetRows(rows []CategoryRow) {
	selected, hadSelection := l.Selected()
	l.rows = rows
	if l.filterActive {
		l.applyFilter()
	}
	if hadSelection {
		for i := 0; i < l.visibleCount(); i++ {
			if l.rows[l.mapIndex(i)].Category == selected {
				l.cursor = i
				return
			}
		}
	}
	l.clampCursor()
}

// SetWidth sets the render width
func (l *CategoryList) SetWidth(w int) { l.width = w }

// SetFocused sets the focus state
func (l *CategoryList) SetFocused(focused bool) { l.focused = focused }

// Selected returns the category under the cursor
func (l *CategoryList) Selected() (domain.Category, bool) {
	if l.visibleCount() == 0 {
		return "", false
	}
	return l.rows[l.mapIndex(l.cursor)].Category, true
}

// CursorUp moves the cursor up
func (l *CategoryList) CursorUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// CursorDown moves the cursor down
func (l *CategoryList) CursorDown() {
	if l.cursor < l.visibleCount()-1 {
		l.cursor++
	}
}

// Filtering reports whether the filter input has focus
func (l *CategoryList) Filtering() bool { return l.filterActive }

// StartFilter focuses the filter input
func (l *CategoryList) StartFilter() tea.Cmd {
	l.filterActive = true
	return l.filterInput.Focus()
}

// ClearFilter drops the filter and shows every row
func (l *CategoryList) ClearFilter() {
	l.filterActive = false
	l.filteredIdx = nil
	l.matched = nil
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.clampCursor()
}

// AcceptFilter keeps the current matches and returns focus to the list
func (l *CategoryList) AcceptFilter() {
	l.filterInput.Blur()
	l.filterActive = false
}

// Update forwards keys to the filter input while filtering
func (l *CategoryList) Update(msg tea.Msg) tea.Cmd {
	if !l.filterActive {
		return nil
	}
	var cmd tea.Cmd
	l.filterInput, cmd = l.filterInput.Update(msg)
	l.applyFilter()
	return cmd
}

func (l *CategoryList) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(l.filterInput.Value()))
	if query == "" {
		l.filteredIdx = nil
		l.matched = nil
		l.clampCursor()
		return
	}

	names := make([]string, len(l.rows))
	for i, r := range l.rows {
		names[i] = strings.ToLower(r.Category.DisplayName())
	}

	matches := fuzzy.Find(query, names)
	l.filteredIdx = make([]int, len(matches))
	l.matched = make(map[int][]int, len(matches))
	for i, m := range matches {
		l.filteredIdx[i] = m.Index
		l.matched[m.Index] = m.MatchedIndexes
	}
	l.cursor = 0
}

func (l *CategoryList) visibleCount() int {
	if l.filteredIdx != nil {
		return len(l.filteredIdx)
	}
	return len(l.rows)
}

func (l *CategoryList) mapIndex(i int) int {
	if l.filteredIdx != nil && i < len(l.filteredIdx) {
		return l.filteredIdx[i]
	}
	return i
}

func (l *CategoryList) clampCursor() {
	if n := l.visibleCount(); l.cursor >= n {
		l.cursor = n - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// View renders the list
func (l *CategoryList) View() string {
	var lines []string
	lines = append(lines, styles.TitleStyle.Render("Vault Categories"))

	if l.filterActive || l.filteredIdx != nil {
		lines = append(lines, l.filterInput.View())
	}

	if l.visibleCount() == 0 {
		lines = append(lines, styles.DimStyle.Render("  no matching categories"))
	}

	for i := 0; i < l.visibleCount(); i++ {
		idx := l.mapIndex(i)
		lines = append(lines, l.renderRow(l.rows[idx], l.matched[idx], l.focused && i == l.cursor))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (l *CategoryList) renderRow(row CategoryRow, matched []int, selected bool) string {
	count := fmt.Sprintf("%d/%d", row.Count, row.Target)
	mark := " "
	if row.Target > 0 && row.Count >= row.Target {
		mark = "✓"
	}

	nameWidth := l.width - lipgloss.Width(count) - 6
	name := styles.Pad(highlight(styles.Truncate(row.Category.DisplayName(), nameWidth), matched, selected), nameWidth)

	text := mark + " " + name + " " + count
	if selected {
		return styles.SelectedItemStyle.Render(text)
	}
	return styles.NormalItemStyle.Render(text)
}

// highlight bolds matched characters when the row is not selected
func highlight(s string, matched []int, selected bool) string {
	if len(matched) == 0 || selected {
		return s
	}
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}
	var b strings.Builder
	for i, r := range []rune(s) {
		if set[i] {
			b.WriteString(styles.MatchHighlightStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
