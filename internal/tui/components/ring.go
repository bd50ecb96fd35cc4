package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/estatevault/vaultmeter/internal/tui/styles"
)

// Ring geometry in terminal cells. Cells are about twice as tall as wide,
// so the horizontal radius is doubled to look round.
const (
	ringRadiusY  = 4
	ringRadiusX  = 8
	ringSegments = 40
	ringRows     = 2*ringRadiusY + 1
	ringCols     = 2*ringRadiusX + 1
)

const (
	ringFullChar  = "●"
	ringEmptyChar = "·"
)

type ringCell struct {
	used bool
	lit  bool
}

// ringGrid plots the stroke clockwise from 12 o'clock. A cell is lit when
// any segment landing on it falls inside the drawn fraction.
func ringGrid(fraction float64) [ringRows][ringCols]ringCell {
	var grid [ringRows][ringCols]ringCell
	lit := int(math.Round(fraction * ringSegments))

	for i := 0; i < ringSegments; i++ {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/ringSegments
		col := ringRadiusX + int(math.Round(ringRadiusX*math.Cos(angle)))
		row := ringRadiusY + int(math.Round(ringRadiusY*math.Sin(angle)))
		cell := &grid[row][col]
		cell.used = true
		if i < lit {
			cell.lit = true
		}
	}
	return grid
}

// RenderRing draws a circular gauge with label centered inside
func RenderRing(fraction float64, label string, litStyle lipgloss.Style) string {
	grid := ringGrid(fraction)

	lines := make([]string, ringRows)
	for r := 0; r < ringRows; r++ {
		var b strings.Builder
		for c := 0; c < ringCols; c++ {
			b.WriteString(renderCell(grid[r][c], litStyle))
		}
		lines[r] = b.String()
	}

	// Overlay the label on the middle row, inside the ring
	mid := ringRadiusY
	inner := ringCols - 4
	centered := lipgloss.PlaceHorizontal(inner, lipgloss.Center, label)
	row := grid[mid]
	lines[mid] = renderCell(row[0], litStyle) + " " + centered + " " + renderCell(row[ringCols-1], litStyle)

	return strings.Join(lines, "\n")
}

func renderCell(cell ringCell, litStyle lipgloss.Style) string {
	switch {
	case !cell.used:
		return " "
	case cell.lit:
		return litStyle.Render(ringFullChar)
	default:
		return styles.GaugeEmptyStyle.Render(ringEmptyChar)
	}
}
