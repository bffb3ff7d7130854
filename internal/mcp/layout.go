package mcpserver

import (
	"math"

	"pixelia/internal/domain"
)

const (
	GridSize = 20.0 // matches the canvas grid pattern
	Padding  = 40.0 // 2 grid cells between elements
	MaxRowW  = 1600.0
)

// LayoutEngine tidies elements into rows for the arrange_elements tool.
type LayoutEngine struct {
	gridSize float64
	padding  float64
	maxRowW  float64
}

func NewLayoutEngine() *LayoutEngine {
	return &LayoutEngine{
		gridSize: GridSize,
		padding:  Padding,
		maxRowW:  MaxRowW,
	}
}

// snap rounds v to the nearest grid point.
func (le *LayoutEngine) snap(v float64) float64 {
	return math.Round(v/le.gridSize) * le.gridSize
}

// Arrange lays the elements out left to right in grid-aligned rows
// starting at start, wrapping when a row would pass the maximum width.
// It returns the new origin of every element, in input order.
//
// Elements are placed by their bounds. A path's origin is not the top-left
// of its bounds, so the bounds offset is carried over to the new origin.
func (le *LayoutEngine) Arrange(els []domain.Element, start domain.Point) map[string]domain.Point {
	out := make(map[string]domain.Point, len(els))
	x0 := le.snap(start.X)
	x, y := x0, le.snap(start.Y)
	rowHeight := 0.0

	for i := range els {
		b := els[i].Bounds()
		if x > x0 && x+b.Width > x0+le.maxRowW {
			x = x0
			y += le.snap(rowHeight + le.padding)
			rowHeight = 0
		}

		out[els[i].ID] = domain.Point{
			X: x + (els[i].X - b.X),
			Y: y + (els[i].Y - b.Y),
		}
		if b.Height > rowHeight {
			rowHeight = b.Height
		}
		x += le.snap(b.Width + le.padding)
	}
	return out
}
