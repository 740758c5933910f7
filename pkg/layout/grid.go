// Package layout computes subplot grids for multi-panel figures and montages.
package layout

import (
	"fmt"
	"image"
)

// DefaultColumns is the number of columns used when none is given.
const DefaultColumns = 4

// Default cell size in figure units.
const (
	DefaultCellWidth  = 4
	DefaultCellHeight = 3
)

// Grid is a row-major arrangement of panels.
type Grid struct {
	Rows   int `json:"rows"`
	Cols   int `json:"cols"`
	Panels int `json:"panels"`
}

// NewGrid lays out numImages panels in at most ncols columns.
// Fewer images than columns collapse into a single row of exactly
// numImages columns; otherwise the rows needed to fit every image are used.
func NewGrid(numImages, ncols int) (Grid, error) {
	if numImages < 1 {
		return Grid{}, fmt.Errorf("number of images must be at least 1, got %d", numImages)
	}
	if ncols <= 0 {
		ncols = DefaultColumns
	}

	if numImages < ncols {
		return Grid{Rows: 1, Cols: numImages, Panels: numImages}, nil
	}

	rows, rem := numImages/ncols, numImages%ncols
	if rows == 0 {
		rows = 1
	}
	if rem > 0 {
		rows++
	}
	return Grid{Rows: rows, Cols: ncols, Panels: numImages}, nil
}

// Cells returns the total number of cells in the grid.
func (g Grid) Cells() int { return g.Rows * g.Cols }

// Unused returns how many trailing cells hold no panel.
func (g Grid) Unused() int { return g.Cells() - g.Panels }

// Cell returns the row and column of panel i.
func (g Grid) Cell(i int) (row, col int) {
	return i / g.Cols, i % g.Cols
}

// FigureSize scales the grid by a per-cell size.
func (g Grid) FigureSize(cellWidth, cellHeight int) (width, height int) {
	return cellWidth * g.Cols, cellHeight * g.Rows
}

// Rect returns the pixel rectangle of panel i on a canvas whose cells are
// cellWidth x cellHeight, separated by gap pixels.
func (g Grid) Rect(i, cellWidth, cellHeight, gap int) image.Rectangle {
	row, col := g.Cell(i)
	x := col * (cellWidth + gap)
	y := row * (cellHeight + gap)
	return image.Rect(x, y, x+cellWidth, y+cellHeight)
}

// Canvas returns the size of a canvas holding the whole grid.
func (g Grid) Canvas(cellWidth, cellHeight, gap int) image.Rectangle {
	w := g.Cols*cellWidth + (g.Cols-1)*gap
	h := g.Rows*cellHeight + (g.Rows-1)*gap
	return image.Rect(0, 0, w, h)
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d (%d panels, %d unused)", g.Rows, g.Cols, g.Panels, g.Unused())
}
