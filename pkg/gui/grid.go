package gui

import (
	"image"

	"github.com/charlie0129/calc/pkg/keypad"
)

// Cell is a keypad button and the screen area it occupies.
type Cell struct {
	Button keypad.Button
	Rect   image.Rectangle
}

// Grid lays the keypad out below the display. Every row spans the full
// width and its buttons share it in proportion to their weights.
type Grid struct {
	Width, Height int
	// DisplayHeight is the height reserved for the display at the top.
	DisplayHeight int
	// Padding surrounds the keypad; Gap separates buttons.
	Padding, Gap int

	Rows [][]keypad.Button
}

// DefaultGrid is the window layout used by Run.
func DefaultGrid() Grid {
	return Grid{
		Width:         360,
		Height:        600,
		DisplayHeight: 120,
		Padding:       8,
		Gap:           8,
		Rows:          keypad.Layout(),
	}
}

// DisplayRect is the area of the display.
func (g Grid) DisplayRect() image.Rectangle {
	return image.Rect(g.Padding, g.Padding, g.Width-g.Padding, g.DisplayHeight-g.Padding/2)
}

// Cells returns the position of every button, row by row.
func (g Grid) Cells() []Cell {
	if len(g.Rows) == 0 {
		return nil
	}

	var cells []Cell
	inner := g.Width - 2*g.Padding
	rowHeight := (g.Height - g.DisplayHeight - g.Padding) / len(g.Rows)
	half := g.Gap / 2

	for i, row := range g.Rows {
		total := 0
		for _, b := range row {
			total += b.Weight
		}
		if total == 0 {
			continue
		}

		y0 := g.DisplayHeight + i*rowHeight
		used := 0
		for j, b := range row {
			x0 := g.Padding + used*inner/total
			used += b.Weight
			x1 := g.Padding + used*inner/total
			if j == len(row)-1 {
				x1 = g.Width - g.Padding
			}
			cells = append(cells, Cell{
				Button: b,
				Rect:   image.Rect(x0+half, y0+half, x1-half, y0+rowHeight-half),
			})
		}
	}
	return cells
}

// HitTest returns the button under (x, y).
func (g Grid) HitTest(x, y int) (keypad.Button, bool) {
	p := image.Pt(x, y)
	for _, c := range g.Cells() {
		if p.In(c.Rect) {
			return c.Button, true
		}
	}
	return keypad.Button{}, false
}
