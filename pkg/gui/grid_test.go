package gui

import (
	"testing"

	"github.com/charlie0129/calc/pkg/keypad"
)

func TestGridHitTest(t *testing.T) {
	g := Grid{Width: 400, Height: 600, DisplayHeight: 100, Rows: keypad.Layout()}

	tests := []struct {
		x, y  int
		label string
		hit   bool
	}{
		{10, 50, "", false},
		{10, 150, "7", true},
		{399, 199, "/", true},
		{150, 250, "5", true},
		{150, 450, "0", true},
		{250, 450, ".", true},
		{350, 450, "+", true},
		{10, 550, "C", true},
		{260, 550, "C", true},
		{399, 599, "=", true},
		{400, 550, "", false},
	}
	for _, tt := range tests {
		b, ok := g.HitTest(tt.x, tt.y)
		if ok != tt.hit {
			t.Errorf("HitTest(%d, %d) hit = %v, want %v", tt.x, tt.y, ok, tt.hit)
			continue
		}
		if ok && b.Label() != tt.label {
			t.Errorf("HitTest(%d, %d) = %q, want %q", tt.x, tt.y, b.Label(), tt.label)
		}
	}
}

func TestGridGapsDoNotHit(t *testing.T) {
	g := Grid{Width: 400, Height: 600, DisplayHeight: 100, Gap: 10, Rows: keypad.Layout()}

	// Boundary between "7" and "8" in the first row.
	if b, ok := g.HitTest(100, 150); ok {
		t.Errorf("HitTest in gap returned %q", b.Label())
	}
	if b, ok := g.HitTest(110, 150); !ok || b.Label() != "8" {
		t.Errorf("HitTest(110, 150) = %q, %v", b.Label(), ok)
	}
}

func TestDefaultGridCells(t *testing.T) {
	g := DefaultGrid()
	cells := g.Cells()
	if len(cells) != 17 {
		t.Fatalf("got %d cells, want 17", len(cells))
	}
	display := g.DisplayRect()
	for _, c := range cells {
		if c.Rect.Empty() {
			t.Errorf("button %q has empty rect", c.Button.Label())
		}
		if c.Rect.Overlaps(display) {
			t.Errorf("button %q overlaps the display", c.Button.Label())
		}
		if c.Rect.Max.X > g.Width || c.Rect.Max.Y > g.Height {
			t.Errorf("button %q is outside the window: %v", c.Button.Label(), c.Rect)
		}
	}
}
