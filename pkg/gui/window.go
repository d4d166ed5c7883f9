//go:build cgo

package gui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calc/pkg/keypad"
)

var (
	colorBackground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorDisplay    = color.RGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff}
	colorButton     = color.RGBA{R: 0x62, G: 0x00, B: 0xee, A: 0xff}
	colorError      = color.RGBA{R: 0xb0, G: 0x00, B: 0x20, A: 0xff}
)

// debug font cell size of ebitenutil.DebugPrint
const (
	glyphWidth  = 6
	glyphHeight = 16

	maxCachedLabels = 64
)

// Calculator is what the window drives and displays.
type Calculator interface {
	keypad.Handler
	Display() string
}

// errorer is implemented by calculators whose presses can fail, such as a
// remote daemon session.
type errorer interface {
	Err() error
}

type game struct {
	calc  Calculator
	grid  Grid
	cells []Cell

	labels  map[string]*ebiten.Image
	touches []ebiten.TouchID
}

// Run opens the calculator window and blocks until it is closed.
func Run(calc Calculator, title string) error {
	g := &game{
		calc:   calc,
		grid:   DefaultGrid(),
		labels: map[string]*ebiten.Image{},
	}
	g.cells = g.grid.Cells()

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(g.grid.Width, g.grid.Height)
	ebiten.SetTPS(30)
	return ebiten.RunGame(g)
}

func (g *game) Update() error {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.press(ebiten.CursorPosition())
	}
	g.touches = inpututil.AppendJustPressedTouchIDs(g.touches[:0])
	for _, id := range g.touches {
		g.press(ebiten.TouchPosition(id))
	}
	return nil
}

func (g *game) press(x, y int) {
	b, ok := g.grid.HitTest(x, y)
	if !ok {
		return
	}
	logrus.WithField("key", b.Label()).Trace("button pressed")
	keypad.Dispatch(g.calc, b.Key)
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	d := g.grid.DisplayRect()
	fillRect(screen, d, colorDisplay)

	text := g.calc.Display()
	if e, ok := g.calc.(errorer); ok && e.Err() != nil {
		fillRect(screen, d, colorError)
		text = e.Err().Error()
	}
	// Right-aligned like a pocket calculator; shrink long text to fit.
	scale := 4.0
	for scale > 1 && float64(len(text)*glyphWidth)*scale > float64(d.Dx()-16) {
		scale--
	}
	g.drawText(screen, text, d, scale, true)

	for _, c := range g.cells {
		fillRect(screen, c.Rect, colorButton)
		g.drawText(screen, c.Button.Label(), c.Rect, 3, false)
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.grid.Width, g.grid.Height
}

// drawText draws s scaled inside r, centered or right-aligned.
func (g *game) drawText(dst *ebiten.Image, s string, r image.Rectangle, scale float64, right bool) {
	img, ok := g.labels[s]
	if !ok {
		img = ebiten.NewImage(len(s)*glyphWidth+1, glyphHeight)
		ebitenutil.DebugPrint(img, s)
		// Display text changes with every press.
		if len(g.labels) >= maxCachedLabels {
			for k, v := range g.labels {
				v.Deallocate()
				delete(g.labels, k)
			}
		}
		g.labels[s] = img
	}

	w := float64(img.Bounds().Dx()) * scale
	h := float64(img.Bounds().Dy()) * scale
	x := float64(r.Min.X) + (float64(r.Dx())-w)/2
	if right {
		x = float64(r.Max.X) - w - 8
	}
	y := float64(r.Min.Y) + (float64(r.Dy())-h)/2

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	dst.DrawImage(img, op)
}

func fillRect(dst *ebiten.Image, r image.Rectangle, c color.Color) {
	vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
}
