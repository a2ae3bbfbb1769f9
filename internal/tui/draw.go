package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pixelplay/internal/engine/grid"
)

// Layout. The canvas starts below the title bar; each cell is cellWidth
// columns wide.
const (
	canvasTop   = 1
	cellWidth   = 2
	swatchWidth = 4
)

var (
	barStyle  = tcell.StyleDefault.Reverse(true)
	textStyle = tcell.StyleDefault
	dimStyle  = tcell.StyleDefault.Dim(true)
)

// cellAt maps a screen position to a canvas index.
func (a *App) cellAt(x, y int) (int, bool) {
	size := a.engine.Size()
	col := x / cellWidth
	row := y - canvasTop
	if x < 0 || row < 0 || col >= size || row >= size {
		return -1, false
	}
	return row*size + col, true
}

func (a *App) paletteRow() int {
	return canvasTop + a.engine.Size() + 1
}

// swatchAt maps a screen position to a palette index.
func (a *App) swatchAt(x, y int) (int, bool) {
	if y != a.paletteRow() || x < 0 {
		return -1, false
	}
	i := x / swatchWidth
	if x%swatchWidth == swatchWidth-1 || i >= len(a.Palette()) {
		return -1, false
	}
	return i, true
}

// Draw renders the whole screen.
func (a *App) Draw() {
	a.screen.Clear()
	width, _ := a.screen.Size()

	g := a.engine.Current()
	a.drawTitle(width, g)
	a.drawCanvas(g)

	row := a.paletteRow()
	a.drawPalette(row)
	drawText(a.screen, 0, row+1, textStyle, a.Status())
	drawText(a.screen, 0, row+2, dimStyle,
		"d/e/f tool  1-9 colour  u/r undo/redo  c clear  +/- size  g random  s save  x export  q quit")
	a.screen.Show()
}

func (a *App) drawTitle(width int, g *grid.Grid) {
	for x := 0; x < width; x++ {
		a.screen.SetContent(x, 0, ' ', nil, barStyle)
	}
	title := fmt.Sprintf(" pixelplay | %s | %s %s | %dx%d | history %d",
		a.name, a.engine.Tool(), a.engine.Color(), g.Size(), g.Size(), a.engine.HistoryLen())
	if a.engine.Dragging() {
		title += " | drawing"
	}
	drawText(a.screen, 0, 0, barStyle, title)
}

func (a *App) drawCanvas(g *grid.Grid) {
	size := g.Size()
	for i, c := range g.Cells() {
		row, col := i/size, i%size
		style := tcell.StyleDefault.Background(tcellColor(c))
		for dx := 0; dx < cellWidth; dx++ {
			a.screen.SetContent(col*cellWidth+dx, canvasTop+row, ' ', nil, style)
		}
	}
}

func (a *App) drawPalette(y int) {
	selected := a.engine.Color()
	for i, c := range a.Palette() {
		x := i * swatchWidth
		style := tcell.StyleDefault.Background(tcellColor(c)).Foreground(contrast(c))
		label := ' '
		if i < 9 {
			label = rune('1' + i)
		}
		mark := ' '
		if c == selected {
			mark = '*'
		}
		a.screen.SetContent(x, y, label, nil, style)
		a.screen.SetContent(x+1, y, mark, nil, style)
		a.screen.SetContent(x+2, y, ' ', nil, style)
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func tcellColor(c grid.Color) tcell.Color {
	r, g, b := c.RGB()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// contrast picks black or white text for a background.
func contrast(c grid.Color) tcell.Color {
	r, g, b := c.RGB()
	if 299*int(r)+587*int(g)+114*int(b) > 128_000 {
		return tcell.ColorBlack
	}
	return tcell.ColorWhite
}
