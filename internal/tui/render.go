package tui

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/roach88/patience/internal/table"
)

// PixelsPerRow is the number of table units one terminal row covers.
// Terminal cells are about twice as high as wide, so a cell is one unit
// wide and two units high.
const PixelsPerRow = 2

// TableSize returns the table area for a screen of cols by rows cells.
// The last row is reserved for the status line.
func TableSize(cols, rows int) (w, h float64) {
	rows = max(rows-1, 0)
	return float64(cols), float64(rows * PixelsPerRow)
}

// CellPoint returns the table point at the centre of cell (x, y).
func CellPoint(x, y int) table.Point {
	return table.Point{X: float64(x) + 0.5, Y: float64(y*PixelsPerRow) + 1}
}

// cellRect maps a table rectangle onto cells. Sizes are floored so cards
// of one slot never grow a cell apart.
func cellRect(r table.Rect) (x, y, w, h int) {
	x = int(math.Floor(r.X))
	y = int(math.Floor(r.Y / PixelsPerRow))
	w = int(r.W)
	h = int(r.H / PixelsPerRow)
	return x, y, w, h
}

// Renderer paints table scenes onto a screen.
type Renderer struct {
	screen tcell.Screen
	atlas  *Atlas
	theme  Theme
}

// NewRenderer creates a renderer drawing with theme.
func NewRenderer(screen tcell.Screen, theme Theme) *Renderer {
	return &Renderer{screen: screen, atlas: NewAtlas(theme), theme: theme}
}

// Atlas returns the face cache.
func (r *Renderer) Atlas() *Atlas {
	return r.atlas
}

// Draw paints sc and the status line and shows the result.
func (r *Renderer) Draw(sc table.Scene, status string) {
	cols, rows := r.screen.Size()
	r.fill(0, 0, cols, rows-1, ' ', r.theme.Table)

	if !sc.Preparing {
		for _, s := range sc.Slots {
			r.drawSlot(s)
		}
		for _, c := range sc.Cards {
			x, y, w, h := cellRect(c.Rect)
			r.blit(x, y, r.atlas.Face(c.Data, w, h))
		}
		for _, s := range sc.Slots {
			if s.Highlighted && !s.Empty {
				r.restyleFrame(s.Rect, r.theme.Highlight)
			}
		}
	}

	r.drawStatus(rows-1, cols, status)
	r.screen.Show()
}

func (r *Renderer) drawSlot(s table.SlotView) {
	x, y, w, h := cellRect(s.Rect)
	if w <= 0 || h <= 0 {
		return
	}
	style := r.theme.Slot
	if s.Highlighted {
		style = r.theme.Highlight
		r.fill(x, y, w, h, ' ', style)
	}
	if !s.Empty {
		return
	}
	f := newFace(w, h, ' ', style)
	f.frame()
	r.blit(x, y, f)
}

// restyleFrame recolors the border cells of rect, keeping what is drawn
// there.
func (r *Renderer) restyleFrame(rect table.Rect, style tcell.Style) {
	x, y, w, h := cellRect(rect)
	set := func(cx, cy int) {
		mainc, combc, _, _ := r.screen.GetContent(cx, cy)
		r.setContent(cx, cy, mainc, combc, style)
	}
	for cx := x; cx < x+w; cx++ {
		set(cx, y)
		set(cx, y+h-1)
	}
	for cy := y + 1; cy < y+h-1; cy++ {
		set(x, cy)
		set(x+w-1, cy)
	}
}

func (r *Renderer) drawStatus(row, cols int, text string) {
	if row < 0 {
		return
	}
	r.fill(0, row, cols, 1, ' ', r.theme.Status)
	x := 1
	for _, ch := range text {
		if x >= cols {
			break
		}
		r.setContent(x, row, ch, nil, r.theme.Status)
		x++
	}
}

// blit copies f to the screen with its top left corner at (x, y).
func (r *Renderer) blit(x, y int, f Face) {
	for dy, line := range f {
		for dx, c := range line {
			r.setContent(x+dx, y+dy, c.Rune, nil, c.Style)
		}
	}
}

func (r *Renderer) fill(x, y, w, h int, ch rune, style tcell.Style) {
	for cy := y; cy < y+h; cy++ {
		for cx := x; cx < x+w; cx++ {
			r.setContent(cx, cy, ch, nil, style)
		}
	}
}

// setContent draws one cell, dropping cells off the table area.
func (r *Renderer) setContent(x, y int, ch rune, combc []rune, style tcell.Style) {
	cols, rows := r.screen.Size()
	if x < 0 || y < 0 || x >= cols || y >= rows {
		return
	}
	r.screen.SetContent(x, y, ch, combc, style)
}
