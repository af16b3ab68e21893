package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/roach88/patience/internal/ir"
)

// The atlas is a sheet of 13 columns by 5 rows: one row per suit with the
// ranks ace to king, and a last row holding the jokers and the card back.
const (
	atlasColumns = 13
	atlasRows    = 5
)

// atlasColumn returns the sheet column of rank.
func atlasColumn(rank ir.Rank) int {
	switch rank {
	case ir.RankAceHigh, ir.RankJoker, ir.BlackJoker:
		return 0
	case ir.RedJoker:
		return 1
	case ir.CardBack:
		return 2
	default:
		return int(rank) - 1
	}
}

// atlasRow returns the sheet row of a card.
func atlasRow(rank ir.Rank, suit ir.Suit) int {
	switch rank {
	case ir.CardBack, ir.RankJoker, ir.BlackJoker, ir.RedJoker:
		return atlasRows - 1
	default:
		return int(suit)
	}
}

// Cell is one terminal cell of a card image.
type Cell struct {
	Rune  rune
	Style tcell.Style
}

// Face is a card image, row by row.
type Face [][]Cell

// Atlas draws every card face once per card size and hands out the
// cached images. The sheet is built on first use and dropped when the
// card size changes or the screen goes away.
type Atlas struct {
	theme  Theme
	w, h   int
	sheet  [][]Face
	builds int
}

// NewAtlas creates an empty atlas.
func NewAtlas(theme Theme) *Atlas {
	return &Atlas{theme: theme}
}

// Face returns the image of c at w by h cells. Face-down cards show the
// back.
func (a *Atlas) Face(c ir.CardData, w, h int) Face {
	if w <= 0 || h <= 0 {
		return nil
	}
	if a.sheet == nil || w != a.w || h != a.h {
		a.build(w, h)
	}
	rank := c.Rank
	if !c.Show {
		rank = ir.CardBack
	}
	row, col := atlasRow(rank, c.Suit), atlasColumn(rank)
	if row < 0 || row >= atlasRows || col < 0 || col >= atlasColumns || a.sheet[row][col] == nil {
		return a.sheet[atlasRows-1][atlasColumn(ir.CardBack)]
	}
	return a.sheet[row][col]
}

// Invalidate drops the cached sheet.
func (a *Atlas) Invalidate() {
	a.sheet = nil
	a.w, a.h = 0, 0
}

// Builds counts how often the sheet was drawn.
func (a *Atlas) Builds() int {
	return a.builds
}

func (a *Atlas) build(w, h int) {
	a.w, a.h = w, h
	a.builds++
	a.sheet = make([][]Face, atlasRows)
	for row := range a.sheet {
		a.sheet[row] = make([]Face, atlasColumns)
	}

	for suit := ir.SuitClubs; suit <= ir.SuitSpades; suit++ {
		for rank := ir.RankAce; rank <= ir.RankKing; rank++ {
			c := ir.CardData{Suit: suit, Rank: rank, Show: true}
			a.sheet[atlasRow(rank, suit)][atlasColumn(rank)] = a.front(c, w, h)
		}
	}
	jokers := atlasRows - 1
	a.sheet[jokers][atlasColumn(ir.BlackJoker)] = drawFace(w, h, "*", a.theme.Black)
	a.sheet[jokers][atlasColumn(ir.RedJoker)] = drawFace(w, h, "*", a.theme.Red)
	a.sheet[jokers][atlasColumn(ir.CardBack)] = drawBack(w, h, a.theme.Back)
}

func (a *Atlas) front(c ir.CardData, w, h int) Face {
	style := a.theme.Black
	if !c.IsBlack() {
		style = a.theme.Red
	}
	return drawFace(w, h, c.Rank.Label()+string(c.Suit.Symbol()), style)
}

func newFace(w, h int, fill rune, style tcell.Style) Face {
	f := make(Face, h)
	for y := range f {
		f[y] = make([]Cell, w)
		for x := range f[y] {
			f[y][x] = Cell{Rune: fill, Style: style}
		}
	}
	return f
}

// frame draws a box around the face. Faces narrower or lower than two
// cells have no frame.
func (f Face) frame() {
	h, w := len(f), len(f[0])
	if w < 2 || h < 2 {
		return
	}
	for x := 1; x < w-1; x++ {
		f[0][x].Rune = '─'
		f[h-1][x].Rune = '─'
	}
	for y := 1; y < h-1; y++ {
		f[y][0].Rune = '│'
		f[y][w-1].Rune = '│'
	}
	f[0][0].Rune = '┌'
	f[0][w-1].Rune = '┐'
	f[h-1][0].Rune = '└'
	f[h-1][w-1].Rune = '┘'
}

// write puts text into row y from column x on, clipped at column limit.
func (f Face) write(x, y, limit int, text string) {
	for _, r := range text {
		if x >= limit {
			return
		}
		f[y][x].Rune = r
		x++
	}
}

// drawFace draws a face-up card: the label in the top left corner and,
// with room for it, again in the bottom right corner.
func drawFace(w, h int, label string, style tcell.Style) Face {
	f := newFace(w, h, ' ', style)
	f.frame()

	switch {
	case w < 2 || h < 2:
		f.write(0, 0, w, label)
	case h < 3:
		f.write(1, 0, w-1, label)
	default:
		f.write(1, 1, w-1, label)
	}

	if n := len([]rune(label)); h >= 4 && w-2 >= n {
		f.write(w-1-n, h-2, w-1, label)
	}
	return f
}

func drawBack(w, h int, style tcell.Style) Face {
	f := newFace(w, h, '▒', style)
	f.frame()
	return f
}
