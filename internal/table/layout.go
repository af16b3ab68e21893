package table

import "math"

// CardRatio is the fixed width:height ratio of a card face.
const CardRatio = 79.0 / 123.0

// LayoutParams are the inputs of the card size computation.
type LayoutParams struct {
	// Area is the drawable table size in pixels.
	Area Size
	// Board is the board size in slot units (columns x rows).
	Board Size
	// Margin is the gap between neighbouring cards. Margin.H is also kept
	// free above and below the board.
	Margin Size
	// MaximumMargin caps Margin plus the leftover space handed to each card.
	// Zero disables the cap on that axis.
	MaximumMargin Size
	// MinimumSideMargin is kept free left and right of the board.
	MinimumSideMargin float64
}

// Layout is the derived geometry shared by every slot.
type Layout struct {
	// Limit is the largest card size that would fit before the ratio is
	// applied.
	Limit Size
	// CardSize is the size of one card.
	CardSize Size
	// CardMargin is the leftover space per card on the non-limiting axis.
	CardMargin Size
	// CardSpace is CardSize plus CardMargin.
	CardSpace Size
	// SideMargin is the horizontal offset that centres the board.
	SideMargin float64
}

// ComputeLayout returns the largest card size that keeps CardRatio and fits
// the board into the area. The second result is false when the board size
// is unknown or the area leaves no room for a card.
//
// Card sides are floored, not rounded: rounding up on the limiting axis can
// make the board wider than the area, which then shows up as a side margin
// below the configured minimum.
func ComputeLayout(p LayoutParams) (Layout, bool) {
	if !p.Board.Valid() {
		return Layout{}, false
	}

	horizontalSpace := p.Area.W - p.MinimumSideMargin*2.0
	verticalSpace := p.Area.H - p.Margin.H*2.0
	maxWidth := (horizontalSpace+p.Margin.W)/p.Board.W - p.Margin.W
	maxHeight := (verticalSpace+p.Margin.H)/p.Board.H - p.Margin.H

	l := Layout{Limit: Size{W: maxWidth, H: maxHeight}}
	if maxWidth <= 0 || maxHeight <= 0 {
		return l, false
	}

	if maxHeight*CardRatio < maxWidth {
		l.CardSize = Size{W: math.Floor(maxHeight * CardRatio), H: math.Floor(maxHeight)}
		l.CardMargin = Size{W: (maxWidth - l.CardSize.W) / 2.0}
	} else {
		l.CardSize = Size{W: math.Floor(maxWidth), H: math.Floor(maxWidth / CardRatio)}
		l.CardMargin = Size{H: (maxHeight - l.CardSize.H) / 2.0}
	}

	if p.MaximumMargin.W > 0 && l.CardMargin.W+p.Margin.W > p.MaximumMargin.W {
		l.CardMargin.W = math.Max(p.MaximumMargin.W-p.Margin.W, 0)
	}
	if p.MaximumMargin.H > 0 && l.CardMargin.H+p.Margin.H > p.MaximumMargin.H {
		l.CardMargin.H = math.Max(p.MaximumMargin.H-p.Margin.H, 0)
	}

	l.CardSpace = l.CardSize.Add(l.CardMargin)
	l.SideMargin = math.Ceil((p.Area.W - (l.CardSpace.W+p.Margin.W)*p.Board.W + p.Margin.W) / 2.0)
	return l, true
}

// BoardExtent is the size the board occupies with layout l.
func (l Layout) BoardExtent(p LayoutParams) Size {
	return Size{
		W: (l.CardSpace.W+p.Margin.W)*p.Board.W - p.Margin.W,
		H: (l.CardSpace.H+p.Margin.H)*p.Board.H - p.Margin.H,
	}
}

// SlotOrigin is the top-left corner of the card drawn at board position
// (x, y).
func (l Layout) SlotOrigin(p LayoutParams, x, y float64) Point {
	return Point{
		X: l.SideMargin + x*(l.CardSpace.W+p.Margin.W) + l.CardMargin.W/2.0,
		Y: p.Margin.H + y*(l.CardSpace.H+p.Margin.H) + l.CardMargin.H/2.0,
	}
}
