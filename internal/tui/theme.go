package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/roach88/patience/internal/profile"
)

// Theme holds the styles the table is drawn with.
type Theme struct {
	Table     tcell.Style // background
	Slot      tcell.Style // outline of an empty slot
	Highlight tcell.Style // drop target under a dragged card
	Red       tcell.Style // hearts and diamonds
	Black     tcell.Style // clubs and spades
	Back      tcell.Style // face-down cards
	Status    tcell.Style // bottom line
}

// DefaultTheme returns the green-baize theme with the given highlight
// color.
func DefaultTheme(highlight tcell.Color) Theme {
	table := tcell.StyleDefault.Background(tcell.ColorDarkGreen).Foreground(tcell.ColorWhite)
	card := tcell.StyleDefault.Background(tcell.ColorWhite)
	return Theme{
		Table:     table,
		Slot:      table.Foreground(tcell.ColorLightGreen),
		Highlight: table.Background(highlight).Foreground(tcell.ColorBlack),
		Red:       card.Foreground(tcell.ColorRed),
		Black:     card.Foreground(tcell.ColorBlack),
		Back:      tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorSteelBlue),
		Status:    tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorSilver),
	}
}

// ThemeFor builds the default theme with the profile's highlight color.
func ThemeFor(p profile.Profile) Theme {
	c := tcell.GetColor(p.Highlight)
	if c == tcell.ColorDefault {
		c = tcell.ColorGreen
	}
	return DefaultTheme(c)
}
