package ir

import "fmt"

// Suit is a card suit. The numeric values double as the atlas row.
type Suit int

const (
	SuitClubs Suit = iota
	SuitDiamonds
	SuitHearts
	SuitSpades
)

var suitNames = [...]string{"clubs", "diamonds", "hearts", "spades"}

func (s Suit) String() string {
	if s < SuitClubs || s > SuitSpades {
		return fmt.Sprintf("Suit(%d)", int(s))
	}
	return suitNames[s]
}

// Symbol returns the single-rune glyph for the suit.
func (s Suit) Symbol() rune {
	switch s {
	case SuitClubs:
		return '♣'
	case SuitDiamonds:
		return '♦'
	case SuitHearts:
		return '♥'
	case SuitSpades:
		return '♠'
	default:
		return '?'
	}
}

// ParseSuit maps a suit name back to its value.
func ParseSuit(name string) (Suit, error) {
	for i, n := range suitNames {
		if n == name {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", name)
}

// Rank is a card rank. Ace is 1 and king 13; the values above king are
// special faces that only exist for rendering and jokers.
type Rank int

const (
	RankJoker   Rank = 0
	RankAce     Rank = 1
	RankTwo     Rank = 2
	RankThree   Rank = 3
	RankFour    Rank = 4
	RankFive    Rank = 5
	RankSix     Rank = 6
	RankSeven   Rank = 7
	RankEight   Rank = 8
	RankNine    Rank = 9
	RankTen     Rank = 10
	RankJack    Rank = 11
	RankQueen   Rank = 12
	RankKing    Rank = 13
	RankAceHigh Rank = 14
	BlackJoker  Rank = 52
	RedJoker    Rank = 53
	CardBack    Rank = 54
)

// Label returns the short rank label drawn on a card face.
func (r Rank) Label() string {
	switch r {
	case RankAce, RankAceHigh:
		return "A"
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	case RankJoker, BlackJoker, RedJoker:
		return "*"
	case CardBack:
		return ""
	default:
		if r >= RankTwo && r <= RankTen {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Valid reports whether r is a rank a game script may deal.
func (r Rank) Valid() bool {
	return (r >= RankJoker && r <= RankAceHigh) || r == BlackJoker || r == RedJoker
}

// CardData is the immutable description of one playing card as the rule
// engine sees it.
type CardData struct {
	Suit Suit `json:"suit" yaml:"suit"`
	Rank Rank `json:"rank" yaml:"rank"`
	Show bool `json:"show" yaml:"show"`
}

// IsBlack reports whether the card belongs to a black suit.
func (c CardData) IsBlack() bool {
	return c.Suit == SuitClubs || c.Suit == SuitSpades
}

// Flipped returns a copy of c with the face-up flag set to show.
func (c CardData) Flipped(show bool) CardData {
	c.Show = show
	return c
}

func (c CardData) String() string {
	face := "down"
	if c.Show {
		face = "up"
	}
	return fmt.Sprintf("%s%c(%s)", c.Rank.Label(), c.Suit.Symbol(), face)
}

// SlotType classifies a slot for rendering and for the default
// winning-game check.
type SlotType int

const (
	UnknownSlot SlotType = iota
	ChooserSlot
	FoundationSlot
	ReserveSlot
	StockSlot
	TableauSlot
	WasteSlot
)

var slotTypeNames = [...]string{"unknown", "chooser", "foundation", "reserve", "stock", "tableau", "waste"}

func (t SlotType) String() string {
	if t < UnknownSlot || t > WasteSlot {
		return fmt.Sprintf("SlotType(%d)", int(t))
	}
	return slotTypeNames[t]
}

// ParseSlotType maps a slot type name back to its value.
func ParseSlotType(name string) (SlotType, error) {
	for i, n := range slotTypeNames {
		if n == name {
			return SlotType(i), nil
		}
	}
	return UnknownSlot, fmt.Errorf("unknown slot type %q", name)
}

// Axis names the direction a slot fans its cards out in.
type Axis int

const (
	AxisNone Axis = iota
	AxisDown
	AxisRight
)

func (a Axis) String() string {
	switch a {
	case AxisDown:
		return "down"
	case AxisRight:
		return "right"
	default:
		return "none"
	}
}

// ParseAxis maps "down"/"right"/"" to an Axis.
func ParseAxis(name string) (Axis, error) {
	switch name {
	case "", "none":
		return AxisNone, nil
	case "down":
		return AxisDown, nil
	case "right":
		return AxisRight, nil
	default:
		return AxisNone, fmt.Errorf("unknown expansion axis %q", name)
	}
}

// SlotSpec is the engine's description of a new slot. Positions are in
// board units: one unit is one card plus its spacing.
type SlotSpec struct {
	ID             int      `json:"id"`
	Type           SlotType `json:"type"`
	X              float64  `json:"x"`
	Y              float64  `json:"y"`
	ExpansionDepth int      `json:"expansion_depth"`
	ExpandedDown   bool     `json:"expanded_down"`
	ExpandedRight  bool     `json:"expanded_right"`
}

// Axis returns the configured expansion axis of the slot.
func (s SlotSpec) Axis() Axis {
	switch {
	case s.ExpandedDown:
		return AxisDown
	case s.ExpandedRight:
		return AxisRight
	default:
		return AxisNone
	}
}

// GameState is the lifecycle state of a game session.
type GameState int

const (
	UninitializedState GameState = iota
	LoadedState
	BeginState
	RunningState
	GameOverState
	WonState
)

var gameStateNames = [...]string{"uninitialized", "loaded", "begin", "running", "game_over", "won"}

func (s GameState) String() string {
	if s < UninitializedState || s > WonState {
		return fmt.Sprintf("GameState(%d)", int(s))
	}
	return gameStateNames[s]
}

// ParseGameState maps a state name back to its value.
func ParseGameState(name string) (GameState, error) {
	for i, n := range gameStateNames {
		if n == name {
			return GameState(i), nil
		}
	}
	return UninitializedState, fmt.Errorf("unknown game state %q", name)
}

// Finished reports whether no further moves are expected in this state.
func (s GameState) Finished() bool {
	return s == GameOverState || s == WonState
}

func (s GameState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *GameState) UnmarshalText(text []byte) error {
	v, err := ParseGameState(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
