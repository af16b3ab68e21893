package script

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/patience/internal/engine"
	"github.com/roach88/patience/internal/ir"
	"github.com/roach88/patience/internal/logging"
)

var gamesDir = filepath.Join("..", "..", "games")

func countCards(e *Engine, slots ...int) int {
	n := 0
	for _, id := range slots {
		n += len(e.Cards(id))
	}
	return n
}

func TestKlondike_Deal(t *testing.T) {
	e, h := loadGame(t, filepath.Join(gamesDir, "klondike.lua"))
	require.NoError(t, e.NewGame(42))

	assert.Equal(t, "board 7x4", h.calls[0])
	assert.Len(t, e.order, 13)
	assert.Len(t, e.Cards(0), 24, "stock")
	assert.Empty(t, e.Cards(1), "waste")
	for _, c := range e.Cards(0) {
		assert.False(t, c.Show)
	}
	for i := 1; i <= 7; i++ {
		pile := e.Cards(5 + i)
		require.Len(t, pile, i)
		for j, c := range pile {
			assert.Equal(t, j == i-1, c.Show, "column %d card %d", i, j)
		}
	}
	assert.Equal(t, 52, countCards(e, e.order...))
	assert.Contains(t, h.calls, "can_deal true")
}

func TestKlondike_SeedDecidesDeal(t *testing.T) {
	deal := func(seed uint64) []ir.CardData {
		e, _ := loadGame(t, filepath.Join(gamesDir, "klondike.lua"))
		require.NoError(t, e.NewGame(seed))
		return e.Cards(0)
	}

	assert.Equal(t, deal(3), deal(3))
	assert.NotEqual(t, deal(3), deal(4))
}

func TestKlondike_StockToWaste(t *testing.T) {
	e, _ := dealGame(t, filepath.Join(gamesDir, "klondike.lua"))
	top := e.Cards(0)[23]

	changed, err := e.Click(0)
	require.NoError(t, err)
	require.True(t, changed)
	assert.Len(t, e.Cards(0), 23)
	assert.Equal(t, []ir.CardData{top.Flipped(true)}, e.Cards(1))

	for range 23 {
		_, err := e.Click(0)
		require.NoError(t, err)
	}
	require.Empty(t, e.Cards(0))
	require.Len(t, e.Cards(1), 24)

	changed, err = e.Click(0)
	require.NoError(t, err)
	assert.True(t, changed, "the waste is turned over")
	assert.Len(t, e.Cards(0), 24)
	assert.Empty(t, e.Cards(1))
	assert.Equal(t, top.Flipped(false), e.Cards(0)[23])
	assert.Zero(t, e.Score(), "the score does not drop below zero")
}

func TestKlondike_FaceDownCardsDoNotDrag(t *testing.T) {
	e, _ := dealGame(t, filepath.Join(gamesDir, "klondike.lua"))

	pile := e.Cards(12)
	ok, err := e.CanDrag(12, pile)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.CanDrag(12, pile[6:])
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.CanDrag(0, e.Cards(0)[23:])
	require.NoError(t, err)
	assert.False(t, ok, "the stock is dealt by clicking")
}

func TestFreeCell_Deal(t *testing.T) {
	e, h := loadGame(t, filepath.Join(gamesDir, "freecell.lua"))
	require.NoError(t, e.NewGame(42))

	assert.Equal(t, "board 8x4", h.calls[0])
	assert.Len(t, e.order, 16)
	for i := 0; i < 8; i++ {
		want := 7
		if i >= 4 {
			want = 6
		}
		pile := e.Cards(8 + i)
		assert.Len(t, pile, want, "column %d", i)
		for _, c := range pile {
			assert.True(t, c.Show)
		}
	}

	left, err := e.MovesLeft()
	require.NoError(t, err)
	assert.True(t, left, "free cells are empty")
}

func TestFreeCell_ReserveTakesOneCard(t *testing.T) {
	e, _ := dealGame(t, filepath.Join(gamesDir, "freecell.lua"))

	top := e.Cards(8)[6:]
	ok, err := e.Move(8, top, 0)
	require.NoError(t, err)
	require.True(t, ok)

	next := e.Cards(8)[5:]
	ok, err = e.Move(8, next, 0)
	require.NoError(t, err)
	assert.False(t, ok, "the cell is taken")
}

func TestSession_PlaysScriptedGame(t *testing.T) {
	s := engine.New(New(WithLogger(logging.Discard())),
		engine.WithLogger(logging.Discard()),
		engine.WithIDGenerator(engine.NewFixedGenerator()),
		engine.WithSeedSource(func() uint64 { return 5 }))

	require.NoError(t, s.LoadGame(filepath.Join("testdata", "simple.lua")))
	require.NoError(t, s.StartNewGame())
	require.Equal(t, ir.RunningState, s.State())
	assert.Equal(t, "deal", s.Message())

	require.True(t, s.Move(stock, []ir.CardData{aceHearts}, []int{tableau, foundation}))
	cards, _ := s.Cards(tableau)
	assert.Equal(t, []ir.CardData{aceHearts}, cards, "the first accepting candidate wins")

	require.NoError(t, s.Undo())
	require.True(t, s.Move(stock, []ir.CardData{aceHearts}, []int{foundation}))
	require.True(t, s.Move(stock, []ir.CardData{twoHearts}, []int{foundation}))

	assert.Equal(t, ir.WonState, s.State())
	assert.Equal(t, 20, s.Score())
	assert.Equal(t, 3, s.Moves())
}
