package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuitRoundTrip(t *testing.T) {
	for s := SuitClubs; s <= SuitSpades; s++ {
		parsed, err := ParseSuit(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseSuit("stars")
	assert.Error(t, err)
}

func TestCardData_IsBlack(t *testing.T) {
	assert.True(t, CardData{Suit: SuitClubs}.IsBlack())
	assert.True(t, CardData{Suit: SuitSpades}.IsBlack())
	assert.False(t, CardData{Suit: SuitHearts}.IsBlack())
	assert.False(t, CardData{Suit: SuitDiamonds}.IsBlack())
}

func TestCardData_Flipped(t *testing.T) {
	c := CardData{Suit: SuitHearts, Rank: RankQueen}
	up := c.Flipped(true)
	assert.True(t, up.Show)
	assert.False(t, c.Show, "source card must be untouched")
	assert.Equal(t, "Q♥(up)", up.String())
}

func TestRank_Label(t *testing.T) {
	assert.Equal(t, "A", RankAce.Label())
	assert.Equal(t, "10", RankTen.Label())
	assert.Equal(t, "K", RankKing.Label())
	assert.Equal(t, "*", RedJoker.Label())
	assert.Equal(t, "", CardBack.Label())
	assert.True(t, RankAceHigh.Valid())
	assert.False(t, CardBack.Valid())
}

func TestSlotSpec_Axis(t *testing.T) {
	assert.Equal(t, AxisNone, SlotSpec{}.Axis())
	assert.Equal(t, AxisDown, SlotSpec{ExpandedDown: true}.Axis())
	assert.Equal(t, AxisRight, SlotSpec{ExpandedRight: true}.Axis())

	axis, err := ParseAxis("right")
	require.NoError(t, err)
	assert.Equal(t, AxisRight, axis)
	_, err = ParseAxis("up")
	assert.Error(t, err)
}

func TestGameState(t *testing.T) {
	for s := UninitializedState; s <= WonState; s++ {
		parsed, err := ParseGameState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	assert.True(t, WonState.Finished())
	assert.True(t, GameOverState.Finished())
	assert.False(t, RunningState.Finished())
}

func TestKind(t *testing.T) {
	k, err := ParseKind("append_card")
	require.NoError(t, err)
	assert.Equal(t, KindAppendCard, k)
	assert.True(t, KindHeightChanged.Structural())
	assert.False(t, KindScore.Structural())
}
