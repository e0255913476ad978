package game

import (
	"testing"

	"github.com/lox/yahtzee/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView(t *testing.T) {
	t.Parallel()

	m := newTestMatch(t, NewSequenceRoller(2, 2, 2, 5, 5), "Solo")
	require.NoError(t, m.Roll(false))
	_, err := m.Commit(dice.FullHouse)
	require.NoError(t, err)
	require.NoError(t, m.Roll(false))

	v := m.View()
	assert.Equal(t, "Solo", v.Player)
	assert.Equal(t, 2, v.Round)
	assert.Equal(t, dice.Hand{2, 2, 2, 5, 5}, v.Hand)
	assert.Equal(t, 2, v.RollsLeft)
	assert.True(t, v.HasRolled)
	assert.False(t, v.Open(dice.FullHouse))
	assert.Len(t, v.OpenCategories(), dice.NumCategories-1)

	c, points, ok := v.BestOpen()
	require.True(t, ok)
	assert.Equal(t, dice.ThreeKind, c)
	assert.Equal(t, 16, points)

	// Writing to the view's card does not reach the match.
	require.NoError(t, v.Card.Set(dice.Chance, 16))
	assert.True(t, m.View().Open(dice.Chance))
}
