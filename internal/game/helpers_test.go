package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/yahtzee/dice"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// handsRoller feeds whole hands to a match, one hand per full roll.
func handsRoller(hands ...dice.Hand) *SequenceRoller {
	var faces []int
	for _, h := range hands {
		faces = append(faces, h[:]...)
	}
	return NewSequenceRoller(faces...)
}

func newTestMatch(t *testing.T, roller Roller, names ...string) *Match {
	t.Helper()
	if len(names) == 0 {
		names = []string{"Alice", "Bob"}
	}
	m, err := NewMatch(roller, names, WithLogger(quietLogger()), WithID("test-match"))
	require.NoError(t, err)
	return m
}

// turn is one roll followed by a commit.
type turn struct {
	hand     dice.Hand
	category dice.Category
}

// playTurns rolls each hand once and commits the matching category.
func playTurns(t *testing.T, m *Match, roller *SequenceRoller, turns []turn) {
	t.Helper()
	for i, tr := range turns {
		require.NoError(t, m.Roll(true), "turn %d roll", i)
		require.Equal(t, tr.hand, m.Hand(), "turn %d hand", i)
		_, err := m.Commit(tr.category)
		require.NoError(t, err, "turn %d commit %s", i, tr.category)
	}
}

// bonusScript scores exactly 63 in the upper section when upperOnes is 3,
// and 62 when it is 2.
func bonusScript(upperOnes int) []turn {
	ones := dice.Hand{1, 1, 1, 2, 3}
	if upperOnes == 2 {
		ones = dice.Hand{1, 1, 2, 3, 4}
	}
	return []turn{
		{ones, dice.Ones},
		{dice.Hand{2, 2, 2, 1, 3}, dice.Twos},
		{dice.Hand{3, 3, 3, 1, 2}, dice.Threes},
		{dice.Hand{4, 4, 4, 1, 2}, dice.Fours},
		{dice.Hand{5, 5, 5, 1, 2}, dice.Fives},
		{dice.Hand{6, 6, 6, 1, 2}, dice.Sixes},
		{dice.Hand{6, 6, 6, 1, 2}, dice.ThreeKind},
		{dice.Hand{6, 6, 6, 6, 2}, dice.FourKind},
		{dice.Hand{2, 2, 3, 3, 3}, dice.FullHouse},
		{dice.Hand{1, 2, 3, 4, 6}, dice.SmallStraight},
		{dice.Hand{2, 3, 4, 5, 6}, dice.LargeStraight},
		{dice.Hand{1, 1, 2, 2, 3}, dice.Yahtzee},
		{dice.Hand{6, 6, 5, 5, 4}, dice.Chance},
	}
}

func scriptHands(turns []turn) []dice.Hand {
	hands := make([]dice.Hand, len(turns))
	for i, tr := range turns {
		hands[i] = tr.hand
	}
	return hands
}

type recorder struct {
	events []GameEvent
}

func (r *recorder) OnEvent(e GameEvent) { r.events = append(r.events, e) }

func (r *recorder) types() []EventType {
	types := make([]EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.EventType()
	}
	return types
}
