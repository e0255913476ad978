package game

import (
	"testing"

	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatch(t *testing.T) {
	t.Parallel()

	t.Run("starts the first turn", func(t *testing.T) {
		m := newTestMatch(t, NewSequenceRoller(1))

		assert.Equal(t, "test-match", m.ID())
		assert.Equal(t, 1, m.Round())
		assert.Equal(t, 0, m.CurrentIndex())
		assert.Equal(t, "Alice", m.CurrentPlayer().Name)
		assert.Equal(t, 3, m.RollsLeft())
		assert.False(t, m.HasRolled())
		assert.Equal(t, dice.Hand{}, m.Hand())
		assert.Equal(t, AwaitingRoll, m.Phase())
		assert.Equal(t, dice.Classic, m.Rules())
	})

	t.Run("requires a roller", func(t *testing.T) {
		_, err := NewMatch(nil, []string{"Alice"})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("requires players", func(t *testing.T) {
		_, err := NewMatch(NewSequenceRoller(1), nil)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("rejects blank names", func(t *testing.T) {
		_, err := NewMatch(NewSequenceRoller(1), []string{"Alice", "  "})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("rejects broken rules", func(t *testing.T) {
		rules := dice.Classic
		rules.MaxRolls = 0
		_, err := NewMatch(NewSequenceRoller(1), []string{"Alice"}, WithRules(rules))
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("generates an ID", func(t *testing.T) {
		m, err := NewMatch(NewSequenceRoller(1), []string{"Alice"})
		require.NoError(t, err)
		assert.Len(t, m.ID(), 26)
	})
}

func TestRoll(t *testing.T) {
	t.Parallel()

	t.Run("rolls every die and uses a roll", func(t *testing.T) {
		m := newTestMatch(t, NewSequenceRoller(1, 2, 3, 4, 5))

		require.NoError(t, m.Roll(false))
		assert.Equal(t, dice.Hand{1, 2, 3, 4, 5}, m.Hand())
		assert.Equal(t, 2, m.RollsLeft())
		assert.True(t, m.HasRolled())
		assert.Equal(t, RolledAwaitingChoice, m.Phase())
	})

	t.Run("held dice are kept", func(t *testing.T) {
		roller := NewSequenceRoller(6, 6, 1, 2, 3, 4, 5, 6)
		m := newTestMatch(t, roller)

		require.NoError(t, m.Roll(false))
		require.NoError(t, m.ToggleHold(0))
		require.NoError(t, m.ToggleHold(1))
		require.NoError(t, m.Roll(false))

		assert.Equal(t, dice.Hand{6, 6, 4, 5, 6}, m.Hand())
		assert.Equal(t, 8, roller.Rolled())
		assert.Equal(t, [dice.Count]bool{true, true}, m.Held())
	})

	t.Run("no rolls left leaves everything unchanged", func(t *testing.T) {
		m := newTestMatch(t, randomRoller(1))
		for i := 0; i < 3; i++ {
			require.NoError(t, m.Roll(false))
		}
		require.NoError(t, m.ToggleHold(2))
		before := m.Snapshot()

		err := m.Roll(false)
		assert.ErrorIs(t, err, ErrIllegalTransition)
		assert.Equal(t, before, m.Snapshot())
		assert.Equal(t, 0, m.RollsLeft())
	})

	t.Run("forced roll ignores holds and keeps rolls", func(t *testing.T) {
		m := newTestMatch(t, NewSequenceRoller(1, 1, 1, 1, 1, 2, 2, 2, 2, 2))
		require.NoError(t, m.Roll(false))
		require.NoError(t, m.ToggleHold(0))

		require.NoError(t, m.Roll(true))
		assert.Equal(t, dice.Hand{2, 2, 2, 2, 2}, m.Hand())
		assert.Equal(t, 2, m.RollsLeft())
	})

	t.Run("forced roll works with no rolls left", func(t *testing.T) {
		m := newTestMatch(t, randomRoller(2))
		for i := 0; i < 3; i++ {
			require.NoError(t, m.Roll(false))
		}
		assert.NoError(t, m.Roll(true))
		assert.Equal(t, 0, m.RollsLeft())
	})
}

func TestToggleHold(t *testing.T) {
	t.Parallel()

	t.Run("cannot hold before rolling", func(t *testing.T) {
		m := newTestMatch(t, NewSequenceRoller(3))

		err := m.ToggleHold(0)
		assert.ErrorIs(t, err, ErrIllegalTransition)
		assert.Equal(t, [dice.Count]bool{}, m.Held())
	})

	t.Run("index out of range", func(t *testing.T) {
		m := newTestMatch(t, NewSequenceRoller(3))
		require.NoError(t, m.Roll(false))

		assert.ErrorIs(t, m.ToggleHold(-1), ErrInvalidArgument)
		assert.ErrorIs(t, m.ToggleHold(dice.Count), ErrInvalidArgument)
	})

	t.Run("toggles back and forth", func(t *testing.T) {
		m := newTestMatch(t, NewSequenceRoller(3))
		require.NoError(t, m.Roll(false))

		require.NoError(t, m.ToggleHold(4))
		assert.True(t, m.Held()[4])
		require.NoError(t, m.ToggleHold(4))
		assert.False(t, m.Held()[4])
	})

	t.Run("set holds", func(t *testing.T) {
		m := newTestMatch(t, NewSequenceRoller(3))
		assert.ErrorIs(t, m.SetHolds([dice.Count]bool{true}), ErrIllegalTransition)

		require.NoError(t, m.Roll(false))
		want := [dice.Count]bool{true, false, true, false, true}
		require.NoError(t, m.SetHolds(want))
		assert.Equal(t, want, m.Held())
	})
}

func TestCommit(t *testing.T) {
	t.Parallel()

	t.Run("writes the recomputed score and passes the turn", func(t *testing.T) {
		m := newTestMatch(t, NewSequenceRoller(2, 2, 2, 5, 5))
		require.NoError(t, m.Roll(false))

		points, err := m.Commit(dice.FullHouse)
		require.NoError(t, err)
		assert.Equal(t, 25, points)

		alice := m.Players()[0]
		got, ok := alice.Card.Get(dice.FullHouse)
		assert.True(t, ok)
		assert.Equal(t, 25, got)

		assert.Equal(t, 1, m.CurrentIndex())
		assert.Equal(t, 1, m.Round())
		assert.Equal(t, 3, m.RollsLeft())
		assert.False(t, m.HasRolled())
		assert.Equal(t, dice.Hand{}, m.Hand())
	})

	t.Run("zero is a real score", func(t *testing.T) {
		m := newTestMatch(t, NewSequenceRoller(2, 2, 2, 5, 5))
		require.NoError(t, m.Roll(false))

		points, err := m.Commit(dice.Yahtzee)
		require.NoError(t, err)
		assert.Zero(t, points)

		got, ok := m.Players()[0].Card.Get(dice.Yahtzee)
		assert.True(t, ok)
		assert.Zero(t, got)
		_, ok = m.Players()[0].Card.Get(dice.Chance)
		assert.False(t, ok)
	})

	t.Run("must roll first", func(t *testing.T) {
		m := newTestMatch(t, NewSequenceRoller(1))
		_, err := m.Commit(dice.Chance)
		assert.ErrorIs(t, err, ErrIllegalTransition)
		assert.Equal(t, 0, m.Players()[0].Card.Played())
	})

	t.Run("unknown category", func(t *testing.T) {
		m := newTestMatch(t, NewSequenceRoller(1))
		require.NoError(t, m.Roll(false))

		_, err := m.Commit(dice.Category(42))
		assert.ErrorIs(t, err, ErrInvalidArgument)

		_, err = m.CommitKey("bigStraight")
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.ErrorIs(t, err, dice.ErrUnknownCategory)
	})

	t.Run("commit by key", func(t *testing.T) {
		m := newTestMatch(t, NewSequenceRoller(1, 2, 3, 4, 5))
		require.NoError(t, m.Roll(false))

		points, err := m.CommitKey("largeStraight")
		require.NoError(t, err)
		assert.Equal(t, 40, points)
	})

	t.Run("second commit to a filled category fails", func(t *testing.T) {
		m := newTestMatch(t, NewSequenceRoller(2, 2, 2, 5, 5), "Solo")
		require.NoError(t, m.Roll(false))
		_, err := m.Commit(dice.FullHouse)
		require.NoError(t, err)

		require.Equal(t, 2, m.Round())
		require.NoError(t, m.Roll(false))
		_, err = m.Commit(dice.FullHouse)
		assert.ErrorIs(t, err, ErrInvalidState)

		got, _ := m.Players()[0].Card.Get(dice.FullHouse)
		assert.Equal(t, 25, got)
		assert.Equal(t, 2, m.Round(), "failed commit does not end the turn")
		assert.True(t, m.HasRolled())
	})

	t.Run("claimed value must match", func(t *testing.T) {
		m := newTestMatch(t, NewSequenceRoller(2, 2, 2, 5, 5))
		require.NoError(t, m.Roll(false))

		_, err := m.CommitValue(dice.ThreeKind, 15)
		assert.ErrorIs(t, err, ErrInvalidState)
		assert.Equal(t, 0, m.CurrentIndex())

		points, err := m.CommitValue(dice.ThreeKind, 16)
		require.NoError(t, err)
		assert.Equal(t, 16, points)
	})
}

func TestMatchCompletes(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 4; n++ {
		names := []string{"P1", "P2", "P3", "P4"}[:n]
		m := newTestMatch(t, randomRoller(int64(n)), names...)

		commits := 0
		for !m.IsFinished() {
			require.NoError(t, m.Roll(false))
			v := m.View()
			c, _, ok := v.BestOpen()
			require.True(t, ok)
			_, err := m.Commit(c)
			require.NoError(t, err)
			commits++
		}

		assert.Equal(t, n*dice.NumCategories, commits)
		assert.Equal(t, Finished, m.Phase())
		assert.Equal(t, Rounds+1, m.Round())
		for _, p := range m.Players() {
			assert.True(t, p.Card.Complete(), p.Name)
			assert.Equal(t, dice.NumCategories, p.Card.Played())
		}

		assert.ErrorIs(t, m.Roll(false), ErrInvalidState)
		assert.ErrorIs(t, m.ToggleHold(0), ErrInvalidState)
		_, err := m.Commit(dice.Chance)
		assert.ErrorIs(t, err, ErrInvalidState)
	}
}

func TestMatchEvents(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	rec := &recorder{}
	bus.Subscribe(rec)

	m, err := NewMatch(NewSequenceRoller(2, 2, 2, 5, 5), []string{"Solo"},
		WithEventBus(bus), WithLogger(quietLogger()))
	require.NoError(t, err)

	require.NoError(t, m.Roll(false))
	require.NoError(t, m.ToggleHold(1))
	_, err = m.Commit(dice.FullHouse)
	require.NoError(t, err)

	assert.Equal(t, []EventType{
		EventTypeTurnStarted,
		EventTypeDiceRolled,
		EventTypeHoldToggled,
		EventTypeScoreCommitted,
		EventTypeTurnStarted,
	}, rec.types())

	committed := rec.events[3].(ScoreCommittedEvent)
	assert.Equal(t, "Solo", committed.Player)
	assert.Equal(t, 25, committed.Points)
	assert.Equal(t, dice.FullHouse, committed.Category)

	bus.Unsubscribe(rec)
	require.NoError(t, m.Roll(false))
	assert.Len(t, rec.events, 5)
}

func TestMatchFinishedEvent(t *testing.T) {
	t.Parallel()

	script := bonusScript(3)
	roller := handsRoller(scriptHands(script)...)
	bus := NewEventBus()
	var finished []MatchFinishedEvent
	bus.Subscribe(EventSubscriberFunc(func(e GameEvent) {
		if f, ok := e.(MatchFinishedEvent); ok {
			finished = append(finished, f)
		}
	}))

	m, err := NewMatch(roller, []string{"Solo"}, WithEventBus(bus), WithLogger(quietLogger()))
	require.NoError(t, err)
	playTurns(t, m, roller, script)

	require.Len(t, finished, 1)
	assert.Equal(t, "Solo", finished[0].Winner.Player)
	assert.Equal(t, 266, finished[0].Winner.Total)
}

func randomRoller(seed int64) Roller {
	return NewRandRoller(randutil.New(seed))
}
