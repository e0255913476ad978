package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// newTestTUI seats the named players with dice drawn from faces and
// subscribes a test-mode model to the match events.
func newTestTUI(t *testing.T, faces []int, names ...string) (*TUIModel, *game.Match) {
	t.Helper()
	bus := game.NewEventBus()
	m, err := game.NewMatch(game.NewSequenceRoller(faces...), names,
		game.WithEventBus(bus),
		game.WithLogger(quietLogger()),
		game.WithID("tui-test"),
	)
	require.NoError(t, err)

	tui := NewTUIModelWithOptions(m, quietLogger(), true)
	bus.Subscribe(tui)
	return tui, m
}

func lastEntry(tui *TUIModel) string {
	entries := tui.GetCapturedLog()
	if len(entries) == 0 {
		return ""
	}
	return entries[len(entries)-1]
}

func TestTUITestMode(t *testing.T) {
	t.Parallel()

	t.Run("test mode captures log entries", func(t *testing.T) {
		tui, _ := newTestTUI(t, []int{1}, "P1")
		assert.True(t, tui.IsTestMode())
		assert.Empty(t, tui.GetCapturedLog())

		tui.AddLogEntry("hello", InfoStyle)
		assert.Equal(t, []string{"hello"}, tui.GetCapturedLog())

		tui.ClearLog()
		assert.Empty(t, tui.gameLog)
	})

	t.Run("production mode does not capture logs", func(t *testing.T) {
		m, err := game.NewMatch(game.NewSequenceRoller(1), []string{"P1"})
		require.NoError(t, err)
		tui := NewTUIModel(m, quietLogger())

		assert.False(t, tui.IsTestMode())
		tui.AddLogEntry("Some log entry", InfoStyle)
		assert.Nil(t, tui.GetCapturedLog())
	})
}

func TestExecuteRollAndScore(t *testing.T) {
	t.Parallel()

	tui, m := newTestTUI(t, []int{2, 2, 2, 5, 5}, "P1")

	assert.False(t, tui.Execute("roll"))
	assert.Equal(t, "P1 rolled 2 2 2 5 5 (2 rolls left)", lastEntry(tui))

	assert.False(t, tui.Execute("score FULLHOUSE"))
	captured := tui.GetCapturedLog()
	require.GreaterOrEqual(t, len(captured), 2)
	assert.Equal(t, "P1 scored 25 in Full House", captured[len(captured)-2])
	assert.Equal(t, "*** Round 2: P1 to roll ***", lastEntry(tui))

	p := m.CurrentPlayer()
	v, ok := p.Card.Get(dice.FullHouse)
	assert.True(t, ok)
	assert.Equal(t, 25, v)
}

func TestExecuteHold(t *testing.T) {
	t.Parallel()

	tui, m := newTestTUI(t, []int{6, 6, 6, 1, 2}, "P1")
	require.False(t, tui.Execute("roll"))

	tui.Execute("hold 1 3")
	assert.Equal(t, [dice.Count]bool{true, false, true, false, false}, m.Held())
	assert.Equal(t, "P1 held die 3", lastEntry(tui))

	tui.Execute("h 1")
	assert.Equal(t, [dice.Count]bool{false, false, true, false, false}, m.Held())
	assert.Equal(t, "P1 released die 1", lastEntry(tui))
}

func TestExecuteErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unknown command", "bet 10", "unknown command"},
		{"score before roll", "score chance", "roll before scoring"},
		{"hold before roll", "hold 1", "cannot hold"},
		{"hold out of range", "hold 6", "die must be a number from 1 to 5"},
		{"hold not a number", "hold one", "die must be a number"},
		{"hold without dice", "hold", "usage: hold"},
		{"unknown category", "score pair", "unknown category"},
		{"score without category", "score", "usage: score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tui, m := newTestTUI(t, []int{3}, "P1")

			assert.False(t, tui.Execute(tt.input))
			entry := lastEntry(tui)
			assert.True(t, strings.HasPrefix(entry, "Error: "), entry)
			assert.Contains(t, entry, tt.want)
			assert.False(t, m.HasRolled())
		})
	}
}

func TestExecuteQuitAndEmpty(t *testing.T) {
	t.Parallel()

	tui, _ := newTestTUI(t, []int{1}, "P1")
	assert.False(t, tui.Execute("   "))
	assert.Empty(t, tui.GetCapturedLog())

	for _, input := range []string{"quit", "q", "EXIT"} {
		assert.True(t, tui.Execute(input), input)
	}
}

func TestExecuteHint(t *testing.T) {
	t.Parallel()

	tui, _ := newTestTUI(t, []int{6, 6, 6, 1, 2}, "P1")

	tui.Execute("hint")
	assert.Equal(t, "Hint: Roll the dice!", lastEntry(tui))

	tui.Execute("roll")
	tui.Execute("hint")
	assert.Equal(t, "Hint: Hold the 6s for four of a kind or a Yahtzee. (hold 1 2 3)", lastEntry(tui))
}

func TestHintOnlyNamesDiceToToggle(t *testing.T) {
	t.Parallel()

	tui, _ := newTestTUI(t, []int{6, 6, 6, 1, 2}, "P1")
	require.False(t, tui.Execute("roll"))

	tui.Execute("hold 1 4")
	tui.Execute("hint")
	assert.Equal(t, "Hint: Hold the 6s for four of a kind or a Yahtzee. (hold 2 3 4)", lastEntry(tui))

	tui.Execute("hold 2 3 4")
	tui.Execute("hint")
	assert.Equal(t, "Hint: Hold the 6s for four of a kind or a Yahtzee. (already held, roll)", lastEntry(tui))
}

func TestFullGameThroughTUI(t *testing.T) {
	t.Parallel()

	tui, m := newTestTUI(t, []int{1}, "P1")
	for _, c := range dice.Categories() {
		require.False(t, tui.Execute("roll"))
		require.False(t, tui.Execute("score "+c.Key()))
	}

	require.True(t, m.IsFinished())
	captured := tui.GetCapturedLog()
	assert.Contains(t, captured, "*** GAME OVER ***")
	assert.Contains(t, lastEntry(tui), "P1 wins with")

	tui.Execute("hint")
	assert.Equal(t, "The game is over.", lastEntry(tui))

	tui.Execute("roll")
	assert.Contains(t, lastEntry(tui), "match is finished")
}

func TestUpdateEnterExecutesInput(t *testing.T) {
	t.Parallel()

	tui, m := newTestTUI(t, []int{4}, "P1")
	tui.actionInput.SetValue("roll")

	model, _ := tui.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Same(t, tui, model)
	assert.True(t, m.HasRolled())
	assert.Empty(t, tui.actionInput.Value())

	tui.actionInput.SetValue("quit")
	tui.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, tui.Quitting())
	assert.Empty(t, tui.View())
}

func TestUpdateTabSwitchesFocus(t *testing.T) {
	t.Parallel()

	tui, _ := newTestTUI(t, []int{4}, "P1")
	require.Equal(t, inputPane, tui.focusedPane)

	tui.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, logPane, tui.focusedPane)

	// enter does nothing while the log is focused
	tui.actionInput.SetValue("roll")
	tui.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "roll", tui.actionInput.Value())

	tui.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, inputPane, tui.focusedPane)
}

func TestView(t *testing.T) {
	t.Parallel()

	tui, _ := newTestTUI(t, []int{2, 2, 2, 5, 5}, "Alice", "Bob")
	assert.Equal(t, "Loading...", tui.View())

	tui.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	out := tui.View()
	assert.Contains(t, out, "Round 1/13")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "Dice not rolled yet")
	assert.NotContains(t, out, "(25)")

	tui.Execute("roll")
	out = tui.View()
	assert.Contains(t, out, "Rolls left: 2")
	assert.Contains(t, out, "[2]")
	assert.Contains(t, out, "(25)") // full house preview
	assert.Contains(t, out, "Bonus (63+)")
	assert.Contains(t, out, "TOTAL")
}

func TestFormatHand(t *testing.T) {
	t.Parallel()

	h := dice.Hand{1, 2, 3, 4, dice.Unset}
	held := [dice.Count]bool{true, false, false, true, false}
	assert.Equal(t, "1* 2 3 4* -", formatHand(h, held, false))
}
