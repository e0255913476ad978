package main

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/config"
	"github.com/lox/yahtzee/internal/game"
	"github.com/lox/yahtzee/internal/store"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestRenderScoreTable(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := renderScoreTable(dice.Hand{2, 2, 2, 5, 5}, dice.Classic)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 1+int(dice.NumCategories))

	assert.Contains(t, lines[0], "2 2 2 5 5 (classic rules)")
	assert.Contains(t, out, "Full House       25  <- best")
	assert.Contains(t, out, "Chance           16")
	assert.Equal(t, 1, strings.Count(out, "<- best"))
}

func TestRenderScoreTableStrictYahtzee(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := renderScoreTable(dice.Hand{4, 4, 4, 4, 4}, dice.Strict)
	assert.Contains(t, out, "Yahtzee          50  <- best")
	assert.Contains(t, out, "Full House        0")
}

func TestParseBots(t *testing.T) {
	t.Parallel()

	bots, err := parseBots([]string{"greedy", "alice=advised", "greedy", "random"})
	require.NoError(t, err)
	assert.Equal(t, []config.BotConfig{
		{Name: "greedy", Strategy: "greedy"},
		{Name: "alice", Strategy: "advised"},
		{Name: "greedy-2", Strategy: "greedy"},
		{Name: "random", Strategy: "random"},
	}, bots)

	for _, bad := range []string{"=greedy", "bob=", ""} {
		_, err := parseBots([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestOpenMatch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "save.json")
	st := store.New(path, quartz.NewMock(t), quietLogger())
	players := []string{"Alice", "Bob"}

	// Nothing saved yet, so a new match starts even when resuming
	m, resumed, err := openMatch(st, game.NewSequenceRoller(3), players, dice.Strict, true)
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.Equal(t, dice.Strict.Name, m.Rules().Name)

	require.NoError(t, m.Roll(false))
	_, err = m.Commit(dice.Threes)
	require.NoError(t, err)
	require.NoError(t, st.Save(m))

	resumedMatch, resumed, err := openMatch(st, game.NewSequenceRoller(3), players, dice.Classic, true)
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, m.ID(), resumedMatch.ID())
	assert.Equal(t, "Bob", resumedMatch.CurrentPlayer().Name)
	assert.Equal(t, dice.Strict.Name, resumedMatch.Rules().Name)

	fresh, resumed, err := openMatch(st, game.NewSequenceRoller(3), players, dice.Classic, false)
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.Equal(t, "Alice", fresh.CurrentPlayer().Name)
	assert.NotEqual(t, m.ID(), fresh.ID())
}
