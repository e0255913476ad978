package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coder/quartz"
	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/config"
	"github.com/lox/yahtzee/internal/game"
	"github.com/lox/yahtzee/internal/randutil"
	"github.com/lox/yahtzee/internal/store"
	"github.com/lox/yahtzee/internal/tui"
)

// PlayCmd runs a hot-seat game in the terminal
type PlayCmd struct {
	Players []string `arg:"" optional:"" help:"Player names (overrides config)"`
	Rules   string   `short:"r" help:"Rules variant: classic or strict (overrides config)"`
	Seed    int64    `help:"Dice seed (0 for random)"`
	Fresh   bool     `help:"Ignore any saved game"`
	NoSave  bool     `help:"Do not save progress"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if len(c.Players) > 0 {
		if len(c.Players) > config.MaxPlayers {
			return fmt.Errorf("at most %d players", config.MaxPlayers)
		}
		cfg.Game.Players = c.Players
	}
	if c.Rules != "" {
		cfg.Game.Rules = c.Rules
	}
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}

	// The terminal belongs to the TUI, so only log when a file is configured
	logger, closeLog, err := setupLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := randutil.Seed(c.Seed)
	roller := game.NewRandRoller(randutil.New(seed))
	bus := game.NewEventBus()
	st := store.New(cfg.Store.Path, quartz.NewReal(), logger)
	saving := cfg.AutosaveEnabled() && !c.NoSave

	m, resumed, err := openMatch(st, roller, cfg.Game.Players, rules, !c.Fresh,
		game.WithEventBus(bus), game.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Info("Starting game", "match", m.ID(), "seed", seed, "resumed", resumed)

	model := tui.NewTUIModel(m, logger)
	bus.Subscribe(model)
	if saving {
		bus.Subscribe(st.Autosave(m))
		if err := st.Save(m); err != nil {
			logger.Error("Initial save failed", "error", err)
		}
	}

	if resumed {
		model.AddLogEntry(fmt.Sprintf("Resumed saved game: round %d, %s to play", m.Round(), m.CurrentPlayer().Name), tui.InfoStyle)
	} else {
		model.AddLogEntry(fmt.Sprintf("New %s game for %d player(s)", rules.Name, len(m.Players())), tui.InfoStyle)
	}
	model.AddLogEntry("Type 'roll' to start, 'help' for commands", tui.InfoStyle)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("TUI failed: %w", err)
	}

	if m.IsFinished() {
		printStandings(m)
	} else if saving {
		fmt.Printf("Game saved to %s\n", st.Path())
	}
	return nil
}

// openMatch resumes the saved match when allowed, otherwise starts a new
// one.
func openMatch(st *store.Store, roller game.Roller, players []string, rules dice.Rules, resume bool, opts ...game.MatchOption) (*game.Match, bool, error) {
	if resume {
		if m, ok := st.Resume(roller, opts...); ok {
			return m, true, nil
		}
	}
	m, err := game.NewMatch(roller, players, append(opts, game.WithRules(rules))...)
	return m, false, err
}

func printStandings(m *game.Match) {
	fmt.Println(tui.HeaderStyle.Render(" Final standings "))
	for _, s := range m.Standings() {
		fmt.Printf("%d. %-12s %4d  (upper %d, bonus %d)\n", s.Rank, s.Player, s.Total, s.Upper, s.Bonus)
	}
	if w, ok := m.Winner(); ok {
		fmt.Println(tui.SuccessStyle.Render(fmt.Sprintf("%s wins!", w.Player)))
	}
}
