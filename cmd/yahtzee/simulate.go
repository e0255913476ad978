package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lox/yahtzee/internal/config"
	"github.com/lox/yahtzee/internal/randutil"
	"github.com/lox/yahtzee/internal/simulator"
)

// SimulateCmd plays bot-only games and prints per-bot statistics
type SimulateCmd struct {
	Games   int           `short:"n" help:"Number of games (overrides config)"`
	Workers int           `short:"w" help:"Concurrent games (overrides config)"`
	Seed    int64         `help:"Base seed (0 for random, overrides config)"`
	Bot     []string      `help:"Seat a bot as name=strategy or just strategy; repeatable (overrides config)"`
	Rules   string        `short:"r" help:"Rules variant (overrides config)"`
	Timeout time.Duration `default:"10s" help:"Per-game timeout"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Games > 0 {
		cfg.Simulation.Games = c.Games
	}
	if c.Workers > 0 {
		cfg.Simulation.Workers = c.Workers
	}
	if c.Seed != 0 {
		cfg.Simulation.Seed = c.Seed
	}
	if c.Rules != "" {
		cfg.Game.Rules = c.Rules
	}
	if len(c.Bot) > 0 {
		bots, err := parseBots(c.Bot)
		if err != nil {
			return err
		}
		cfg.Simulation.Bots = bots
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	seats := make([]simulator.Seat, len(cfg.Simulation.Bots))
	for i, b := range cfg.Simulation.Bots {
		seats[i] = simulator.Seat{Name: b.Name, Strategy: b.Strategy}
	}

	seed := randutil.Seed(cfg.Simulation.Seed)
	sim, err := simulator.New(simulator.Config{
		Games:   cfg.Simulation.Games,
		Workers: cfg.Simulation.Workers,
		Seed:    seed,
		Seats:   seats,
		Rules:   rules,
		Timeout: c.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("Starting simulation", "games", cfg.Simulation.Games, "workers", cfg.Simulation.Workers,
		"seed", seed, "bots", strings.Join(cfg.BotNames(), ","))
	start := time.Now()
	results, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("Simulation complete", "duration", time.Since(start).Round(time.Millisecond))

	simulator.PrintSummary(os.Stdout, results)
	return nil
}

// parseBots turns name=strategy flags into seats. A bare strategy is named
// after itself, numbered when repeated.
func parseBots(args []string) ([]config.BotConfig, error) {
	bots := make([]config.BotConfig, 0, len(args))
	counts := make(map[string]int)
	for _, arg := range args {
		name, strategy, ok := strings.Cut(arg, "=")
		if !ok {
			strategy = arg
			counts[strategy]++
			name = strategy
			if counts[strategy] > 1 {
				name = fmt.Sprintf("%s-%d", strategy, counts[strategy])
			}
		}
		if name == "" || strategy == "" {
			return nil, fmt.Errorf("invalid bot %q, want name=strategy", arg)
		}
		bots = append(bots, config.BotConfig{Name: name, Strategy: strategy})
	}
	return bots, nil
}
