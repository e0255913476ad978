package main

import (
	"fmt"
	"os"

	"github.com/lox/yahtzee/internal/bot"
	"github.com/lox/yahtzee/internal/client"
	"github.com/lox/yahtzee/internal/randutil"
)

// ConnectCmd plays bots against a running server
type ConnectCmd struct {
	URL   string   `arg:"" default:"ws://localhost:8080/ws" help:"Server URL"`
	Bot   []string `help:"Seat a bot as name=strategy or just strategy; repeatable (defaults to the simulation bots)"`
	Rules string   `short:"r" help:"Rules variant (defaults to the server's)"`
	Seed  int64    `help:"Bot seed (0 for random)"`
}

func (c *ConnectCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	seats := cfg.Simulation.Bots
	if len(c.Bot) > 0 {
		if seats, err = parseBots(c.Bot); err != nil {
			return err
		}
	}

	logger, closeLog, err := setupLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := randutil.Seed(c.Seed)
	names := make([]string, len(seats))
	bots := make([]bot.Bot, len(seats))
	for i, s := range seats {
		b, err := bot.New(s.Strategy, randutil.New(randutil.Derive(seed, i)))
		if err != nil {
			return fmt.Errorf("bot %s: %w", s.Name, err)
		}
		names[i] = s.Name
		bots[i] = b
	}

	ctx, cancel := signalContext()
	defer cancel()

	cl, err := client.Dial(ctx, c.URL, logger)
	if err != nil {
		return err
	}
	defer func() { _ = cl.Close() }()

	state, err := client.PlayBots(ctx, cl, names, c.Rules, bots, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Match %s (%s rules)\n", state.Snapshot.ID, state.Snapshot.Rules)
	for _, s := range state.Standings {
		fmt.Printf("%d. %-12s %4d  (upper %d, bonus %d)\n", s.Rank, s.Player, s.Total, s.Upper, s.Bonus)
	}
	return nil
}
