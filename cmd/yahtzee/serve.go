package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/lox/yahtzee/internal/config"
	"github.com/lox/yahtzee/internal/server"
)

// ServeCmd hosts games over WebSocket
type ServeCmd struct {
	Addr        string        `short:"a" help:"Server address to bind to (overrides config)"`
	IdleTimeout time.Duration `help:"Close silent connections after this long (overrides config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	idle := cfg.IdleTimeout()
	if c.IdleTimeout > 0 {
		idle = c.IdleTimeout
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

	srv := server.NewServer(logger,
		server.WithIdleTimeout(idle),
		server.WithRules(rules),
		server.WithMaxPlayers(config.MaxPlayers),
	)

	ctx, cancel := signalContext()
	defer cancel()

	if err := srv.ListenAndServe(ctx, cfg.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
