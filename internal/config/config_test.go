package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/yahtzee/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "classic", cfg.Game.Rules)
	assert.True(t, cfg.AutosaveEnabled())
	assert.Equal(t, 5*time.Minute, cfg.IdleTimeout())
	assert.Equal(t, []string{"greedy", "advised"}, cfg.BotNames())

	rules, err := cfg.Rules()
	require.NoError(t, err)
	assert.Equal(t, dice.Classic.Name, rules.Name)
}

func TestParse(t *testing.T) {
	t.Parallel()

	src := `
game {
  rules   = "strict"
  players = ["Alice", "Bob"]
}

store {
  path     = "/tmp/yahtzee.json"
  autosave = false
}

log {
  level = "debug"
  file  = "yahtzee.log"
}

simulation {
  games   = 250
  workers = 8
  seed    = 42

  bot "careful" {
    strategy = "advised"
  }
  bot "chaos" {
    strategy = "random"
  }
}

server {
  address      = ":9000"
  idle_timeout = 30
}
`
	cfg, err := Parse([]byte(src), "test.hcl")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "strict", cfg.Game.Rules)
	assert.Equal(t, []string{"Alice", "Bob"}, cfg.Game.Players)
	assert.Equal(t, "/tmp/yahtzee.json", cfg.Store.Path)
	assert.False(t, cfg.AutosaveEnabled())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "yahtzee.log", cfg.Log.File)
	assert.Equal(t, 250, cfg.Simulation.Games)
	assert.Equal(t, 8, cfg.Simulation.Workers)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.Equal(t, []BotConfig{
		{Name: "careful", Strategy: "advised"},
		{Name: "chaos", Strategy: "random"},
	}, cfg.Simulation.Bots)
	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.IdleTimeout())
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte("game {\n  rules = \"strict\"\n}\n"), "partial.hcl")
	require.NoError(t, err)

	want := Default()
	want.Game.Rules = "strict"
	assert.Equal(t, want, cfg)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("game {"), "broken.hcl")
	assert.ErrorContains(t, err, "failed to parse HCL file")

	_, err = Parse([]byte("unknown {}\n"), "unknown.hcl")
	assert.ErrorContains(t, err, "failed to decode HCL")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown rules", func(c *Config) { c.Game.Rules = "house" }, "house"},
		{"no players", func(c *Config) { c.Game.Players = nil }, "players required"},
		{"too many players", func(c *Config) { c.Game.Players = []string{"a", "b", "c", "d", "e", "f", "g"} }, "players required"},
		{"empty player name", func(c *Config) { c.Game.Players = []string{"a", ""} }, "player 2 has no name"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log:"},
		{"no games", func(c *Config) { c.Simulation.Games = 0 }, "games must be positive"},
		{"no workers", func(c *Config) { c.Simulation.Workers = 0 }, "workers must be positive"},
		{"no bots", func(c *Config) { c.Simulation.Bots = nil }, "bots required"},
		{"duplicate bot", func(c *Config) {
			c.Simulation.Bots = []BotConfig{{Name: "x", Strategy: "greedy"}, {Name: "x", Strategy: "random"}}
		}, "duplicate bot name"},
		{"bad strategy", func(c *Config) {
			c.Simulation.Bots = []BotConfig{{Name: "x", Strategy: "psychic"}}
		}, "invalid strategy psychic"},
		{"negative idle timeout", func(c *Config) { c.Server.IdleTimeout = -1 }, "idle timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(dir, "yahtzee.hcl")
	require.NoError(t, os.WriteFile(path, []byte("server {\n  address = \":1234\"\n}\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":1234", cfg.Server.Address)
	assert.Equal(t, "classic", cfg.Game.Rules)
}
