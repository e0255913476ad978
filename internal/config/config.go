// Package config loads yahtzee.hcl.
package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/bot"
	"github.com/lox/yahtzee/internal/store"
)

// DefaultFile is looked up when no --config flag is given.
const DefaultFile = "yahtzee.hcl"

// MaxPlayers is the largest table the hosts will seat.
const MaxPlayers = 6

// Config is the resolved configuration with defaults applied.
type Config struct {
	Game       GameSettings
	Store      StoreSettings
	Log        LogSettings
	Simulation SimulationSettings
	Server     ServerSettings
}

// GameSettings configures new matches.
type GameSettings struct {
	Rules   string   `hcl:"rules,optional"`
	Players []string `hcl:"players,optional"`
}

// StoreSettings configures the save file.
type StoreSettings struct {
	Path     string `hcl:"path,optional"`
	Autosave *bool  `hcl:"autosave,optional"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// SimulationSettings configures `yahtzee simulate`.
type SimulationSettings struct {
	Games   int         `hcl:"games,optional"`
	Workers int         `hcl:"workers,optional"`
	Seed    int64       `hcl:"seed,optional"`
	Bots    []BotConfig `hcl:"bot,block"`
}

// BotConfig seats one bot in simulations.
type BotConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy"`
}

// ServerSettings configures the websocket host.
type ServerSettings struct {
	Address     string `hcl:"address,optional"`
	IdleTimeout int    `hcl:"idle_timeout,optional"`
}

// fileConfig mirrors the HCL file. Every block is optional.
type fileConfig struct {
	Game       *GameSettings       `hcl:"game,block"`
	Store      *StoreSettings      `hcl:"store,block"`
	Log        *LogSettings        `hcl:"log,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
	Server     *ServerSettings     `hcl:"server,block"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	autosave := true
	return &Config{
		Game: GameSettings{
			Rules:   dice.Classic.Name,
			Players: []string{"Player 1"},
		},
		Store: StoreSettings{
			Path:     store.DefaultPath,
			Autosave: &autosave,
		},
		Log: LogSettings{
			Level: "info",
		},
		Simulation: SimulationSettings{
			Games:   1000,
			Workers: 4,
			Bots: []BotConfig{
				{Name: "greedy", Strategy: bot.StrategyGreedy},
				{Name: "advised", Strategy: bot.StrategyAdvised},
			},
		},
		Server: ServerSettings{
			Address:     "localhost:8080",
			IdleTimeout: 300,
		},
	}
}

// Load reads filename. A missing file yields Default.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills in defaults for anything left out.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if fc.Game != nil {
		if fc.Game.Rules != "" {
			cfg.Game.Rules = fc.Game.Rules
		}
		if len(fc.Game.Players) > 0 {
			cfg.Game.Players = fc.Game.Players
		}
	}
	if fc.Store != nil {
		if fc.Store.Path != "" {
			cfg.Store.Path = fc.Store.Path
		}
		if fc.Store.Autosave != nil {
			cfg.Store.Autosave = fc.Store.Autosave
		}
	}
	if fc.Log != nil {
		if fc.Log.Level != "" {
			cfg.Log.Level = fc.Log.Level
		}
		cfg.Log.File = fc.Log.File
	}
	if fc.Simulation != nil {
		if fc.Simulation.Games != 0 {
			cfg.Simulation.Games = fc.Simulation.Games
		}
		if fc.Simulation.Workers != 0 {
			cfg.Simulation.Workers = fc.Simulation.Workers
		}
		cfg.Simulation.Seed = fc.Simulation.Seed
		if len(fc.Simulation.Bots) > 0 {
			cfg.Simulation.Bots = fc.Simulation.Bots
		}
	}
	if fc.Server != nil {
		if fc.Server.Address != "" {
			cfg.Server.Address = fc.Server.Address
		}
		if fc.Server.IdleTimeout != 0 {
			cfg.Server.IdleTimeout = fc.Server.IdleTimeout
		}
	}

	return cfg, nil
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	if _, err := dice.LookupRules(c.Game.Rules); err != nil {
		return err
	}
	if len(c.Game.Players) == 0 || len(c.Game.Players) > MaxPlayers {
		return fmt.Errorf("game: between 1 and %d players required, got %d", MaxPlayers, len(c.Game.Players))
	}
	for i, name := range c.Game.Players {
		if name == "" {
			return fmt.Errorf("game: player %d has no name", i+1)
		}
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.Simulation.Games < 1 {
		return fmt.Errorf("simulation: games must be positive, got %d", c.Simulation.Games)
	}
	if c.Simulation.Workers < 1 {
		return fmt.Errorf("simulation: workers must be positive, got %d", c.Simulation.Workers)
	}
	if len(c.Simulation.Bots) == 0 || len(c.Simulation.Bots) > MaxPlayers {
		return fmt.Errorf("simulation: between 1 and %d bots required", MaxPlayers)
	}
	seen := make(map[string]bool)
	for _, b := range c.Simulation.Bots {
		if seen[b.Name] {
			return fmt.Errorf("simulation: duplicate bot name %q", b.Name)
		}
		seen[b.Name] = true
		if !slices.Contains(bot.Strategies(), b.Strategy) {
			return fmt.Errorf("bot %s: invalid strategy %s", b.Name, b.Strategy)
		}
	}
	if c.Server.IdleTimeout < 0 {
		return fmt.Errorf("server: idle timeout must not be negative")
	}
	return nil
}

// Rules resolves the configured variant.
func (c *Config) Rules() (dice.Rules, error) {
	return dice.LookupRules(c.Game.Rules)
}

// AutosaveEnabled reports whether hosts should checkpoint every change.
func (c *Config) AutosaveEnabled() bool {
	return c.Store.Autosave == nil || *c.Store.Autosave
}

// IdleTimeout returns the server idle timeout as a duration.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeout) * time.Second
}

// BotNames lists the simulation seats in order.
func (c *Config) BotNames() []string {
	names := make([]string, len(c.Simulation.Bots))
	for i, b := range c.Simulation.Bots {
		names[i] = b.Name
	}
	return names
}
