package game

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/gameid"
)

// MatchOption configures a Match during creation or restore.
type MatchOption func(*matchConfig)

type matchConfig struct {
	rules    dice.Rules
	rulesSet bool
	logger   *log.Logger
	eventBus EventBus
	clock    quartz.Clock
	id       string
}

func newMatchConfig(opts []MatchOption) *matchConfig {
	cfg := &matchConfig{
		rules: dice.Classic,
		clock: quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.id == "" {
		cfg.id = gameid.Generate()
	}
	return cfg
}

// WithRules selects the scoring variant. Default is dice.Classic.
func WithRules(rules dice.Rules) MatchOption {
	return func(c *matchConfig) {
		c.rules = rules
		c.rulesSet = true
	}
}

// WithLogger sets the logger used for turn transitions.
func WithLogger(logger *log.Logger) MatchOption {
	return func(c *matchConfig) {
		c.logger = logger
	}
}

// WithEventBus publishes match events to bus.
func WithEventBus(bus EventBus) MatchOption {
	return func(c *matchConfig) {
		c.eventBus = bus
	}
}

// WithClock sets the clock used to timestamp events.
func WithClock(clock quartz.Clock) MatchOption {
	return func(c *matchConfig) {
		c.clock = clock
	}
}

// WithID sets the match identifier instead of generating one.
func WithID(id string) MatchOption {
	return func(c *matchConfig) {
		c.id = id
	}
}
