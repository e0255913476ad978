// Package bot contains computer players and the loop that lets them play a
// match. Bots only see a game.View; the loop applies their decisions.
package bot

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/advisor"
	"github.com/lox/yahtzee/internal/game"
)

// Strategy names accepted by New and the config file.
const (
	StrategyRandom  = "random"
	StrategyGreedy  = "greedy"
	StrategyAdvised = "advised"
)

// Strategies lists every strategy name.
func Strategies() []string {
	return []string{StrategyRandom, StrategyGreedy, StrategyAdvised}
}

// Decision is what a bot wants to do with the current turn: reroll the
// dice not marked Keep, or score Category.
type Decision struct {
	Reroll    bool
	Keep      [dice.Count]bool
	Category  dice.Category
	Reasoning string
}

// Bot decides a move from a read-only view of its turn. Decide is only
// called after the turn's first roll.
type Bot interface {
	Decide(v game.View) Decision
}

// New builds a bot for a strategy name.
func New(strategy string, rng *rand.Rand) (Bot, error) {
	switch strategy {
	case StrategyRandom:
		return NewRandBot(rng), nil
	case StrategyGreedy:
		return NewGreedyBot(), nil
	case StrategyAdvised:
		return NewAdvisedBot(advisor.NewHeuristic()), nil
	default:
		return nil, fmt.Errorf("unknown bot strategy %q", strategy)
	}
}

// Play runs m to completion, asking bots[seat] for every decision. ctx is
// checked between actions.
func Play(ctx context.Context, m *game.Match, bots []Bot, logger *log.Logger) error {
	if len(bots) != len(m.Players()) {
		return fmt.Errorf("need %d bots, got %d", len(m.Players()), len(bots))
	}
	logger = logger.WithPrefix("bot")

	for !m.IsFinished() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !m.HasRolled() {
			if err := m.Roll(false); err != nil {
				return err
			}
			continue
		}

		v := m.View()
		d := bots[m.CurrentIndex()].Decide(v)

		if d.Reroll && v.RollsLeft > 0 {
			if err := m.SetHolds(d.Keep); err != nil {
				return err
			}
			if err := m.Roll(false); err != nil {
				return err
			}
			continue
		}

		scored := d.Category
		points, err := m.Commit(scored)
		if err != nil {
			if !errors.Is(err, game.ErrInvalidState) && !errors.Is(err, game.ErrInvalidArgument) {
				return err
			}
			// Fall back to the best open category rather than stall the match
			fallback, _, ok := v.BestOpen()
			if !ok {
				return err
			}
			logger.Warn("Bot chose an unavailable category", "player", v.Player, "category", d.Category, "fallback", fallback)
			scored = fallback
			if points, err = m.Commit(scored); err != nil {
				return err
			}
		}
		logger.Debug("Bot scored", "player", v.Player, "category", scored, "points", points, "reasoning", d.Reasoning)
	}
	return nil
}
