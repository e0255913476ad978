package client

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/bot"
	"github.com/lox/yahtzee/internal/game"
	"github.com/lox/yahtzee/internal/server"
)

// ViewOf rebuilds the current turn from a server snapshot so local bots
// and advisors can reason about a remote match.
func ViewOf(s game.Snapshot) (game.View, error) {
	// The roller is never used; the mirror only answers questions
	m, err := game.Restore(s, game.NewSequenceRoller(1))
	if err != nil {
		return game.View{}, err
	}
	return m.View(), nil
}

// PlayBots starts a match on the server with one seat per bot and plays it
// to the end. It returns the final state.
func PlayBots(ctx context.Context, c *Client, players []string, rules string, bots []bot.Bot, logger *log.Logger) (*server.StateData, error) {
	if len(players) != len(bots) {
		return nil, fmt.Errorf("need %d bots, got %d", len(players), len(bots))
	}
	logger = logger.WithPrefix("remote")

	state, err := c.NewGame(ctx, players, rules)
	if err != nil {
		return nil, err
	}
	logger.Info("Match started", "match", state.Snapshot.ID, "rules", state.Snapshot.Rules)

	for !state.Finished {
		if !state.Snapshot.HasRolled {
			if state, err = c.Roll(ctx); err != nil {
				return nil, err
			}
			continue
		}

		v, err := ViewOf(state.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("server sent an invalid snapshot: %w", err)
		}
		d := bots[state.Snapshot.CurrentPlayerIndex].Decide(v)

		if d.Reroll && v.RollsLeft > 0 {
			if toggles := holdToggles(v.Held, d.Keep); len(toggles) > 0 {
				if state, err = c.Hold(ctx, toggles...); err != nil {
					return nil, err
				}
			}
			if state, err = c.Roll(ctx); err != nil {
				return nil, err
			}
			continue
		}

		category := d.Category
		if !v.Open(category) {
			fallback, _, ok := v.BestOpen()
			if !ok {
				return nil, fmt.Errorf("%s has no open category", v.Player)
			}
			logger.Warn("Bot chose an unavailable category", "player", v.Player, "category", category, "fallback", fallback)
			category = fallback
		}
		if state, err = c.Score(ctx, category.Key()); err != nil {
			return nil, err
		}
		if state.Scored != nil {
			logger.Debug("Bot scored", "player", state.Scored.Player, "category", state.Scored.Category, "points", state.Scored.Points)
		}
	}
	return state, nil
}

// holdToggles lists the positions whose hold must flip to reach want.
func holdToggles(held, want [dice.Count]bool) []int {
	var toggles []int
	for i := range held {
		if held[i] != want[i] {
			toggles = append(toggles, i)
		}
	}
	return toggles
}
