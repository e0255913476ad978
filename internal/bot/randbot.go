package bot

import (
	rand "math/rand/v2"

	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/game"
)

// RandBot keeps random dice, rerolls half the time and scores a random open
// category.
type RandBot struct {
	rng *rand.Rand
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand) *RandBot {
	if rng == nil {
		panic("rng is required for RandBot")
	}
	return &RandBot{rng: rng}
}

func (r *RandBot) Decide(v game.View) Decision {
	if v.RollsLeft > 0 && r.rng.IntN(2) == 0 {
		var keep [dice.Count]bool
		for i := range keep {
			keep[i] = r.rng.IntN(2) == 0
		}
		return Decision{Reroll: true, Keep: keep, Reasoning: "rand-bot reroll"}
	}

	open := v.OpenCategories()
	return Decision{
		Category:  open[r.rng.IntN(len(open))],
		Reasoning: "rand-bot random category",
	}
}
