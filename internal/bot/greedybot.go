package bot

import (
	"fmt"

	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/advisor"
	"github.com/lox/yahtzee/internal/game"
)

// GreedyBot scores a made pattern as soon as it appears and otherwise
// chases the most frequent face.
type GreedyBot struct{}

func NewGreedyBot() *GreedyBot {
	return &GreedyBot{}
}

// made patterns worth taking before the last roll
var madePatterns = []dice.Category{dice.Yahtzee, dice.LargeStraight, dice.FullHouse, dice.SmallStraight}

func (g *GreedyBot) Decide(v game.View) Decision {
	for _, c := range madePatterns {
		if v.Open(c) && v.Possible.Get(c) > 0 {
			return Decision{Category: c, Reasoning: "made " + c.Name()}
		}
	}

	if v.RollsLeft > 0 {
		face, _ := advisor.MostFrequent(v.Hand)
		var keep [dice.Count]bool
		for i, d := range v.Hand {
			keep[i] = d == face
		}
		return Decision{Reroll: true, Keep: keep, Reasoning: fmt.Sprintf("chasing %ds", face)}
	}

	c, _, _ := v.BestOpen()
	return Decision{Category: c, Reasoning: "best open category"}
}
