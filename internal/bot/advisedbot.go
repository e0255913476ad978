package bot

import (
	"github.com/lox/yahtzee/internal/advisor"
	"github.com/lox/yahtzee/internal/game"
)

// AdvisedBot does whatever an advisor.Strategy suggests.
type AdvisedBot struct {
	advisor advisor.Strategy
}

func NewAdvisedBot(s advisor.Strategy) *AdvisedBot {
	return &AdvisedBot{advisor: s}
}

func (a *AdvisedBot) Decide(v game.View) Decision {
	advice := a.advisor.Advise(v)
	switch advice.Action {
	case advisor.Hold:
		if v.RollsLeft > 0 {
			return Decision{Reroll: true, Keep: advice.Keep, Reasoning: advice.Message}
		}
	case advisor.Roll:
		if v.RollsLeft > 0 {
			return Decision{Reroll: true, Reasoning: advice.Message}
		}
	case advisor.Score:
		if v.Open(advice.Category) {
			return Decision{Category: advice.Category, Reasoning: advice.Message}
		}
	}
	c, _, _ := v.BestOpen()
	return Decision{Category: c, Reasoning: "best open category"}
}
