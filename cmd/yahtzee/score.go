package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/tui"
	"github.com/muesli/termenv"
)

// ScoreCmd prints what a hand scores in every category
type ScoreCmd struct {
	Dice  string `arg:"" help:"Five dice, e.g. 22255 or 2,2,2,5,5"`
	Rules string `short:"r" default:"classic" help:"Rules variant: classic or strict"`
}

func (c *ScoreCmd) Run(g *Globals) error {
	if g.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	hand, err := dice.ParseHand(c.Dice)
	if err != nil {
		return err
	}
	rules, err := dice.LookupRules(c.Rules)
	if err != nil {
		return err
	}
	fmt.Print(renderScoreTable(hand, rules))
	return nil
}

// renderScoreTable lists every category's score, marking the best.
func renderScoreTable(hand dice.Hand, rules dice.Rules) string {
	scores := rules.Score(hand)
	best, _, _ := scores.Best(func(dice.Category) bool { return true })

	var b strings.Builder
	b.WriteString(tui.HeaderStyle.Render(fmt.Sprintf(" %s (%s rules) ", hand, rules.Name)))
	b.WriteString("\n")
	for _, cat := range dice.Categories() {
		line := fmt.Sprintf("%-15s %3d", cat.Name(), scores.Get(cat))
		if cat == best {
			line = tui.SuccessStyle.Render(line + "  <- best")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
