// Package advisor suggests what to do with the current dice. Advice is a
// best-effort heuristic; it reads a game.View and never touches the match.
package advisor

import (
	"fmt"

	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/game"
)

// Action is the kind of move an Advice recommends.
type Action int

const (
	Roll Action = iota
	Hold
	Score
)

func (a Action) String() string {
	switch a {
	case Roll:
		return "roll"
	case Hold:
		return "hold"
	case Score:
		return "score"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Advice is a suggestion for the current turn.
type Advice struct {
	Action  Action
	Message string

	// Category and Points are set when Action is Score.
	Category dice.Category
	Points   int

	// Keep marks the dice worth holding when Action is Hold.
	Keep [dice.Count]bool
}

// Strategy produces advice from a read-only view of the turn.
type Strategy interface {
	Advise(v game.View) Advice
}

// Heuristic checks for the big patterns first, then for sets worth
// chasing, and with no rolls left falls back to the best open category.
type Heuristic struct {
	// FourKindMin is the smallest four of a kind worth taking outright.
	FourKindMin int
}

// NewHeuristic returns the heuristic with its usual thresholds.
func NewHeuristic() *Heuristic {
	return &Heuristic{FourKindMin: 20}
}

func (h *Heuristic) Advise(v game.View) Advice {
	if !v.HasRolled {
		return Advice{Action: Roll, Message: "Roll the dice!"}
	}

	p := v.Possible
	switch {
	case v.Open(dice.Yahtzee) && p.Get(dice.Yahtzee) == dice.YahtzeeScore:
		return take(dice.Yahtzee, p, "YAHTZEE! Take it now!")
	case v.Open(dice.LargeStraight) && p.Get(dice.LargeStraight) == dice.LargeStraightScore:
		return take(dice.LargeStraight, p, "Large straight! Great score.")
	case v.Open(dice.FourKind) && p.Get(dice.FourKind) >= h.FourKindMin:
		return take(dice.FourKind, p, "Four of a kind! Good score.")
	case v.Open(dice.FullHouse) && p.Get(dice.FullHouse) == dice.FullHouseScore:
		return take(dice.FullHouse, p, "Full house, a safe score.")
	}

	if v.RollsLeft > 0 {
		face, freq := MostFrequent(v.Hand)
		switch freq {
		case 4:
			return Advice{
				Action:  Hold,
				Message: fmt.Sprintf("Hold the %ds and go for a Yahtzee!", face),
				Keep:    keepFace(v.Hand, face),
			}
		case 3:
			return Advice{
				Action:  Hold,
				Message: fmt.Sprintf("Hold the %ds for four of a kind or a Yahtzee.", face),
				Keep:    keepFace(v.Hand, face),
			}
		}
		return Advice{Action: Roll, Message: "Look for better combinations..."}
	}

	if c, points, ok := v.BestOpen(); ok {
		return take(c, p, fmt.Sprintf("Take %s for %d points.", c.Name(), points))
	}
	return Advice{Action: Score, Message: "Pick the least bad option..."}
}

func take(c dice.Category, p dice.Scores, msg string) Advice {
	return Advice{Action: Score, Message: msg, Category: c, Points: p.Get(c)}
}

// MostFrequent returns the face appearing most often, preferring the lower
// face on a tie, and its count.
func MostFrequent(h dice.Hand) (face, count int) {
	counts := h.Counts()
	for f := 1; f <= dice.Faces; f++ {
		if counts[f] > count {
			face, count = f, counts[f]
		}
	}
	return face, count
}

func keepFace(h dice.Hand, face int) [dice.Count]bool {
	var keep [dice.Count]bool
	for i, v := range h {
		keep[i] = v == face
	}
	return keep
}
