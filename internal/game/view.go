package game

import "github.com/lox/yahtzee/dice"

// View is a read-only copy of the current turn, for advisors and bots.
// Changing a View has no effect on the Match it came from.
type View struct {
	Player    string
	Round     int
	Hand      dice.Hand
	Held      [dice.Count]bool
	RollsLeft int
	HasRolled bool
	Card      Scorecard
	Possible  dice.Scores
	Rules     dice.Rules
}

// View captures the current turn.
func (m *Match) View() View {
	p := m.players[m.current]
	return View{
		Player:    p.Name,
		Round:     m.round,
		Hand:      m.hand,
		Held:      m.held,
		RollsLeft: m.rollsLeft,
		HasRolled: m.hasRolled,
		Card:      p.Card,
		Possible:  m.Possible(),
		Rules:     m.rules,
	}
}

// Open reports whether the viewed player can still score c.
func (v View) Open(c dice.Category) bool {
	return v.Card.Open(c)
}

// OpenCategories lists the categories the viewed player can still score.
func (v View) OpenCategories() []dice.Category {
	var open []dice.Category
	for _, c := range dice.Categories() {
		if v.Open(c) {
			open = append(open, c)
		}
	}
	return open
}

// BestOpen returns the highest scoring open category for the current hand.
func (v View) BestOpen() (dice.Category, int, bool) {
	return v.Possible.Best(v.Open)
}
