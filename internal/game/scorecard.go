package game

import (
	"encoding/json"
	"fmt"

	"github.com/lox/yahtzee/dice"
)

// Scorecard records the score a player wrote in each category. A category
// that has not been played is distinct from one that was scored zero.
type Scorecard struct {
	scores [dice.NumCategories]int
	filled [dice.NumCategories]bool
}

// Get returns the recorded score and whether the category has been played.
func (s *Scorecard) Get(c dice.Category) (int, bool) {
	if !c.Valid() || !s.filled[c] {
		return 0, false
	}
	return s.scores[c], true
}

// Filled reports whether c has been played.
func (s *Scorecard) Filled(c dice.Category) bool {
	return c.Valid() && s.filled[c]
}

// Open reports whether c is still available.
func (s *Scorecard) Open(c dice.Category) bool {
	return c.Valid() && !s.filled[c]
}

// Set writes a score. A played category is never overwritten.
func (s *Scorecard) Set(c dice.Category, points int) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, c)
	}
	if s.filled[c] {
		return fmt.Errorf("%w: %s already scored %d", ErrInvalidState, c, s.scores[c])
	}
	if points < 0 {
		return fmt.Errorf("%w: negative score %d for %s", ErrInvalidArgument, points, c)
	}
	s.scores[c] = points
	s.filled[c] = true
	return nil
}

// Played returns the number of filled categories.
func (s *Scorecard) Played() int {
	n := 0
	for _, f := range s.filled {
		if f {
			n++
		}
	}
	return n
}

// Complete reports whether every category has been played.
func (s *Scorecard) Complete() bool {
	return s.Played() == dice.NumCategories
}

// UpperSubtotal sums the played upper categories.
func (s *Scorecard) UpperSubtotal() int {
	sum := 0
	for c := dice.Ones; c <= dice.Sixes; c++ {
		if s.filled[c] {
			sum += s.scores[c]
		}
	}
	return sum
}

// Sum adds every played category, without bonus.
func (s *Scorecard) Sum() int {
	sum := 0
	for i, f := range s.filled {
		if f {
			sum += s.scores[i]
		}
	}
	return sum
}

// Total is Sum plus the upper bonus, which is counted once.
func (s *Scorecard) Total(rules dice.Rules) int {
	return s.Sum() + rules.Bonus(s.UpperSubtotal())
}

// Map returns the played categories and their scores.
func (s *Scorecard) Map() map[dice.Category]int {
	m := make(map[dice.Category]int)
	for i, f := range s.filled {
		if f {
			m[dice.Category(i)] = s.scores[i]
		}
	}
	return m
}

// MarshalJSON encodes only played categories, keyed by category key.
func (s Scorecard) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

// UnmarshalJSON decodes a {key: score} object.
func (s *Scorecard) UnmarshalJSON(data []byte) error {
	var m map[dice.Category]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var card Scorecard
	for c, v := range m {
		if err := card.Set(c, v); err != nil {
			return err
		}
	}
	*s = card
	return nil
}

// Player is a name and a scorecard. Players are never removed mid-match.
type Player struct {
	Name string    `json:"name"`
	Card Scorecard `json:"scores"`
}
