// Package statistics aggregates simulated game results per seat.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/game"
)

// Statistics tracks the final standings of one seat over many games
type Statistics struct {
	Name   string
	Games  int
	Sum    float64
	Sum2   float64   // Sum of squares for variance calculation
	Values []float64 // Every total, for median/percentile calculation

	Wins     int // Games ranked first, shared wins included
	Bonuses  int // Games that earned the upper bonus
	Yahtzees int // Games with the yahtzee box scored at 50

	// Ledger: category points plus bonus points must equal Sum
	CategorySums [dice.NumCategories]int
	Scratches    [dice.NumCategories]int // Categories filled with zero
	BonusSum     int
}

// New returns empty statistics for the named seat.
func New(name string) *Statistics {
	return &Statistics{Name: name}
}

// Add incorporates one final standing and the scorecard behind it.
func (s *Statistics) Add(st game.Standing, card game.Scorecard) {
	total := float64(st.Total)
	s.Games++
	s.Sum += total
	s.Sum2 += total * total
	s.Values = append(s.Values, total)

	if st.Rank == 1 {
		s.Wins++
	}
	if st.Bonus > 0 {
		s.Bonuses++
		s.BonusSum += st.Bonus
	}

	for _, c := range dice.Categories() {
		points, _ := card.Get(c)
		s.CategorySums[c] += points
		if points == 0 {
			s.Scratches[c]++
		}
	}
	if points, _ := card.Get(dice.Yahtzee); points == dice.YahtzeeScore {
		s.Yahtzees++
	}
}

// Mean returns the average final total
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.Sum / float64(s.Games)
}

// Variance returns the sample variance of final totals
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.Sum2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median final total
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the total at the given percentile (0.0 to 1.0),
// interpolating between neighbouring values
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func (s *Statistics) rate(n int) float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(n) / float64(s.Games)
}

// WinRate is the fraction of games ranked first.
func (s *Statistics) WinRate() float64 { return s.rate(s.Wins) }

// BonusRate is the fraction of games that earned the upper bonus.
func (s *Statistics) BonusRate() float64 { return s.rate(s.Bonuses) }

// YahtzeeRate is the fraction of games with a scored yahtzee.
func (s *Statistics) YahtzeeRate() float64 { return s.rate(s.Yahtzees) }

// CategoryMean returns the average points scored in c.
func (s *Statistics) CategoryMean(c dice.Category) float64 {
	if s.Games == 0 || !c.Valid() {
		return 0
	}
	return float64(s.CategorySums[c]) / float64(s.Games)
}

// ScratchRate returns the fraction of games where c was filled with zero.
func (s *Statistics) ScratchRate(c dice.Category) float64 {
	if !c.Valid() {
		return 0
	}
	return s.rate(s.Scratches[c])
}

// IsLedgerBalanced checks that category and bonus points add up to the
// recorded totals
func (s *Statistics) IsLedgerBalanced() bool {
	points := s.BonusSum
	for _, v := range s.CategorySums {
		points += v
	}
	return math.Abs(float64(points)-s.Sum) <= 1e-6
}

// Validate checks the statistics are internally consistent
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("%s: ledger mismatch: totals=%.0f, bonus=%d", s.Name, s.Sum, s.BonusSum)
	}
	if s.Games <= 0 {
		return fmt.Errorf("%s: invalid games count: %d", s.Name, s.Games)
	}
	if len(s.Values) != s.Games {
		return fmt.Errorf("%s: values array length (%d) does not match games count (%d)",
			s.Name, len(s.Values), s.Games)
	}
	for _, n := range []int{s.Wins, s.Bonuses, s.Yahtzees} {
		if n > s.Games {
			return fmt.Errorf("%s: count %d exceeds games played (%d)", s.Name, n, s.Games)
		}
	}
	return nil
}
