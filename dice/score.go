package dice

import "encoding/json"

// Scores holds the points each category would yield for one hand.
type Scores [NumCategories]int

// Get returns the score for c, or 0 for an invalid category.
func (s Scores) Get(c Category) int {
	if !c.Valid() {
		return 0
	}
	return s[c]
}

// Best returns the highest scoring category accepted by open. Ties go to the
// category that comes first on the scorecard. ok is false when open accepts
// nothing.
func (s Scores) Best(open func(Category) bool) (best Category, points int, ok bool) {
	points = -1
	for i, v := range s {
		c := Category(i)
		if open != nil && !open(c) {
			continue
		}
		if v > points {
			best, points, ok = c, v, true
		}
	}
	if !ok {
		points = 0
	}
	return best, points, ok
}

// Map returns the scores keyed by category.
func (s Scores) Map() map[Category]int {
	m := make(map[Category]int, NumCategories)
	for i, v := range s {
		m[Category(i)] = v
	}
	return m
}

// MarshalJSON encodes the table as an object keyed by category key.
func (s Scores) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

// Score computes every category for h under the Classic rules.
func Score(h Hand) Scores {
	return Classic.Score(h)
}

// Score computes every category for h. It is pure: the result depends only on
// the multiset of faces in h. Unset dice contribute nothing.
func (r Rules) Score(h Hand) Scores {
	var s Scores

	counts := h.Counts()
	sum := h.Sum()

	for face := 1; face <= Faces; face++ {
		s[face-1] = counts[face] * face
	}

	maxCount := 0
	hasTriple, hasPair := false, false
	for face := 1; face <= Faces; face++ {
		c := counts[face]
		maxCount = max(maxCount, c)
		switch c {
		case 3:
			hasTriple = true
		case 2:
			hasPair = true
		}
	}

	yahtzee := maxCount == Count
	if maxCount >= 3 {
		s[ThreeKind] = sum
	}
	if maxCount >= 4 {
		s[FourKind] = sum
	}
	if yahtzee {
		s[Yahtzee] = YahtzeeScore
	}
	if (hasTriple && hasPair) || (yahtzee && r.YahtzeeIsFullHouse) {
		s[FullHouse] = FullHouseScore
	}

	run := LongestRun(h)
	if run >= r.SmallStraightRun {
		s[SmallStraight] = SmallStraightScore
	}
	if run >= Count {
		s[LargeStraight] = LargeStraightScore
	}

	s[Chance] = sum
	return s
}

// LongestRun returns the length of the longest sequence of consecutive
// distinct faces in h.
func LongestRun(h Hand) int {
	counts := h.Counts()
	longest, current := 0, 0
	for face := 1; face <= Faces; face++ {
		if counts[face] == 0 {
			current = 0
			continue
		}
		current++
		longest = max(longest, current)
	}
	return longest
}
