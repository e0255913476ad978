package dice

import (
	"errors"
	"fmt"
)

// ErrUnknownCategory is returned when a category key is not one of the
// thirteen scoring categories.
var ErrUnknownCategory = errors.New("unknown category")

// Section groups categories on the scorecard.
type Section uint8

const (
	Upper Section = iota
	Lower
)

func (s Section) String() string {
	if s == Upper {
		return "upper"
	}
	return "lower"
}

// Category is one of the thirteen scoring rules, in scorecard order.
type Category uint8

const (
	Ones Category = iota
	Twos
	Threes
	Fours
	Fives
	Sixes
	ThreeKind
	FourKind
	FullHouse
	SmallStraight
	LargeStraight
	Yahtzee
	Chance
)

// NumCategories is the number of categories and therefore rounds in a match.
const NumCategories = 13

// The keys are part of the persisted snapshot format and must not change.
var categoryKeys = [NumCategories]string{
	"ones", "twos", "threes", "fours", "fives", "sixes",
	"threeKind", "fourKind", "fullHouse", "smallStraight", "largeStraight", "yahtzee", "chance",
}

var categoryNames = [NumCategories]string{
	"Ones", "Twos", "Threes", "Fours", "Fives", "Sixes",
	"3 of a Kind", "4 of a Kind", "Full House", "Small Straight", "Large Straight", "Yahtzee", "Chance",
}

// Categories returns every category in scorecard order.
func Categories() []Category {
	cats := make([]Category, NumCategories)
	for i := range cats {
		cats[i] = Category(i)
	}
	return cats
}

// UpperCategory returns the upper category scoring the given face (1-6).
func UpperCategory(face int) (Category, bool) {
	if face < 1 || face > Faces {
		return 0, false
	}
	return Category(face - 1), true
}

// Valid reports whether c is one of the thirteen categories.
func (c Category) Valid() bool { return c < NumCategories }

// Key returns the stable identifier used in snapshots and commands.
func (c Category) Key() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", c)
	}
	return categoryKeys[c]
}

// Name returns the display name.
func (c Category) Name() string {
	if !c.Valid() {
		return c.Key()
	}
	return categoryNames[c]
}

func (c Category) String() string { return c.Key() }

// Section reports which half of the scorecard c belongs to.
func (c Category) Section() Section {
	if c <= Sixes {
		return Upper
	}
	return Lower
}

// Face returns the die face an upper category counts, or 0 for lower categories.
func (c Category) Face() int {
	if c.Section() != Upper {
		return 0
	}
	return int(c) + 1
}

// MarshalText encodes the category as its key, so maps keyed by Category
// serialize as {"ones": 3, ...}.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, c)
	}
	return []byte(categoryKeys[c]), nil
}

// UnmarshalText decodes a category key.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory resolves a category key such as "fullHouse".
func ParseCategory(key string) (Category, error) {
	for i, k := range categoryKeys {
		if k == key {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
}
