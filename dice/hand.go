package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Count is the number of dice in a hand.
	Count = 5
	// Faces is the number of faces on each die.
	Faces = 6
	// Unset marks a die that has not been rolled this turn.
	Unset = 0
)

// ErrInvalidHand is returned for hands with the wrong length or out of range values.
var ErrInvalidHand = errors.New("invalid hand")

// Hand holds the face values of the dice. A zero value means not yet rolled.
type Hand [Count]int

// Counts returns a frequency table indexed by face (index 0 is unused).
// Unset dice are not counted.
func (h Hand) Counts() [Faces + 1]int {
	var counts [Faces + 1]int
	for _, v := range h {
		if v >= 1 && v <= Faces {
			counts[v]++
		}
	}
	return counts
}

// Sum returns the total of all rolled dice.
func (h Hand) Sum() int {
	sum := 0
	for _, v := range h {
		if v >= 1 && v <= Faces {
			sum += v
		}
	}
	return sum
}

// Rolled reports whether every die carries a face value.
func (h Hand) Rolled() bool {
	for _, v := range h {
		if v < 1 || v > Faces {
			return false
		}
	}
	return true
}

// Validate checks that every value is a face or Unset.
func (h Hand) Validate() error {
	for i, v := range h {
		if v < Unset || v > Faces {
			return fmt.Errorf("%w: die %d has value %d", ErrInvalidHand, i+1, v)
		}
	}
	return nil
}

func (h Hand) String() string {
	var sb strings.Builder
	for i, v := range h {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if v == Unset {
			sb.WriteByte('-')
			continue
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

// ParseHand parses five faces written as "22255", "2,2,2,5,5" or "2 2 2 5 5".
func ParseHand(s string) (Hand, error) {
	var h Hand
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 1 && len(fields[0]) == Count {
		fields = strings.Split(fields[0], "")
	}
	if len(fields) != Count {
		return h, fmt.Errorf("%w: expected %d dice, got %d", ErrInvalidHand, Count, len(fields))
	}
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return h, fmt.Errorf("%w: %q is not a number", ErrInvalidHand, f)
		}
		if v < 1 || v > Faces {
			return h, fmt.Errorf("%w: %d is not a die face", ErrInvalidHand, v)
		}
		h[i] = v
	}
	return h, nil
}

// HandFromSlice copies values into a Hand, checking the length and range.
func HandFromSlice(values []int) (Hand, error) {
	var h Hand
	if len(values) != Count {
		return h, fmt.Errorf("%w: expected %d dice, got %d", ErrInvalidHand, Count, len(values))
	}
	copy(h[:], values)
	return h, h.Validate()
}
