package game

import (
	rand "math/rand/v2"

	"github.com/lox/yahtzee/dice"
)

// Roller is the only source of die values in a match.
type Roller interface {
	// RollDie returns a face in [1, dice.Faces].
	RollDie() int
}

// RandRoller draws uniform faces from a *rand.Rand.
type RandRoller struct {
	rng *rand.Rand
}

// NewRandRoller wraps rng. It panics on a nil rng so missing randomness is
// caught at construction rather than on the first roll.
func NewRandRoller(rng *rand.Rand) *RandRoller {
	if rng == nil {
		panic("rng is required for a roller")
	}
	return &RandRoller{rng: rng}
}

func (r *RandRoller) RollDie() int {
	return r.rng.IntN(dice.Faces) + 1
}

// SequenceRoller replays a fixed list of faces, cycling when exhausted.
type SequenceRoller struct {
	faces []int
	next  int
}

// NewSequenceRoller returns a roller yielding faces in order.
func NewSequenceRoller(faces ...int) *SequenceRoller {
	if len(faces) == 0 {
		panic("sequence roller needs at least one face")
	}
	return &SequenceRoller{faces: faces}
}

func (r *SequenceRoller) RollDie() int {
	v := r.faces[r.next%len(r.faces)]
	r.next++
	return v
}

// Rolled returns how many faces have been drawn.
func (r *SequenceRoller) Rolled() int { return r.next }
