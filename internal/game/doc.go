// Package game implements the turn and round state machine for a match of
// dice poker in the Yahtzee family.
//
// The main type is Match, which owns the roster, the current turn (dice,
// held dice, rolls left) and every player's scorecard. Scoring itself lives
// in the dice package; Match only decides when a score may be written.
//
// # Basic Usage
//
//	rng := randutil.New(42)
//	m, err := game.NewMatch(game.NewRandRoller(rng), []string{"Alice", "Bob"})
//	// Each turn: roll up to three times, holding dice in between
//	m.Roll(false)
//	m.ToggleHold(0)
//	m.Roll(false)
//	// Write a category for the current player and pass the turn on
//	m.Commit(dice.FullHouse)
//	if m.IsFinished() {
//	    winner, _ := m.Winner()
//	}
//
// # Deterministic Testing
//
// Dice come from a Roller. Tests can supply a SequenceRoller to get exact
// hands:
//
//	m, _ := game.NewMatch(game.NewSequenceRoller(2, 2, 2, 5, 5), names)
//
// # Persistence
//
// Match performs no I/O. Snapshot returns the full state as a plain value
// and Restore validates one and rebuilds a Match from it.
//
// A Match is not safe for concurrent use. Each concurrent game owns its own
// Match.
package game
