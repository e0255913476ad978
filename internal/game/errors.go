package game

import "errors"

var (
	// ErrInvalidArgument covers out of range dice indexes, bad hands and
	// unknown category keys.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState covers commits to filled categories, stale claimed
	// scores and any operation on a finished match.
	ErrInvalidState = errors.New("invalid state")

	// ErrIllegalTransition is returned for requests the turn does not allow
	// yet (or any more): rolling with no rolls left, holding or scoring
	// before the first roll. The match is left untouched.
	ErrIllegalTransition = errors.New("illegal transition")

	// ErrInvalidSnapshot is returned by Restore when a snapshot fails
	// validation. Nothing is applied.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
