package game

import (
	"fmt"
	"slices"

	"github.com/lox/yahtzee/dice"
)

// Snapshot is the complete serializable state of a Match. The JSON field
// names and category keys are a persisted format.
type Snapshot struct {
	ID                 string           `json:"id,omitempty"`
	Rules              string           `json:"rules,omitempty"`
	Players            []PlayerSnapshot `json:"players"`
	CurrentPlayerIndex int              `json:"currentPlayerIndex"`
	CurrentRound       int              `json:"currentRound"`
	Dice               []int            `json:"dice"`
	HeldDice           []bool           `json:"heldDice"`
	RollsLeft          int              `json:"rollsLeft"`
	HasRolled          bool             `json:"hasRolled"`
}

// PlayerSnapshot is a player and their played categories.
type PlayerSnapshot struct {
	Name   string         `json:"name"`
	Scores map[string]int `json:"scores"`
}

// Snapshot captures the full match state.
func (m *Match) Snapshot() Snapshot {
	players := make([]PlayerSnapshot, len(m.players))
	for i, p := range m.players {
		scores := make(map[string]int)
		for c, v := range p.Card.Map() {
			scores[c.Key()] = v
		}
		players[i] = PlayerSnapshot{Name: p.Name, Scores: scores}
	}
	return Snapshot{
		ID:                 m.id,
		Rules:              m.rules.Name,
		Players:            players,
		CurrentPlayerIndex: m.current,
		CurrentRound:       m.round,
		Dice:               append([]int(nil), m.hand[:]...),
		HeldDice:           append([]bool(nil), m.held[:]...),
		RollsLeft:          m.rollsLeft,
		HasRolled:          m.hasRolled,
	}
}

// Restore rebuilds a Match from a snapshot. The snapshot's rules name picks
// the variant unless WithRules is given. Any inconsistency rejects the whole
// snapshot with ErrInvalidSnapshot.
func Restore(s Snapshot, roller Roller, opts ...MatchOption) (*Match, error) {
	if roller == nil {
		return nil, fmt.Errorf("%w: roller is required", ErrInvalidArgument)
	}
	if s.ID != "" {
		opts = append([]MatchOption{WithID(s.ID)}, opts...)
	}
	cfg := newMatchConfig(opts)
	if !cfg.rulesSet {
		rules, err := dice.LookupRules(s.Rules)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		cfg.rules = rules
	}
	if err := cfg.rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	players, err := validateSnapshot(s, cfg.rules)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	m := &Match{
		id:        cfg.id,
		rules:     cfg.rules,
		roller:    roller,
		logger:    cfg.logger.WithPrefix("match").With("match", cfg.id),
		bus:       cfg.eventBus,
		clock:     cfg.clock,
		players:   players,
		current:   s.CurrentPlayerIndex,
		round:     s.CurrentRound,
		rollsLeft: s.RollsLeft,
		hasRolled: s.HasRolled,
	}
	copy(m.hand[:], s.Dice)
	copy(m.held[:], s.HeldDice)
	m.logger.Debug("Match restored", "round", m.round, "player", m.players[m.current].Name)
	return m, nil
}

func validateSnapshot(s Snapshot, rules dice.Rules) ([]Player, error) {
	if len(s.Players) == 0 {
		return nil, fmt.Errorf("no players")
	}
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return nil, fmt.Errorf("current player %d out of range for %d players", s.CurrentPlayerIndex, len(s.Players))
	}
	if s.CurrentRound < 1 || s.CurrentRound > Rounds+1 {
		return nil, fmt.Errorf("round %d outside [1,%d]", s.CurrentRound, Rounds+1)
	}
	if s.CurrentRound == Rounds+1 && s.CurrentPlayerIndex != 0 {
		return nil, fmt.Errorf("finished match must point at the first player")
	}
	if len(s.Dice) != dice.Count {
		return nil, fmt.Errorf("expected %d dice, got %d", dice.Count, len(s.Dice))
	}
	if len(s.HeldDice) != dice.Count {
		return nil, fmt.Errorf("expected %d held flags, got %d", dice.Count, len(s.HeldDice))
	}
	if s.RollsLeft < 0 || s.RollsLeft > rules.MaxRolls {
		return nil, fmt.Errorf("rolls left %d outside [0,%d]", s.RollsLeft, rules.MaxRolls)
	}

	hand, err := dice.HandFromSlice(s.Dice)
	if err != nil {
		return nil, err
	}
	if s.HasRolled && !hand.Rolled() {
		return nil, fmt.Errorf("turn has rolled but dice %v are unset", s.Dice)
	}
	if !s.HasRolled && s.RollsLeft != rules.MaxRolls {
		return nil, fmt.Errorf("turn has not rolled but only %d rolls left", s.RollsLeft)
	}
	if !s.HasRolled && hand != (dice.Hand{}) {
		return nil, fmt.Errorf("turn has not rolled but dice are %v", s.Dice)
	}
	// Same rule as ToggleHold: nothing can be held before the first roll
	if s.RollsLeft >= rules.MaxRolls && slices.Contains(s.HeldDice, true) {
		return nil, fmt.Errorf("dice %v held before the first roll", s.HeldDice)
	}

	players := make([]Player, len(s.Players))
	for i, ps := range s.Players {
		if ps.Name == "" {
			return nil, fmt.Errorf("player %d has no name", i+1)
		}
		players[i].Name = ps.Name
		for key, v := range ps.Scores {
			c, err := dice.ParseCategory(key)
			if err != nil {
				return nil, fmt.Errorf("player %q: %w", ps.Name, err)
			}
			if err := players[i].Card.Set(c, v); err != nil {
				return nil, fmt.Errorf("player %q: %w", ps.Name, err)
			}
		}

		// Round and seat advance in lockstep with commits, so the number of
		// played categories is fixed by the position in the match.
		want := s.CurrentRound - 1
		if i < s.CurrentPlayerIndex {
			want++
		}
		if got := players[i].Card.Played(); got != want {
			return nil, fmt.Errorf("player %q has %d categories played, expected %d in round %d", ps.Name, got, want, s.CurrentRound)
		}
	}
	return players, nil
}
