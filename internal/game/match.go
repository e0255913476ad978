package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/yahtzee/dice"
)

// Phase is where the current turn stands.
type Phase int

const (
	// AwaitingRoll: no roll yet this turn, the dice mean nothing.
	AwaitingRoll Phase = iota
	// RolledAwaitingChoice: at least one roll, a score may be committed.
	RolledAwaitingChoice
	// Finished: every round has been played.
	Finished
)

func (p Phase) String() string {
	switch p {
	case AwaitingRoll:
		return "awaiting_roll"
	case RolledAwaitingChoice:
		return "awaiting_choice"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Rounds is the number of rounds in a match, one per category.
const Rounds = dice.NumCategories

// Match is the state machine for one game. Turn-scoped state (hand, held
// dice, rolls left, has-rolled) is reset at the start of every turn and is
// only changed through Match methods.
type Match struct {
	id      string
	rules   dice.Rules
	roller  Roller
	logger  *log.Logger
	bus     EventBus
	clock   quartz.Clock
	players []Player

	current int
	round   int

	hand      dice.Hand
	held      [dice.Count]bool
	rollsLeft int
	hasRolled bool
}

// NewMatch creates a match for the named players and starts the first turn.
func NewMatch(roller Roller, names []string, opts ...MatchOption) (*Match, error) {
	if roller == nil {
		return nil, fmt.Errorf("%w: roller is required", ErrInvalidArgument)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: at least one player is required", ErrInvalidArgument)
	}

	cfg := newMatchConfig(opts)
	if err := cfg.rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	players := make([]Player, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: player %d has no name", ErrInvalidArgument, i+1)
		}
		players[i] = Player{Name: name}
	}

	m := &Match{
		id:      cfg.id,
		rules:   cfg.rules,
		roller:  roller,
		logger:  cfg.logger.WithPrefix("match").With("match", cfg.id),
		bus:     cfg.eventBus,
		clock:   cfg.clock,
		players: players,
		current: 0,
		round:   1,
	}
	m.logger.Debug("Match created", "players", len(players), "rules", m.rules.Name)
	m.StartTurn()
	return m, nil
}

// ID returns the match identifier.
func (m *Match) ID() string { return m.id }

// Rules returns the scoring variant in force.
func (m *Match) Rules() dice.Rules { return m.rules }

// StartTurn resets the turn-scoped state: full rolls, nothing held, no
// roll taken, dice unset. It never advances the player or the round.
func (m *Match) StartTurn() {
	m.rollsLeft = m.rules.MaxRolls
	m.held = [dice.Count]bool{}
	m.hasRolled = false
	m.hand = dice.Hand{}

	if m.IsFinished() {
		return
	}
	player := m.players[m.current].Name
	m.logger.Debug("Turn started", "player", player, "round", m.round)
	m.publish(TurnStartedEvent{Player: player, Round: m.round, timestamp: m.clock.Now()})
}

// Roll rerolls every die that is not held, or every die when forceAll is
// set. A normal roll uses up one of the turn's rolls; a forced roll does not.
// Rolling with no rolls left returns ErrIllegalTransition and changes
// nothing.
func (m *Match) Roll(forceAll bool) error {
	if m.IsFinished() {
		return fmt.Errorf("%w: match is finished", ErrInvalidState)
	}
	if m.rollsLeft <= 0 && !forceAll {
		return fmt.Errorf("%w: no rolls left this turn", ErrIllegalTransition)
	}

	for i := range m.hand {
		if !m.held[i] || forceAll {
			m.hand[i] = m.roller.RollDie()
		}
	}
	if !forceAll {
		m.rollsLeft--
	}
	m.hasRolled = true

	player := m.players[m.current].Name
	m.logger.Debug("Dice rolled", "player", player, "hand", m.hand.String(), "rollsLeft", m.rollsLeft)
	m.publish(DiceRolledEvent{
		Player:    player,
		Hand:      m.hand,
		Held:      m.held,
		RollsLeft: m.rollsLeft,
		Forced:    forceAll,
		timestamp: m.clock.Now(),
	})
	return nil
}

// ToggleHold flips whether the die at index is kept on the next roll.
// Holding is only possible once the turn has used a roll.
func (m *Match) ToggleHold(index int) error {
	if m.IsFinished() {
		return fmt.Errorf("%w: match is finished", ErrInvalidState)
	}
	if index < 0 || index >= dice.Count {
		return fmt.Errorf("%w: die index %d outside [0,%d)", ErrInvalidArgument, index, dice.Count)
	}
	if m.rollsLeft >= m.rules.MaxRolls {
		return fmt.Errorf("%w: cannot hold dice before the first roll", ErrIllegalTransition)
	}

	m.held[index] = !m.held[index]
	m.publish(HoldToggledEvent{
		Player:    m.players[m.current].Name,
		Index:     index,
		Held:      m.held[index],
		timestamp: m.clock.Now(),
	})
	return nil
}

// SetHolds sets the held mask in one step, with the same preconditions as
// ToggleHold.
func (m *Match) SetHolds(held [dice.Count]bool) error {
	for i := range held {
		if held[i] == m.held[i] {
			continue
		}
		if err := m.ToggleHold(i); err != nil {
			return err
		}
	}
	return nil
}

// Possible returns the score table for the current hand.
func (m *Match) Possible() dice.Scores {
	return m.rules.Score(m.hand)
}

// Commit scores category for the current player from the current hand,
// then passes the turn on. The score is always recomputed here rather than
// taken from the caller. It returns the points written.
func (m *Match) Commit(category dice.Category) (int, error) {
	if m.IsFinished() {
		return 0, fmt.Errorf("%w: match is finished", ErrInvalidState)
	}
	if !category.Valid() {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArgument, category)
	}
	p := &m.players[m.current]
	if p.Card.Filled(category) {
		return 0, fmt.Errorf("%w: %s already scored for %s", ErrInvalidState, category, p.Name)
	}
	if !m.hasRolled {
		return 0, fmt.Errorf("%w: roll before scoring", ErrIllegalTransition)
	}

	points := m.Possible().Get(category)
	if err := p.Card.Set(category, points); err != nil {
		return 0, err
	}

	m.logger.Debug("Score committed", "player", p.Name, "category", category.Key(), "points", points)
	m.publish(ScoreCommittedEvent{
		Player:    p.Name,
		Round:     m.round,
		Category:  category,
		Points:    points,
		Hand:      m.hand,
		timestamp: m.clock.Now(),
	})

	m.endTurn()
	return points, nil
}

// CommitValue is Commit for callers that display a score before committing
// it: claimed must match the freshly computed score or ErrInvalidState is
// returned and nothing is written.
func (m *Match) CommitValue(category dice.Category, claimed int) (int, error) {
	if m.IsFinished() {
		return 0, fmt.Errorf("%w: match is finished", ErrInvalidState)
	}
	if !category.Valid() {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArgument, category)
	}
	if actual := m.Possible().Get(category); actual != claimed {
		return 0, fmt.Errorf("%w: %s is worth %d, not %d", ErrInvalidState, category, actual, claimed)
	}
	return m.Commit(category)
}

// CommitKey is Commit addressed by category key.
func (m *Match) CommitKey(key string) (int, error) {
	c, err := dice.ParseCategory(key)
	if err != nil {
		return 0, errors.Join(ErrInvalidArgument, err)
	}
	return m.Commit(c)
}

// endTurn is the only place the player and round advance.
func (m *Match) endTurn() {
	m.current = (m.current + 1) % len(m.players)
	if m.current == 0 {
		m.round++
	}

	if m.round > Rounds {
		m.finish()
		return
	}
	m.StartTurn()
}

func (m *Match) finish() {
	standings := m.Standings()
	winner, _ := m.Winner()
	m.logger.Debug("Match finished", "winner", winner.Player, "total", winner.Total)
	m.publish(MatchFinishedEvent{
		Standings: standings,
		Winner:    winner,
		timestamp: m.clock.Now(),
	})
}

func (m *Match) publish(event GameEvent) {
	if m.bus != nil {
		m.bus.Publish(event)
	}
}

// IsFinished reports whether all rounds have been played.
func (m *Match) IsFinished() bool {
	return m.round > Rounds
}

// Phase reports the state of the current turn.
func (m *Match) Phase() Phase {
	switch {
	case m.IsFinished():
		return Finished
	case m.hasRolled:
		return RolledAwaitingChoice
	default:
		return AwaitingRoll
	}
}

// Round returns the 1-indexed round, Rounds+1 once finished.
func (m *Match) Round() int { return m.round }

// CurrentIndex returns the index of the player whose turn it is.
func (m *Match) CurrentIndex() int { return m.current }

// CurrentPlayer returns a copy of the player whose turn it is.
func (m *Match) CurrentPlayer() Player { return m.players[m.current] }

// Players returns copies of every player in seat order.
func (m *Match) Players() []Player {
	players := make([]Player, len(m.players))
	copy(players, m.players)
	return players
}

// Hand returns the current dice.
func (m *Match) Hand() dice.Hand { return m.hand }

// Held returns the current held mask.
func (m *Match) Held() [dice.Count]bool { return m.held }

// RollsLeft returns the rolls remaining this turn.
func (m *Match) RollsLeft() int { return m.rollsLeft }

// HasRolled reports whether the current turn has rolled at least once.
func (m *Match) HasRolled() bool { return m.hasRolled }
