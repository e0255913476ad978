package game

import (
	"time"

	"github.com/lox/yahtzee/dice"
)

// EventType represents a match event type with type safety
type EventType string

const (
	EventTypeTurnStarted    EventType = "turn_started"
	EventTypeDiceRolled     EventType = "dice_rolled"
	EventTypeHoldToggled    EventType = "hold_toggled"
	EventTypeScoreCommitted EventType = "score_committed"
	EventTypeMatchFinished  EventType = "match_finished"
)

func (et EventType) String() string {
	return string(et)
}

// GameEvent is anything a Match publishes after a state change.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// TurnStartedEvent is published when a player's turn begins.
type TurnStartedEvent struct {
	Player    string
	Round     int
	timestamp time.Time
}

func (e TurnStartedEvent) EventType() EventType { return EventTypeTurnStarted }
func (e TurnStartedEvent) Timestamp() time.Time { return e.timestamp }

// DiceRolledEvent is published after every roll.
type DiceRolledEvent struct {
	Player    string
	Hand      dice.Hand
	Held      [dice.Count]bool
	RollsLeft int
	Forced    bool
	timestamp time.Time
}

func (e DiceRolledEvent) EventType() EventType { return EventTypeDiceRolled }
func (e DiceRolledEvent) Timestamp() time.Time { return e.timestamp }

// HoldToggledEvent is published when a die is held or released.
type HoldToggledEvent struct {
	Player    string
	Index     int
	Held      bool
	timestamp time.Time
}

func (e HoldToggledEvent) EventType() EventType { return EventTypeHoldToggled }
func (e HoldToggledEvent) Timestamp() time.Time { return e.timestamp }

// ScoreCommittedEvent is published when a category is written.
type ScoreCommittedEvent struct {
	Player    string
	Round     int
	Category  dice.Category
	Points    int
	Hand      dice.Hand
	timestamp time.Time
}

func (e ScoreCommittedEvent) EventType() EventType { return EventTypeScoreCommitted }
func (e ScoreCommittedEvent) Timestamp() time.Time { return e.timestamp }

// MatchFinishedEvent is published once, after the last commit.
type MatchFinishedEvent struct {
	Standings []Standing
	Winner    Standing
	timestamp time.Time
}

func (e MatchFinishedEvent) EventType() EventType { return EventTypeMatchFinished }
func (e MatchFinishedEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to match events. Subscribers are called
// synchronously and must not mutate the match that published the event.
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber.
type EventSubscriberFunc func(event GameEvent)

func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber. Function subscribers cannot be compared
// and must be wrapped in a pointer type to be removable.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			return
		}
	}
}

func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
