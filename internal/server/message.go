package server

import (
	"encoding/json"
	"time"

	"github.com/lox/yahtzee/internal/advisor"
	"github.com/lox/yahtzee/internal/game"
)

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeNew   MessageType = "new"
	MessageTypeRoll  MessageType = "roll"
	MessageTypeHold  MessageType = "hold"
	MessageTypeScore MessageType = "score"
	MessageTypeHint  MessageType = "hint"
	MessageTypeState MessageType = "state"

	// Server to client messages; state replies reuse MessageTypeState
	MessageTypeAdvice MessageType = "advice"
	MessageTypeError  MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Error codes sent in ErrorData
const (
	CodeInvalidMessage     = "invalid_message"
	CodeUnknownMessageType = "unknown_message_type"
	CodeNoMatch            = "no_match"
	CodeInvalidArgument    = "invalid_argument"
	CodeInvalidState       = "invalid_state"
	CodeIllegalTransition  = "illegal_transition"
	CodeInternal           = "internal"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a message stamped with now
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
	}, nil
}

// Client → Server Messages

// NewGameData starts a match, replacing any match on the connection.
type NewGameData struct {
	Players []string `json:"players"`
	Rules   string   `json:"rules,omitempty"`
}

// HoldData toggles the dice at the given 0-based positions.
type HoldData struct {
	Dice []int `json:"dice"`
}

type ScoreData struct {
	Category string `json:"category"`
}

// Server → Client Messages

// StateData is the reply to every successful game request.
type StateData struct {
	Snapshot  game.Snapshot   `json:"snapshot"`
	Possible  map[string]int  `json:"possible,omitempty"`
	Standings []game.Standing `json:"standings"`
	Finished  bool            `json:"finished"`
	Scored    *ScoredData     `json:"scored,omitempty"`
}

// ScoredData reports the commit that produced a state reply.
type ScoredData struct {
	Player   string `json:"player"`
	Category string `json:"category"`
	Points   int    `json:"points"`
}

type AdviceData struct {
	Action   string `json:"action"`
	Message  string `json:"message"`
	Category string `json:"category,omitempty"`
	Points   int    `json:"points,omitempty"`
	Keep     []int  `json:"keep,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newAdviceData(a advisor.Advice) AdviceData {
	data := AdviceData{Action: a.Action.String(), Message: a.Message}
	switch a.Action {
	case advisor.Score:
		data.Category = a.Category.Key()
		data.Points = a.Points
	case advisor.Hold:
		for i, keep := range a.Keep {
			if keep {
				data.Keep = append(data.Keep, i)
			}
		}
	}
	return data
}
