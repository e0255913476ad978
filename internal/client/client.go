// Package client talks to a yahtzee server over WebSocket. Every request
// gets exactly one reply, so calls are synchronous.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/yahtzee/internal/server"
)

// DefaultTimeout bounds a request when the context has no deadline.
const DefaultTimeout = 10 * time.Second

// ErrClosed is returned by requests on a closed client.
var ErrClosed = errors.New("client closed")

// ServerError is an error reply from the server.
type ServerError struct {
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCode reports whether err is a ServerError with the given code.
func IsCode(err error, code string) bool {
	var se *ServerError
	return errors.As(err, &se) && se.Code == code
}

// Client is a connection to a yahtzee server. Requests are serialized.
type Client struct {
	conn    *websocket.Conn
	logger  *log.Logger
	clock   quartz.Clock
	timeout time.Duration

	mu     sync.Mutex
	seq    int
	closed bool
}

// Option configures a Client.
type Option func(*Client)

// WithClock sets the clock used for request deadlines.
func WithClock(clock quartz.Clock) Option {
	return func(c *Client) {
		c.clock = clock
	}
}

// WithTimeout sets the deadline for requests whose context has none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// Dial connects to serverURL. http and https URLs are converted to ws and
// wss, and an empty path becomes /ws.
func Dial(ctx context.Context, serverURL string, logger *log.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("invalid server URL: unsupported scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	c := &Client{
		logger:  logger.WithPrefix("client"),
		clock:   quartz.NewReal(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.logger.Info("Connecting to server", "url", u.String())
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	c.conn = conn
	return c, nil
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), c.clock.Now().Add(time.Second))
	return c.conn.Close()
}

// Do sends one request and waits for its reply. Error replies are
// returned as *ServerError. A request that times out or is cancelled
// leaves the connection unusable.
func (c *Client) Do(ctx context.Context, msgType server.MessageType, data any) (*server.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = c.clock.Now().Add(c.timeout)
	}
	// Unblock the read when ctx is cancelled
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(c.clock.Now())
	})
	defer stop()

	msg := &server.Message{Type: msgType, Timestamp: c.clock.Now()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = raw
	}
	c.seq++
	msg.RequestID = strconv.Itoa(c.seq)

	_ = c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteJSON(msg); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", msgType, err)
	}

	_ = c.conn.SetReadDeadline(deadline)
	for {
		var reply server.Message
		if err := c.conn.ReadJSON(&reply); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("failed to read reply to %s: %w", msgType, err)
		}
		if reply.RequestID != msg.RequestID {
			c.logger.Warn("Dropping unexpected reply", "type", reply.Type, "requestId", reply.RequestID)
			continue
		}
		if reply.Type == server.MessageTypeError {
			var e server.ErrorData
			if err := json.Unmarshal(reply.Data, &e); err != nil {
				return nil, fmt.Errorf("failed to parse error reply: %w", err)
			}
			return nil, &ServerError{Code: e.Code, Message: e.Message}
		}
		c.logger.Debug("Received reply", "type", reply.Type, "requestId", reply.RequestID)
		return &reply, nil
	}
}

func (c *Client) doState(ctx context.Context, msgType server.MessageType, data any) (*server.StateData, error) {
	reply, err := c.Do(ctx, msgType, data)
	if err != nil {
		return nil, err
	}
	if reply.Type != server.MessageTypeState {
		return nil, fmt.Errorf("expected %s reply, got %s", server.MessageTypeState, reply.Type)
	}
	var state server.StateData
	if err := json.Unmarshal(reply.Data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}
	return &state, nil
}

// NewGame starts a match for players. An empty rules name uses the
// server default.
func (c *Client) NewGame(ctx context.Context, players []string, rules string) (*server.StateData, error) {
	return c.doState(ctx, server.MessageTypeNew, server.NewGameData{Players: players, Rules: rules})
}

// State fetches the current match state.
func (c *Client) State(ctx context.Context) (*server.StateData, error) {
	return c.doState(ctx, server.MessageTypeState, nil)
}

// Roll rolls every unheld die.
func (c *Client) Roll(ctx context.Context) (*server.StateData, error) {
	return c.doState(ctx, server.MessageTypeRoll, nil)
}

// Hold toggles the dice at the given 0-based positions.
func (c *Client) Hold(ctx context.Context, positions ...int) (*server.StateData, error) {
	return c.doState(ctx, server.MessageTypeHold, server.HoldData{Dice: positions})
}

// Score commits the current hand to the category with the given key.
func (c *Client) Score(ctx context.Context, category string) (*server.StateData, error) {
	return c.doState(ctx, server.MessageTypeScore, server.ScoreData{Category: category})
}

// Hint asks the server's advisor what to do next.
func (c *Client) Hint(ctx context.Context) (*server.AdviceData, error) {
	reply, err := c.Do(ctx, server.MessageTypeHint, nil)
	if err != nil {
		return nil, err
	}
	if reply.Type != server.MessageTypeAdvice {
		return nil, fmt.Errorf("expected %s reply, got %s", server.MessageTypeAdvice, reply.Type)
	}
	var advice server.AdviceData
	if err := json.Unmarshal(reply.Data, &advice); err != nil {
		return nil, fmt.Errorf("failed to parse advice: %w", err)
	}
	return &advice, nil
}
