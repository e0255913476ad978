package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/advisor"
	"github.com/lox/yahtzee/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection is one WebSocket client and the match it is playing. Only
// readPump touches the match.
type Connection struct {
	conn      *websocket.Conn
	server    *Server
	send      chan *Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	idle      *quartz.Timer

	match   *game.Match
	advisor advisor.Strategy
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, server *Server) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:    conn,
		server:  server,
		send:    make(chan *Message, 64),
		logger:  server.logger.WithPrefix("conn").With("remote", conn.RemoteAddr().String()),
		ctx:     ctx,
		cancel:  cancel,
		advisor: advisor.NewHeuristic(),
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	if c.server.idleTimeout > 0 {
		c.idle = c.server.clock.AfterFunc(c.server.idleTimeout, func() {
			c.logger.Info("Closing idle connection", "timeout", c.server.idleTimeout)
			_ = c.Close()
		})
	}
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.idle != nil {
			c.idle.Stop()
		}
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues msg for the writer
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.sendError(&msg, CodeInvalidMessage, "Malformed JSON")
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if c.idle != nil {
			c.idle.Reset(c.server.idleTimeout)
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}

// handleMessage processes one request and always sends exactly one reply
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "requestId", msg.RequestID)

	switch msg.Type {
	case MessageTypeNew:
		var data NewGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, CodeInvalidMessage, "Failed to parse new game data")
			return
		}
		c.reply(msg, nil, c.handleNew(data))

	case MessageTypeState:
		c.reply(msg, nil, c.requireMatch())

	case MessageTypeRoll:
		err := c.requireMatch()
		if err == nil {
			err = c.match.Roll(false)
		}
		c.reply(msg, nil, err)

	case MessageTypeHold:
		var data HoldData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, CodeInvalidMessage, "Failed to parse hold data")
			return
		}
		c.reply(msg, nil, c.handleHold(data))

	case MessageTypeScore:
		var data ScoreData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, CodeInvalidMessage, "Failed to parse score data")
			return
		}
		scored, err := c.handleScore(data)
		c.reply(msg, scored, err)

	case MessageTypeHint:
		if err := c.requireMatch(); err != nil {
			c.reply(msg, nil, err)
			return
		}
		if c.match.IsFinished() {
			c.reply(msg, nil, fmt.Errorf("%w: match is finished", game.ErrInvalidState))
			return
		}
		c.server.metrics.observe(msg.Type, resultOK)
		c.sendData(msg.RequestID, MessageTypeAdvice, newAdviceData(c.advisor.Advise(c.match.View())))

	default:
		c.sendError(msg, CodeUnknownMessageType, "Unknown message type: "+msg.Type.String())
	}
}

var errNoMatch = errors.New("no match started, send a new request first")

func (c *Connection) requireMatch() error {
	if c.match == nil {
		return errNoMatch
	}
	return nil
}

func (c *Connection) handleNew(data NewGameData) error {
	if len(data.Players) > c.server.maxPlayers {
		return fmt.Errorf("%w: at most %d players", game.ErrInvalidArgument, c.server.maxPlayers)
	}
	rules := c.server.rules
	if data.Rules != "" {
		r, err := dice.LookupRules(data.Rules)
		if err != nil {
			return errors.Join(game.ErrInvalidArgument, err)
		}
		rules = r
	}

	m, err := game.NewMatch(c.server.newRoller(), data.Players,
		game.WithRules(rules),
		game.WithClock(c.server.clock),
		game.WithLogger(c.logger),
	)
	if err != nil {
		return err
	}
	c.match = m
	c.server.metrics.matchesStarted.Inc()
	c.logger.Info("Match started", "match", m.ID(), "players", len(data.Players), "rules", rules.Name)
	return nil
}

func (c *Connection) handleHold(data HoldData) error {
	if err := c.requireMatch(); err != nil {
		return err
	}
	if len(data.Dice) == 0 {
		return fmt.Errorf("%w: no dice given", game.ErrInvalidArgument)
	}
	// Validate every index first so a bad request changes nothing
	for _, i := range data.Dice {
		if i < 0 || i >= dice.Count {
			return fmt.Errorf("%w: die index %d outside [0,%d)", game.ErrInvalidArgument, i, dice.Count)
		}
	}
	for _, i := range data.Dice {
		if err := c.match.ToggleHold(i); err != nil {
			return err
		}
	}
	return nil
}

func (c *Connection) handleScore(data ScoreData) (*ScoredData, error) {
	if err := c.requireMatch(); err != nil {
		return nil, err
	}
	player := c.match.CurrentPlayer().Name
	points, err := c.match.CommitKey(data.Category)
	if err != nil {
		return nil, err
	}
	if c.match.IsFinished() {
		c.server.metrics.matchesFinished.Inc()
		c.logger.Info("Match finished", "match", c.match.ID())
	}
	return &ScoredData{Player: player, Category: data.Category, Points: points}, nil
}

// reply sends the match state, or the error that prevented the request
func (c *Connection) reply(req *Message, scored *ScoredData, err error) {
	if err != nil {
		code := errorCode(err)
		c.logger.Debug("Request failed", "code", code, "error", err)
		c.sendError(req, code, err.Error())
		return
	}
	c.server.metrics.observe(req.Type, resultOK)

	state := StateData{
		Snapshot:  c.match.Snapshot(),
		Standings: c.match.Standings(),
		Finished:  c.match.IsFinished(),
		Scored:    scored,
	}
	if c.match.HasRolled() && !state.Finished {
		state.Possible = make(map[string]int, dice.NumCategories)
		for cat, v := range c.match.Possible().Map() {
			state.Possible[cat.Key()] = v
		}
	}
	c.sendData(req.RequestID, MessageTypeState, state)
}

// errorCode maps match errors onto the codes clients switch on
func errorCode(err error) string {
	switch {
	case errors.Is(err, errNoMatch):
		return CodeNoMatch
	case errors.Is(err, game.ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, game.ErrIllegalTransition):
		return CodeIllegalTransition
	case errors.Is(err, game.ErrInvalidState):
		return CodeInvalidState
	default:
		return CodeInternal
	}
}

func (c *Connection) sendData(requestID string, messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data, c.server.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	msg.RequestID = requestID
	_ = c.SendMessage(msg)
}

// sendError answers req with an error message
func (c *Connection) sendError(req *Message, code, message string) {
	c.server.metrics.observe(req.Type, code)
	c.sendData(req.RequestID, MessageTypeError, ErrorData{Code: code, Message: message})
}
