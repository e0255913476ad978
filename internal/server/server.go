// Package server hosts yahtzee matches over WebSocket. Every connection
// owns its own match and drives it with JSON requests.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/game"
	"github.com/lox/yahtzee/internal/randutil"
)

// DefaultIdleTimeout closes connections that stop sending requests.
const DefaultIdleTimeout = 5 * time.Minute

// DefaultMaxPlayers limits the seats in one match.
const DefaultMaxPlayers = 6

// RollerFactory supplies the dice for each new match.
type RollerFactory func() game.Roller

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock for idle timeouts and message timestamps.
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithIdleTimeout sets how long a connection may stay silent. Zero
// disables the timeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.idleTimeout = d
	}
}

// WithRules sets the variant used when a new request names none.
func WithRules(rules dice.Rules) Option {
	return func(s *Server) {
		s.rules = rules
	}
}

// WithRollerFactory replaces the random dice, mostly for tests.
func WithRollerFactory(f RollerFactory) Option {
	return func(s *Server) {
		s.newRoller = f
	}
}

// WithMaxPlayers limits how many players a match may seat.
func WithMaxPlayers(n int) Option {
	return func(s *Server) {
		s.maxPlayers = n
	}
}

// Server represents the WebSocket server
type Server struct {
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	logger      *log.Logger
	mu          sync.RWMutex

	clock       quartz.Clock
	idleTimeout time.Duration
	rules       dice.Rules
	newRoller   RollerFactory
	maxPlayers  int
	metrics     *metrics
}

// NewServer creates a new WebSocket server
func NewServer(logger *log.Logger, opts ...Option) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			// Any origin may connect; the server holds no credentials
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		logger:      logger.WithPrefix("server"),
		clock:       quartz.NewReal(),
		idleTimeout: DefaultIdleTimeout,
		rules:       dice.Classic,
		maxPlayers:  DefaultMaxPlayers,
		metrics:     newMetrics(),
	}
	s.newRoller = func() game.Roller {
		return game.NewRandRoller(randutil.New(randutil.Seed(0)))
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler serving /ws, /health and /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", s.metrics.handler())
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then closes every
// connection.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting WebSocket server", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down")
	s.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// Stop closes all connections
func (s *Server) Stop() {
	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close() // Ignore close errors during shutdown
	}
}

// ConnectionCount returns the number of open connections.
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.metrics.connections.Inc()
	s.logger.Info("Client connected", "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()
	s.metrics.connections.Dec()
	s.logger.Info("Client disconnected", "total", total)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s)
	s.register(client)
	client.Start()

	go func() {
		<-client.ctx.Done()
		s.unregister(client)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
