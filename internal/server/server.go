package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/gesturejack/internal/game"
	"github.com/lox/gesturejack/internal/gesture"
	"github.com/lox/gesturejack/internal/settings"
)

// Server accepts WebSocket clients and gives each one its own game
// session. Gesture settings are shared across sessions through the
// settings store.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	baseLogger  *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	clock       quartz.Clock
	store       *settings.Store

	tableOpts    []game.TableOption
	pipelineOpts []gesture.PipelineOption
}

// ServerOption configures the server
type ServerOption func(*Server)

// WithClock replaces the wall clock, for tests
func WithClock(clock quartz.Clock) ServerOption {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithTableOptions sets extra options applied to every session's table
func WithTableOptions(opts ...game.TableOption) ServerOption {
	return func(s *Server) {
		s.tableOpts = opts
	}
}

// WithPipelineOptions sets extra options applied to every session's
// gesture pipeline
func WithPipelineOptions(opts ...gesture.PipelineOption) ServerOption {
	return func(s *Server) {
		s.pipelineOpts = opts
	}
}

// NewServer creates a WebSocket server
func NewServer(addr string, logger *log.Logger, store *settings.Store, opts ...ServerOption) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				// In production, implement proper origin checking
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		baseLogger:  logger,
		ctx:         ctx,
		cancel:      cancel,
		clock:       quartz.NewReal(),
		store:       store,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler returns the server's HTTP handler, for mounting under a
// test server or an existing mux
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Serve runs the server until the context is cancelled, then drains
// connections and shuts the listener down.
func (s *Server) Serve(ctx context.Context) error {
	go s.run()

	httpServer := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting WebSocket server", "addr", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Stop closes all connections and stops the connection registry
func (s *Server) Stop() {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()
}

// ConnectionCount returns the number of live connections
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "session", conn.session.ID(), "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client disconnected", "session", conn.session.ID(), "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, SessionConfig{
		Logger:          s.baseLogger,
		Clock:           s.clock,
		Store:           s.store,
		TableOptions:    s.tableOpts,
		PipelineOptions: s.pipelineOpts,
	})
	s.register <- client
	client.Start()

	// Connection cleanup is handled by the connection itself
	go func() {
		<-client.ctx.Done()
		s.unregister <- client
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
