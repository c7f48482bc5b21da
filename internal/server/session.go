package server

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/gesturejack/internal/game"
	"github.com/lox/gesturejack/internal/gesture"
	"github.com/lox/gesturejack/internal/settings"
)

// Session owns the per-client game state: one table, one gesture
// pipeline fed by samples the client pushes, and the dispatcher joining
// them. Outbound traffic goes through the send callback, which must be
// safe to call from any goroutine and must never call back into the
// session.
type Session struct {
	id         string
	logger     *log.Logger
	clock      quartz.Clock
	store      *settings.Store
	table      *game.Table
	remote     *gesture.Remote
	pipeline   *gesture.Pipeline
	dispatcher *gesture.Dispatcher
	send       func(*Message)
	lastState  gesture.State
}

// SessionConfig carries session construction parameters
type SessionConfig struct {
	Logger *log.Logger
	Clock  quartz.Clock
	Store  *settings.Store
	Send   func(*Message)

	// TableOptions are applied on top of the session's own clock and
	// event bus wiring
	TableOptions []game.TableOption

	// PipelineOptions are applied on top of the session's clock
	PipelineOptions []gesture.PipelineOption
}

// NewSession creates a session with a fresh table and gesture pipeline
func NewSession(cfg SessionConfig) *Session {
	clock := cfg.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}

	s := &Session{
		id:     uuid.NewString(),
		logger: cfg.Logger.WithPrefix("session"),
		clock:  clock,
		store:  cfg.Store,
		send:   cfg.Send,
	}

	bus := game.NewEventBus()
	bus.Subscribe(game.SubscriberFunc(s.onGameEvent))

	tableOpts := append([]game.TableOption{
		game.WithClock(clock),
		game.WithEventBus(bus),
	}, cfg.TableOptions...)
	s.table = game.NewTable(cfg.Logger, tableOpts...)

	s.remote = gesture.NewRemote(clock, gesture.DefaultSampleMaxAge)
	s.dispatcher = gesture.NewDispatcher(cfg.Logger, s.table, cfg.Store)

	pipelineOpts := append([]gesture.PipelineOption{
		gesture.WithClock(clock),
	}, cfg.PipelineOptions...)
	s.pipeline = gesture.NewPipeline(cfg.Logger, s.remote, cfg.Store, s.onTrigger, pipelineOpts...)

	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Run drives the gesture pipeline until the context is cancelled
func (s *Session) Run(ctx context.Context) error {
	return s.pipeline.Run(ctx)
}

// onGameEvent forwards round events to the client. Called with the table
// lock held, so it must not call back into the table.
func (s *Session) onGameEvent(event game.Event) {
	if msg := EventMessage(event); msg != nil {
		s.send(msg)
	}
}

// onTrigger runs on the pipeline goroutine when a hold is confirmed
func (s *Session) onTrigger(tr gesture.Trigger) {
	action, ok := s.dispatcher.HandleTrigger(tr)
	if !ok {
		return
	}

	if msg, err := NewMessage(MessageTypeActionTriggered, ActionTriggeredData{
		Gesture: tr.Label,
		Action:  string(action),
	}); err == nil {
		s.send(msg)
	}
	s.SendState("")
}

// PushSample records a gesture classification from the client and then
// notifies progress, so the hold indicator tracks the sample stream even
// between pipeline ticks.
func (s *Session) PushSample(name string, confidence float64) {
	s.remote.Push(gesture.Sample{Name: name, Confidence: confidence})
	s.sendProgress()
}

func (s *Session) sendProgress() {
	state := s.pipeline.State()
	if state == gesture.StateIdle && s.lastState == gesture.StateIdle {
		return
	}
	s.lastState = state

	msg, err := NewMessage(MessageTypeGestureProgress, GestureProgressData{
		State:    state.String(),
		Gesture:  s.pipeline.TrackedLabel(),
		Progress: s.pipeline.Progress(),
	})
	if err != nil {
		return
	}
	s.send(msg)
}

// SendState sends the masked table snapshot, echoing the request id of
// the message that asked for it.
func (s *Session) SendState(requestID string) {
	msg, err := NewMessage(MessageTypeState, StateData{State: MaskSnapshot(s.table.Snapshot())})
	if err != nil {
		s.logger.Error("failed to encode state", "error", err)
		return
	}
	msg.RequestID = requestID
	s.send(msg)
}

// PlaceBet starts a round. Rejections surface as an unchanged state
// snapshot, matching the table's guarded no-op semantics.
func (s *Session) PlaceBet(amount int) {
	s.table.Deal(amount)
	s.SendState("")
}

// Hit draws a card for the player
func (s *Session) Hit() {
	s.table.Hit()
	s.SendState("")
}

// Stand ends the player's turn and plays out the dealer
func (s *Session) Stand() {
	s.table.Stand()
	s.SendState("")
}

// Double doubles the bet and draws exactly one card
func (s *Session) Double() {
	s.table.Double()
	s.SendState("")
}

// NextRound advances from settlement back to betting
func (s *Session) NextRound() {
	s.table.NextRound()
	s.SendState("")
}

// Reset restores the starting balance and clears statistics
func (s *Session) Reset() {
	s.table.Reset()
	s.SendState("")
}

// UpdateSettings validates and applies new gesture settings
func (s *Session) UpdateSettings(next settings.Settings) error {
	return s.store.Update(next)
}

// Settings returns the live gesture settings
func (s *Session) Settings() settings.Settings {
	return s.store.Get()
}

// GestureStats summarizes recent detection activity
func (s *Session) GestureStats() gesture.DetectionSummary {
	return s.pipeline.Stats()
}
