package gesture

import (
	"context"
	"sync"
	"time"
)

// Scripted is a recognizer that replays a fixed sequence of samples, one
// per Recognize call, then reports nothing detected. Nil entries in the
// script model frames with no hand. Used by tests and the simulate
// command in place of the real ML backend.
type Scripted struct {
	mu      sync.Mutex
	script  []*Sample
	idx     int
	current *Sample
	initErr error
	closed  bool
}

// NewScripted creates a scripted recognizer
func NewScripted(script ...*Sample) *Scripted {
	return &Scripted{script: script}
}

// FailInit makes the next Init call fail with the given error, for
// exercising camera/backend failure paths
func (s *Scripted) FailInit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initErr = err
}

// SetCurrent pins the recognizer to always report the given sample
// (nil clears the pin and resumes the script)
func (s *Scripted) SetCurrent(sample *Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sample
}

// Init implements Recognizer
func (s *Scripted) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = false
	return s.initErr
}

// Recognize implements Recognizer
func (s *Scripted) Recognize(at time.Time) *Sample {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	if s.current != nil {
		out := *s.current
		out.At = at
		return &out
	}

	if s.idx >= len(s.script) {
		return nil
	}

	next := s.script[s.idx]
	s.idx++
	if next == nil {
		return nil
	}

	out := *next
	out.At = at
	return &out
}

// Close implements Recognizer
func (s *Scripted) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
