package gesture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// State is the pipeline's tracking state
type State int

const (
	// StateIdle means no gesture is currently tracked
	StateIdle State = iota
	// StateTracking means a gesture is held and accumulating hold time
	StateTracking
	// StateCooldown means a trigger just fired and re-triggering is suppressed
	StateCooldown
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTracking:
		return "tracking"
	case StateCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// Trigger is a confirmed gesture: the label was held above the
// confidence threshold for the full hold time
type Trigger struct {
	Label string
	At    time.Time
}

// DefaultSampleInterval is the cadence the sampling loop asks the
// recognizer for a frame. Recognition runs per sampled frame, not per
// camera frame, to bound classifier cost; hold-time comparisons always
// use wall-clock time so the cadence only affects time resolution.
const DefaultSampleInterval = 100 * time.Millisecond

// Pipeline converts the recognizer's raw sample stream into discrete
// confirmed triggers. It is a three-state machine (idle, tracking,
// cooldown); see Observe for the transition rules.
type Pipeline struct {
	logger    *log.Logger
	clock     quartz.Clock
	rec       Recognizer
	settings  SettingsProvider
	interval  time.Duration
	decimate  int
	onTrigger func(Trigger)
	stats     *DetectionStats

	mu            sync.Mutex
	state         State
	label         string
	trackingSince time.Time
	cooldownUntil time.Time
	frame         int
}

// PipelineOption configures a Pipeline during creation
type PipelineOption func(*Pipeline)

// WithClock sets the clock used by the sampling loop
func WithClock(clock quartz.Clock) PipelineOption {
	return func(p *Pipeline) { p.clock = clock }
}

// WithSampleInterval sets the sampling cadence
func WithSampleInterval(d time.Duration) PipelineOption {
	return func(p *Pipeline) { p.interval = d }
}

// WithDecimation processes only every nth sampled frame, further
// bounding recognizer cost
func WithDecimation(n int) PipelineOption {
	return func(p *Pipeline) { p.decimate = n }
}

// NewPipeline creates a pipeline. onTrigger is called from the sampling
// loop for each confirmed gesture; it must not block.
func NewPipeline(logger *log.Logger, rec Recognizer, provider SettingsProvider, onTrigger func(Trigger), opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		logger:    logger.WithPrefix("gesture"),
		clock:     quartz.NewReal(),
		rec:       rec,
		settings:  provider,
		interval:  DefaultSampleInterval,
		decimate:  1,
		onTrigger: onTrigger,
		stats:     NewDetectionStats(DefaultHistorySize),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run initializes the recognizer and samples it until ctx is cancelled,
// then releases it. Initialization failures (camera denied/not found/
// busy, model load) are returned as-is so callers can surface a distinct
// message per cause.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.rec.Init(ctx); err != nil {
		return fmt.Errorf("gesture backend init: %w", err)
	}
	defer func() {
		if err := p.rec.Close(); err != nil {
			p.logger.Warn("failed to close recognizer", "error", err)
		}
	}()

	p.logger.Info("gesture pipeline started", "interval", p.interval, "decimation", p.decimate)

	waiter := p.clock.TickerFunc(ctx, p.interval, func() error {
		p.Step()
		return nil
	}, "gesture-pipeline")

	err := waiter.Wait()
	p.logger.Info("gesture pipeline stopped")
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Step samples the recognizer once and feeds the result through the
// state machine, honoring decimation. The sampling loop calls this every
// interval; tests may call it directly.
func (p *Pipeline) Step() {
	p.mu.Lock()
	p.frame++
	skip := p.decimate > 1 && p.frame%p.decimate != 0
	p.mu.Unlock()

	if skip {
		return
	}

	now := p.clock.Now()
	if trigger := p.Observe(p.rec.Recognize(now), now); trigger != nil && p.onTrigger != nil {
		p.onTrigger(*trigger)
	}
}

// Observe advances the state machine with one sample (nil = nothing
// detected) at the given wall-clock time and returns a Trigger when a
// hold completes. Transition rules:
//
//   - idle: a sample at or above the confidence threshold starts
//     tracking its label.
//   - tracking: a different label, a confidence drop or no detection
//     resets to idle. The same label held for the full hold time fires
//     exactly once and enters cooldown.
//   - cooldown: everything is suppressed until the cooldown expires;
//     the tracked label is then cleared and the current sample may start
//     a fresh track immediately, even for the same gesture.
func (p *Pipeline) Observe(s *Sample, now time.Time) *Trigger {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s != nil {
		p.stats.Record(*s)
	}

	cfg := p.settings.Get()

	if p.state == StateCooldown {
		if now.Before(p.cooldownUntil) {
			return nil
		}
		p.state = StateIdle
		p.label = ""
	}

	qualified := s != nil && s.Confidence >= cfg.ConfidenceThreshold

	switch p.state {
	case StateIdle:
		if qualified {
			p.state = StateTracking
			p.label = s.Name
			p.trackingSince = now
			p.logger.Debug("tracking gesture", "label", s.Name, "confidence", s.Confidence)
		}

	case StateTracking:
		if !qualified || s.Name != p.label {
			p.logger.Debug("tracking reset", "label", p.label)
			p.state = StateIdle
			p.label = ""
			return nil
		}

		if now.Sub(p.trackingSince) >= cfg.HoldTime() {
			p.state = StateCooldown
			p.cooldownUntil = now.Add(cfg.Cooldown())
			p.logger.Info("gesture confirmed", "label", p.label, "held", now.Sub(p.trackingSince))
			return &Trigger{Label: p.label, At: now}
		}
	}

	return nil
}

// Progress reports hold progress in [0,1] for UI feedback: 0 when idle,
// the held fraction while tracking, pinned at 1 from trigger until the
// cooldown expires.
func (p *Pipeline) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateTracking:
		hold := p.settings.Get().HoldTime()
		if hold <= 0 {
			return 1
		}
		frac := float64(p.clock.Since(p.trackingSince)) / float64(hold)
		if frac < 0 {
			return 0
		}
		if frac > 1 {
			return 1
		}
		return frac
	case StateCooldown:
		return 1
	default:
		return 0
	}
}

// State returns the current tracking state
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// TrackedLabel returns the label currently being tracked, if any
func (p *Pipeline) TrackedLabel() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.label
}

// Stats returns a summary of recent detection activity
func (p *Pipeline) Stats() DetectionSummary {
	return p.stats.Summary()
}
