package gesture

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// DefaultSampleMaxAge is how long a pushed sample stays fresh. Browser
// clients classify at camera frame rate, so anything older than a few
// frame intervals means the stream has stalled or the hand left view.
const DefaultSampleMaxAge = 250 * time.Millisecond

// Remote is a recognizer fed by samples pushed from a browser client,
// which runs the actual hand-landmark model against its own camera.
// Recognize reports the most recent pushed sample while it is fresh and
// nothing detected once it ages out.
type Remote struct {
	mu     sync.Mutex
	clock  quartz.Clock
	latest *Sample
	maxAge time.Duration
	closed bool
}

// NewRemote creates a remote recognizer
func NewRemote(clock quartz.Clock, maxAge time.Duration) *Remote {
	return &Remote{clock: clock, maxAge: maxAge}
}

// Push records a sample from the remote classifier. The sample's At
// field is stamped server-side so client clock skew cannot extend
// freshness.
func (r *Remote) Push(s Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	s.At = r.clock.Now()
	r.latest = &s
}

// Init implements Recognizer. The remote backend has no local resources
// to acquire; camera and model failures are reported by the client.
func (r *Remote) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = false
	return nil
}

// Recognize implements Recognizer
func (r *Remote) Recognize(at time.Time) *Sample {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.latest == nil {
		return nil
	}
	if at.Sub(r.latest.At) > r.maxAge {
		return nil
	}

	out := *r.latest
	return &out
}

// Close implements Recognizer
func (r *Remote) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.latest = nil
	return nil
}
