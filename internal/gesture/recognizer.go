// Package gesture implements the gesture input pipeline: it turns a raw
// per-frame classification stream into at most one confirmed game action
// per deliberate gesture hold, applying confidence gating, hold-to-confirm
// debouncing and a post-trigger cooldown.
//
// The classification model itself is an external collaborator consumed
// through the Recognizer interface; this package ships a scripted backend
// for tests and simulations and a remote backend fed by browser clients.
package gesture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/gesturejack/internal/settings"
)

// Sample is one frame's best gesture candidate
type Sample struct {
	Name       string    `json:"name"`
	Confidence float64   `json:"confidence"`
	At         time.Time `json:"at"`
}

// Recognizer classifies frames from a live video source. Implementations
// are selected by backend key at construction time.
type Recognizer interface {
	// Init acquires the classification backend. It fails with one of the
	// camera/backend sentinel errors when the session cannot start.
	Init(ctx context.Context) error

	// Recognize returns the best candidate for the frame at the given
	// time, or nil when nothing is detected. Nothing-detected is not an
	// error; Recognize never fails once Init has succeeded.
	Recognize(at time.Time) *Sample

	// Close releases backend resources. Idempotent.
	Close() error
}

// SettingsProvider supplies the live gesture settings; *settings.Store
// satisfies it
type SettingsProvider interface {
	Get() settings.Settings
}

// Backend keys for NewRecognizer
const (
	BackendScripted = "scripted"
	BackendRemote   = "remote"
)

// Session failure causes. These are terminal for the pipeline's current
// run and map to distinct presentation-level error states; recovery is an
// explicit restart, never automatic.
var (
	ErrCameraDenied   = errors.New("camera permission denied")
	ErrCameraNotFound = errors.New("no camera device found")
	ErrCameraBusy     = errors.New("camera device busy")
	ErrBackendLoad    = errors.New("gesture model failed to load")
)

// NewRecognizer builds a recognizer backend by key
func NewRecognizer(kind string, clock quartz.Clock) (Recognizer, error) {
	switch kind {
	case BackendScripted:
		return NewScripted(), nil
	case BackendRemote:
		return NewRemote(clock, DefaultSampleMaxAge), nil
	default:
		return nil, fmt.Errorf("unknown gesture backend %q", kind)
	}
}
