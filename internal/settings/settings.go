// Package settings holds the gesture-control configuration: which
// gesture label maps to which game action, and the thresholds the input
// pipeline applies before confirming a gesture.
package settings

import (
	"errors"
	"fmt"
	"time"
)

// Gesture labels follow the MediaPipe gesture recognizer vocabulary,
// which is what browser clients report.
const (
	DefaultHitGesture    = "Thumb_Up"
	DefaultStandGesture  = "Open_Palm"
	DefaultDoubleGesture = "Victory"
)

// ErrDuplicateBinding is returned when two actions would share a gesture
var ErrDuplicateBinding = errors.New("gesture already bound to another action")

// Settings configures the gesture input pipeline. Durations are carried
// as milliseconds so the HCL file and the wire format stay plain integers.
type Settings struct {
	HitGesture          string  `hcl:"hit_gesture,optional" json:"hitGesture"`
	StandGesture        string  `hcl:"stand_gesture,optional" json:"standGesture"`
	DoubleGesture       string  `hcl:"double_gesture,optional" json:"doubleGesture"`
	HoldTimeMs          int     `hcl:"hold_time_ms,optional" json:"holdTimeMs"`
	CooldownMs          int     `hcl:"cooldown_ms,optional" json:"cooldownMs"`
	ConfidenceThreshold float64 `hcl:"confidence_threshold,optional" json:"confidenceThreshold"`
}

// Default returns the settings a fresh install starts with
func Default() Settings {
	return Settings{
		HitGesture:          DefaultHitGesture,
		StandGesture:        DefaultStandGesture,
		DoubleGesture:       DefaultDoubleGesture,
		HoldTimeMs:          800,
		CooldownMs:          1500,
		ConfidenceThreshold: 0.7,
	}
}

// HoldTime returns the hold-to-confirm duration
func (s Settings) HoldTime() time.Duration {
	return time.Duration(s.HoldTimeMs) * time.Millisecond
}

// Cooldown returns the post-trigger quiet period
func (s Settings) Cooldown() time.Duration {
	return time.Duration(s.CooldownMs) * time.Millisecond
}

// Validate checks bindings and thresholds. The three gesture labels must
// be non-empty and mutually distinct: binding one physical gesture to two
// actions is rejected outright rather than silently unbinding the other.
func (s Settings) Validate() error {
	bindings := map[string]string{}
	for _, b := range []struct {
		action string
		label  string
	}{
		{"hit", s.HitGesture},
		{"stand", s.StandGesture},
		{"double", s.DoubleGesture},
	} {
		if b.label == "" {
			return fmt.Errorf("no gesture bound to %s", b.action)
		}
		if other, ok := bindings[b.label]; ok {
			return fmt.Errorf("%q bound to both %s and %s: %w", b.label, other, b.action, ErrDuplicateBinding)
		}
		bindings[b.label] = b.action
	}

	if s.HoldTimeMs <= 0 {
		return fmt.Errorf("hold time must be positive, got %dms", s.HoldTimeMs)
	}
	if s.CooldownMs < 0 {
		return fmt.Errorf("cooldown cannot be negative, got %dms", s.CooldownMs)
	}
	if s.ConfidenceThreshold < 0 || s.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold must be in [0,1], got %v", s.ConfidenceThreshold)
	}

	return nil
}

// ActionFor returns the action bound to a gesture label, if any
func (s Settings) ActionFor(label string) (string, bool) {
	switch label {
	case s.HitGesture:
		return "hit", true
	case s.StandGesture:
		return "stand", true
	case s.DoubleGesture:
		return "double", true
	default:
		return "", false
	}
}
