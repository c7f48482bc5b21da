package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Default().Validate())
}

func TestValidateRejectsDuplicateBindings(t *testing.T) {
	t.Parallel()
	s := Default()
	s.StandGesture = s.HitGesture

	err := s.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateBinding)
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero hold time", func(s *Settings) { s.HoldTimeMs = 0 }},
		{"negative cooldown", func(s *Settings) { s.CooldownMs = -1 }},
		{"confidence above one", func(s *Settings) { s.ConfidenceThreshold = 1.5 }},
		{"negative confidence", func(s *Settings) { s.ConfidenceThreshold = -0.1 }},
		{"empty binding", func(s *Settings) { s.DoubleGesture = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestActionFor(t *testing.T) {
	t.Parallel()
	s := Default()

	action, ok := s.ActionFor(s.HitGesture)
	require.True(t, ok)
	assert.Equal(t, "hit", action)

	action, ok = s.ActionFor(s.DoubleGesture)
	require.True(t, ok)
	assert.Equal(t, "double", action)

	_, ok = s.ActionFor("Pointing_Up")
	assert.False(t, ok)
}

func TestStoreRejectsInvalidUpdate(t *testing.T) {
	t.Parallel()
	store, err := NewStore(Default())
	require.NoError(t, err)

	bad := Default()
	bad.DoubleGesture = bad.StandGesture
	err = store.Update(bad)
	require.ErrorIs(t, err, ErrDuplicateBinding)

	assert.Equal(t, Default(), store.Get(), "rejected update leaves settings untouched")
}

func TestStoreUpdateApplies(t *testing.T) {
	t.Parallel()
	store, err := NewStore(Default())
	require.NoError(t, err)

	next := Default()
	next.HoldTimeMs = 400
	next.HitGesture = "Closed_Fist"
	require.NoError(t, store.Update(next))

	assert.Equal(t, next, store.Get())
}

func TestLoadStoreMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	store, err := LoadStore(filepath.Join(t.TempDir(), "gestures.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), store.Get())
}

func TestLoadStoreRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "gestures.hcl")

	store, err := LoadStore(path)
	require.NoError(t, err)

	next := Default()
	next.HoldTimeMs = 600
	next.ConfidenceThreshold = 0.85
	require.NoError(t, store.Update(next))

	reloaded, err := LoadStore(path)
	require.NoError(t, err)
	assert.Equal(t, next, reloaded.Get())
}

func TestLoadStoreSparseFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "gestures.hcl")
	require.NoError(t, os.WriteFile(path, []byte("hold_time_ms = 250\n"), 0o644))

	store, err := LoadStore(path)
	require.NoError(t, err)

	s := store.Get()
	assert.Equal(t, 250, s.HoldTimeMs)
	assert.Equal(t, DefaultHitGesture, s.HitGesture, "unset fields fall back to defaults")
	assert.Equal(t, Default().ConfidenceThreshold, s.ConfidenceThreshold)
}

func TestLoadStoreRejectsDuplicateBindingsInFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "gestures.hcl")
	content := "hit_gesture = \"Open_Palm\"\nstand_gesture = \"Open_Palm\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadStore(path)
	assert.ErrorIs(t, err, ErrDuplicateBinding)
}
