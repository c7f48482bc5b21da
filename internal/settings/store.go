package settings

import (
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/lox/gesturejack/internal/fileutil"
)

// Store owns the live gesture settings. Readers get copies; updates are
// validated before they are applied, so a rejected update never corrupts
// the running configuration.
type Store struct {
	mu      sync.RWMutex
	current Settings
	path    string
}

// NewStore creates an in-memory store with the given settings
func NewStore(s Settings) (*Store, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Store{current: s}, nil
}

// LoadStore loads settings from an HCL file, falling back to defaults if
// the file does not exist. The path is remembered for Save.
func LoadStore(path string) (*Store, error) {
	s := Default()

	if _, err := os.Stat(path); err == nil {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse settings file: %s", diags.Error())
		}

		diags = gohcl.DecodeBody(file.Body, nil, &s)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode settings: %s", diags.Error())
		}

		applyDefaults(&s)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}

	return &Store{current: s, path: path}, nil
}

// applyDefaults fills zero-valued thresholds so a sparse file only has to
// name the fields it overrides
func applyDefaults(s *Settings) {
	def := Default()
	if s.HitGesture == "" {
		s.HitGesture = def.HitGesture
	}
	if s.StandGesture == "" {
		s.StandGesture = def.StandGesture
	}
	if s.DoubleGesture == "" {
		s.DoubleGesture = def.DoubleGesture
	}
	if s.HoldTimeMs == 0 {
		s.HoldTimeMs = def.HoldTimeMs
	}
	if s.CooldownMs == 0 {
		s.CooldownMs = def.CooldownMs
	}
	if s.ConfidenceThreshold == 0 {
		s.ConfidenceThreshold = def.ConfidenceThreshold
	}
}

// Get returns a copy of the current settings
func (st *Store) Get() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// Update validates and applies new settings, persisting them if the
// store was loaded from a file. Invalid settings (including duplicate
// gesture bindings) are rejected with an error and the current settings
// are left untouched.
func (st *Store) Update(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.current = s

	if st.path != "" {
		if err := st.save(); err != nil {
			return fmt.Errorf("settings applied but not persisted: %w", err)
		}
	}

	return nil
}

// save writes the current settings to the store's path. Caller holds the lock.
func (st *Store) save() error {
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(&st.current, f.Body())
	return fileutil.WriteFileAtomic(st.path, f.Bytes(), 0o644)
}
