package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"contentstudio/pkg/logging"
)

// Store persists brand settings as a single JSON blob. A missing or
// malformed blob yields defaults rather than an error so a bad file never
// blocks new work.
type Store struct {
	path    string
	logger  logging.Logger
	mu      sync.RWMutex
	current BrandSettings
}

// StoreConfig configures the settings store.
type StoreConfig struct {
	Path   string
	Logger logging.Logger
}

// NewStore creates a settings store and loads any persisted settings.
func NewStore(cfg StoreConfig) *Store {
	s := &Store{
		path:   cfg.Path,
		logger: cfg.Logger,
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) && s.logger != nil {
			s.logger.WithError(err).Warn("Failed to read settings file, using defaults")
		}
		return
	}

	var loaded BrandSettings
	if err := json.Unmarshal(data, &loaded); err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Warn("Malformed settings file, using defaults")
		}
		return
	}

	s.current = loaded
}

// Get returns the current brand settings.
func (s *Store) Get() BrandSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Save replaces the stored settings and persists them.
func (s *Store) Save(settings BrandSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	s.current = settings
	return nil
}
