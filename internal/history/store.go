package history

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"contentstudio/internal/content"
	"contentstudio/pkg/logging"
)

// Record is one completed pipeline run. Immutable once appended.
type Record struct {
	ID             string                   `json:"id"`
	CreatedAt      time.Time                `json:"created_at"`
	Topic          string                   `json:"topic"`
	ContentType    string                   `json:"content_type"`
	Platforms      []string                 `json:"platforms"`
	Content        content.GeneratedContent `json:"content"`
	PublishOutcome content.PublishOutcome   `json:"publish_outcome"`
}

// Filter narrows a List call. Zero-value fields match everything.
type Filter struct {
	// Search matches case-insensitively against topic or content summary.
	Search string
	// Platform matches case-insensitively as a substring of any platform
	// name on the record. Substring, not equality, mirrors how loosely the
	// platform names are spelled across the stack.
	Platform string
	// ContentType matches exactly.
	ContentType string
}

// Store is a durable, filterable record of past pipeline runs. The whole
// collection is persisted as one JSON array; a corrupt or non-array blob on
// load yields an empty history, never an error.
type Store struct {
	path    string
	logger  logging.Logger
	mu      sync.RWMutex
	records []Record
}

// StoreConfig configures the history store.
type StoreConfig struct {
	Path   string
	Logger logging.Logger
}

// NewStore creates a history store and loads any persisted records.
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
			s.logger.WithError(err).Warn("Failed to read history file, starting empty")
		}
		return
	}

	var loaded []Record
	if err := json.Unmarshal(data, &loaded); err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Warn("Malformed history file, starting empty")
		}
		return
	}

	s.records = loaded
}

func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// Append prepends a record (most-recent-first) and persists the collection.
func (s *Store) Append(record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append([]Record{record}, s.records...)
	if err := s.persist(); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.WithFields(logging.Fields{
			"record_id": record.ID,
			"topic":     record.Topic,
			"total":     len(s.records),
		}).Info("History record appended")
	}
	return nil
}

// List returns records matching every set filter field, most-recent-first.
// Pure: never mutates the stored collection.
func (s *Store) List(filter Filter) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Record, 0, len(s.records))
	for _, record := range s.records {
		if matches(record, filter) {
			results = append(results, record)
		}
	}
	return results
}

func matches(record Record, filter Filter) bool {
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		topic := strings.ToLower(record.Topic)
		summary := strings.ToLower(record.Content.ContentSummary)
		if !strings.Contains(topic, search) && !strings.Contains(summary, search) {
			return false
		}
	}

	if platform := strings.ToLower(strings.TrimSpace(filter.Platform)); platform != "" {
		found := false
		for _, p := range record.Platforms {
			if strings.Contains(strings.ToLower(p), platform) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if filter.ContentType != "" && record.ContentType != filter.ContentType {
		return false
	}

	return true
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear removes all records and persists the empty collection.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	if err := s.persist(); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("History cleared")
	}
	return nil
}
