package activity

import (
	"context"
	"sync"

	"contentstudio/pkg/clients/agentevents"
	"contentstudio/pkg/logging"
)

// State is a point-in-time snapshot of the live activity view.
type State struct {
	SessionID           string              `json:"session_id,omitempty"`
	Connected           bool                `json:"connected"`
	Events              []agentevents.Event `json:"events"`
	ThinkingEvents      []agentevents.Event `json:"thinking_events"`
	LastThinkingMessage string              `json:"last_thinking_message,omitempty"`
	ActiveAgentID       string              `json:"active_agent_id,omitempty"`
	ActiveAgentName     string              `json:"active_agent_name,omitempty"`
	Processing          bool                `json:"processing"`
}

// Tracker folds a session's live event stream into an observable state.
// A pipeline run resets it before the run's session id is known, so events
// from a prior session are never attributed to the new run.
type Tracker struct {
	subscriber Subscriber
	logger     logging.Logger

	mu              sync.Mutex
	generation      uint64
	sessionID       string
	sub             Subscription
	connected       bool
	processing      bool
	events          []agentevents.Event
	thinkingEvents  []agentevents.Event
	lastThinking    string
	activeAgentID   string
	activeAgentName string
}

// TrackerConfig configures a Tracker.
type TrackerConfig struct {
	Subscriber Subscriber
	Logger     logging.Logger
}

// NewTracker creates a tracker with no active session.
func NewTracker(cfg TrackerConfig) *Tracker {
	return &Tracker{
		subscriber: cfg.Subscriber,
		logger:     cfg.Logger,
	}
}

// Reset clears all accumulated state and tears down any open subscription.
// The processing flag is set to exactly the supplied value, never inferred.
func (t *Tracker) Reset(processing bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.teardownLocked()
	t.sessionID = ""
	t.events = nil
	t.thinkingEvents = nil
	t.lastThinking = ""
	t.activeAgentID = ""
	t.activeAgentName = ""
	t.processing = processing
}

// SetProcessing flips the busy indicator independently of the event stream.
// It keeps the view busy during stages the tracker cannot observe directly,
// before any session id exists.
func (t *Tracker) SetProcessing(processing bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.processing = processing
}

// ClearActiveAgent drops the active-agent indicator without touching events.
func (t *Tracker) ClearActiveAgent() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activeAgentID = ""
	t.activeAgentName = ""
}

// SetSession switches the tracker to a session's event stream. The same id
// is a no-op; a different id tears down the prior subscription first so
// events never leak across sessions. An empty id just tears down. The dial
// happens outside the lock so State and Reset stay responsive while it is
// in flight.
func (t *Tracker) SetSession(ctx context.Context, sessionID string) error {
	t.mu.Lock()
	if sessionID == t.sessionID {
		t.mu.Unlock()
		return nil
	}

	t.teardownLocked()
	t.sessionID = sessionID
	generation := t.generation
	t.mu.Unlock()

	if sessionID == "" {
		return nil
	}

	sub, err := t.subscriber.Subscribe(ctx, sessionID)

	t.mu.Lock()
	defer t.mu.Unlock()

	// The tracker moved on while the dial was in flight.
	if generation != t.generation {
		if err == nil {
			sub.Close()
		}
		return nil
	}

	if err != nil {
		t.sessionID = ""
		if t.logger != nil {
			t.logger.WithError(err).WithField("session_id", sessionID).Warn("Failed to subscribe to session events")
		}
		return err
	}

	t.sub = sub
	t.connected = true

	go t.consume(generation, sub)
	return nil
}

// Close releases the subscription. No state updates occur after teardown.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.teardownLocked()
	t.sessionID = ""
}

// teardownLocked invalidates the current generation and closes any open
// subscription. Callers must hold t.mu.
func (t *Tracker) teardownLocked() {
	t.generation++
	if t.sub != nil {
		t.sub.Close()
		t.sub = nil
	}
	t.connected = false
}

func (t *Tracker) consume(generation uint64, sub Subscription) {
	for event := range sub.Events() {
		t.apply(generation, event)
	}

	// Stream ended: mark disconnected without clearing accumulated events.
	t.mu.Lock()
	defer t.mu.Unlock()
	if generation == t.generation {
		t.connected = false
	}
}

func (t *Tracker) apply(generation uint64, event agentevents.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// A stale goroutine from a torn-down subscription must not touch state.
	if generation != t.generation {
		return
	}

	t.events = append(t.events, event)

	if event.IsThinking() {
		t.thinkingEvents = append(t.thinkingEvents, event)
		if event.Message != "" {
			t.lastThinking = event.Message
		}
	}

	// Agent identity updates only when the event announces one.
	if event.AgentID != "" {
		t.activeAgentID = event.AgentID
	}
	if event.AgentName != "" {
		t.activeAgentName = event.AgentName
	}
}

// State returns a deep-copied snapshot of the current view.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return State{
		SessionID:           t.sessionID,
		Connected:           t.connected,
		Events:              append([]agentevents.Event(nil), t.events...),
		ThinkingEvents:      append([]agentevents.Event(nil), t.thinkingEvents...),
		LastThinkingMessage: t.lastThinking,
		ActiveAgentID:       t.activeAgentID,
		ActiveAgentName:     t.activeAgentName,
		Processing:          t.processing,
	}
}
