package agentevents

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"contentstudio/pkg/logging"
)

// Event types emitted on a session stream.
const (
	TypeAgentThinking = "agent.thinking"
	TypeAgentMessage  = "agent.message"
	TypeAgentHandoff  = "agent.handoff"
	TypeToolCall      = "tool.call"
	TypeSessionEnd    = "session.end"
)

// Event represents a single entry on a session's activity stream.
type Event struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	AgentID   string `json:"agent_id,omitempty"`
	AgentName string `json:"agent_name,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// IsThinking reports whether the event carries agent reasoning output.
func (e Event) IsThinking() bool {
	return e.Type == TypeAgentThinking
}

// Client represents a WebSocket client for a session event stream
type Client struct {
	baseURL   string
	sessionID string
	conn      *websocket.Conn
	logger    logging.Logger
	eventChan chan Event
	mutex     sync.RWMutex
	connected bool
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// Config represents the configuration for the event stream client
type Config struct {
	BaseURL   string
	SessionID string
	Logger    logging.Logger
}

// EventHandler represents a function that handles incoming events
type EventHandler func(event Event) error

// NewClient creates a new session event stream client
func NewClient(config Config) *Client {
	return &Client{
		baseURL:   config.BaseURL,
		sessionID: config.SessionID,
		logger:    config.Logger,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}
}

// SessionID returns the session this client is subscribed to
func (c *Client) SessionID() string {
	return c.sessionID
}

// Connect establishes the WebSocket connection for the session stream
func (c *Client) Connect(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.connected {
		return fmt.Errorf("client is already connected")
	}

	wsURL := c.buildWebSocketURL()

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 30 * time.Second

	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("failed to connect to WebSocket (status: %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("failed to connect to WebSocket: %w", err)
	}

	c.conn = conn
	c.connected = true

	// Start read/write pumps
	go c.readPump()
	go c.writePump()

	c.logger.WithField("session_id", c.sessionID).Info("Connected to session event stream")
	return nil
}

// buildWebSocketURL constructs the WebSocket URL for the session stream
func (c *Client) buildWebSocketURL() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		// Fallback to direct construction
		return fmt.Sprintf("ws://%s/ws/events?session_id=%s", c.baseURL, url.QueryEscape(c.sessionID))
	}

	// Convert HTTP/HTTPS to WS/WSS
	scheme := "ws"
	if u.Scheme == "https" || u.Scheme == "wss" {
		scheme = "wss"
	}

	wsURL := &url.URL{
		Scheme:   scheme,
		Host:     u.Host,
		Path:     "/ws/events",
		RawQuery: url.Values{"session_id": {c.sessionID}}.Encode(),
	}

	return wsURL.String()
}

// GetEvents returns the channel for receiving events
func (c *Client) GetEvents() <-chan Event {
	return c.eventChan
}

// IsConnected returns whether the client is connected
func (c *Client) IsConnected() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.connected
}

// Close closes the WebSocket connection and waits for the read pump to
// finish. The read pump owns the event channel and closes it on exit, so
// Close must not hold the mutex while waiting for it.
func (c *Client) Close() error {
	c.mutex.Lock()
	if !c.connected {
		c.mutex.Unlock()
		return nil
	}
	c.connected = false

	close(c.stopChan)

	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
	c.mutex.Unlock()

	<-c.doneChan

	c.logger.WithField("session_id", c.sessionID).Info("Disconnected from session event stream")
	return nil
}

// readPump handles reading events from the WebSocket. It is the only sender
// on eventChan and closes it on exit, then signals doneChan.
func (c *Client) readPump() {
	defer func() {
		c.mutex.Lock()
		c.connected = false
		c.mutex.Unlock()

		c.conn.Close()
		close(c.eventChan)
		close(c.doneChan)
	}()

	c.conn.SetReadLimit(512 * 1024) // 512KB max message size
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		select {
		case <-c.stopChan:
			return
		default:
		}

		var event Event
		err := c.conn.ReadJSON(&event)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.WithError(err).Error("WebSocket read error")
			}
			return
		}

		// Send event to channel (non-blocking)
		select {
		case c.eventChan <- event:
		default:
			c.logger.Warn("Event channel full, dropping event")
		}
	}
}

// writePump handles writing to the WebSocket (primarily ping messages)
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second) // Send ping every 54 seconds
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.WithError(err).Error("Failed to send ping")
				return
			}
		}
	}
}

// StartEventHandler starts an event handler in a goroutine
func (c *Client) StartEventHandler(handler EventHandler) {
	go func() {
		for event := range c.GetEvents() {
			if err := handler(event); err != nil {
				c.logger.WithError(err).WithFields(logging.Fields{
					"event_type": event.Type,
					"session_id": event.SessionID,
				}).Error("Event handler error")
			}
		}
	}()
}
