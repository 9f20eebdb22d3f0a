package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"contentstudio/pkg/clients"
	"contentstudio/pkg/logging"
)

// InvocationRequest is the payload sent to the agent inference endpoint.
type InvocationRequest struct {
	Message string `json:"message"`
	AgentID string `json:"agent_id"`
	UserID  string `json:"user_id,omitempty"`
}

// AgentResponse is the inner response block of an agent invocation.
type AgentResponse struct {
	Status  string          `json:"status"`
	Result  json.RawMessage `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Envelope is the full agent invocation response. Result stays raw JSON;
// callers decode it into their own shape.
type Envelope struct {
	Success   bool          `json:"success"`
	SessionID string        `json:"session_id,omitempty"`
	Response  AgentResponse `json:"response"`
}

// Succeeded reports whether the agent run completed with a success status.
func (e *Envelope) Succeeded() bool {
	return e.Success && e.Response.Status == "success"
}

// Client represents a remote agent API client
type Client struct {
	baseURL    string
	apiKey     string
	userID     string
	httpClient *http.Client
	logger     logging.Logger
	breaker    *clients.CircuitBreaker
}

// Config represents the configuration for the agent client
type Config struct {
	BaseURL              string
	APIKey               string
	UserID               string
	Timeout              time.Duration
	Logger               logging.Logger
	CircuitBreakerConfig *clients.CircuitBreakerConfig
}

// NewClient creates a new agent API client
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}

	var breaker *clients.CircuitBreaker
	if config.CircuitBreakerConfig != nil {
		breaker = clients.NewCircuitBreaker(*config.CircuitBreakerConfig)
	}

	httpClient := &http.Client{
		Timeout:   config.Timeout,
		Transport: clients.DefaultTransport(),
	}

	return &Client{
		baseURL:    config.BaseURL,
		apiKey:     config.APIKey,
		userID:     config.UserID,
		httpClient: httpClient,
		logger:     config.Logger,
		breaker:    breaker,
	}
}

// Invoke sends a message to the given agent and returns the decoded envelope.
// Transport and non-2xx failures are returned as errors; a structured
// non-success envelope is NOT an error here, callers inspect Succeeded().
func (c *Client) Invoke(ctx context.Context, agentID, message string) (*Envelope, error) {
	payload := InvocationRequest{
		Message: message,
		AgentID: agentID,
		UserID:  c.userID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/v3/inference/chat"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call agent API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var envelope Envelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if c.logger != nil {
		c.logger.WithFields(logging.Fields{
			"agent_id":   agentID,
			"session_id": envelope.SessionID,
			"status":     envelope.Response.Status,
		}).Debug("Agent invocation completed")
	}

	return &envelope, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.httpClient.Do(req)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	return result.(*http.Response), nil
}
