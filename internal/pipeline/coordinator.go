package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"contentstudio/internal/agents"
	"contentstudio/internal/content"
	"contentstudio/internal/history"
	"contentstudio/internal/settings"
	agentsclient "contentstudio/pkg/clients/agents"
	"contentstudio/pkg/logging"
)

// State names the coordinator's position in a run.
type State string

const (
	StateIdle       State = "idle"
	StateGenerating State = "generating"
	StatePublishing State = "publishing"
)

// DegradedOverallStatus is the aggregate status recorded when the publish
// stage fails outright and an outcome has to be synthesized.
const DegradedOverallStatus = "Publishing may have encountered issues"

// unknownPublishError is the fallback entry for a synthesized outcome when
// the failure carried no usable message.
const unknownPublishError = "Unknown publishing error"

// Request is one user-submitted content run.
type Request struct {
	Topic        string   `json:"topic"`
	Platforms    []string `json:"platforms"`
	ContentType  string   `json:"content_type"`
	Instructions string   `json:"instructions,omitempty"`
}

// AgentCaller invokes a remote agent and returns its response envelope.
// *agentsclient.Client satisfies this.
type AgentCaller interface {
	Invoke(ctx context.Context, agentID, message string) (*agentsclient.Envelope, error)
}

// ActivityTracker receives run lifecycle signals. *activity.Tracker
// satisfies this.
type ActivityTracker interface {
	Reset(processing bool)
	SetProcessing(processing bool)
	SetSession(ctx context.Context, sessionID string) error
	ClearActiveAgent()
}

// Status is a snapshot of the coordinator for polling clients.
type Status struct {
	State    State `json:"state"`
	Progress int   `json:"progress"`
}

// Coordinator runs the two-stage generate-then-publish sequence and records
// one history entry per completed run. At most one run is in flight per
// coordinator; a concurrent Run is rejected with ErrRunInFlight.
type Coordinator struct {
	caller   AgentCaller
	tracker  ActivityTracker
	history  *history.Store
	settings *settings.Store
	registry *agents.Registry
	logger   logging.Logger
	metrics  *Metrics

	mu       sync.Mutex
	state    State
	progress progressGauge
}

// Config wires a Coordinator.
type Config struct {
	Caller   AgentCaller
	Tracker  ActivityTracker
	History  *history.Store
	Settings *settings.Store
	Registry *agents.Registry
	Logger   logging.Logger
	Metrics  *Metrics
}

// NewCoordinator creates an idle coordinator.
func NewCoordinator(cfg Config) *Coordinator {
	return &Coordinator{
		caller:   cfg.Caller,
		tracker:  cfg.Tracker,
		history:  cfg.History,
		settings: cfg.Settings,
		registry: cfg.Registry,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		state:    StateIdle,
	}
}

// Status reports the current state and progress value.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{State: c.state, Progress: c.progress.current()}
}

func (c *Coordinator) setState(next State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = next
}

// validate checks the request before any remote call. The first missing
// field wins.
func validate(req Request) *ValidationError {
	if strings.TrimSpace(req.Topic) == "" {
		return &ValidationError{Field: "topic"}
	}
	if len(req.Platforms) == 0 {
		return &ValidationError{Field: "platforms"}
	}
	if strings.TrimSpace(req.ContentType) == "" {
		return &ValidationError{Field: "content_type"}
	}
	return nil
}

// Run executes one generate-then-publish sequence. On success (including a
// degraded publish) it returns the appended history record. Generation
// failure is terminal: no record, coordinator back to idle.
func (c *Coordinator) Run(ctx context.Context, req Request) (*history.Record, error) {
	if verr := validate(req); verr != nil {
		c.metrics.runFinished("validation_failed")
		return nil, verr
	}

	// Claim the single run slot.
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		c.metrics.runFinished("rejected")
		return nil, ErrRunInFlight
	}
	c.state = StateGenerating
	c.mu.Unlock()

	c.progress.reset(0)
	c.tracker.Reset(true)

	generated, sessionID, err := c.runGeneration(ctx, req)
	if err != nil {
		c.finish()
		if _, ok := err.(*GenerationError); ok {
			c.metrics.runFinished("generation_failed")
		} else {
			c.metrics.runFinished("unexpected_failure")
		}
		return nil, err
	}

	if sessionID != "" {
		if serr := c.tracker.SetSession(ctx, sessionID); serr != nil && c.logger != nil {
			c.logger.WithError(serr).WithField("session_id", sessionID).Warn("Session subscription failed, run continues")
		}
	}

	c.setState(StatePublishing)
	outcome := c.runPublish(ctx, generated, req.Platforms)

	record := history.Record{
		ID:             uuid.New().String(),
		CreatedAt:      time.Now().UTC(),
		Topic:          strings.TrimSpace(req.Topic),
		ContentType:    req.ContentType,
		Platforms:      append([]string(nil), req.Platforms...),
		Content:        generated,
		PublishOutcome: outcome,
	}
	if aerr := c.history.Append(record); aerr != nil && c.logger != nil {
		c.logger.WithError(aerr).Error("Failed to persist history record")
	}

	c.finish()
	c.metrics.runFinished("completed")

	if c.logger != nil {
		c.logger.WithFields(logging.Fields{
			"record_id": record.ID,
			"topic":     record.Topic,
			"platforms": record.Platforms,
			"status":    outcome.OverallStatus,
		}).Info("Pipeline run completed")
	}
	return &record, nil
}

// runGeneration drives the generation stage: simulated progress while the
// orchestrator call is in flight, snapped to the settled value on success.
func (c *Coordinator) runGeneration(ctx context.Context, req Request) (content.GeneratedContent, string, error) {
	var generated content.GeneratedContent

	message := buildGenerationMessage(req, c.settings.Get().PromptBlock())
	agentID := c.registry.OrchestratorID()

	c.metrics.stageStarted("generation")
	start := time.Now()
	defer c.metrics.stageFinished("generation", start)

	c.progress.reset(generationStart)
	ticker := startStageTicker(&c.progress, generationStep, generationCeiling, generationInterval)
	defer ticker.stop()

	envelope, err := c.caller.Invoke(ctx, agentID, message)
	ticker.stop()
	if err != nil {
		c.metrics.agentCall(agentID, "transport_error", start)
		return generated, "", &UnexpectedError{Stage: "generation", Err: err}
	}
	if !envelope.Succeeded() {
		c.metrics.agentCall(agentID, "failed", start)
		return generated, "", &GenerationError{Message: envelope.Response.Message}
	}
	c.metrics.agentCall(agentID, "success", start)

	if len(envelope.Response.Result) > 0 {
		if uerr := json.Unmarshal(envelope.Response.Result, &generated); uerr != nil {
			return content.GeneratedContent{}, "", &UnexpectedError{Stage: "generation", Err: uerr}
		}
	}

	c.progress.settle(generationSettled)
	return generated, envelope.SessionID, nil
}

// runPublish drives the publish stage. It never fails the run: any failure
// degrades into a synthesized outcome and progress is forced to completion.
func (c *Coordinator) runPublish(ctx context.Context, generated content.GeneratedContent, platforms []string) content.PublishOutcome {
	message := buildPublishMessage(generated, platforms)
	agentID := c.registry.PublisherID()

	c.metrics.stageStarted("publishing")
	start := time.Now()
	defer c.metrics.stageFinished("publishing", start)

	ticker := startStageTicker(&c.progress, publishStep, publishCeiling, publishInterval)
	defer ticker.stop()

	envelope, err := c.caller.Invoke(ctx, agentID, message)
	ticker.stop()
	c.progress.settle(publishSettled)

	if err != nil {
		c.metrics.agentCall(agentID, "transport_error", start)
		if c.logger != nil {
			c.logger.WithError(err).Warn("Publish call failed, recording degraded outcome")
		}
		return degradedOutcome(err.Error())
	}

	if envelope.SessionID != "" {
		if serr := c.tracker.SetSession(ctx, envelope.SessionID); serr != nil && c.logger != nil {
			c.logger.WithError(serr).Warn("Publish session subscription failed")
		}
	}

	if !envelope.Succeeded() {
		c.metrics.agentCall(agentID, "failed", start)
		return degradedOutcome(envelope.Response.Message)
	}
	c.metrics.agentCall(agentID, "success", start)

	var outcome content.PublishOutcome
	if len(envelope.Response.Result) > 0 {
		if uerr := json.Unmarshal(envelope.Response.Result, &outcome); uerr != nil {
			if c.logger != nil {
				c.logger.WithError(uerr).Warn("Malformed publish result, recording degraded outcome")
			}
			return degradedOutcome(uerr.Error())
		}
	}
	return outcome
}

// degradedOutcome synthesizes the failure-flavored outcome recorded when
// the publish stage cannot produce one.
func degradedOutcome(message string) content.PublishOutcome {
	if message == "" {
		message = unknownPublishError
	}
	return content.PublishOutcome{
		OverallStatus: DegradedOverallStatus,
		Errors:        []string{message},
	}
}

// finish returns the coordinator to idle and clears run-scoped indicators.
func (c *Coordinator) finish() {
	c.setState(StateIdle)
	c.tracker.SetProcessing(false)
	c.tracker.ClearActiveAgent()
}
