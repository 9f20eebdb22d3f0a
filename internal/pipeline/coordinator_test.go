package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"contentstudio/internal/agents"
	"contentstudio/internal/content"
	"contentstudio/internal/history"
	"contentstudio/internal/settings"
	agentsclient "contentstudio/pkg/clients/agents"
	"contentstudio/pkg/logging"
)

type fakeCall struct {
	agentID string
	message string
}

// fakeCaller scripts the generation and publish responses per agent id.
type fakeCaller struct {
	mu        sync.Mutex
	calls     []fakeCall
	responses map[string]*agentsclient.Envelope
	errs      map[string]error
}

func (f *fakeCaller) Invoke(_ context.Context, agentID, message string) (*agentsclient.Envelope, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{agentID: agentID, message: message})
	f.mu.Unlock()
	if err := f.errs[agentID]; err != nil {
		return nil, err
	}
	if envelope := f.responses[agentID]; envelope != nil {
		return envelope, nil
	}
	return &agentsclient.Envelope{Success: true, Response: agentsclient.AgentResponse{Status: "success"}}, nil
}

func (f *fakeCaller) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeTracker records lifecycle signals from the coordinator.
type fakeTracker struct {
	mu         sync.Mutex
	resets     []bool
	processing []bool
	sessions   []string
	cleared    int
}

func (f *fakeTracker) Reset(processing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, processing)
}

func (f *fakeTracker) SetProcessing(processing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processing = append(f.processing, processing)
}

func (f *fakeTracker) SetSession(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, sessionID)
	return nil
}

func (f *fakeTracker) ClearActiveAgent() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
}

func successEnvelope(sessionID string, result string) *agentsclient.Envelope {
	return &agentsclient.Envelope{
		Success:   true,
		SessionID: sessionID,
		Response: agentsclient.AgentResponse{
			Status: "success",
			Result: json.RawMessage(result),
		},
	}
}

type testHarness struct {
	coordinator *Coordinator
	caller      *fakeCaller
	tracker     *fakeTracker
	history     *history.Store
	registry    *agents.Registry
	settings    *settings.Store
}

func newHarness(t *testing.T, caller *fakeCaller) *testHarness {
	t.Helper()
	dir := t.TempDir()
	logger := logging.NewLogger()
	registry := agents.NewRegistry("", "")
	tracker := &fakeTracker{}
	historyStore := history.NewStore(history.StoreConfig{Path: filepath.Join(dir, "history.json"), Logger: logger})
	settingsStore := settings.NewStore(settings.StoreConfig{Path: filepath.Join(dir, "settings.json"), Logger: logger})

	coordinator := NewCoordinator(Config{
		Caller:   caller,
		Tracker:  tracker,
		History:  historyStore,
		Settings: settingsStore,
		Registry: registry,
		Logger:   logger,
	})
	return &testHarness{
		coordinator: coordinator,
		caller:      caller,
		tracker:     tracker,
		history:     historyStore,
		registry:    registry,
		settings:    settingsStore,
	}
}

func validRequest() Request {
	return Request{
		Topic:       "Launch week recap",
		Platforms:   []string{content.PlatformTwitter},
		ContentType: content.TypePost,
	}
}

func TestRun_ValidationFailures(t *testing.T) {
	h := newHarness(t, &fakeCaller{})

	cases := []struct {
		name  string
		req   Request
		field string
	}{
		{"empty topic", Request{Topic: "   ", Platforms: []string{content.PlatformTwitter}, ContentType: content.TypePost}, "topic"},
		{"no platforms", Request{Topic: "t", ContentType: content.TypePost}, "platforms"},
		{"no content type", Request{Topic: "t", Platforms: []string{content.PlatformTwitter}}, "content_type"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.coordinator.Run(context.Background(), tc.req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, verr.Field)
			}
		})
	}

	if h.caller.callCount() != 0 {
		t.Error("validation failure must not issue remote calls")
	}
	if h.history.Len() != 0 {
		t.Error("validation failure must not write history")
	}
}

func TestRun_HappyPath(t *testing.T) {
	caller := &fakeCaller{responses: map[string]*agentsclient.Envelope{}}
	registry := agents.NewRegistry("", "")
	caller.responses[registry.OrchestratorID()] = successEnvelope("sess-1", `{"twitter_post":"Hello","content_summary":"greeting"}`)
	caller.responses[registry.PublisherID()] = successEnvelope("", `{"twitter_status":"success","overall_status":"All platforms published"}`)

	h := newHarness(t, caller)
	record, err := h.coordinator.Run(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if record.Content.TwitterPost != "Hello" {
		t.Errorf("unexpected content: %+v", record.Content)
	}
	if record.PublishOutcome.TwitterStatus != "success" {
		t.Errorf("unexpected outcome: %+v", record.PublishOutcome)
	}
	if record.ID == "" || record.Topic != "Launch week recap" {
		t.Errorf("bad record identity: %+v", record)
	}
	if len(record.Platforms) != 1 || record.Platforms[0] != content.PlatformTwitter {
		t.Errorf("platforms must mirror the request: %v", record.Platforms)
	}
	if h.history.Len() != 1 {
		t.Fatalf("expected exactly one history record, got %d", h.history.Len())
	}

	// Run lifecycle signals: reset with processing, session handoff, idle.
	if len(h.tracker.resets) != 1 || !h.tracker.resets[0] {
		t.Errorf("expected one Reset(true), got %v", h.tracker.resets)
	}
	if len(h.tracker.sessions) != 1 || h.tracker.sessions[0] != "sess-1" {
		t.Errorf("expected session handoff, got %v", h.tracker.sessions)
	}
	if h.tracker.cleared != 1 {
		t.Errorf("expected active agent cleared once, got %d", h.tracker.cleared)
	}

	status := h.coordinator.Status()
	if status.State != StateIdle {
		t.Errorf("expected idle after run, got %q", status.State)
	}
	if status.Progress != 100 {
		t.Errorf("progress must settle at 100, got %d", status.Progress)
	}
}

func TestRun_GenerationStructuredFailure(t *testing.T) {
	caller := &fakeCaller{responses: map[string]*agentsclient.Envelope{}}
	registry := agents.NewRegistry("", "")
	caller.responses[registry.OrchestratorID()] = &agentsclient.Envelope{
		Success:  false,
		Response: agentsclient.AgentResponse{Status: "failed", Message: "policy refusal"},
	}

	h := newHarness(t, caller)
	_, err := h.coordinator.Run(context.Background(), validRequest())

	var gerr *GenerationError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if !strings.Contains(gerr.Error(), "policy refusal") {
		t.Errorf("error should carry agent message: %v", gerr)
	}
	if h.history.Len() != 0 {
		t.Error("generation failure must not write history")
	}
	if h.caller.callCount() != 1 {
		t.Errorf("publish must not be called after generation failure, got %d calls", h.caller.callCount())
	}
	if h.coordinator.Status().State != StateIdle {
		t.Error("coordinator must return to idle")
	}
}

func TestRun_GenerationTransportFailure(t *testing.T) {
	registry := agents.NewRegistry("", "")
	caller := &fakeCaller{errs: map[string]error{registry.OrchestratorID(): errors.New("connection refused")}}

	h := newHarness(t, caller)
	_, err := h.coordinator.Run(context.Background(), validRequest())

	var uerr *UnexpectedError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnexpectedError, got %v", err)
	}
	if uerr.Stage != "generation" {
		t.Errorf("unexpected stage: %q", uerr.Stage)
	}
	if h.history.Len() != 0 {
		t.Error("transport failure must not write history")
	}
}

func TestRun_PublishFailureStillRecords(t *testing.T) {
	registry := agents.NewRegistry("", "")
	caller := &fakeCaller{
		responses: map[string]*agentsclient.Envelope{
			registry.OrchestratorID(): successEnvelope("sess-1", `{"twitter_post":"Hello"}`),
		},
		errs: map[string]error{registry.PublisherID(): errors.New("dial timeout")},
	}

	h := newHarness(t, caller)
	record, err := h.coordinator.Run(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("publish failure must not fail the run: %v", err)
	}

	if record.PublishOutcome.OverallStatus != DegradedOverallStatus {
		t.Errorf("unexpected overall status: %q", record.PublishOutcome.OverallStatus)
	}
	if len(record.PublishOutcome.Errors) == 0 {
		t.Fatal("degraded outcome must carry an error entry")
	}
	if !strings.Contains(record.PublishOutcome.Errors[0], "dial timeout") {
		t.Errorf("expected best available message, got %v", record.PublishOutcome.Errors)
	}
	if h.history.Len() != 1 {
		t.Error("degraded run still writes exactly one record")
	}
	if h.coordinator.Status().Progress != 100 {
		t.Error("progress must be forced to 100 after publish settles")
	}
}

func TestRun_PublishStructuredFailure(t *testing.T) {
	registry := agents.NewRegistry("", "")
	caller := &fakeCaller{
		responses: map[string]*agentsclient.Envelope{
			registry.OrchestratorID(): successEnvelope("", `{"twitter_post":"Hello"}`),
			registry.PublisherID(): {
				Success:  true,
				Response: agentsclient.AgentResponse{Status: "failed", Message: "platform auth expired"},
			},
		},
	}

	h := newHarness(t, caller)
	record, err := h.coordinator.Run(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if record.PublishOutcome.OverallStatus != DegradedOverallStatus {
		t.Errorf("unexpected overall status: %q", record.PublishOutcome.OverallStatus)
	}
	if record.PublishOutcome.Errors[0] != "platform auth expired" {
		t.Errorf("expected agent message, got %v", record.PublishOutcome.Errors)
	}
}

func TestRun_RejectsConcurrentRun(t *testing.T) {
	registry := agents.NewRegistry("", "")
	release := make(chan struct{})
	started := make(chan struct{})

	caller := &blockingCaller{
		registry: registry,
		release:  release,
		started:  started,
	}
	h := newHarness(t, &fakeCaller{})
	h.coordinator.caller = caller

	done := make(chan error, 1)
	go func() {
		_, err := h.coordinator.Run(context.Background(), validRequest())
		done <- err
	}()

	<-started
	if _, err := h.coordinator.Run(context.Background(), validRequest()); !errors.Is(err, ErrRunInFlight) {
		t.Fatalf("expected ErrRunInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first run should complete: %v", err)
	}
	if h.history.Len() != 1 {
		t.Errorf("expected one record from the accepted run, got %d", h.history.Len())
	}
}

// blockingCaller parks the generation call until released so a second Run
// can race the first.
type blockingCaller struct {
	registry *agents.Registry
	release  chan struct{}
	started  chan struct{}
	once     sync.Once
}

func (b *blockingCaller) Invoke(_ context.Context, agentID, _ string) (*agentsclient.Envelope, error) {
	if agentID == b.registry.OrchestratorID() {
		b.once.Do(func() { close(b.started) })
		<-b.release
		return successEnvelope("", `{"twitter_post":"Hello"}`), nil
	}
	return successEnvelope("", `{"twitter_status":"success"}`), nil
}

func TestBuildGenerationMessage(t *testing.T) {
	req := Request{
		Topic:        "  Launch week  ",
		Platforms:    []string{content.PlatformTwitter, content.PlatformFanvue},
		ContentType:  content.TypePost,
		Instructions: "keep it short",
	}
	brand := settings.BrandSettings{BrandVoice: "bold", RestrictedLanguage: "no slang"}

	msg := buildGenerationMessage(req, brand.PromptBlock())
	for _, want := range []string{
		"Topic/Brief: Launch week",
		"Target Platforms: Twitter, Fanvue",
		"Content Type: post",
		"Additional Instructions: keep it short",
		"--- Brand Guidelines ---",
		"Brand Voice: bold",
		"Restricted Language: no slang",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}

	// Brand Voice is rendered before Restricted Language, always.
	if strings.Index(msg, "Brand Voice") > strings.Index(msg, "Restricted Language") {
		t.Error("brand fields out of order")
	}

	plain := buildGenerationMessage(Request{Topic: "t", Platforms: []string{"Twitter"}, ContentType: "post"}, "")
	if strings.Contains(plain, "Brand Guidelines") {
		t.Error("empty brand settings must not add a guidelines block")
	}
	if strings.Contains(plain, "Additional Instructions") {
		t.Error("empty instructions must not add an instructions line")
	}
}

func TestBuildPublishMessage(t *testing.T) {
	generated := content.GeneratedContent{TwitterPost: "Hello"}
	msg := buildPublishMessage(generated, []string{content.PlatformTwitter, content.PlatformInstagram})

	for _, want := range []string{
		"Publish the following content:",
		"Twitter: Hello",
		"Instagram: N/A",
		"YouTube Shorts: N/A",
		"Fanvue: N/A",
		"Target Platforms: Twitter, Instagram",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}
