package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("AGENT_TIMEOUT", "")
	t.Setenv("AGENT_CIRCUIT_BREAKER", "")

	cfg := LoadConfig()
	if cfg.Port != "18090" {
		t.Errorf("unexpected default port: %q", cfg.Port)
	}
	if cfg.AgentTimeout != 120*time.Second {
		t.Errorf("unexpected default timeout: %v", cfg.AgentTimeout)
	}
	if !cfg.CircuitBreakerEnabled {
		t.Error("circuit breaker should default on")
	}
}

func TestLoadConfig_EventsURLFallsBackToAPIURL(t *testing.T) {
	t.Setenv("AGENT_API_URL", "https://agents.example.com")
	t.Setenv("AGENT_EVENTS_URL", "")
	cfg := LoadConfig()
	if cfg.EventsURL != "https://agents.example.com" {
		t.Errorf("expected events URL fallback, got %q", cfg.EventsURL)
	}

	t.Setenv("AGENT_EVENTS_URL", "wss://events.example.com")
	cfg = LoadConfig()
	if cfg.EventsURL != "wss://events.example.com" {
		t.Errorf("expected explicit events URL, got %q", cfg.EventsURL)
	}
}
