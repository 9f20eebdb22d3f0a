package config

import (
	"time"

	"contentstudio/pkg/config"
)

// Config stores environment configuration for the studio service.
type Config struct {
	Port                  string
	AgentAPIURL           string
	AgentAPIKey           string
	AgentUserID           string
	AgentTimeout          time.Duration
	EventsURL             string
	DataDir               string
	JWTSecret             string
	OrchestratorAgentID   string
	PublisherAgentID      string
	CircuitBreakerEnabled bool
}

// LoadConfig loads the studio configuration from environment variables.
func LoadConfig() Config {
	agentAPIURL := config.GetEnv("AGENT_API_URL", "")

	return Config{
		Port:                  config.GetEnv("PORT", "18090"),
		AgentAPIURL:           agentAPIURL,
		AgentAPIKey:           config.GetEnv("AGENT_API_KEY", ""),
		AgentUserID:           config.GetEnv("AGENT_USER_ID", ""),
		AgentTimeout:          config.GetEnvDuration("AGENT_TIMEOUT", 120*time.Second),
		EventsURL:             config.GetEnv("AGENT_EVENTS_URL", agentAPIURL),
		DataDir:               config.GetEnv("STUDIO_DATA_DIR", "./data"),
		JWTSecret:             config.GetEnv("JWT_SECRET", ""),
		OrchestratorAgentID:   config.GetEnv("ORCHESTRATOR_AGENT_ID", ""),
		PublisherAgentID:      config.GetEnv("PUBLISHER_AGENT_ID", ""),
		CircuitBreakerEnabled: config.GetEnvBool("AGENT_CIRCUIT_BREAKER", true),
	}
}
