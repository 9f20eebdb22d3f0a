package main

import (
	"os"
	"path/filepath"

	"contentstudio/internal/activity"
	"contentstudio/internal/agents"
	"contentstudio/internal/api"
	studioconfig "contentstudio/internal/config"
	"contentstudio/internal/history"
	"contentstudio/internal/pipeline"
	"contentstudio/internal/settings"
	"contentstudio/pkg/clients"
	agentsclient "contentstudio/pkg/clients/agents"
	"contentstudio/pkg/config"
	"contentstudio/pkg/logging"
	"contentstudio/pkg/monitoring"
	"contentstudio/pkg/server"
	"contentstudio/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("studio")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Studio (content pipeline API)")

	cfg := studioconfig.LoadConfig()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.WithError(err).Fatal("Failed to create data directory")
	}

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("studio", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("studio", version.Version, version.GitCommit)

	// Add health checks
	healthChecker.AddCheck("data_dir", monitoring.DataDirHealthCheck(cfg.DataDir))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"AGENT_API_URL": cfg.AgentAPIURL,
	}))

	// Stores
	historyStore := history.NewStore(history.StoreConfig{
		Path:   filepath.Join(cfg.DataDir, "history.json"),
		Logger: logger,
	})
	settingsStore := settings.NewStore(settings.StoreConfig{
		Path:   filepath.Join(cfg.DataDir, "settings.json"),
		Logger: logger,
	})

	// Remote agent client
	agentConfig := agentsclient.Config{
		BaseURL: cfg.AgentAPIURL,
		APIKey:  cfg.AgentAPIKey,
		UserID:  cfg.AgentUserID,
		Timeout: cfg.AgentTimeout,
		Logger:  logger,
	}
	if cfg.CircuitBreakerEnabled {
		cbConfig := clients.DefaultCircuitBreakerConfig()
		cbConfig.Name = "agent-api"
		cbConfig.Logger = logger
		agentConfig.CircuitBreakerConfig = &cbConfig
	}
	agentCaller := agentsclient.NewClient(agentConfig)

	// Live activity tracker
	tracker := activity.NewTracker(activity.TrackerConfig{
		Subscriber: &activity.WebSocketSubscriber{BaseURL: cfg.EventsURL, Logger: logger},
		Logger:     logger,
	})
	defer tracker.Close()

	// Pipeline coordinator
	registry := agents.NewRegistry(cfg.OrchestratorAgentID, cfg.PublisherAgentID)
	coordinator := pipeline.NewCoordinator(pipeline.Config{
		Caller:   agentCaller,
		Tracker:  tracker,
		History:  historyStore,
		Settings: settingsStore,
		Registry: registry,
		Logger:   logger,
		Metrics:  pipeline.NewMetrics(metricsCollector),
	})

	// HTTP API
	router := server.SetupServiceRouter(logger, "studio", healthChecker, metricsCollector)
	handlers := api.NewHandlers(api.HandlersConfig{
		Runner:    coordinator,
		Activity:  tracker,
		History:   historyStore,
		Settings:  settingsStore,
		Registry:  registry,
		Logger:    logger,
		JWTSecret: cfg.JWTSecret,
	})
	handlers.RegisterRoutes(router)

	serverConfig := server.DefaultConfig("studio", cfg.Port)
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}
}
