package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contentstudio/internal/activity"
	"contentstudio/internal/agents"
	"contentstudio/internal/history"
	"contentstudio/internal/pipeline"
	"contentstudio/internal/settings"
	"contentstudio/pkg/auth"
	"contentstudio/pkg/logging"
)

// Runner is the pipeline surface the API needs.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*history.Record, error)
	Status() pipeline.Status
}

// ActivityView exposes the live activity snapshot.
type ActivityView interface {
	State() activity.State
}

// Handlers serves the studio HTTP API.
type Handlers struct {
	runner    Runner
	activity  ActivityView
	history   *history.Store
	settings  *settings.Store
	registry  *agents.Registry
	logger    logging.Logger
	jwtSecret []byte
}

// HandlersConfig wires the API handlers.
type HandlersConfig struct {
	Runner   Runner
	Activity ActivityView
	History  *history.Store
	Settings *settings.Store
	Registry *agents.Registry
	Logger   logging.Logger
	// JWTSecret enables bearer auth on the studio routes when non-empty.
	JWTSecret string
}

// NewHandlers creates the API handler set.
func NewHandlers(cfg HandlersConfig) *Handlers {
	return &Handlers{
		runner:    cfg.Runner,
		activity:  cfg.Activity,
		history:   cfg.History,
		settings:  cfg.Settings,
		registry:  cfg.Registry,
		logger:    cfg.Logger,
		jwtSecret: []byte(cfg.JWTSecret),
	}
}

// RegisterRoutes mounts the studio API on the router.
func (h *Handlers) RegisterRoutes(router gin.IRouter) {
	studio := router.Group("/api/studio")
	if len(h.jwtSecret) > 0 {
		studio.Use(auth.JWTAuthMiddleware(h.jwtSecret))
	}

	studio.POST("/content", h.CreateContent)
	studio.GET("/status", h.GetStatus)
	studio.GET("/activity", h.GetActivity)
	studio.GET("/history", h.ListHistory)
	studio.DELETE("/history", h.ClearHistory)
	studio.GET("/settings", h.GetSettings)
	studio.PUT("/settings", h.UpdateSettings)
	studio.GET("/agents", h.ListAgents)
}

// CreateContent runs the full generate-then-publish pipeline and returns
// the recorded run. Blocks until the run settles.
func (h *Handlers) CreateContent(c *gin.Context) {
	var req pipeline.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.runner.Run(c.Request.Context(), req)
	if err != nil {
		var verr *pipeline.ValidationError
		var gerr *pipeline.GenerationError

		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
		case errors.Is(err, pipeline.ErrRunInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.As(err, &gerr):
			c.JSON(http.StatusBadGateway, gin.H{"error": gerr.Error()})
		default:
			h.logger.WithError(err).Error("Pipeline run failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "content generation failed unexpectedly"})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetStatus reports the coordinator state and progress for polling clients.
func (h *Handlers) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.runner.Status())
}

// GetActivity returns the live activity snapshot for the current session.
func (h *Handlers) GetActivity(c *gin.Context) {
	c.JSON(http.StatusOK, h.activity.State())
}

// ListHistory returns past runs, newest first, narrowed by query filters.
func (h *Handlers) ListHistory(c *gin.Context) {
	records := h.history.List(history.Filter{
		Search:      c.Query("search"),
		Platform:    c.Query("platform"),
		ContentType: c.Query("type"),
	})
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

// ClearHistory wipes all recorded runs.
func (h *Handlers) ClearHistory(c *gin.Context) {
	if err := h.history.Clear(); err != nil {
		h.logger.WithError(err).Error("Failed to clear history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// GetSettings returns the stored brand settings.
func (h *Handlers) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.Get())
}

// UpdateSettings replaces the stored brand settings.
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var incoming settings.BrandSettings
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings body"})
		return
	}
	if err := h.settings.Save(incoming); err != nil {
		h.logger.WithError(err).Error("Failed to save settings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, incoming)
}

// ListAgents returns the static agent roster.
func (h *Handlers) ListAgents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"agents": h.registry.List()})
}
