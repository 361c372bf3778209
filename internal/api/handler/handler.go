package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trigg3rX/keybrowser/internal/browser"
	"github.com/trigg3rX/keybrowser/internal/scanner"
	redisclient "github.com/trigg3rX/keybrowser/pkg/client/redis"
	"github.com/trigg3rX/keybrowser/pkg/logging"
)

// KeyBrowser is the service behind the handlers.
type KeyBrowser interface {
	Mode() redisclient.Mode
	GetKeys(ctx context.Context, req scanner.ScanRequest) (*browser.Page, error)
	Total(ctx context.Context) (*int64, error)
	Health(ctx context.Context) *redisclient.HealthStatus
}

// Handler encapsulates the dependencies for the key browser handlers
type Handler struct {
	logger        logging.Logger
	browser       KeyBrowser
	metricsServer http.Handler
	startTime     time.Time
}

func NewHandler(logger logging.Logger, browser KeyBrowser, metricsServer http.Handler) *Handler {
	return &Handler{
		logger:        logger,
		browser:       browser,
		metricsServer: metricsServer,
		startTime:     time.Now(),
	}
}

// HandleRoot provides basic service information
func (h *Handler) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":   "keybrowser",
		"mode":      h.browser.Mode(),
		"status":    "running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"endpoints": []string{
			"GET /keys - Page through keys",
			"GET /keys/total - Estimated number of keys",
			"GET /health - Store connectivity",
			"GET /metrics - Prometheus metrics",
		},
	})
}

func (h *Handler) HandleHealth(c *gin.Context) {
	status := h.browser.Health(c.Request.Context())

	code := http.StatusOK
	state := "healthy"
	if !status.Connected || len(status.Errors) > 0 {
		code = http.StatusServiceUnavailable
		state = "unhealthy"
	}
	c.JSON(code, gin.H{
		"status":         state,
		"redis":          status,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HandleMetrics exposes Prometheus metrics
func (h *Handler) HandleMetrics(c *gin.Context) {
	h.metricsServer.ServeHTTP(c.Writer, c.Request)
}
