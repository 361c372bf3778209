package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/trigg3rX/keybrowser/internal/api/handler"
	"github.com/trigg3rX/keybrowser/internal/metrics"
	"github.com/trigg3rX/keybrowser/pkg/logging"
)

// Server represents the API server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	logger     logging.Logger
}

// Config holds the server configuration
type Config struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxHeaderBytes int
	// RequestTimeout bounds the store round trips of a single request.
	RequestTimeout time.Duration
	CORSOrigins    []string
}

// Dependencies holds the server dependencies
type Dependencies struct {
	Logger           logging.Logger
	Browser          handler.KeyBrowser
	MetricsCollector *metrics.Collector
}

// NewServer creates a new API server
func NewServer(cfg Config, deps Dependencies) *Server {
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 60 * time.Second
	}
	if cfg.MaxHeaderBytes == 0 {
		cfg.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNoOpLogger()
	}
	if deps.MetricsCollector == nil {
		deps.MetricsCollector = metrics.NewCollector()
	}

	router := gin.New()
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", TraceIDHeader},
		ExposedHeaders: []string{TraceIDHeader},
	})

	srv := &Server{
		router: router,
		logger: deps.Logger,
		httpServer: &http.Server{
			Addr:           fmt.Sprintf(":%s", cfg.Port),
			Handler:        corsHandler.Handler(router),
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
			MaxHeaderBytes: cfg.MaxHeaderBytes,
		},
	}

	srv.setupMiddleware(cfg)
	srv.setupRoutes(deps)

	return srv
}

// Handler returns the full HTTP handler chain, CORS included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the server
func (s *Server) Start() error {
	s.logger.Info("Starting key browser API server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping key browser API server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) setupMiddleware(cfg Config) {
	s.router.Use(gin.Recovery())
	s.router.Use(TraceMiddleware())
	s.router.Use(MetricsMiddleware())
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(ErrorMiddleware(s.logger))
	s.router.Use(TimeoutMiddleware(cfg.RequestTimeout))
}

func (s *Server) setupRoutes(deps Dependencies) {
	h := handler.NewHandler(deps.Logger, deps.Browser, deps.MetricsCollector.Handler())

	s.router.GET("/", h.HandleRoot)
	s.router.GET("/health", h.HandleHealth)
	s.router.GET("/metrics", h.HandleMetrics)

	s.router.GET("/keys", h.GetKeys)
	s.router.GET("/keys/total", h.GetTotal)
}
