package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/orders-dashboard/internal/api/handlers"
	"github.com/eshaffer321/orders-dashboard/internal/api/middleware"
	"github.com/eshaffer321/orders-dashboard/internal/application/dashboard"
	"github.com/eshaffer321/orders-dashboard/internal/infrastructure/storage"
	"github.com/eshaffer321/orders-dashboard/internal/observability"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
	RateLimit      middleware.RateLimiterConfig
	ExposeMetrics  bool
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		RateLimit:      middleware.DefaultRateLimiterConfig(),
		ExposeMetrics:  true,
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
	repo       storage.OrderRepository
	registry   *dashboard.Registry
	metrics    *observability.Metrics
}

// NewServer creates a new API server. metrics may be nil, in which case
// nothing is recorded and /metrics is not served.
func NewServer(cfg Config, registry *dashboard.Registry, repo storage.OrderRepository, metrics *observability.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:   cfg,
		router:   gin.New(),
		logger:   logger,
		repo:     repo,
		registry: registry,
		metrics:  metrics,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())

	// CORS
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = s.config.AllowedOrigins
	s.router.Use(middleware.CORS(corsConfig))

	// Request logging
	s.router.Use(middleware.Logging(s.logger))
	s.router.Use(middleware.Metrics(s.metrics))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler(s.repo)
	s.router.GET("/health", healthHandler.ServeHTTP)

	if s.metrics != nil && s.config.ExposeMetrics {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	limiter := middleware.NewRateLimiter(s.config.RateLimit)

	// API routes
	api := s.router.Group("/api", middleware.Profile(), limiter.Middleware())

	// Dashboard view
	dashboardHandler := handlers.NewDashboardHandler(s.registry)
	api.GET("/dashboard", dashboardHandler.Get)
	api.DELETE("/dashboard", dashboardHandler.Clear)
	api.PUT("/dashboard/query", dashboardHandler.SetQuery)
	api.DELETE("/dashboard/filters/:type", dashboardHandler.RemoveFilter)
	api.PUT("/dashboard/sort", dashboardHandler.SetSort)
	api.PUT("/dashboard/page", dashboardHandler.SetPage)
	api.POST("/dashboard/page/next", dashboardHandler.NextPage)
	api.POST("/dashboard/page/prev", dashboardHandler.PrevPage)
	api.PUT("/dashboard/theme", dashboardHandler.SetTheme)

	// Orders
	ordersHandler := handlers.NewOrdersHandler(s.registry, s.metrics, s.logger)
	api.GET("/orders/export", ordersHandler.Export)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the gin engine for testing.
func (s *Server) Router() http.Handler {
	return s.router
}
