package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dhima/searchlog-poller/internal/api/handlers"
	"github.com/dhima/searchlog-poller/internal/api/middleware"
	"github.com/dhima/searchlog-poller/internal/logging"
	"github.com/dhima/searchlog-poller/pkg/config"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// Dependencies are the collaborators the HTTP layer needs. main builds
// them once; tests substitute fakes.
type Dependencies struct {
	Config    config.App
	Logger    logging.Logger
	DB        handlers.Pinger
	Search    handlers.SearchLogService
	Scheduler handlers.PollScheduler
	Cursor    handlers.CursorManager
	Counter   handlers.RecordCounter
}

// Server orchestrates HTTP routing for the dashboard and admin API.
type Server struct {
	config config.App
	logger logging.Logger
	router *gin.Engine
	deps   Dependencies
}

// NewServer wires the handlers into a gin router.
func NewServer(deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = logging.NewNoOpLogger()
	}

	if deps.Config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	server := &Server{
		config: deps.Config,
		logger: deps.Logger,
		deps:   deps,
	}
	server.setupRouter()
	return server
}

// setupRouter configures the Gin router with middleware and routes.
func (s *Server) setupRouter() {
	router := gin.New()
	zapLogger := s.logger.Zap()

	// Recovery first so it also catches panics raised by later middleware.
	router.Use(ginzap.RecoveryWithZap(zapLogger, true))
	router.Use(middleware.RequestID())
	router.Use(ginzap.Ginzap(zapLogger, time.RFC3339, true))
	router.Use(cors.New(s.corsConfig()))

	router.GET("/health", handlers.NewHealthHandler(s.logger, s.deps.DB).Health)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		statusHandler := handlers.NewStatusHandler(s.logger, s.deps.Scheduler, s.deps.Cursor, s.deps.Counter)
		v1.GET("/status", statusHandler.Status)

		searchHandler := handlers.NewSearchHandler(s.logger, s.deps.Search)
		v1.GET("/users", searchHandler.ListUsers)
		v1.GET("/users/:email", searchHandler.GetUser)
		v1.GET("/searches-per-day", searchHandler.SearchesPerDay)
		v1.GET("/searches-by-day", searchHandler.SearchesByDay)
	}

	adminHandler := handlers.NewAdminHandler(s.logger, s.deps.Cursor, s.deps.Scheduler)
	admin := router.Group("/admin")
	{
		admin.POST("/reset-cursor", adminHandler.ResetCursor)
		admin.POST("/poll", adminHandler.TriggerPoll)
	}

	s.router = router
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}

	origins := s.config.CORSOrigins
	if len(origins) == 0 || containsWildcard(origins) {
		// gin-contrib/cors rejects credentials combined with a wildcard origin.
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on the configured port until ctx is cancelled, then shuts
// the listener down gracefully. In-flight requests get shutdownTimeout.
func (s *Server) Serve(ctx context.Context) error {
	addr := ":" + s.config.APIPort
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server",
			zap.String("address", addr),
			zap.String("environment", s.config.Environment),
			zap.String("log_level", s.config.LogLevel),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.logger.Error("API server failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("API server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("API server stopped")
	return nil
}
