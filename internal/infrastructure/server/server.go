// Package server assembles the relay daemon: HTTP client, executor,
// middleware, and routes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/InfaPanel/internal/api/http"
	"github.com/GriffinCanCode/InfaPanel/internal/api/middleware"
	"github.com/GriffinCanCode/InfaPanel/internal/api/ws"
	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/config"
	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/logging"
	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/InfaPanel/internal/relay"
	"github.com/GriffinCanCode/InfaPanel/internal/relay/client"
)

// Server wraps the relay daemon's HTTP server and dependencies.
type Server struct {
	router  *gin.Engine
	httpSrv *http.Server
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// New creates a relay daemon instance.
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing relay daemon",
		zap.String("host", cfg.Relay.Host),
		zap.String("port", cfg.Relay.Port),
	)

	metrics := monitoring.NewMetrics()

	httpClient := client.New()
	if cfg.RateLimit.Enabled {
		httpClient.SetRateLimit(cfg.RateLimit.RequestsPerSecond)
	}

	breaker := resilience.New(resilience.Settings{
		OnStateChange: func(from, to resilience.State) {
			logger.Warn("Upstream circuit state changed",
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})

	executor := relay.NewExecutor(httpClient, logger)
	executor.Guard(breaker)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(monitoring.Middleware(metrics))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
	}

	handlers := apihttp.NewHandlers(executor, breaker, metrics, logger)
	wsHandler := ws.NewHandler(executor, metrics, logger)

	router.GET("/health", handlers.Health)
	router.GET("/metrics", handlers.Metrics)
	router.POST("/api/relay", handlers.Relay)
	router.GET("/relay", wsHandler.HandleConnection)

	return &Server{
		router: router,
		logger: logger,
		config: cfg,
		httpSrv: &http.Server{
			Addr:    cfg.Relay.Host + ":" + cfg.Relay.Port,
			Handler: router,
		},
		metrics: metrics,
	}, nil
}

// Run starts serving until the listener fails or Close is called.
func (s *Server) Run() error {
	s.logger.Info("Relay daemon listening", zap.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts the server down gracefully.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := s.httpSrv.Shutdown(ctx)
	s.logger.Sync() //nolint:errcheck
	return err
}
