package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fileflux/fileflux-manager-webapp/internal/config"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/auth"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/metrics"
	"github.com/fileflux/fileflux-manager-webapp/internal/interfaces/httpserver/handlers"
	"github.com/fileflux/fileflux-manager-webapp/internal/interfaces/httpserver/middlewares"
	"github.com/fileflux/fileflux-manager-webapp/internal/interfaces/httpserver/routes"
)

// HttpServer wraps the gin engine with graceful shutdown helpers.
type HttpServer struct {
	cfg    *config.Config
	engine *gin.Engine
	log    zerolog.Logger
}

// New constructs the HTTP server with default middleware and routes.
func New(cfg *config.Config, log zerolog.Logger, m *metrics.Metrics, validator *auth.Validator, provider *handlers.Provider) *HttpServer {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	// Apply middlewares in order
	engine.Use(middlewares.RequestID())
	engine.Use(middlewares.Metrics(m))
	engine.Use(middlewares.RequestLoggerWithLogger(log))

	registerCoreRoutes(engine, cfg)

	routeProvider := routes.NewRoutes(provider, validator, m)
	routeProvider.Register(engine)

	return &HttpServer{
		cfg:    cfg,
		engine: engine,
		log:    log,
	}
}

// Engine exposes the underlying gin engine.
func (s *HttpServer) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP listener and handles graceful shutdown via context
// cancellation.
func (s *HttpServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr()).Msg("gateway HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func registerCoreRoutes(engine *gin.Engine, cfg *config.Config) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	engine.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": cfg.ServiceName})
	})
}
