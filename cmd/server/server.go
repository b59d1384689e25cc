package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fileflux/fileflux-manager-webapp/internal/config"
	"github.com/fileflux/fileflux-manager-webapp/internal/domain/bucket"
	"github.com/fileflux/fileflux-manager-webapp/internal/domain/object"
	"github.com/fileflux/fileflux-manager-webapp/internal/domain/user"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/auth"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/database"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/logger"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/metrics"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/nodeclient"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/observability"
	bucketrepo "github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/repository/bucket"
	noderepo "github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/repository/node"
	objectrepo "github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/repository/object"
	userrepo "github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/repository/user"
	"github.com/fileflux/fileflux-manager-webapp/internal/interfaces/httpserver"
	"github.com/fileflux/fileflux-manager-webapp/internal/interfaces/httpserver/handlers"
)

// Application bundles the long-running pieces of the gateway.
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.GetDatabaseWriteDSN(),
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	userRepository := userrepo.NewRepository(db)
	nodeRepository := noderepo.NewRepository(db)
	bucketRepository := bucketrepo.NewRepository(db)
	objectRepository := objectrepo.NewRepository(db)

	client := nodeclient.New(cfg, log)

	userService := user.NewService(userRepository, log)
	bucketService := bucket.NewService(bucketRepository, nodeRepository, client, log)
	objectRouter := object.NewRouter(objectRepository, cfg.IngestNode)
	objectService := object.NewService(bucketRepository, objectRepository, objectRouter, client, log)

	validator := auth.NewValidator(userService, log)
	gatewayMetrics := metrics.New()
	provider := handlers.NewProvider(userService, bucketService, objectService, log)

	httpServer := httpserver.New(cfg, log, gatewayMetrics, validator, provider)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
