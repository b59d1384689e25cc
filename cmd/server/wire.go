//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fileflux/fileflux-manager-webapp/internal/config"
	"github.com/fileflux/fileflux-manager-webapp/internal/domain/bucket"
	"github.com/fileflux/fileflux-manager-webapp/internal/domain/cluster"
	"github.com/fileflux/fileflux-manager-webapp/internal/domain/object"
	"github.com/fileflux/fileflux-manager-webapp/internal/domain/user"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/auth"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/database"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/logger"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/metrics"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/nodeclient"
	bucketrepo "github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/repository/bucket"
	noderepo "github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/repository/node"
	objectrepo "github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/repository/object"
	userrepo "github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/repository/user"
	"github.com/fileflux/fileflux-manager-webapp/internal/interfaces/httpserver"
	"github.com/fileflux/fileflux-manager-webapp/internal/interfaces/httpserver/handlers"
)

var gatewaySet = wire.NewSet(
	userrepo.NewRepository,
	wire.Bind(new(user.Repository), new(*userrepo.Repository)),
	noderepo.NewRepository,
	wire.Bind(new(cluster.Repository), new(*noderepo.Repository)),
	bucketrepo.NewRepository,
	wire.Bind(new(bucket.Repository), new(*bucketrepo.Repository)),
	objectrepo.NewRepository,
	wire.Bind(new(object.Repository), new(*objectrepo.Repository)),
	nodeclient.New,
	wire.Bind(new(bucket.NodeClient), new(*nodeclient.Client)),
	wire.Bind(new(object.NodeClient), new(*nodeclient.Client)),
	user.NewService,
	bucket.NewService,
	newRouter,
	object.NewService,
)

// BuildApplication assembles the gateway with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		gatewaySet,
		auth.NewValidator,
		metrics.New,
		handlers.NewProvider,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.GetDatabaseWriteDSN(),
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newRouter(cfg *config.Config, objects object.Repository) *object.Router {
	return object.NewRouter(objects, cfg.IngestNode)
}
