package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/database/entities"
)

// AutoMigrate applies the gateway schema: users, nodes, buckets, objects.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entities.User{},
		&entities.Node{},
		&entities.Bucket{},
		&entities.Object{},
	); err != nil {
		return err
	}
	log.Info().Msg("applied gateway schema migrations")
	return nil
}
