package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"chatlist-server/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entities.Model{},
		&entities.Prompt{},
		&entities.Result{},
		&entities.Enhancement{},
		&entities.Setting{},
	); err != nil {
		return err
	}
	log.Info().Msg("applied schema migrations")
	return nil
}
