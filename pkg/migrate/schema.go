package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/comicstore/pkg/db/models"
	"gorm.io/gorm"
)

// SyncSchema creates or extends the tables for every model. It backs the
// SQLite driver, where the Postgres goose files do not apply.
func SyncSchema(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db is required")
	}
	if err := conn.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate models: %w", err)
	}
	return nil
}
