package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables for the given models.
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Reset drops the tables for the given models and creates them again.
// Models are dropped in reverse order so dependents go first.
func Reset(db *gorm.DB, models ...any) error {
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	return Migrate(db, models...)
}
