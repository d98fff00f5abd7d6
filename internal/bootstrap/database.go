package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"payflow/internal/models"
)

// Migrate ensures the access-log tables exist.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

func allModels() []interface{} {
	return []interface{}{
		&models.APILog{},
	}
}
