package database

import (
	"fmt"

	"gorm.io/gorm"

	"fintrack/internal/models"
)

// Migrate creates or updates the schema for all model tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Category{},
		&models.Transaction{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
