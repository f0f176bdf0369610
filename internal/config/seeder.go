package config

import (
	"log"

	"masarify/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// defaultCategories are the global expense categories available to every
// user (user_id = 0). Users add their own alongside these.
var defaultCategories = []string{
	"Groceries",
	"Rent",
	"Transport",
	"Utilities",
	"Health",
	"Education",
	"Other",
}

// SeedDefaultCategories inserts the global expense categories if none exist
func SeedDefaultCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ExpenseCategory{}).Where("user_id = ?", 0).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, title := range defaultCategories {
		category := models.ExpenseCategory{
			UserID: 0,
			Title:  title,
		}
		if err := db.Create(&category).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d default expense categories", len(defaultCategories))
	return nil
}
