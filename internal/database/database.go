package database

import (
	"github.com/energyrank/energyrank-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Init(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Surfaces unique/foreign-key violations as gorm sentinel errors
		// so the store layer can translate them.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Auto migrate schemas
	err = db.AutoMigrate(
		&models.User{},
		&models.Brand{},
		&models.Category{},
		&models.Criterion{},
		&models.Product{},
		&models.Review{},
		&models.Rating{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
