package storage

import (
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"prereview/models"
)

// OpenPostgres verbindet sich mit der Datenbank und migriert die
// Session-Tabelle.
func OpenPostgres(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	log.Info("Successfully connected to session database.")

	log.Info("Running database auto-migration...")
	if err := db.AutoMigrate(&models.Session{}); err != nil {
		return nil, err
	}
	return db, nil
}
