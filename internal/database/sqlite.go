package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"styx-bot/internal/models"
)

// ConnectSQLite opens (or creates) the single-file store and migrates the
// full schema inside one transaction, so a half-created schema never
// survives a failed start.
func ConnectSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=busy_timeout(5000)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.AutoMigrate(
			&models.User{},
			&models.Admin{},
			&models.Group{},
			&models.GroupMembership{},
			&models.SignInRecord{},
			&models.Button{},
			&models.Advertisement{},
		)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
