package database

import (
	"fmt"
	"interview-api/internal/logger"
	"interview-api/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MigrationRecord marks a migration as applied.
type MigrationRecord struct {
	gorm.Model
	Name string `gorm:"uniqueIndex"`
}

func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

type Migration struct {
	Name string
	Run  func(*gorm.DB) error
}

func GetMigrations() []Migration {
	return []Migration{
		{
			Name: "CreateAccountsAndUsage",
			Run: func(db *gorm.DB) error {
				return db.AutoMigrate(&models.Account{}, &models.UsageRecord{})
			},
		},
		{
			Name: "CreateQuestionsAndInterviews",
			Run: func(db *gorm.DB) error {
				return db.AutoMigrate(&models.Question{}, &models.Interview{})
			},
		},
		{
			Name: "AddInterviewUserUpdatedIndex",
			Run: func(db *gorm.DB) error {
				return db.Exec("CREATE INDEX IF NOT EXISTS idx_interviews_user_updated ON interviews (user_id, updated_at DESC)").Error
			},
		},
	}
}

// RunMigrations applies every migration not yet recorded in schema_migrations.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %v", err)
	}

	for _, migration := range GetMigrations() {
		var record MigrationRecord
		result := db.Where("name = ?", migration.Name).First(&record)

		if result.Error == gorm.ErrRecordNotFound {
			logger.LogEvent(logrus.InfoLevel, "Running migration", logrus.Fields{"migration": migration.Name})

			err := db.Transaction(func(tx *gorm.DB) error {
				if err := migration.Run(tx); err != nil {
					return err
				}

				return tx.Create(&MigrationRecord{Name: migration.Name}).Error
			})

			if err != nil {
				return fmt.Errorf("migration '%s' failed: %v", migration.Name, err)
			}
		} else if result.Error != nil {
			return fmt.Errorf("failed to check migration status: %v", result.Error)
		}
	}

	return nil
}
