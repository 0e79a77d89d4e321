package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/thereayou/chatbot-api/internal/config"
	"github.com/thereayou/chatbot-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func (d *Database) Connect(cfg config.Database) error {
	if cfg.URL == "" {
		return errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	d.db = db

	return d.Migrate()
}

// Migrate создает таблицы users и messages, если их еще нет
func (d *Database) Migrate() error {
	return d.db.AutoMigrate(&models.User{}, &models.Message{})
}
