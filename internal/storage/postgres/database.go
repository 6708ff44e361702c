package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/VitaminP8/blogery/models"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/rs/zerolog/log"
)

var DB *gorm.DB

// GetDB возвращает глобальную переменную DB (для тестирования)
func GetDB() *gorm.DB {
	return DB
}

// InitDB подключается к базе данных PostgreSQL и устанавливает глобальную переменную DB
func InitDB(dsn string) error {
	db, err := gorm.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}

	DB = db
	log.Info().Msg("Successfully connected to the database.")
	return nil
}

// Migrate создает и обновляет таблицы под текущие модели
func Migrate() error {
	if DB == nil {
		return errors.New("database is not initialized")
	}

	err := DB.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}, &models.PostLike{}).Error
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// CloseDB закрывает соединение с базой данных
func CloseDB() error {
	if DB == nil {
		return nil
	}

	err := DB.Close()
	if err != nil {
		return fmt.Errorf("failed to close the database connection: %w", err)
	}

	log.Info().Msg("Database connection closed.")
	return nil
}

// InitDBWithConnection для тестирования (позволяет инъекцию соединения БД)
func InitDBWithConnection(db *gorm.DB) {
	DB = db
}

// Pinger проверяет живость базы для /health
type Pinger struct{}

func (Pinger) Ping(ctx context.Context) error {
	if DB == nil {
		return errors.New("database is not initialized")
	}
	return DB.DB().PingContext(ctx)
}

// isUniqueViolation распознает нарушение уникального индекса в postgres и sqlite
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
