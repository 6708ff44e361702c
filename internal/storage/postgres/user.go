package postgres

import (
	"context"
	"fmt"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/models"
	"github.com/jinzhu/gorm"
)

type UserPostgresStorage struct{}

func NewUserPostgresStorage() *UserPostgresStorage {
	return &UserPostgresStorage{}
}

func (s *UserPostgresStorage) CreateUser(ctx context.Context, email, username, passwordHash string) (*models.User, error) {
	// проверка - существует ли пользователь с таким email или username
	var existUser models.User
	err := DB.Where("email = ? OR username = ?", email, username).First(&existUser).Error
	if err == nil {
		return nil, apperr.Conflict("User exists")
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("could not check existing user: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: passwordHash,
	}

	err = DB.Create(user).Error
	if err != nil {
		// параллельная регистрация успела раньше
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("User exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *UserPostgresStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findUser(DB.Where("email = ?", email))
}

func (s *UserPostgresStorage) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return findUser(DB.Where("id = ?", id))
}

func findUser(query *gorm.DB) (*models.User, error) {
	var user models.User
	err := query.First(&user).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, apperr.NotFound()
		}
		return nil, fmt.Errorf("could not get user: %w", err)
	}
	return &user, nil
}
