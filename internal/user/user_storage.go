package user

import (
	"context"

	"github.com/VitaminP8/blogery/models"
)

type UserStorage interface {
	// CreateUser возвращает 409, если email или username уже заняты
	CreateUser(ctx context.Context, email, username, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}
