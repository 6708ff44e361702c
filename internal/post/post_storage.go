package post

import (
	"context"

	"github.com/VitaminP8/blogery/models"
)

// PostStorage - операции над постами. Автор берется из контекста (auth.WithUserID).
type PostStorage interface {
	CreatePost(ctx context.Context, input models.PostInput) (*models.PostView, error)
	GetPostByID(ctx context.Context, id uint) (*models.PostView, error)
	ListPosts(ctx context.Context, query models.PostQuery) ([]*models.PostView, int64, error)
	UpdatePost(ctx context.Context, id uint, patch models.PostPatch) (*models.PostView, error)
	DeletePostByID(ctx context.Context, id uint) error
	// LikePost и UnlikePost идемпотентны и возвращают актуальное число лайков
	LikePost(ctx context.Context, id uint) (int64, error)
	UnlikePost(ctx context.Context, id uint) (int64, error)
	// SetPostImage с nil очищает картинку
	SetPostImage(ctx context.Context, id uint, imageURL *string) (*models.PostView, error)
}
