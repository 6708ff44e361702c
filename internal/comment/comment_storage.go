package comment

import (
	"context"

	"github.com/VitaminP8/blogery/models"
)

type CommentStorage interface {
	CreateComment(ctx context.Context, postID uint, body string) (*models.CommentView, error)
	ListComments(ctx context.Context, postID uint, skip, take int) ([]*models.CommentView, int64, error)
	UpdateComment(ctx context.Context, postID, id uint, body string) (*models.CommentView, error)
	// DeleteComment разрешен автору комментария и автору поста
	DeleteComment(ctx context.Context, postID, id uint) error
}
