package comment

import (
	"context"

	"github.com/VitaminP8/blogery/internal/pagination"
	"github.com/VitaminP8/blogery/internal/subscription"
	"github.com/VitaminP8/blogery/models"
)

type Service struct {
	store   CommentStorage
	manager subscription.Manager
}

// NewService - manager может быть nil, тогда новые комментарии никуда не публикуются
func NewService(store CommentStorage, manager subscription.Manager) *Service {
	return &Service{store: store, manager: manager}
}

func (s *Service) Create(ctx context.Context, postID uint, body string) (*models.CommentView, error) {
	c, err := s.store.CreateComment(ctx, postID, body)
	if err != nil {
		return nil, err
	}

	if s.manager != nil {
		s.manager.Publish(postID, c)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, postID uint, p pagination.Params) (*pagination.Page[*models.CommentView], error) {
	comments, total, err := s.store.ListComments(ctx, postID, p.Skip, p.Take)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(comments, p, total), nil
}

func (s *Service) Update(ctx context.Context, postID, id uint, body string) (*models.CommentView, error) {
	return s.store.UpdateComment(ctx, postID, id, body)
}

func (s *Service) Delete(ctx context.Context, postID, id uint) error {
	return s.store.DeleteComment(ctx, postID, id)
}
