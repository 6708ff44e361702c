package post

import (
	"context"
	"io"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/media"
	"github.com/VitaminP8/blogery/internal/pagination"
	"github.com/VitaminP8/blogery/models"
)

type LikeResult struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

type Service struct {
	store PostStorage
	media media.Uploader
}

func NewService(store PostStorage, uploader media.Uploader) *Service {
	return &Service{store: store, media: uploader}
}

func (s *Service) Create(ctx context.Context, input models.PostInput) (*models.PostView, error) {
	return s.store.CreatePost(ctx, input)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.PostView, error) {
	return s.store.GetPostByID(ctx, id)
}

func (s *Service) List(ctx context.Context, p pagination.Params, filter models.PostQuery) (*pagination.Page[*models.PostView], error) {
	filter.Skip = p.Skip
	filter.Take = p.Take

	posts, total, err := s.store.ListPosts(ctx, filter.Normalize())
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(posts, p, total), nil
}

func (s *Service) Update(ctx context.Context, id uint, patch models.PostPatch) (*models.PostView, error) {
	return s.store.UpdatePost(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.store.DeletePostByID(ctx, id)
}

func (s *Service) Like(ctx context.Context, id uint) (*LikeResult, error) {
	likes, err := s.store.LikePost(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: true, Likes: likes}, nil
}

func (s *Service) Unlike(ctx context.Context, id uint) (*LikeResult, error) {
	likes, err := s.store.UnlikePost(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: false, Likes: likes}, nil
}

// UploadImage загружает файл на медиа-хостинг и сохраняет ссылку в посте.
// Права на пост проверяются до загрузки файла.
func (s *Service) UploadImage(ctx context.Context, id uint, file io.Reader, filename string) (*models.PostView, error) {
	if err := s.checkOwner(ctx, id); err != nil {
		return nil, err
	}

	imageURL, err := s.media.Upload(ctx, file, filename)
	if err != nil {
		return nil, err
	}

	return s.store.SetPostImage(ctx, id, &imageURL)
}

func (s *Service) DeleteImage(ctx context.Context, id uint) (*models.PostView, error) {
	return s.store.SetPostImage(ctx, id, nil)
}

func (s *Service) checkOwner(ctx context.Context, id uint) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return err
	}

	p, err := s.store.GetPostByID(ctx, id)
	if err != nil {
		return err
	}
	if p.AuthorID != userID {
		return apperr.Forbidden()
	}
	return nil
}
