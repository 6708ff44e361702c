package memory

import (
	"context"
	"sort"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/models"
)

type CommentMemoryStorage struct {
	store *Store
}

func NewCommentMemoryStorage(store *Store) *CommentMemoryStorage {
	return &CommentMemoryStorage{store: store}
}

func (s *CommentMemoryStorage) CreateComment(ctx context.Context, postID uint, body string) (*models.CommentView, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, exists := s.store.posts[postID]; !exists {
		return nil, apperr.NotFound()
	}

	now := s.store.now()
	comment := &models.Comment{
		Body:     body,
		PostID:   postID,
		AuthorID: userID,
	}
	comment.ID = s.store.nextCommentID
	comment.CreatedAt = now
	comment.UpdatedAt = now
	s.store.nextCommentID++

	s.store.comments[comment.ID] = comment
	return s.store.commentView(comment), nil
}

func (s *CommentMemoryStorage) ListComments(ctx context.Context, postID uint, skip, take int) ([]*models.CommentView, int64, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, exists := s.store.posts[postID]; !exists {
		return nil, 0, apperr.NotFound()
	}

	var comments []*models.Comment
	for _, c := range s.store.comments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}

	// новые комментарии первыми
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		}
		return comments[i].ID > comments[j].ID
	})

	total := int64(len(comments))
	views := make([]*models.CommentView, 0)
	if skip < 0 {
		skip = 0
	}
	for i := skip; i < len(comments) && i-skip < take; i++ {
		views = append(views, s.store.commentView(comments[i]))
	}

	return views, total, nil
}

func (s *CommentMemoryStorage) UpdateComment(ctx context.Context, postID, id uint, body string) (*models.CommentView, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	comment, err := s.findComment(postID, id)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != userID {
		return nil, apperr.Forbidden()
	}

	comment.Body = body
	comment.UpdatedAt = s.store.now()
	return s.store.commentView(comment), nil
}

func (s *CommentMemoryStorage) DeleteComment(ctx context.Context, postID, id uint) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	comment, err := s.findComment(postID, id)
	if err != nil {
		return err
	}

	post, exists := s.store.posts[postID]
	if !exists {
		return apperr.NotFound()
	}

	if comment.AuthorID != userID && post.AuthorID != userID {
		return apperr.Forbidden()
	}

	delete(s.store.comments, id)
	return nil
}

// findComment вызывается под мьютексом; комментарий другого поста считается ненайденным
func (s *CommentMemoryStorage) findComment(postID, id uint) (*models.Comment, error) {
	comment, exists := s.store.comments[id]
	if !exists || comment.PostID != postID {
		return nil, apperr.NotFound()
	}
	return comment, nil
}
