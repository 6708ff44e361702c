package mocks

import (
	"context"
	"sync"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/models"
)

// MockCommentStorage реализует comment.CommentStorage поверх MockPostStorage.
// Комментарии отдаются в порядке создания.
type MockCommentStorage struct {
	mu       sync.Mutex
	posts    *MockPostStorage
	comments []*models.CommentView
	nextID   uint
}

func NewMockCommentStorage(posts *MockPostStorage) *MockCommentStorage {
	return &MockCommentStorage{posts: posts, nextID: 1}
}

func (m *MockCommentStorage) CreateComment(ctx context.Context, postID uint, body string) (*models.CommentView, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, err = m.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	comment := &models.CommentView{
		ID:       m.nextID,
		Body:     body,
		PostID:   postID,
		AuthorID: userID,
	}
	m.nextID++

	m.comments = append(m.comments, comment)
	cp := *comment
	return &cp, nil
}

func (m *MockCommentStorage) ListComments(ctx context.Context, postID uint, skip, take int) ([]*models.CommentView, int64, error) {
	if _, err := m.posts.GetPostByID(ctx, postID); err != nil {
		return nil, 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var all []*models.CommentView
	for _, c := range m.comments {
		if c.PostID == postID {
			cp := *c
			all = append(all, &cp)
		}
	}

	result := make([]*models.CommentView, 0)
	for i := skip; i < len(all) && i < skip+take; i++ {
		result = append(result, all[i])
	}
	return result, int64(len(all)), nil
}

func (m *MockCommentStorage) UpdateComment(ctx context.Context, postID, id uint, body string) (*models.CommentView, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(postID, id)
	if i < 0 {
		return nil, apperr.NotFound()
	}
	if m.comments[i].AuthorID != userID {
		return nil, apperr.Forbidden()
	}

	m.comments[i].Body = body
	cp := *m.comments[i]
	return &cp, nil
}

func (m *MockCommentStorage) DeleteComment(ctx context.Context, postID, id uint) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return err
	}

	post, err := m.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(postID, id)
	if i < 0 {
		return apperr.NotFound()
	}
	if m.comments[i].AuthorID != userID && post.AuthorID != userID {
		return apperr.Forbidden()
	}

	m.comments = append(m.comments[:i], m.comments[i+1:]...)
	return nil
}

func (m *MockCommentStorage) find(postID, id uint) int {
	for i, c := range m.comments {
		if c.ID == id && c.PostID == postID {
			return i
		}
	}
	return -1
}
