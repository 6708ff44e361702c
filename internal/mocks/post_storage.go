package mocks

import (
	"context"
	"sync"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/models"
)

// MockPostStorage - упрощенная реализация post.PostStorage: без сортировки и поиска,
// ListPosts возвращает посты в порядке создания и запоминает последний запрос
type MockPostStorage struct {
	mu     sync.Mutex
	posts  map[uint]*models.PostView
	order  []uint
	likes  map[uint]map[uint]bool
	nextID uint

	LastQuery  models.PostQuery
	ImageCalls int
	ListErr    error
}

func NewMockPostStorage() *MockPostStorage {
	return &MockPostStorage{
		posts:  make(map[uint]*models.PostView),
		likes:  make(map[uint]map[uint]bool),
		nextID: 1,
	}
}

func (m *MockPostStorage) CreatePost(ctx context.Context, input models.PostInput) (*models.PostView, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	post := &models.PostView{
		ID:       m.nextID,
		Title:    input.Title,
		Body:     input.Body,
		ImageURL: input.ImageURL,
		AuthorID: userID,
	}
	m.nextID++

	m.posts[post.ID] = post
	m.order = append(m.order, post.ID)
	cp := *post
	return &cp, nil
}

func (m *MockPostStorage) GetPostByID(ctx context.Context, id uint) (*models.PostView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, apperr.NotFound()
	}
	cp := *post
	return &cp, nil
}

func (m *MockPostStorage) ListPosts(ctx context.Context, query models.PostQuery) ([]*models.PostView, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastQuery = query
	if m.ListErr != nil {
		return nil, 0, m.ListErr
	}

	var all []*models.PostView
	for _, id := range m.order {
		if post, exists := m.posts[id]; exists {
			cp := *post
			all = append(all, &cp)
		}
	}

	result := make([]*models.PostView, 0)
	for i := query.Skip; i < len(all) && i < query.Skip+query.Take; i++ {
		result = append(result, all[i])
	}
	return result, int64(len(all)), nil
}

func (m *MockPostStorage) UpdatePost(ctx context.Context, id uint, patch models.PostPatch) (*models.PostView, error) {
	post, err := m.owned(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Body != nil {
		post.Body = *patch.Body
	}
	if patch.ImageURL != nil {
		post.ImageURL = patch.ImageURL
	}
	cp := *post
	return &cp, nil
}

func (m *MockPostStorage) DeletePostByID(ctx context.Context, id uint) error {
	_, err := m.owned(ctx, id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.posts, id)
	delete(m.likes, id)
	return nil
}

func (m *MockPostStorage) LikePost(ctx context.Context, id uint) (int64, error) {
	return m.setLike(ctx, id, true)
}

func (m *MockPostStorage) UnlikePost(ctx context.Context, id uint) (int64, error) {
	return m.setLike(ctx, id, false)
}

func (m *MockPostStorage) SetPostImage(ctx context.Context, id uint, imageURL *string) (*models.PostView, error) {
	post, err := m.owned(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.ImageCalls++
	post.ImageURL = imageURL
	cp := *post
	return &cp, nil
}

func (m *MockPostStorage) setLike(ctx context.Context, id uint, liked bool) (int64, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	post, exists := m.posts[id]
	if !exists {
		return 0, apperr.NotFound()
	}

	if m.likes[id] == nil {
		m.likes[id] = make(map[uint]bool)
	}
	if liked {
		m.likes[id][userID] = true
	} else {
		delete(m.likes[id], userID)
	}

	post.Likes = int64(len(m.likes[id]))
	return post.Likes, nil
}

func (m *MockPostStorage) owned(ctx context.Context, id uint) (*models.PostView, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, apperr.NotFound()
	}
	if post.AuthorID != userID {
		return nil, apperr.Forbidden()
	}
	return post, nil
}
