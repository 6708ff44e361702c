package memory

import (
	"context"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/models"
)

type UserMemoryStorage struct {
	store *Store
}

func NewUserMemoryStorage(store *Store) *UserMemoryStorage {
	return &UserMemoryStorage{store: store}
}

func (s *UserMemoryStorage) CreateUser(ctx context.Context, email, username, passwordHash string) (*models.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, u := range s.store.users {
		if u.Email == email || u.Username == username {
			return nil, apperr.Conflict("User exists")
		}
	}

	now := s.store.now()
	user := &models.User{
		Username: username,
		Email:    email,
		Password: passwordHash,
	}
	user.ID = s.store.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	s.store.nextUserID++

	s.store.users[user.ID] = user

	cp := *user
	return &cp, nil
}

func (s *UserMemoryStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, u := range s.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound()
}

func (s *UserMemoryStorage) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	u, exists := s.store.users[id]
	if !exists {
		return nil, apperr.NotFound()
	}
	cp := *u
	return &cp, nil
}
