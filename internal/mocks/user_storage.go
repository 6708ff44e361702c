package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/models"
)

// MockUserStorage реализует интерфейс user.UserStorage для тестирования
type MockUserStorage struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint

	// Err, если задан, возвращается из всех методов
	Err error
}

// NewMockUserStorage создает новый экземпляр мока для хранилища пользователей
func NewMockUserStorage() *MockUserStorage {
	return &MockUserStorage{
		users:  make(map[uint]*models.User),
		nextID: 1,
	}
}

func (m *MockUserStorage) CreateUser(ctx context.Context, email, username, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	for _, u := range m.users {
		if u.Email == email || u.Username == username {
			return nil, apperr.Conflict("User exists")
		}
	}

	user := &models.User{Username: username, Email: email, Password: passwordHash}
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	m.nextID++

	m.users[user.ID] = user
	cp := *user
	return &cp, nil
}

func (m *MockUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound()
}

func (m *MockUserStorage) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	u, exists := m.users[id]
	if !exists {
		return nil, apperr.NotFound()
	}
	cp := *u
	return &cp, nil
}

// GetPasswordHash - вспомогательный метод для тестирования
func (m *MockUserStorage) GetPasswordHash(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return u.Password
		}
	}
	return ""
}
