package mocks

import (
	"sync"

	"github.com/VitaminP8/blogery/models"
)

// MockSubscriptionManager реализует subscription.Manager и запоминает все публикации
type MockSubscriptionManager struct {
	mu            sync.Mutex
	subs          map[uint][]chan *models.CommentView // postID -> список каналов подписчиков
	notifications map[uint][]*models.CommentView      // Для отслеживания в тестах
}

func NewMockSubscriptionManager() *MockSubscriptionManager {
	return &MockSubscriptionManager{
		subs:          make(map[uint][]chan *models.CommentView),
		notifications: make(map[uint][]*models.CommentView),
	}
}

func (m *MockSubscriptionManager) Subscribe(postID uint) (<-chan *models.CommentView, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan *models.CommentView, 16)
	m.subs[postID] = append(m.subs[postID], ch)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			subscribers := m.subs[postID]
			for i, sub := range subscribers {
				if sub == ch {
					m.subs[postID] = append(subscribers[:i], subscribers[i+1:]...)
					close(ch)
					break
				}
			}
		})
	}

	return ch, cancel
}

func (m *MockSubscriptionManager) Publish(postID uint, comment *models.CommentView) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs[postID] {
		select {
		case sub <- comment:
		default:
		}
	}

	m.notifications[postID] = append(m.notifications[postID], comment)
}

// GetNotificationsForPost - вспомогательный метод для тестирования,
// возвращает все уведомления для конкретного поста
func (m *MockSubscriptionManager) GetNotificationsForPost(postID uint) []*models.CommentView {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.notifications[postID]
}
