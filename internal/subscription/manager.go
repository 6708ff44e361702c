package subscription

import (
	"sync"

	"github.com/VitaminP8/blogery/models"
)

// subscriberBuffer - сколько комментариев копится для подписчика, пока он не прочитал предыдущие
const subscriberBuffer = 64

type SubscriptionManager struct {
	mu   sync.Mutex
	subs map[uint][]chan *models.CommentView // postID -> список каналов подписчиков
}

func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		subs: make(map[uint][]chan *models.CommentView),
	}
}

func (m *SubscriptionManager) Subscribe(postID uint) (<-chan *models.CommentView, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan *models.CommentView, subscriberBuffer)

	m.subs[postID] = append(m.subs[postID], ch)

	var once sync.Once
	// функция для отписки, повторный вызов ничего не делает
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
			if len(m.subs[postID]) == 0 {
				delete(m.subs, postID)
			}
		})
	}

	return ch, cancel
}

func (m *SubscriptionManager) Publish(postID uint, comment *models.CommentView) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Publish не ждет: если буфер подписчика полон, комментарий для него теряется
	for _, sub := range m.subs[postID] {
		select {
		case sub <- comment:
		default:
		}
	}
}

// Subscribers возвращает число активных подписок на пост
func (m *SubscriptionManager) Subscribers(postID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[postID])
}
