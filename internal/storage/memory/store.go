package memory

import (
	"sync"
	"time"

	"github.com/VitaminP8/blogery/models"
)

// Store - общее состояние in-memory хранилищ. Пользователи, посты, комментарии и лайки
// лежат под одним мьютексом, чтобы удаление поста и подсчеты были согласованы.
type Store struct {
	mu       sync.Mutex
	users    map[uint]*models.User
	posts    map[uint]*models.Post
	comments map[uint]*models.Comment
	likes    map[uint]map[uint]struct{} // postID -> userID

	nextUserID    uint
	nextPostID    uint
	nextCommentID uint

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:         make(map[uint]*models.User),
		posts:         make(map[uint]*models.Post),
		comments:      make(map[uint]*models.Comment),
		likes:         make(map[uint]map[uint]struct{}),
		nextUserID:    1,
		nextPostID:    1,
		nextCommentID: 1,
		now:           time.Now,
	}
}

// Методы ниже вызываются под s.mu

func (s *Store) postView(p *models.Post) *models.PostView {
	cp := *p
	if author, ok := s.users[p.AuthorID]; ok {
		cp.Author = *author
	}
	return cp.View(int64(len(s.likes[p.ID])), s.countComments(p.ID))
}

func (s *Store) commentView(c *models.Comment) *models.CommentView {
	cp := *c
	if author, ok := s.users[c.AuthorID]; ok {
		cp.Author = *author
	}
	return cp.View()
}

func (s *Store) countComments(postID uint) int64 {
	var count int64
	for _, c := range s.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
