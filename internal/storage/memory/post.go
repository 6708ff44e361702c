package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/models"
)

type PostMemoryStorage struct {
	store *Store
}

func NewPostMemoryStorage(store *Store) *PostMemoryStorage {
	return &PostMemoryStorage{store: store}
}

func (s *PostMemoryStorage) CreatePost(ctx context.Context, input models.PostInput) (*models.PostView, error) {
	// Контекст читается до захвата мьютекса
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	now := s.store.now()
	post := &models.Post{
		Title:    input.Title,
		Body:     input.Body,
		ImageURL: copyString(input.ImageURL),
		AuthorID: userID,
	}
	post.ID = s.store.nextPostID
	post.CreatedAt = now
	post.UpdatedAt = now
	s.store.nextPostID++

	s.store.posts[post.ID] = post
	return s.store.postView(post), nil
}

func (s *PostMemoryStorage) GetPostByID(ctx context.Context, id uint) (*models.PostView, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	post, exists := s.store.posts[id]
	if !exists {
		return nil, apperr.NotFound()
	}
	return s.store.postView(post), nil
}

func (s *PostMemoryStorage) ListPosts(ctx context.Context, query models.PostQuery) ([]*models.PostView, int64, error) {
	q := query.Normalize()
	if q.Skip < 0 {
		q.Skip = 0
	}
	search := strings.ToLower(q.Search)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var matched []*models.Post
	for _, p := range s.store.posts {
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		if q.AuthorID != 0 && p.AuthorID != q.AuthorID {
			continue
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if q.SortOrder == models.SortAsc {
			a, b = b, a
		}
		// порядок по убыванию, при равенстве - по id
		switch {
		case q.SortBy == models.SortByTitle && a.Title != b.Title:
			return a.Title > b.Title
		case q.SortBy == models.SortByCreatedAt && !a.CreatedAt.Equal(b.CreatedAt):
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	total := int64(len(matched))
	views := make([]*models.PostView, 0, q.Take)
	for i := q.Skip; i < len(matched) && i-q.Skip < q.Take; i++ {
		views = append(views, s.store.postView(matched[i]))
	}

	return views, total, nil
}

func (s *PostMemoryStorage) UpdatePost(ctx context.Context, id uint, patch models.PostPatch) (*models.PostView, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	post, err := s.ownedPost(id, userID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Body != nil {
		post.Body = *patch.Body
	}
	if patch.ImageURL != nil {
		post.ImageURL = copyString(patch.ImageURL)
	}
	if !patch.Empty() {
		post.UpdatedAt = s.store.now()
	}

	return s.store.postView(post), nil
}

func (s *PostMemoryStorage) DeletePostByID(ctx context.Context, id uint) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	_, err = s.ownedPost(id, userID)
	if err != nil {
		return err
	}

	// вместе с постом удаляются его комментарии и лайки
	for commentID, c := range s.store.comments {
		if c.PostID == id {
			delete(s.store.comments, commentID)
		}
	}
	delete(s.store.likes, id)
	delete(s.store.posts, id)
	return nil
}

func (s *PostMemoryStorage) LikePost(ctx context.Context, id uint) (int64, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return 0, err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, exists := s.store.posts[id]; !exists {
		return 0, apperr.NotFound()
	}

	likes, ok := s.store.likes[id]
	if !ok {
		likes = make(map[uint]struct{})
		s.store.likes[id] = likes
	}
	likes[userID] = struct{}{}

	return int64(len(likes)), nil
}

func (s *PostMemoryStorage) UnlikePost(ctx context.Context, id uint) (int64, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return 0, err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, exists := s.store.posts[id]; !exists {
		return 0, apperr.NotFound()
	}

	delete(s.store.likes[id], userID)
	return int64(len(s.store.likes[id])), nil
}

func (s *PostMemoryStorage) SetPostImage(ctx context.Context, id uint, imageURL *string) (*models.PostView, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	post, err := s.ownedPost(id, userID)
	if err != nil {
		return nil, err
	}

	post.ImageURL = copyString(imageURL)
	post.UpdatedAt = s.store.now()
	return s.store.postView(post), nil
}

// ownedPost вызывается под мьютексом: 404, если поста нет, 403, если автор другой
func (s *PostMemoryStorage) ownedPost(id, userID uint) (*models.Post, error) {
	post, exists := s.store.posts[id]
	if !exists {
		return nil, apperr.NotFound()
	}
	if post.AuthorID != userID {
		return nil, apperr.Forbidden()
	}
	return post, nil
}
