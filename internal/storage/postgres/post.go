package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/models"
	"github.com/jinzhu/gorm"
)

type PostPostgresStorage struct{}

func NewPostPostgresStorage() *PostPostgresStorage {
	return &PostPostgresStorage{}
}

func (s *PostPostgresStorage) CreatePost(ctx context.Context, input models.PostInput) (*models.PostView, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    input.Title,
		Body:     input.Body,
		ImageURL: input.ImageURL,
		AuthorID: userID,
	}

	err = DB.Create(post).Error
	if err != nil {
		return nil, fmt.Errorf("could not create post: %w", err)
	}

	return loadPostView(DB, post.ID)
}

func (s *PostPostgresStorage) GetPostByID(ctx context.Context, id uint) (*models.PostView, error) {
	return loadPostView(DB, id)
}

func (s *PostPostgresStorage) ListPosts(ctx context.Context, query models.PostQuery) ([]*models.PostView, int64, error) {
	q := query.Normalize()

	tx := DB.Model(&models.Post{})
	if q.Search != "" {
		tx = tx.Where(`LOWER(title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(q.Search))+"%")
	}
	if q.AuthorID != 0 {
		tx = tx.Where("author_id = ?", q.AuthorID)
	}

	var total int64
	err := tx.Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("could not count posts: %w", err)
	}

	column := "created_at"
	if q.SortBy == models.SortByTitle {
		column = "title"
	}

	var posts []models.Post
	err = tx.Preload("Author").
		Order(column + " " + q.SortOrder).
		Order("id " + q.SortOrder).
		Offset(q.Skip).
		Limit(q.Take).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("could not get posts: %w", err)
	}

	views, err := withCounts(DB, posts)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *PostPostgresStorage) UpdatePost(ctx context.Context, id uint, patch models.PostPatch) (*models.PostView, error) {
	userID, err := checkPostOwner(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Body != nil {
		updates["body"] = *patch.Body
	}
	if patch.ImageURL != nil {
		updates["image_url"] = *patch.ImageURL
	}

	if len(updates) > 0 {
		err = updateOwnedPost(id, userID, updates)
		if err != nil {
			return nil, err
		}
	}

	return loadPostView(DB, id)
}

func (s *PostPostgresStorage) DeletePostByID(ctx context.Context, id uint) error {
	userID, err := checkPostOwner(ctx, id)
	if err != nil {
		return err
	}

	// пост удаляется вместе с комментариями и лайками в одной транзакции
	tx := DB.Begin()
	if tx.Error != nil {
		return fmt.Errorf("could not begin transaction: %w", tx.Error)
	}

	err = tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete likes: %w", err)
	}

	err = tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete comments: %w", err)
	}

	res := tx.Where("id = ? AND author_id = ?", id, userID).Delete(&models.Post{})
	if res.Error != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return apperr.NotFound()
	}

	err = tx.Commit().Error
	if err != nil {
		return fmt.Errorf("could not commit post deletion: %w", err)
	}
	return nil
}

func (s *PostPostgresStorage) LikePost(ctx context.Context, id uint) (int64, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return 0, err
	}

	err = ensurePostExists(id)
	if err != nil {
		return 0, err
	}

	like := models.PostLike{PostID: id, UserID: userID}
	err = DB.Where(like).FirstOrCreate(&like).Error
	// повторный лайк из параллельного запроса упирается в первичный ключ - это тот же результат
	if err != nil && !isUniqueViolation(err) {
		return 0, fmt.Errorf("could not like post: %w", err)
	}

	return countLikes(id)
}

func (s *PostPostgresStorage) UnlikePost(ctx context.Context, id uint) (int64, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return 0, err
	}

	err = ensurePostExists(id)
	if err != nil {
		return 0, err
	}

	err = DB.Where("post_id = ? AND user_id = ?", id, userID).Delete(&models.PostLike{}).Error
	if err != nil {
		return 0, fmt.Errorf("could not unlike post: %w", err)
	}

	return countLikes(id)
}

func (s *PostPostgresStorage) SetPostImage(ctx context.Context, id uint, imageURL *string) (*models.PostView, error) {
	userID, err := checkPostOwner(ctx, id)
	if err != nil {
		return nil, err
	}

	var value interface{} = gorm.Expr("NULL")
	if imageURL != nil {
		value = *imageURL
	}

	err = updateOwnedPost(id, userID, map[string]interface{}{"image_url": value})
	if err != nil {
		return nil, err
	}

	return loadPostView(DB, id)
}

// checkPostOwner: пост существует (404) и принадлежит пользователю из контекста (403)
func checkPostOwner(ctx context.Context, id uint) (uint, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var post models.Post
	err = DB.First(&post, id).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return 0, apperr.NotFound()
		}
		return 0, fmt.Errorf("could not get post: %w", err)
	}

	if post.AuthorID != userID {
		return 0, apperr.Forbidden()
	}
	return userID, nil
}

// updateOwnedPost обновляет пост только при совпадении автора; исчезнувший к этому моменту пост дает 404
func updateOwnedPost(id, userID uint, updates map[string]interface{}) error {
	res := DB.Model(&models.Post{}).Where("id = ? AND author_id = ?", id, userID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("could not update post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound()
	}
	return nil
}

func ensurePostExists(id uint) error {
	var count int64
	err := DB.Model(&models.Post{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return fmt.Errorf("could not get post: %w", err)
	}
	if count == 0 {
		return apperr.NotFound()
	}
	return nil
}

func loadPostView(db *gorm.DB, id uint) (*models.PostView, error) {
	var post models.Post
	err := db.Preload("Author").First(&post, id).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, apperr.NotFound()
		}
		return nil, fmt.Errorf("could not get post by id: %w", err)
	}

	views, err := withCounts(db, []models.Post{post})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

type countRow struct {
	PostID uint
	Total  int64
}

// withCounts добавляет к постам число лайков и комментариев двумя групповыми запросами
func withCounts(db *gorm.DB, posts []models.Post) ([]*models.PostView, error) {
	views := make([]*models.PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	likes, err := countByPost(db, &models.PostLike{}, ids)
	if err != nil {
		return nil, fmt.Errorf("could not count likes: %w", err)
	}
	comments, err := countByPost(db, &models.Comment{}, ids)
	if err != nil {
		return nil, fmt.Errorf("could not count comments: %w", err)
	}

	for i := range posts {
		views = append(views, posts[i].View(likes[posts[i].ID], comments[posts[i].ID]))
	}
	return views, nil
}

func countByPost(db *gorm.DB, model interface{}, ids []uint) (map[uint]int64, error) {
	var rows []countRow
	err := db.Model(model).
		Select("post_id, count(*) as total").
		Where("post_id IN (?)", ids).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}

func countLikes(id uint) (int64, error) {
	var count int64
	err := DB.Model(&models.PostLike{}).Where("post_id = ?", id).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("could not count likes: %w", err)
	}
	return count, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
