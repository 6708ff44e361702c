package postgres

import (
	"context"
	"fmt"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/models"
	"github.com/jinzhu/gorm"
)

type CommentPostgresStorage struct{}

func NewCommentPostgresStorage() *CommentPostgresStorage {
	return &CommentPostgresStorage{}
}

func (s *CommentPostgresStorage) CreateComment(ctx context.Context, postID uint, body string) (*models.CommentView, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	err = ensurePostExists(postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: userID,
		Body:     body,
	}

	err = DB.Create(comment).Error
	if err != nil {
		return nil, fmt.Errorf("could not create comment: %w", err)
	}

	return loadCommentView(postID, comment.ID)
}

func (s *CommentPostgresStorage) ListComments(ctx context.Context, postID uint, skip, take int) ([]*models.CommentView, int64, error) {
	err := ensurePostExists(postID)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = DB.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("could not count comments: %w", err)
	}

	// новые комментарии первыми
	var comments []models.Comment
	err = DB.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at desc").
		Order("id desc").
		Offset(skip).
		Limit(take).
		Find(&comments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("could not get comments: %w", err)
	}

	results := make([]*models.CommentView, 0, len(comments))
	for i := range comments {
		results = append(results, comments[i].View())
	}

	return results, total, nil
}

func (s *CommentPostgresStorage) UpdateComment(ctx context.Context, postID, id uint, body string) (*models.CommentView, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	comment, err := findComment(postID, id)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != userID {
		return nil, apperr.Forbidden()
	}

	res := DB.Model(&models.Comment{}).
		Where("id = ? AND author_id = ?", id, userID).
		Updates(map[string]interface{}{"body": body})
	if res.Error != nil {
		return nil, fmt.Errorf("could not update comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound()
	}

	return loadCommentView(postID, id)
}

func (s *CommentPostgresStorage) DeleteComment(ctx context.Context, postID, id uint) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return err
	}

	comment, err := findComment(postID, id)
	if err != nil {
		return err
	}

	// удалить может автор комментария или автор поста
	if comment.AuthorID != userID {
		var post models.Post
		err = DB.First(&post, postID).Error
		if err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return apperr.NotFound()
			}
			return fmt.Errorf("could not get post: %w", err)
		}
		if post.AuthorID != userID {
			return apperr.Forbidden()
		}
	}

	res := DB.Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return fmt.Errorf("could not delete comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound()
	}
	return nil
}

// findComment ищет комментарий внутри поста: комментарий другого поста считается ненайденным
func findComment(postID, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := DB.Where("id = ? AND post_id = ?", id, postID).First(&comment).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, apperr.NotFound()
		}
		return nil, fmt.Errorf("could not get comment: %w", err)
	}
	return &comment, nil
}

func loadCommentView(postID, id uint) (*models.CommentView, error) {
	var comment models.Comment
	err := DB.Preload("Author").Where("id = ? AND post_id = ?", id, postID).First(&comment).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, apperr.NotFound()
		}
		return nil, fmt.Errorf("could not get comment: %w", err)
	}
	return comment.View(), nil
}
