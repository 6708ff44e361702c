package postgres

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestPostPostgresStorage_CreatePost(t *testing.T) {
	postStorage := NewPostPostgresStorage()

	t.Run("Successful post creation", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t, "alice")
		ctx := createUserContext(userID)

		post, err := postStorage.CreatePost(ctx, models.PostInput{
			Title:    "Hello",
			Body:     "First post",
			ImageURL: strPtr("https://img.example.com/a.png"),
		})
		require.NoError(t, err)
		assert.NotZero(t, post.ID)
		assert.Equal(t, "Hello", post.Title)
		assert.Equal(t, "First post", post.Body)
		assert.Equal(t, userID, post.AuthorID)
		require.NotNil(t, post.Author)
		assert.Equal(t, "alice", post.Author.Username)
		require.NotNil(t, post.ImageURL)
		assert.Equal(t, "https://img.example.com/a.png", *post.ImageURL)
		assert.Zero(t, post.Likes)
		assert.Zero(t, post.Comments)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		_, err := postStorage.CreatePost(context.Background(), models.PostInput{Title: "T", Body: "B"})
		assert.True(t, apperr.Is(err, http.StatusUnauthorized))
	})
}

func TestPostPostgresStorage_GetPostByID(t *testing.T) {
	postStorage := NewPostPostgresStorage()

	oldDB := setupTestDB(t)
	defer teardownTestDB(oldDB)

	userID := createTestUser(t, "alice")
	otherID := createTestUser(t, "bob")
	postID := createTestPost(t, userID, "Counted", "Body")

	require.NoError(t, DB.Create(&models.PostLike{PostID: postID, UserID: userID}).Error)
	require.NoError(t, DB.Create(&models.PostLike{PostID: postID, UserID: otherID}).Error)
	require.NoError(t, DB.Create(&models.Comment{PostID: postID, AuthorID: otherID, Body: "hi"}).Error)

	t.Run("With counts", func(t *testing.T) {
		post, err := postStorage.GetPostByID(context.Background(), postID)
		require.NoError(t, err)
		assert.Equal(t, "Counted", post.Title)
		assert.Equal(t, int64(2), post.Likes)
		assert.Equal(t, int64(1), post.Comments)
		assert.Nil(t, post.ImageURL)
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := postStorage.GetPostByID(context.Background(), 999)
		assert.True(t, apperr.Is(err, http.StatusNotFound))
	})
}

func TestPostPostgresStorage_ListPosts(t *testing.T) {
	postStorage := NewPostPostgresStorage()

	oldDB := setupTestDB(t)
	defer teardownTestDB(oldDB)

	aliceID := createTestUser(t, "alice")
	bobID := createTestUser(t, "bob")

	createTestPost(t, aliceID, "Go tips", "a")
	createTestPost(t, aliceID, "Cooking", "b")
	createTestPost(t, bobID, "More GO", "c")
	createTestPost(t, bobID, "100% done", "d")

	ctx := context.Background()

	t.Run("Default order is newest first", func(t *testing.T) {
		posts, total, err := postStorage.ListPosts(ctx, models.PostQuery{Take: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, posts, 4)
		assert.Equal(t, "100% done", posts[0].Title)
		assert.Equal(t, "Go tips", posts[3].Title)
	})

	t.Run("Search is case insensitive", func(t *testing.T) {
		posts, total, err := postStorage.ListPosts(ctx, models.PostQuery{Search: "go", Take: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, posts, 2)
	})

	t.Run("Search escapes wildcards", func(t *testing.T) {
		posts, total, err := postStorage.ListPosts(ctx, models.PostQuery{Search: "%", Take: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, posts, 1)
		assert.Equal(t, "100% done", posts[0].Title)
	})

	t.Run("Filter by author", func(t *testing.T) {
		posts, total, err := postStorage.ListPosts(ctx, models.PostQuery{AuthorID: bobID, Take: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, p := range posts {
			assert.Equal(t, bobID, p.AuthorID)
			assert.Equal(t, "bob", p.Author.Username)
		}
	})

	t.Run("Sort by title ascending", func(t *testing.T) {
		posts, _, err := postStorage.ListPosts(ctx, models.PostQuery{
			SortBy:    models.SortByTitle,
			SortOrder: models.SortAsc,
			Take:      10,
		})
		require.NoError(t, err)
		require.Len(t, posts, 4)
		assert.Equal(t, "100% done", posts[0].Title)
		assert.Equal(t, "Cooking", posts[1].Title)
		assert.Equal(t, "Go tips", posts[2].Title)
		assert.Equal(t, "More GO", posts[3].Title)
	})

	t.Run("Pagination window", func(t *testing.T) {
		posts, total, err := postStorage.ListPosts(ctx, models.PostQuery{
			SortBy:    models.SortByTitle,
			SortOrder: models.SortAsc,
			Skip:      2,
			Take:      2,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, posts, 2)
		assert.Equal(t, "Go tips", posts[0].Title)
		assert.Equal(t, "More GO", posts[1].Title)
	})

	t.Run("Beyond the last page", func(t *testing.T) {
		posts, total, err := postStorage.ListPosts(ctx, models.PostQuery{Skip: 40, Take: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Empty(t, posts)
	})
}

func TestPostPostgresStorage_UpdatePost(t *testing.T) {
	postStorage := NewPostPostgresStorage()

	t.Run("Partial update by author", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t, "alice")
		postID := createTestPost(t, userID, "Old", "Body")

		post, err := postStorage.UpdatePost(createUserContext(userID), postID, models.PostPatch{Title: strPtr("New")})
		require.NoError(t, err)
		assert.Equal(t, "New", post.Title)
		assert.Equal(t, "Body", post.Body)
	})

	t.Run("Forbidden for another user", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t, "alice")
		otherID := createTestUser(t, "bob")
		postID := createTestPost(t, userID, "Old", "Body")

		_, err := postStorage.UpdatePost(createUserContext(otherID), postID, models.PostPatch{Title: strPtr("Hacked")})
		assert.True(t, apperr.Is(err, http.StatusForbidden))

		var post models.Post
		require.NoError(t, DB.First(&post, postID).Error)
		assert.Equal(t, "Old", post.Title)
	})

	t.Run("Not found", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t, "alice")
		_, err := postStorage.UpdatePost(createUserContext(userID), 999, models.PostPatch{Title: strPtr("New")})
		assert.True(t, apperr.Is(err, http.StatusNotFound))
	})
}

func TestPostPostgresStorage_DeletePostByID(t *testing.T) {
	postStorage := NewPostPostgresStorage()

	t.Run("Cascade delete", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t, "alice")
		otherID := createTestUser(t, "bob")
		postID := createTestPost(t, userID, "Doomed", "Body")
		require.NoError(t, DB.Create(&models.PostLike{PostID: postID, UserID: otherID}).Error)
		require.NoError(t, DB.Create(&models.Comment{PostID: postID, AuthorID: otherID, Body: "bye"}).Error)

		err := postStorage.DeletePostByID(createUserContext(userID), postID)
		require.NoError(t, err)

		_, err = postStorage.GetPostByID(context.Background(), postID)
		assert.True(t, apperr.Is(err, http.StatusNotFound))

		var likes, comments int64
		require.NoError(t, DB.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&likes).Error)
		require.NoError(t, DB.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&comments).Error)
		assert.Zero(t, likes)
		assert.Zero(t, comments)
	})

	t.Run("Forbidden keeps the post", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t, "alice")
		otherID := createTestUser(t, "bob")
		postID := createTestPost(t, userID, "Mine", "Body")

		err := postStorage.DeletePostByID(createUserContext(otherID), postID)
		assert.True(t, apperr.Is(err, http.StatusForbidden))

		post, err := postStorage.GetPostByID(context.Background(), postID)
		require.NoError(t, err)
		assert.Equal(t, "Mine", post.Title)
	})

	t.Run("Not found", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t, "alice")
		err := postStorage.DeletePostByID(createUserContext(userID), 42)
		assert.True(t, apperr.Is(err, http.StatusNotFound))
	})
}

func TestPostPostgresStorage_Likes(t *testing.T) {
	postStorage := NewPostPostgresStorage()

	oldDB := setupTestDB(t)
	defer teardownTestDB(oldDB)

	userID := createTestUser(t, "alice")
	otherID := createTestUser(t, "bob")
	postID := createTestPost(t, userID, "Likeable", "Body")

	t.Run("Like is idempotent", func(t *testing.T) {
		likes, err := postStorage.LikePost(createUserContext(otherID), postID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), likes)

		likes, err = postStorage.LikePost(createUserContext(otherID), postID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), likes)

		likes, err = postStorage.LikePost(createUserContext(userID), postID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), likes)
	})

	t.Run("Unlike is idempotent", func(t *testing.T) {
		likes, err := postStorage.UnlikePost(createUserContext(otherID), postID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), likes)

		likes, err = postStorage.UnlikePost(createUserContext(otherID), postID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), likes)
	})

	t.Run("Missing post", func(t *testing.T) {
		_, err := postStorage.LikePost(createUserContext(userID), 999)
		assert.True(t, apperr.Is(err, http.StatusNotFound))

		_, err = postStorage.UnlikePost(createUserContext(userID), 999)
		assert.True(t, apperr.Is(err, http.StatusNotFound))
	})

	t.Run("Unauthorized", func(t *testing.T) {
		_, err := postStorage.LikePost(context.Background(), postID)
		assert.True(t, apperr.Is(err, http.StatusUnauthorized))
	})
}

func TestPostPostgresStorage_SetPostImage(t *testing.T) {
	postStorage := NewPostPostgresStorage()

	oldDB := setupTestDB(t)
	defer teardownTestDB(oldDB)

	userID := createTestUser(t, "alice")
	otherID := createTestUser(t, "bob")
	postID := createTestPost(t, userID, "Pictured", "Body")
	ctx := createUserContext(userID)

	for i := 1; i <= 2; i++ {
		url := fmt.Sprintf("https://img.example.com/%d.png", i)
		post, err := postStorage.SetPostImage(ctx, postID, &url)
		require.NoError(t, err)
		require.NotNil(t, post.ImageURL)
		assert.Equal(t, url, *post.ImageURL)
	}

	post, err := postStorage.SetPostImage(ctx, postID, nil)
	require.NoError(t, err)
	assert.Nil(t, post.ImageURL)

	_, err = postStorage.SetPostImage(createUserContext(otherID), postID, strPtr("https://x"))
	assert.True(t, apperr.Is(err, http.StatusForbidden))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
