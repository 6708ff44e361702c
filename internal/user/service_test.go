package user

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() (*Service, *mocks.MockUserStorage) {
	store := mocks.NewMockUserStorage()
	s := NewService(store, mocks.MockTokenIssuer{})
	s.hashCost = bcrypt.MinCost
	return s, store
}

func TestService_Register(t *testing.T) {
	s, store := newTestService()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		res, err := s.Register(ctx, "alice@example.com", "alice", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "token-1", res.Token)
		assert.Equal(t, uint(1), res.User.ID)
		assert.Equal(t, "alice", res.User.Username)
		assert.Equal(t, "alice@example.com", res.User.Email)

		// пароль хранится только в виде хеша
		hash := store.GetPasswordHash("alice@example.com")
		assert.NotEqual(t, "secret1", hash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret1")))
	})

	t.Run("Duplicate email", func(t *testing.T) {
		_, err := s.Register(ctx, "alice@example.com", "other", "secret1")
		assert.True(t, apperr.Is(err, http.StatusConflict))
	})

	t.Run("Token failure", func(t *testing.T) {
		failing := NewService(mocks.NewMockUserStorage(), mocks.MockTokenIssuer{Err: errors.New("no secret")})
		failing.hashCost = bcrypt.MinCost

		_, err := failing.Register(ctx, "bob@example.com", "bob", "secret1")
		assert.EqualError(t, err, "no secret")
	})
}

func TestService_Login(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.Register(ctx, "alice@example.com", "alice", "secret1")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		res, err := s.Login(ctx, "alice@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "token-1", res.Token)
		assert.Equal(t, "alice", res.User.Username)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := s.Login(ctx, "alice@example.com", "wrong")
		require.Error(t, err)
		assert.True(t, apperr.Is(err, http.StatusUnauthorized))
		assert.Equal(t, "Invalid credentials", err.Error())
	})

	t.Run("Unknown email gives the same error", func(t *testing.T) {
		_, err := s.Login(ctx, "nobody@example.com", "secret1")
		require.Error(t, err)
		assert.True(t, apperr.Is(err, http.StatusUnauthorized))
		assert.Equal(t, "Invalid credentials", err.Error())
	})

	t.Run("Storage failure is passed through", func(t *testing.T) {
		store := mocks.NewMockUserStorage()
		store.Err = errors.New("db down")
		broken := NewService(store, mocks.MockTokenIssuer{})

		_, err := broken.Login(ctx, "alice@example.com", "secret1")
		assert.EqualError(t, err, "db down")
	})
}

func TestService_Me(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	res, err := s.Register(ctx, "alice@example.com", "alice", "secret1")
	require.NoError(t, err)

	t.Run("Authenticated", func(t *testing.T) {
		me, err := s.Me(auth.WithUserID(ctx, res.User.ID))
		require.NoError(t, err)
		assert.Equal(t, res.User, me)
	})

	t.Run("Anonymous", func(t *testing.T) {
		_, err := s.Me(ctx)
		assert.True(t, apperr.Is(err, http.StatusUnauthorized))
	})

	t.Run("Deleted user", func(t *testing.T) {
		_, err := s.Me(auth.WithUserID(ctx, 42))
		assert.True(t, apperr.Is(err, http.StatusNotFound))
	})
}
