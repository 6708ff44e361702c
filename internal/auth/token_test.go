package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager(t *testing.T) {
	tokens := NewTokenManager(testSecret, time.Hour)

	t.Run("Issue and parse", func(t *testing.T) {
		tokenString, err := tokens.Issue(42)
		require.NoError(t, err)
		// JWT токен состоит из трех частей, разделенных двумя точками
		assert.Len(t, strings.Split(tokenString, "."), 3)

		userID, err := tokens.Parse(tokenString)
		require.NoError(t, err)
		assert.Equal(t, uint(42), userID)
	})

	t.Run("Expiry follows ttl", func(t *testing.T) {
		fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		m := NewTokenManager(testSecret, 0)
		m.now = func() time.Time { return fixed }

		tokenString, err := m.Issue(1)
		require.NoError(t, err)

		var claims Claims
		_, _, err = jwt.NewParser().ParseUnverified(tokenString, &claims)
		require.NoError(t, err)
		assert.Equal(t, fixed.Add(DefaultTokenTTL).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("Wrong signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
		tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = tokens.Parse(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Missing user id claim", func(t *testing.T) {
		tokenString := signed(t, testSecret, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})

		_, err := tokens.Parse(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Token without expiry is rejected", func(t *testing.T) {
		tokenString := signed(t, testSecret, jwt.MapClaims{"user_id": 1})

		_, err := tokens.Parse(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired token is rejected", func(t *testing.T) {
		tokenString := signed(t, testSecret, jwt.MapClaims{
			"user_id": 1,
			"exp":     time.Now().Add(-time.Minute).Unix(),
		})

		_, err := tokens.Parse(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Empty secret", func(t *testing.T) {
		m := NewTokenManager("", time.Hour)

		_, err := m.Issue(1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "JWT secret is not set")
	})
}
