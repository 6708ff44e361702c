// internal/auth/context.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/VitaminP8/blogery/internal/apperr"
)

type contextKey string

const userIDKey = contextKey("userID")

// Сохраняет userID в контексте
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Достает userID из контекста
func GetUserIDFromContext(ctx context.Context) (uint, error) {
	val := ctx.Value(userIDKey)
	id, ok := val.(uint)
	if !ok || id == 0 {
		return 0, apperr.Unauthorized("Unauthorized")
	}
	return id, nil
}

// Authenticate извлекает userID из JWT и помещает его в context.
// Запрос без токена или с невалидным токеном проходит дальше анонимно, решение принимает RequireAuth.
func Authenticate(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractTokenFromHeader(r.Header.Get("Authorization"))
			if tokenStr == "" {
				next.ServeHTTP(w, r) // неавторизованный доступ - пропускаем
				return
			}

			userID, err := tokens.Parse(tokenStr)
			if err != nil {
				next.ServeHTTP(w, r) // если невалидный токен - пропускаем
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// RequireAuth отвечает 401 и не вызывает обработчик, если в контексте нет пользователя
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := GetUserIDFromContext(r.Context()); err != nil {
			apperr.Write(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractTokenFromHeader(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
