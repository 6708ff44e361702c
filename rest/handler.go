package rest

import (
	"context"

	"github.com/VitaminP8/blogery/internal/comment"
	"github.com/VitaminP8/blogery/internal/post"
	"github.com/VitaminP8/blogery/internal/subscription"
	"github.com/VitaminP8/blogery/internal/user"
)

// Pinger проверяет доступность базы данных для /health
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler служит корневой точкой для всех обработчиков.
// Здесь внедряются сервисы и инфраструктурные зависимости.
type Handler struct {
	Users    *user.Service
	Posts    *post.Service
	Comments *comment.Service

	// Events - источник новых комментариев для SSE-потока
	Events subscription.Manager
	DB     Pinger
}
