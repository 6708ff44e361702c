// Package rest - HTTP API блога: роутер chi, обработчики и общие middleware.
package rest

import (
	"net/http"
	"time"

	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/validate"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

type Options struct {
	Tokens *auth.TokenManager
	Logger zerolog.Logger

	// CORSOrigin "*" разрешает любой источник
	CORSOrigin string

	// RateLimitRequests <= 0 отключает ограничение
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func NewRouter(h *Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(opts.Logger))
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(corsOptions(opts.CORSOrigin)))
	r.Use(secureHeaders)
	if opts.RateLimitRequests > 0 {
		r.Use(httprate.LimitByIP(opts.RateLimitRequests, opts.RateLimitWindow))
	}

	r.Get("/health", handle(h.health))

	r.Route("/api", func(r chi.Router) {
		// токен разбирается для всех маршрутов, а обязателен только там, где стоит RequireAuth
		r.Use(auth.Authenticate(opts.Tokens))

		r.Route("/auth", func(r chi.Router) {
			r.With(validate.Middleware(registerSchema)).Post("/register", handle(h.register))
			r.With(validate.Middleware(loginSchema)).Post("/login", handle(h.login))
		})

		r.With(auth.RequireAuth).Get("/users/me", handle(h.me))

		r.Route("/posts", func(r chi.Router) {
			r.With(validate.Middleware(listPostsSchema)).Get("/", handle(h.listPosts))
			r.With(auth.RequireAuth, validate.Middleware(createPostSchema)).Post("/", handle(h.createPost))

			r.Route("/{id}", func(r chi.Router) {
				r.With(validate.Middleware(postSchema)).Get("/", handle(h.getPost))
				r.With(auth.RequireAuth, validate.Middleware(updatePostSchema)).Patch("/", handle(h.updatePost))
				r.With(auth.RequireAuth, validate.Middleware(postSchema)).Delete("/", handle(h.deletePost))

				r.With(auth.RequireAuth, validate.Middleware(postSchema)).Post("/like", handle(h.likePost))
				r.With(auth.RequireAuth, validate.Middleware(postSchema)).Post("/unlike", handle(h.unlikePost))

				r.With(auth.RequireAuth, validate.Middleware(postSchema)).Post("/image", handle(h.uploadImage))
				r.With(auth.RequireAuth, validate.Middleware(postSchema)).Delete("/image", handle(h.deleteImage))

				r.With(validate.Middleware(listCommentsSchema)).Get("/comments", handle(h.listComments))
				r.With(validate.Middleware(postSchema)).Get("/comments/stream", handle(h.streamComments))
				r.With(auth.RequireAuth, validate.Middleware(createCommentSchema)).Post("/comments", handle(h.createComment))
				r.With(auth.RequireAuth, validate.Middleware(updateCommentSchema)).Patch("/comments/{commentId}", handle(h.updateComment))
				r.With(auth.RequireAuth, validate.Middleware(commentSchema)).Delete("/comments/{commentId}", handle(h.deleteComment))
			})
		})
	})

	return r
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}

func corsOptions(origin string) cors.Options {
	origins := []string{"*"}
	if origin != "" && origin != "*" {
		origins = []string{origin}
	}

	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}
}
