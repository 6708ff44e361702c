package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/comment"
	"github.com/VitaminP8/blogery/internal/config"
	"github.com/VitaminP8/blogery/internal/media"
	"github.com/VitaminP8/blogery/internal/post"
	"github.com/VitaminP8/blogery/internal/storage/memory"
	"github.com/VitaminP8/blogery/internal/storage/postgres"
	"github.com/VitaminP8/blogery/internal/subscription"
	"github.com/VitaminP8/blogery/internal/user"
	"github.com/VitaminP8/blogery/rest"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	storageType := flag.String("storage", "", "Тип хранилища: memory или postgres (по умолчанию STORAGE из окружения)")
	flag.Parse()

	// флаг имеет приоритет над переменной окружения
	if *storageType != "" {
		_ = os.Setenv("STORAGE", *storageType)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogger(cfg)

	var postStore post.PostStorage
	var commentStore comment.CommentStorage
	var userStore user.UserStorage
	var pinger rest.Pinger

	switch cfg.Storage {
	case config.StoragePostgres:
		if err = postgres.InitDB(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		if err = postgres.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}

		log.Info().Msg("Используется PostgreSQL хранилище")
		postStore = postgres.NewPostPostgresStorage()
		commentStore = postgres.NewCommentPostgresStorage()
		userStore = postgres.NewUserPostgresStorage()
		pinger = postgres.Pinger{}

	case config.StorageMemory:
		log.Info().Msg("Используется in-memory хранилище")
		store := memory.NewStore()
		postStore = memory.NewPostMemoryStorage(store)
		commentStore = memory.NewCommentMemoryStorage(store)
		userStore = memory.NewUserMemoryStorage(store)

	default:
		log.Fatal().Msgf("неизвестный тип хранилища: %s", cfg.Storage)
	}

	var uploader media.Uploader = media.Disabled{}
	if cfg.CloudinaryURL != "" {
		cld, err := media.NewCloudinaryUploader(cfg.CloudinaryURL, cfg.CloudinaryFolder)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure image uploads")
		}
		uploader = cld
	} else {
		log.Warn().Msg("CLOUDINARY_URL is not set, image uploads are disabled")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	events := subscription.NewSubscriptionManager()

	handler := &rest.Handler{
		Users:    user.NewService(userStore, tokens),
		Posts:    post.NewService(postStore, uploader),
		Comments: comment.NewService(commentStore, events),
		Events:   events,
		DB:       pinger,
	}

	router := rest.NewRouter(handler, rest.Options{
		Tokens:            tokens,
		Logger:            log.Logger,
		CORSOrigin:        cfg.CORSOrigin,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	})

	server := newServer(":"+cfg.Port, router)

	go func() {
		log.Info().Msgf("Сервер запущен на http://localhost:%s/", cfg.Port)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Ошибка сервера")
		}
	}()

	// Ожидание SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Завершение...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Ошибка при завершении сервера")
	}

	if cfg.Storage == config.StoragePostgres {
		if err = postgres.CloseDB(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}

	log.Info().Msg("Сервер остановлен корректно")
}

// newServer собирает http.Server. WriteTimeout не задан: SSE-поток комментариев держит соединение открытым.
// Контексты запросов отменяются при Shutdown, иначе открытые потоки не дают серверу завершиться.
func newServer(addr string, handler http.Handler) *http.Server {
	baseCtx, cancel := context.WithCancel(context.Background())

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}
	server.RegisterOnShutdown(cancel)

	return server
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	log.Logger = log.With().Str("service", "blogery").Logger()
}
