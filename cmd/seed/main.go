// Команда seed наполняет базу PostgreSQL демонстрационными данными:
// пользователи alice и bob, пост от alice и комментарий от bob.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/config"
	"github.com/VitaminP8/blogery/internal/storage/postgres"
	"github.com/VitaminP8/blogery/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := flag.String("password", "password123", "пароль для демонстрационных пользователей")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	_ = os.Setenv("STORAGE", config.StoragePostgres)
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if err = postgres.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer postgres.CloseDB()

	if err = postgres.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	if err = seed(context.Background(), *password); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Msg("seed completed")
}

func seed(ctx context.Context, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}

	users := postgres.NewUserPostgresStorage()
	alice, err := upsertUser(ctx, users, "alice@example.com", "alice", string(hash))
	if err != nil {
		return err
	}
	bob, err := upsertUser(ctx, users, "bob@example.com", "bob", string(hash))
	if err != nil {
		return err
	}

	post, err := postgres.NewPostPostgresStorage().CreatePost(
		auth.WithUserID(ctx, alice.ID),
		models.PostInput{Title: "Hello", Body: "First post"},
	)
	if err != nil {
		return err
	}

	comment, err := postgres.NewCommentPostgresStorage().CreateComment(auth.WithUserID(ctx, bob.ID), post.ID, "Nice post")
	if err != nil {
		return err
	}

	log.Info().
		Uint("alice", alice.ID).
		Uint("bob", bob.ID).
		Uint("post", post.ID).
		Uint("comment", comment.ID).
		Msg("created demo data")
	return nil
}

// upsertUser возвращает существующего пользователя по email или создает нового
func upsertUser(ctx context.Context, users *postgres.UserPostgresStorage, email, username, hash string) (*models.User, error) {
	existing, err := users.GetUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !apperr.Is(err, http.StatusNotFound) {
		return nil, err
	}
	return users.CreateUser(ctx, email, username, hash)
}
