package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	defaultJWTSecret = "dev-secret"
)

type Config struct {
	Port    string
	Storage string

	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	CloudinaryURL    string
	CloudinaryFolder string

	CORSOrigin string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	LogLevel  string
	LogFormat string
}

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Debug().Msg(".env file not found")
	}
}

// Load читает .env (если он есть) и переменные окружения
func Load() (*Config, error) {
	LoadEnv()

	cfg := &Config{
		Port:             GetEnv("PORT", "3000"),
		Storage:          GetEnv("STORAGE", StorageMemory),
		JWTSecret:        GetEnv("JWT_SECRET", ""),
		CloudinaryURL:    GetEnv("CLOUDINARY_URL", ""),
		CloudinaryFolder: GetEnv("CLOUDINARY_FOLDER", "blog-api"),
		CORSOrigin:       GetEnv("CORS_ORIGIN", "*"),
		LogLevel:         GetEnv("LOG_LEVEL", "info"),
		LogFormat:        GetEnv("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = getDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitRequests, err = getInt("RATE_LIMIT_REQUESTS", 100); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set, using an insecure development secret")
		cfg.JWTSecret = defaultJWTSecret
	}

	cfg.DatabaseURL = GetEnv("DATABASE_URL", "")
	if cfg.DatabaseURL == "" && cfg.Storage == StoragePostgres {
		cfg.DatabaseURL = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			MustGetEnv("DB_HOST"),
			MustGetEnv("DB_USER"),
			MustGetEnv("DB_PASSWORD"),
			MustGetEnv("DB_NAME"),
			GetEnv("DB_PORT", "5432"),
			GetEnv("DB_SSLMODE", "disable"),
		)
	}

	return cfg, nil
}

// GetEnv возвращает значение переменной окружения или fallback, если она не задана
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// MustGetEnv завершает процесс, если переменная не задана
func MustGetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatal().Msgf("environment variable %s is not set", key)
	}
	return value
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
