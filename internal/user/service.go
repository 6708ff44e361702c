package user

import (
	"context"
	"fmt"
	"net/http"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/models"
	"golang.org/x/crypto/bcrypt"
)

const passwordHashCost = 10

type TokenIssuer interface {
	Issue(userID uint) (string, error)
}

type AuthResult struct {
	User  *models.UserView `json:"user"`
	Token string           `json:"token"`
}

type Service struct {
	store    UserStorage
	tokens   TokenIssuer
	hashCost int
}

func NewService(store UserStorage, tokens TokenIssuer) *Service {
	return &Service{
		store:    store,
		tokens:   tokens,
		hashCost: passwordHashCost,
	}
}

func (s *Service) Register(ctx context.Context, email, username, password string) (*AuthResult, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := s.store.CreateUser(ctx, email, username, string(hashedPassword))
	if err != nil {
		return nil, err
	}

	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, http.StatusNotFound) {
			return nil, apperr.Unauthorized("Invalid credentials")
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	if err != nil {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	return s.issue(u)
}

// Me возвращает пользователя из контекста запроса
func (s *Service) Me(ctx context.Context) (*models.UserView, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.View(), nil
}

func (s *Service) issue(u *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u.View(), Token: token}, nil
}
