package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/thereayou/chatbot-api/internal/database"
	"github.com/thereayou/chatbot-api/internal/models"
	"github.com/thereayou/chatbot-api/pkg/auth"
)

type UserService struct {
	store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// CreateUser хеширует пароль и сохраняет пользователя
func (s *UserService) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Username: username, PasswordHash: hash}
	if err := s.store.SaveUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// GetUser возвращает (nil, nil), если пользователя нет
func (s *UserService) GetUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.store.FindUserByUsername(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// Authenticate проверяет пару логин/пароль
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
