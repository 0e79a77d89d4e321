//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks
package services

import (
	"context"

	"github.com/thereayou/chatbot-api/internal/models"
)

type UserStore interface {
	SaveUser(ctx context.Context, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type MessageStore interface {
	SaveMessage(ctx context.Context, message *models.Message) error
	GetMessage(ctx context.Context, id uint) (*models.Message, error)
	ListMessages(ctx context.Context, offset, limit int) ([]models.Message, error)
	CountMessages(ctx context.Context) (int64, error)
	UpdateMessageContent(ctx context.Context, id uint, content string) (*models.Message, error)
	DeleteMessage(ctx context.Context, id uint) (*models.Message, error)
}
