package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/thereayou/chatbot-api/internal/database"
	"github.com/thereayou/chatbot-api/internal/models"
)

const (
	DefaultPageSize = 100

	WelcomeMessage = "Welcome! Send a message and I will echo it back."
)

// EchoReply формирует ответ бота на сообщение пользователя
func EchoReply(content string) string {
	return "Your message was recorded as: " + content
}

// RespondReply формирует ответ для /chatbot/respond/
func RespondReply(content string) string {
	return "You said: " + content
}

type MessageOptions struct {
	// SeedWelcome включает создание приветственного сообщения при пустой таблице
	SeedWelcome bool
}

type MessageService struct {
	store MessageStore
	opts  MessageOptions

	// seedMu сериализует count+insert приветствия внутри процесса
	seedMu sync.Mutex
}

func NewMessageService(store MessageStore, opts MessageOptions) *MessageService {
	return &MessageService{store: store, opts: opts}
}

// ListMessages возвращает страницу сообщений: offset/limit как смещение и количество.
// Отрицательные значения приводятся к нулю, limit=0 дает пустую страницу.
func (s *MessageService) ListMessages(ctx context.Context, offset, limit int) ([]models.Message, error) {
	offset = max(offset, 0)
	limit = max(limit, 0)

	if s.opts.SeedWelcome {
		if err := s.seedWelcome(ctx); err != nil {
			return nil, err
		}
	}

	if limit == 0 {
		return []models.Message{}, nil
	}

	messages, err := s.store.ListMessages(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

func (s *MessageService) seedWelcome(ctx context.Context) error {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	count, err := s.store.CountMessages(ctx)
	if err != nil {
		return fmt.Errorf("count messages: %w", err)
	}
	if count > 0 {
		return nil
	}
	_, err = s.CreateMessage(ctx, WelcomeMessage, models.SenderSystem)
	return err
}

// GetMessage возвращает (nil, nil), если сообщения нет
func (s *MessageService) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	message, err := s.store.GetMessage(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return message, nil
}

func (s *MessageService) CreateMessage(ctx context.Context, content, sender string) (*models.Message, error) {
	message := &models.Message{Content: content, Sender: sender}
	if err := s.store.SaveMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}
	return message, nil
}

// UpdateMessage меняет content; несуществующий id дает (nil, nil)
func (s *MessageService) UpdateMessage(ctx context.Context, id uint, content string) (*models.Message, error) {
	message, err := s.store.UpdateMessageContent(ctx, id, content)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	return message, nil
}

// DeleteMessage удаляет сообщение и возвращает его снимок до удаления
func (s *MessageService) DeleteMessage(ctx context.Context, id uint) (*models.Message, error) {
	message, err := s.store.DeleteMessage(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete message: %w", err)
	}
	return message, nil
}

// Echo сохраняет сообщение пользователя и ответ бота, в порядке создания
func (s *MessageService) Echo(ctx context.Context, content string) ([]models.Message, error) {
	userMessage, err := s.CreateMessage(ctx, content, models.SenderUser)
	if err != nil {
		return nil, err
	}
	systemMessage, err := s.CreateMessage(ctx, EchoReply(content), models.SenderSystem)
	if err != nil {
		return nil, err
	}
	return []models.Message{*userMessage, *systemMessage}, nil
}

// Respond сохраняет только ответ бота
func (s *MessageService) Respond(ctx context.Context, content string) (*models.Message, error) {
	return s.CreateMessage(ctx, RespondReply(content), models.SenderSystem)
}
