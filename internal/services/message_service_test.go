package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thereayou/chatbot-api/internal/database"
	"github.com/thereayou/chatbot-api/internal/mocks"
	"github.com/thereayou/chatbot-api/internal/models"
	"go.uber.org/mock/gomock"
)

func saveWithID(next *uint) func(context.Context, *models.Message) error {
	return func(_ context.Context, m *models.Message) error {
		*next++
		m.ID = *next
		return nil
	}
}

func TestMessageService_Echo(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockMessageStore(ctrl)
	svc := NewMessageService(store, MessageOptions{})
	ctx := context.Background()

	var nextID uint
	gomock.InOrder(
		store.EXPECT().SaveMessage(ctx, &models.Message{Content: "hi", Sender: models.SenderUser}).DoAndReturn(saveWithID(&nextID)),
		store.EXPECT().SaveMessage(ctx, &models.Message{Content: EchoReply("hi"), Sender: models.SenderSystem}).DoAndReturn(saveWithID(&nextID)),
	)

	messages, err := svc.Echo(ctx, "hi")
	req.NoError(err)
	req.Len(messages, 2)
	req.Equal(models.Message{ID: 1, Content: "hi", Sender: models.SenderUser}, messages[0])
	req.Equal(models.SenderSystem, messages[1].Sender)
	req.Contains(messages[1].Content, "hi")
	req.EqualValues(2, messages[1].ID)
}

func TestMessageService_EchoStopsOnFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockMessageStore(ctrl)
	svc := NewMessageService(store, MessageOptions{})
	ctx := context.Background()

	boom := errors.New("db down")
	store.EXPECT().SaveMessage(ctx, gomock.Any()).Return(boom).Times(1)

	messages, err := svc.Echo(ctx, "hi")
	req.ErrorIs(err, boom)
	req.Nil(messages)
}

func TestMessageService_Respond(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockMessageStore(ctrl)
	svc := NewMessageService(store, MessageOptions{})
	ctx := context.Background()

	var nextID uint
	store.EXPECT().
		SaveMessage(ctx, &models.Message{Content: "You said: ping", Sender: models.SenderSystem}).
		DoAndReturn(saveWithID(&nextID))

	message, err := svc.Respond(ctx, "ping")
	req.NoError(err)
	req.Equal("You said: ping", message.Content)
}

func TestMessageService_ListMessages(t *testing.T) {
	ctx := context.Background()
	page := []models.Message{{ID: 1, Content: "hi", Sender: models.SenderUser}}

	tests := []struct {
		name          string
		offset, limit int
		wantOffset    int
		wantLimit     int
	}{
		{"as given", 5, 10, 5, 10},
		{"negative offset", -3, 10, 0, 10},
		{"large limit is passed through", 0, 1 << 20, 0, 1 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)
			store := mocks.NewMockMessageStore(ctrl)
			svc := NewMessageService(store, MessageOptions{})

			store.EXPECT().CountMessages(gomock.Any()).Times(0)
			store.EXPECT().ListMessages(ctx, tt.wantOffset, tt.wantLimit).Return(page, nil)

			got, err := svc.ListMessages(ctx, tt.offset, tt.limit)
			req.NoError(err)
			req.Equal(page, got)
		})
	}

	for _, limit := range []int{0, -5} {
		t.Run(fmt.Sprintf("limit %d is an empty page", limit), func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)
			store := mocks.NewMockMessageStore(ctrl)
			svc := NewMessageService(store, MessageOptions{})

			store.EXPECT().ListMessages(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			got, err := svc.ListMessages(ctx, 0, limit)
			req.NoError(err)
			req.NotNil(got)
			req.Empty(got)
		})
	}
}

func TestMessageService_WelcomeSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("should seed an empty table", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockMessageStore(ctrl)
		svc := NewMessageService(store, MessageOptions{SeedWelcome: true})

		welcome := models.Message{ID: 1, Content: WelcomeMessage, Sender: models.SenderSystem}
		var nextID uint
		gomock.InOrder(
			store.EXPECT().CountMessages(ctx).Return(int64(0), nil),
			store.EXPECT().SaveMessage(ctx, &models.Message{Content: WelcomeMessage, Sender: models.SenderSystem}).DoAndReturn(saveWithID(&nextID)),
			store.EXPECT().ListMessages(ctx, 0, 10).Return([]models.Message{welcome}, nil),
		)

		got, err := svc.ListMessages(ctx, 0, 10)
		req.NoError(err)
		req.Equal([]models.Message{welcome}, got)
	})

	t.Run("should not seed when messages exist", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockMessageStore(ctrl)
		svc := NewMessageService(store, MessageOptions{SeedWelcome: true})

		store.EXPECT().CountMessages(ctx).Return(int64(3), nil)
		store.EXPECT().SaveMessage(gomock.Any(), gomock.Any()).Times(0)
		store.EXPECT().ListMessages(ctx, 0, 10).Return([]models.Message{}, nil)

		_, err := svc.ListMessages(ctx, 0, 10)
		req.NoError(err)
	})
}

func TestMessageService_WelcomeSeedConcurrent(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockMessageStore(ctrl)
	svc := NewMessageService(store, MessageOptions{SeedWelcome: true})

	var stored atomic.Int64
	store.EXPECT().CountMessages(gomock.Any()).DoAndReturn(func(context.Context) (int64, error) {
		return stored.Load(), nil
	}).AnyTimes()
	store.EXPECT().SaveMessage(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m *models.Message) error {
		m.ID = uint(stored.Add(1))
		return nil
	}).Times(1)
	store.EXPECT().ListMessages(gomock.Any(), 0, 10).Return([]models.Message{}, nil).AnyTimes()

	errs := make(chan error, 16)
	var wg sync.WaitGroup
	for i := 0; i < cap(errs); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ListMessages(context.Background(), 0, 10)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		req.NoError(err)
	}

	req.EqualValues(1, stored.Load())
}

func TestMessageService_GetUpdateDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("get of a missing id is absent, not an error", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockMessageStore(ctrl)
		svc := NewMessageService(store, MessageOptions{})

		store.EXPECT().GetMessage(ctx, uint(42)).Return(nil, database.ErrNotFound)

		msg, err := svc.GetMessage(ctx, 42)
		req.NoError(err)
		req.Nil(msg)
	})

	t.Run("update of a missing id is silently absent", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockMessageStore(ctrl)
		svc := NewMessageService(store, MessageOptions{})

		store.EXPECT().UpdateMessageContent(ctx, uint(42), "new").Return(nil, database.ErrNotFound)

		msg, err := svc.UpdateMessage(ctx, 42, "new")
		req.NoError(err)
		req.Nil(msg)
	})

	t.Run("update returns the stored record", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockMessageStore(ctrl)
		svc := NewMessageService(store, MessageOptions{})

		updated := &models.Message{ID: 3, Content: "new", Sender: models.SenderUser}
		store.EXPECT().UpdateMessageContent(ctx, uint(3), "new").Return(updated, nil)

		msg, err := svc.UpdateMessage(ctx, 3, "new")
		req.NoError(err)
		req.Equal(updated, msg)
	})

	t.Run("delete of a missing id is ErrNotFound", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockMessageStore(ctrl)
		svc := NewMessageService(store, MessageOptions{})

		store.EXPECT().DeleteMessage(ctx, uint(999999)).Return(nil, database.ErrNotFound)

		msg, err := svc.DeleteMessage(ctx, 999999)
		req.ErrorIs(err, ErrNotFound)
		req.Nil(msg)
	})

	t.Run("delete surfaces store failures", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockMessageStore(ctrl)
		svc := NewMessageService(store, MessageOptions{})

		boom := errors.New("db down")
		store.EXPECT().DeleteMessage(ctx, uint(1)).Return(nil, boom)

		_, err := svc.DeleteMessage(ctx, 1)
		req.ErrorIs(err, boom)
		req.NotErrorIs(err, ErrNotFound)
	})
}
