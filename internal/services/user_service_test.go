package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thereayou/chatbot-api/internal/database"
	"github.com/thereayou/chatbot-api/internal/mocks"
	"github.com/thereayou/chatbot-api/internal/models"
	"github.com/thereayou/chatbot-api/pkg/auth"
	"go.uber.org/mock/gomock"
)

func TestUserService_CreateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockUserStore(ctrl)
	svc := NewUserService(store)
	ctx := context.Background()

	t.Run("should store a hash, never the plaintext", func(t *testing.T) {
		req := require.New(t)

		store.EXPECT().
			SaveUser(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, u *models.User) error {
				u.ID = 7
				return nil
			}).
			Times(1)

		user, err := svc.CreateUser(ctx, "alice", "wonderland")
		req.NoError(err)
		req.EqualValues(7, user.ID)
		req.Equal("alice", user.Username)
		req.NotEqual("wonderland", user.PasswordHash)
		req.True(auth.VerifyPassword("wonderland", user.PasswordHash))
	})

	t.Run("should map unique violation to ErrDuplicateUsername", func(t *testing.T) {
		req := require.New(t)

		store.EXPECT().SaveUser(ctx, gomock.Any()).Return(database.ErrDuplicateKey).Times(1)

		user, err := svc.CreateUser(ctx, "alice", "again")
		req.ErrorIs(err, ErrDuplicateUsername)
		req.Nil(user)
	})

	t.Run("should wrap unexpected store errors", func(t *testing.T) {
		req := require.New(t)
		boom := errors.New("connection reset")

		store.EXPECT().SaveUser(ctx, gomock.Any()).Return(boom).Times(1)

		_, err := svc.CreateUser(ctx, "carol", "pw")
		req.ErrorIs(err, boom)
		req.NotErrorIs(err, ErrDuplicateUsername)
	})
}

func TestUserService_GetUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockUserStore(ctrl)
	svc := NewUserService(store)
	ctx := context.Background()

	t.Run("should return nil when absent", func(t *testing.T) {
		req := require.New(t)
		store.EXPECT().FindUserByUsername(ctx, "ghost").Return(nil, database.ErrNotFound)

		user, err := svc.GetUser(ctx, "ghost")
		req.NoError(err)
		req.Nil(user)
	})

	t.Run("should return the stored user", func(t *testing.T) {
		req := require.New(t)
		stored := &models.User{ID: 1, Username: "admin", PasswordHash: "x"}
		store.EXPECT().FindUserByUsername(ctx, "admin").Return(stored, nil)

		user, err := svc.GetUser(ctx, "admin")
		req.NoError(err)
		req.Equal(stored, user)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockUserStore(ctrl)
	svc := NewUserService(store)
	ctx := context.Background()

	hash, err := auth.HashPassword("admin")
	require.NoError(t, err)
	admin := &models.User{ID: 1, Username: "admin", PasswordHash: hash}

	t.Run("should accept the right password", func(t *testing.T) {
		req := require.New(t)
		store.EXPECT().FindUserByUsername(ctx, "admin").Return(admin, nil)

		user, err := svc.Authenticate(ctx, "admin", "admin")
		req.NoError(err)
		req.Equal(admin, user)
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		req := require.New(t)
		store.EXPECT().FindUserByUsername(ctx, "admin").Return(admin, nil)

		_, err := svc.Authenticate(ctx, "admin", "nope")
		req.ErrorIs(err, ErrInvalidCredentials)
	})

	t.Run("should reject an unknown user", func(t *testing.T) {
		req := require.New(t)
		store.EXPECT().FindUserByUsername(ctx, "nobody").Return(nil, database.ErrNotFound)

		_, err := svc.Authenticate(ctx, "nobody", "admin")
		req.ErrorIs(err, ErrInvalidCredentials)
	})
}

func TestUserService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("should create admin when missing", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockUserStore(ctrl)
		svc := NewUserService(store)

		store.EXPECT().FindUserByUsername(ctx, AdminUsername).Return(nil, database.ErrNotFound)
		store.EXPECT().
			SaveUser(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, u *models.User) error {
				req.Equal(AdminUsername, u.Username)
				req.True(auth.VerifyPassword("admin", u.PasswordHash))
				return nil
			})

		created, err := svc.EnsureAdmin(ctx, "admin")
		req.NoError(err)
		req.True(created)
	})

	t.Run("should leave an existing admin alone", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockUserStore(ctrl)
		svc := NewUserService(store)

		store.EXPECT().FindUserByUsername(ctx, AdminUsername).Return(&models.User{ID: 1, Username: AdminUsername}, nil)
		store.EXPECT().SaveUser(gomock.Any(), gomock.Any()).Times(0)

		created, err := svc.EnsureAdmin(ctx, "admin")
		req.NoError(err)
		req.False(created)
	})

	t.Run("should tolerate losing the insert race", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockUserStore(ctrl)
		svc := NewUserService(store)

		store.EXPECT().FindUserByUsername(ctx, AdminUsername).Return(nil, database.ErrNotFound)
		store.EXPECT().SaveUser(ctx, gomock.Any()).Return(database.ErrDuplicateKey)

		created, err := svc.EnsureAdmin(ctx, "admin")
		req.NoError(err)
		req.False(created)
	})
}
