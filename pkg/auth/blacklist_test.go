package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func TestRedisBlacklist(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	bl := NewRedisBlacklist(rdb)

	revoked, err := bl.IsRevoked(ctx, "token-1")
	req.NoError(err)
	req.False(revoked)

	req.NoError(bl.Revoke(ctx, "token-1", time.Minute))
	revoked, err = bl.IsRevoked(ctx, "token-1")
	req.NoError(err)
	req.True(revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = bl.IsRevoked(ctx, "token-1")
	req.NoError(err)
	req.False(revoked)

	// истекший токен не записывается
	req.NoError(bl.Revoke(ctx, "token-2", 0))
	req.False(mr.Exists(blacklistPrefix + "token-2"))
}

func TestNopBlacklist(t *testing.T) {
	req := require.New(t)
	var bl TokenBlacklist = NopBlacklist{}

	req.ErrorIs(bl.Revoke(context.Background(), "t", time.Minute), ErrBlacklistDisabled)
	revoked, err := bl.IsRevoked(context.Background(), "t")
	req.NoError(err)
	req.False(revoked)
}
