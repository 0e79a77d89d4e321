package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrBlacklistDisabled = errors.New("token blacklist is disabled")

const blacklistPrefix = "blacklist:"

// TokenBlacklist хранит отозванные токены до истечения их срока
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type RedisBlacklist struct {
	redis *redis.Client
}

func NewRedisBlacklist(rdb *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{redis: rdb}
}

func (b *RedisBlacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// токен уже истек, отзывать нечего
		return nil
	}
	return b.redis.Set(ctx, blacklistPrefix+token, 1, ttl).Err()
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	exists, err := b.redis.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// NopBlacklist используется, когда Redis не настроен
type NopBlacklist struct{}

func (NopBlacklist) Revoke(context.Context, string, time.Duration) error {
	return ErrBlacklistDisabled
}

func (NopBlacklist) IsRevoked(context.Context, string) (bool, error) {
	return false, nil
}
