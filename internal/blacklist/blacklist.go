package blacklist

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTokenBlacklisted = errors.New("token is blacklisted")

// Blacklist denies access tokens that were invalidated before their natural
// expiry (logout).
type Blacklist interface {
	AddToken(ctx context.Context, token string, ttl time.Duration) error
	// CheckToken returns nil when the token is not blacklisted.
	CheckToken(ctx context.Context, token string) error
}

type RedisBlacklist struct {
	client *redis.Client
	prefix string
}

func NewRedisBlacklist(client *redis.Client, prefix string) *RedisBlacklist {
	return &RedisBlacklist{client: client, prefix: prefix}
}

func (b *RedisBlacklist) AddToken(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, b.prefix+token, "blacklisted", ttl).Err()
}

func (b *RedisBlacklist) CheckToken(ctx context.Context, token string) error {
	_, err := b.client.Get(ctx, b.prefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	return ErrTokenBlacklisted
}
