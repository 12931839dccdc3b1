package repository

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/axellelanca/adtracker/internal/errors"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const sessionPrefix = "session:"

// RedisSessionRepository keeps sessions in Redis with the TTL as key expiry.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository returns a session store backed by client.
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

// CreateSession stores username under a fresh token that expires after ttl.
func (r *RedisSessionRepository) CreateSession(ctx context.Context, username string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	if err := r.client.Set(ctx, sessionPrefix+token, username, ttl).Err(); err != nil {
		return "", apperrors.Persistence("create session", err)
	}
	return token, nil
}

// GetSessionUser returns the username of a live session. Redis drops expired keys itself.
func (r *RedisSessionRepository) GetSessionUser(ctx context.Context, token string) (string, error) {
	username, err := r.client.Get(ctx, sessionPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrSessionNotFound
		}
		return "", apperrors.Persistence("get session", err)
	}
	return username, nil
}

// DeleteSession removes the session. Unknown tokens are not an error.
func (r *RedisSessionRepository) DeleteSession(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionPrefix+token).Err(); err != nil {
		return apperrors.Persistence("delete session", err)
	}
	return nil
}
