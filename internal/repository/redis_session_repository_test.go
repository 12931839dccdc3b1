package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	apperrors "github.com/axellelanca/adtracker/internal/errors"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisSessionRepository(t *testing.T) {
	mr, client := setupMockRedis(t)
	repo := NewRedisSessionRepository(client)
	ctx := context.Background()

	token, err := repo.CreateSession(ctx, "alice", time.Hour)
	require.NoError(t, err)

	username, err := repo.GetSessionUser(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
	assert.Equal(t, time.Hour, mr.TTL(sessionPrefix+token))

	require.NoError(t, repo.DeleteSession(ctx, token))
	_, err = repo.GetSessionUser(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestRedisSessionRepositoryExpiry(t *testing.T) {
	mr, client := setupMockRedis(t)
	repo := NewRedisSessionRepository(client)
	ctx := context.Background()

	token, err := repo.CreateSession(ctx, "alice", time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = repo.GetSessionUser(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}
