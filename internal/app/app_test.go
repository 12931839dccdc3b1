package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axellelanca/adtracker/internal/config"
	"github.com/axellelanca/adtracker/internal/services"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg, err := config.Load(viper.New(), root)
	require.NoError(t, err)
	cfg.Database.Name = filepath.Join(root, "app.db")
	cfg.Images.Dir = filepath.Join(root, "static")
	cfg.Proof.Path = filepath.Join(root, "proof.xml")
	return cfg
}

func TestNewWithDatabaseSessions(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Redis)
	assert.False(t, a.Gate.Ready())

	require.NoError(t, a.Auth.Register(ctx, services.RegisterRequest{Username: "alice", Password: "pw", PhoneNumber: "1"}))
	token, err := a.Auth.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	id, err := a.Auth.Identify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)
}

func TestNewWithRedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Session.Driver = SessionDriverRedis
	cfg.Redis.Addr = mr.Addr()
	ctx := context.Background()

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Auth.Register(ctx, services.RegisterRequest{Username: "alice", Password: "pw", PhoneNumber: "1"}))
	token, err := a.Auth.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.True(t, mr.Exists("session:"+token))
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Session.Driver = "memcached"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
