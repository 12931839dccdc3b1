package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "adtracker.db", cfg.Database.Name)
	assert.Equal(t, "static", cfg.Images.Dir)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	assert.Equal(t, "proofs/clKnownValues_proof.xml", cfg.Proof.Path)
	assert.Equal(t, 10000.00, cfg.Advert.StartingBudget)
	assert.Equal(t, 10.0, cfg.Advert.ClickCost)
	assert.Equal(t, "database", cfg.Session.Driver)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  port: 9090\nimages:\n  dir: ads\nsession:\n  driver: redis\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))
	t.Setenv("PROOF_PATH", "/tmp/proof.xml")

	cfg, err := Load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "ads", cfg.Images.Dir)
	assert.Equal(t, "redis", cfg.Session.Driver)
	assert.Equal(t, "/tmp/proof.xml", cfg.Proof.Path)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [oops"), 0o644))

	_, err := Load(viper.New(), dir)
	assert.Error(t, err)
}
