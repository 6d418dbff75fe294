package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_STRING", "postgres://localhost/store")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP_PORT)
	assert.Equal(t, "store.admin.changes", cfg.KAFKA_TOPIC)
	assert.Equal(t, time.Minute, cfg.CACHE_TTL)
	assert.False(t, cfg.Production())
	assert.False(t, cfg.KafkaEnabled())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "store-admin.yaml")
	require.NoError(t, os.WriteFile(file, []byte("HTTP_PORT: \"9000\"\nDB_STRING: postgres://file/db\nCACHE_TTL: 30s\n"), 0o600))

	t.Setenv("DB_STRING", "postgres://env/db")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadConfig(file)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HTTP_PORT)
	assert.Equal(t, "postgres://env/db", cfg.DB_STRING)
	assert.Equal(t, 30*time.Second, cfg.CACHE_TTL)
	assert.True(t, cfg.KafkaEnabled())
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("DB_STRING", "")
	_, err := LoadConfig("")
	assert.Error(t, err)

	t.Setenv("DB_STRING", "postgres://localhost/store")
	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err = LoadConfig("")
	assert.Error(t, err)
}
