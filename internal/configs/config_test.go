package configs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CATALOG_BACKEND", "")
	t.Setenv("SOURCE_LOCK_TTL", "bogus")
	t.Setenv("RABBITMQ_ENABLED", "false")
	t.Setenv("CATALOG_FILE_PATH", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Catalog.Backend)
	assert.Equal(t, "data/db.json", cfg.Catalog.FilePath)
	assert.Equal(t, 2*time.Minute, cfg.Redis.LockTTL)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestLoadConfig_PostgresRequiresURL(t *testing.T) {
	t.Setenv("CATALOG_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadConfig_RabbitRequiresURL(t *testing.T) {
	t.Setenv("CATALOG_BACKEND", "file")
	t.Setenv("RABBITMQ_ENABLED", "true")
	t.Setenv("RABBITMQ_URL", "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
