package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("USER_PORT_ADAPTER", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("USER_SERVICE_TIMEOUT", "")

	cfg := Load()
	assert.Equal(t, AdapterLocal, cfg.UserPortAdapter)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, "http://localhost:3001", cfg.UserServiceURL)
	assert.Equal(t, 5*time.Second, cfg.UserServiceTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("USER_PORT_ADAPTER", "HTTP")
	t.Setenv("USER_SERVICE_URL", "http://users:3001")
	t.Setenv("USER_SERVICE_TIMEOUT", "250")
	t.Setenv("API_PREFIX", "/api/")
	t.Setenv("IDEMPOTENCY_TTL", "1h")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	assert.Equal(t, AdapterHTTP, cfg.UserPortAdapter)
	assert.Equal(t, 250*time.Millisecond, cfg.UserServiceTimeout)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, 0, cfg.RedisDB)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cfg := Load()
	cfg.UserPortAdapter = "grpc"
	assert.ErrorContains(t, cfg.Validate(), "USER_PORT_ADAPTER")

	cfg = Load()
	cfg.StorageDriver = "sqlite"
	assert.ErrorContains(t, cfg.Validate(), "STORAGE_DRIVER")

	cfg = Load()
	cfg.UserPortAdapter = AdapterHTTP
	cfg.UserServiceURL = ""
	assert.ErrorContains(t, cfg.Validate(), "USER_SERVICE_URL")
}

func TestSplitLists(t *testing.T) {
	cfg := &Config{ElasticsearchAddrs: " http://a:9200, ,http://b:9200 ", CORSAllowedOrigins: ""}
	assert.Equal(t, []string{"http://a:9200", "http://b:9200"}, cfg.ESAddrs())
	assert.Empty(t, cfg.CORSOrigins())
}
