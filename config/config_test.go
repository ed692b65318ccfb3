package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "Moderate", cfg.ActivityLevel)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "healthdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: 127.0.0.1:9999
storage:
  driver: memory
ai:
  provider: huggingface
  timeout: 5s
  activity_level: Light
`), 0o600))

	t.Setenv("HEALTHDASH_HTTP_ADDR", "127.0.0.1:7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.HTTPAddr, "env wins over file")
	assert.Equal(t, DriverMemory, cfg.Driver)
	assert.Equal(t, ProviderHuggingFace, cfg.Provider)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "Light", cfg.ActivityLevel)
}

func TestLoad_UnprefixedAPIKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "k-123")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "k-123", cfg.GeminiAPIKey)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HEALTHDASH_STORE_DRIVER", "mongo")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger("debug", "json")
	require.NoError(t, err)
	require.NotNil(t, log)

	_, err = NewLogger("loud", "json")
	assert.Error(t, err)
}
