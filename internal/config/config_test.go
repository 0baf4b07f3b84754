package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSelfID(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "self.id")
}

func TestLoadDefaultsWithEnvOverride(t *testing.T) {
	t.Setenv("CHAT_SELF__ID", "7")
	t.Setenv("CHAT_SELF__EMAIL", "ana@hauz.dev")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Self.ID)
	assert.Equal(t, "ana@hauz.dev", cfg.Self.Email)

	// Untouched values keep their defaults.
	assert.Equal(t, ":8081", cfg.ListenAddr)
	assert.Equal(t, 50, cfg.Backend.PageSize)
	assert.Equal(t, 2*time.Second, cfg.Typing.QuietPeriod)
	assert.Equal(t, 30*time.Second, cfg.Transport.BackoffCap)
}

func TestLoadYamlFileThenEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":9000"
self:
  id: 7
  email: file@hauz.dev
typing:
  quiet_period: 1s
`), 0o600))

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("CHAT_SELF__EMAIL", "env@hauz.dev")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, time.Second, cfg.Typing.QuietPeriod)
	assert.Equal(t, "env@hauz.dev", cfg.Self.Email, "environment overrides the file")
}
