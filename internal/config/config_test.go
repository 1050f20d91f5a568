package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir keeps a stray .env in the package directory from leaking into tests
func inTempDir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	inTempDir(t)
	t.Setenv(EnvAPIKey, "secret")
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvRequestTimeout, "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.GoldAPIKey)
	assert.Equal(t, "https://www.goldapi.io/api", cfg.GoldAPIURL)
	assert.Equal(t, "info", LogLevel())
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	inTempDir(t)
	t.Setenv(EnvAPIKey, "secret")
	t.Setenv(EnvAPIURL, "http://localhost:8080/api")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvRequestTimeout, "3")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", cfg.GoldAPIURL)
	assert.Equal(t, "debug", LogLevel())
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestLoad_BadTimeoutFallsBack(t *testing.T) {
	inTempDir(t)
	t.Setenv(EnvAPIKey, "secret")
	t.Setenv(EnvRequestTimeout, "soon")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	inTempDir(t)
	t.Setenv(EnvAPIKey, "")

	_, err := Load()

	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoad_DotEnv(t *testing.T) {
	inTempDir(t)
	t.Setenv(EnvAPIKey, "")
	require.NoError(t, os.Unsetenv(EnvAPIKey))
	require.NoError(t, os.WriteFile(filepath.Join(".", ".env"), []byte(EnvAPIKey+"=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv(EnvAPIKey) })

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.GoldAPIKey)
}
