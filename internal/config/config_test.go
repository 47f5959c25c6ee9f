package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-exporter/internal/config"
)

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("USERNAME", "admin")
	t.Setenv("PASSWORD", "secret")
	t.Setenv("ROSSUM_USERNAME", "jane.doe@acme.com")
	t.Setenv("ROSSUM_PASSWORD", "rossum-secret")
	t.Setenv("ROSSUM_BASE_URL", "")
	t.Setenv("POSTBIN_URL", "")
	t.Setenv("HTTP_TIMEOUT", "")
}

func TestRossumBaseURL(t *testing.T) {
	tests := []struct {
		username string
		expected string
	}{
		{"jane.doe@acme.com", "https://janedoeacmecom.rossum.app/api/v1/"},
		{"plain", "https://plain.rossum.app/api/v1/"},
		{"a!b#c$d%e&f'g*h+i/j=k?l^m`n{o|p}q~r(s)t<u>v[w]x:y;z,\"\\", "https://abcdefghijklmnopqrstuvwxyz.rossum.app/api/v1/"},
		{"with-dash_and_underscore", "https://with-dash_and_underscore.rossum.app/api/v1/"},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			assert.Equal(t, tt.expected, config.RossumBaseURL(tt.username))
		})
	}
}

func TestLoad(t *testing.T) {
	setCredentials(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "admin", cfg.App.Username)
	assert.Equal(t, "secret", cfg.App.Password)
	assert.Equal(t, "jane.doe@acme.com", cfg.Rossum.Username)
	assert.Equal(t, "https://janedoeacmecom.rossum.app/api/v1/", cfg.RossumBaseURL)
	assert.Equal(t, config.DefaultPostbinURL, cfg.PostbinURL)
	assert.Equal(t, config.DefaultHTTPTimeout, cfg.HTTPTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	setCredentials(t)
	t.Setenv("ROSSUM_BASE_URL", "http://127.0.0.1:9000/api/v1/")
	t.Setenv("POSTBIN_URL", "http://127.0.0.1:9001/api/bin")
	t.Setenv("HTTP_TIMEOUT", "5s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000/api/v1/", cfg.RossumBaseURL)
	assert.Equal(t, "http://127.0.0.1:9001/api/bin", cfg.PostbinURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestLoad_MissingCredentials(t *testing.T) {
	tests := []struct {
		name  string
		unset string
		msg   string
	}{
		{"app username", "USERNAME", "'USERNAME' and 'PASSWORD'"},
		{"app password", "PASSWORD", "'USERNAME' and 'PASSWORD'"},
		{"rossum username", "ROSSUM_USERNAME", "'ROSSUM_USERNAME' and 'ROSSUM_PASSWORD'"},
		{"rossum password", "ROSSUM_PASSWORD", "'ROSSUM_USERNAME' and 'ROSSUM_PASSWORD'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setCredentials(t)
			t.Setenv(tt.unset, "")

			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	setCredentials(t)
	t.Setenv("HTTP_TIMEOUT", "soon")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_TIMEOUT")
}

func TestLoadDotEnv(t *testing.T) {
	setCredentials(t)
	// godotenv only fills variables that are not present at all
	require.NoError(t, os.Unsetenv("POSTBIN_URL"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("POSTBIN_URL=http://bins.local/api/bin\nUSERNAME=from-file\n"), 0o600))

	require.NoError(t, config.LoadDotEnv(path))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://bins.local/api/bin", cfg.PostbinURL)
	// variables already present in the environment win
	assert.Equal(t, "admin", cfg.App.Username)
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
