package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 25*time.Second, cfg.Search.RequestTimeout)
	assert.Equal(t, 2, cfg.Search.MinQueryLength)
	assert.Equal(t, 10, cfg.Search.DefaultLimit)
	assert.Equal(t, 50, cfg.Search.MaxLimit)

	assert.Equal(t, 5*time.Second, cfg.Sources.Taxon.Timeout)
	assert.Equal(t, 8*time.Second, cfg.Sources.Observation.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Sources.Semantic.Timeout)
	assert.Equal(t, 15*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Trends.Timeout)

	assert.Equal(t, 3, cfg.Sources.Retry.MaxRetries)
	assert.Equal(t, []int{429, 500, 502, 503, 504}, cfg.Sources.Retry.RetryableStatuses)
	assert.Equal(t, 10, cfg.Graft.MaxItems)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
search:
  request_timeout: 5s
sources:
  taxon:
    base_url: http://mindex.internal:8000
    timeout: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("EXA_API_KEY", "exa-test")
	t.Setenv("SEARCH_DEFAULT_LIMIT", "20")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Search.RequestTimeout)
	assert.Equal(t, "http://mindex.internal:8000", cfg.Sources.Taxon.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Sources.Taxon.Timeout)
	assert.Equal(t, "sk-test", cfg.AI.OpenAI.APIKey)
	assert.Equal(t, "exa-test", cfg.Sources.Semantic.APIKey)
	assert.Equal(t, 20, cfg.Search.DefaultLimit)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad port", "server:\n  port: 70000\n"},
		{"bad mode", "server:\n  mode: verbose\n"},
		{"limit above max", "search:\n  default_limit: 60\n"},
		{"bad log level", "log:\n  level: loud\n"},
		{"zero source timeout", "sources:\n  taxon:\n    timeout: 0s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "mindex", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=mindex sslmode=disable", c.DSN())
}
