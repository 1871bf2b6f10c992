package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "smartest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, SessionMemory, cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 2*time.Second, cfg.Similarity.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
server:
  addr: ":9090"
  allow_origins: ["http://localhost:5173"]
session:
  backend: redis
  redis_addr: "cache:6379"
  ttl: 2h
similarity:
  backend: judge
  timeout: 500ms
llm:
  provider: anthropic
  anthropic:
    api_key: test
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowOrigins)
	assert.Equal(t, "cache:6379", cfg.Session.RedisAddr)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 500*time.Millisecond, cfg.Similarity.Timeout)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	// untouched keys keep defaults
	assert.Equal(t, "smartest", cfg.Session.MongoDatabase)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvWins(t *testing.T) {
	path := writeFile(t, "session:\n  backend: sqlite\n")
	t.Setenv("SMARTEST_SESSION_BACKEND", "postgres")
	t.Setenv("SMARTEST_SESSION_DSN", "postgres://u:p@localhost/smartest")
	t.Setenv("SMARTEST_SIMILARITY_TIMEOUT", "750ms")
	t.Setenv("SMARTEST_ALLOW_ORIGINS", "http://a, http://b")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SessionPostgres, cfg.Session.Backend)
	assert.Equal(t, 750*time.Millisecond, cfg.Similarity.Timeout)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.AllowOrigins)
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("SMARTEST_SESSION_TTL", "forever")
	_, err := Load("")
	assert.ErrorContains(t, err, "SMARTEST_SESSION_TTL")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown session backend", func(c *Config) { c.Session.Backend = "etcd" }, "unknown session backend"},
		{"postgres needs dsn", func(c *Config) { c.Session.Backend = SessionPostgres }, "session.dsn"},
		{"unknown similarity", func(c *Config) { c.Similarity.Backend = "bert" }, "unknown similarity backend"},
		{"judge needs key", func(c *Config) {
			c.Similarity.Backend = SimilarityJudge
			c.LLM.Provider = "openai"
			c.LLM.OpenAI.APIKey = ""
		}, "SMARTEST_OPENAI_API_KEY"},
		{"zero timeout", func(c *Config) { c.Similarity.Timeout = 0 }, "similarity.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}
