package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "chatlist-server", cfg.ServiceName)
	require.Equal(t, ":8090", cfg.Addr())
	require.Equal(t, 5, cfg.MaxConcurrentRequests)
	require.GreaterOrEqual(t, cfg.DispatchTimeout, cfg.RequestTimeout)
}

func TestLoadClampsBadValues(t *testing.T) {
	t.Setenv("MAX_CONCURRENT_REQUESTS", "-3")
	t.Setenv("DISPATCH_TIMEOUT", "1s")
	t.Setenv("REQUEST_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 5, cfg.MaxConcurrentRequests)
	// overall timeout can never undercut the per-request timeout
	require.Equal(t, cfg.RequestTimeout, cfg.DispatchTimeout)
}

func TestDatabaseDSN(t *testing.T) {
	t.Setenv("DATABASE_PATH", "data/chatlist.db")
	t.Setenv("DB_BUSY_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "data/chatlist.db?_journal_mode=WAL&_busy_timeout=2000", cfg.DatabaseDSN())
}

func TestLoadModelBootstrapConfig(t *testing.T) {
	dir := t.TempDir()

	writeFile := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("valid", func(t *testing.T) {
		path := writeFile("models.yaml", `
models:
  - display_name: Local Llama
    remote_name: llama-3.1-8b
    endpoint_url: http://localhost:8000/v1/chat/completions
    temperature: 0.5
    max_tokens: 1024
  - display_name: Claude
    endpoint_url: https://api.anthropic.com/v1/messages
    credential_ref: ANTHROPIC_API_KEY
`)
		doc, err := LoadModelBootstrapConfig(path)
		require.NoError(t, err)
		require.Len(t, doc.Models, 2)
		require.Equal(t, "llama-3.1-8b", doc.Models[0].RemoteName)
		require.Equal(t, "ANTHROPIC_API_KEY", doc.Models[1].CredentialRef)
	})

	t.Run("missing display_name", func(t *testing.T) {
		path := writeFile("noname.yaml", `
models:
  - endpoint_url: http://localhost:8000/v1/chat/completions
`)
		_, err := LoadModelBootstrapConfig(path)
		require.ErrorContains(t, err, "display_name")
	})

	t.Run("missing endpoint_url", func(t *testing.T) {
		path := writeFile("nourl.yaml", `
models:
  - display_name: Broken
`)
		_, err := LoadModelBootstrapConfig(path)
		require.ErrorContains(t, err, "endpoint_url")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile("empty.yaml", "")
		_, err := LoadModelBootstrapConfig(path)
		require.ErrorContains(t, err, "no models")
	})

	t.Run("absent file", func(t *testing.T) {
		_, err := LoadModelBootstrapConfig(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
	})
}
