package main

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marketdash.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestConfigShowRedactsSecrets(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"

[api]
base_url = "http://localhost:5000/api/v1"
api_key = "super-secret"
`)
	out, _, err := runRoot(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `api_key = "***"`)
	assert.NotContains(t, out, "super-secret")
	assert.Contains(t, out, `log_level = "debug"`)
}

func TestInvalidConfigFails(t *testing.T) {
	path := writeConfig(t, `log_level = "loud"`)
	_, _, err := runRoot(t, "--config", path, "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestLogLevelFlagOverridesConfig(t *testing.T) {
	path := writeConfig(t, `log_level = "loud"`)
	_, _, err := runRoot(t, "--config", path, "--log-level", "warn", "config", "show")
	assert.NoError(t, err)
}

func TestMarketsCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/markets", r.URL.Path)
		assert.Equal(t, "category=crypto&limit=20&page=2", r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"success":true,"data":{"markets":[
			{"market_id":"m1","title":"BTC above 100k?","current_price":0.5,"category":"crypto","active":true}
		],"pagination":{"page":2,"limit":20,"total":41,"total_pages":3,"has_more":true}}}`))
	}))
	defer srv.Close()

	path := writeConfig(t, `
[api]
base_url = "`+srv.URL+`/api/v1"

[export]
locale = "en"
`)
	out, _, err := runRoot(t, "--config", path, "markets", "--category", "crypto", "--page", "2", "--limit", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "BTC above 100k?")
	assert.Contains(t, out, "$0.5000")
	assert.Contains(t, out, "Showing 21-40 of 41")
	assert.Contains(t, out, "[2]")
}

func TestMarketsCommandRejectsBadPage(t *testing.T) {
	path := writeConfig(t, "")
	_, _, err := runRoot(t, "--config", path, "markets", "--page", "0")
	assert.Error(t, err)
}
