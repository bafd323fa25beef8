package cli_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battleroid/dwms/internal/adapters/inbound/cli"
	"github.com/battleroid/dwms/internal/domain"
)

// fakeCluster serves the health API and a cat snapshots answer per repository.
func fakeCluster(t *testing.T, repos map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/_cluster/health" {
			_, _ = w.Write([]byte(`{"status":"green"}`))
			return
		}
		repo := filepath.Base(r.URL.Path)
		body, ok := repos[repo]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"repository_missing_exception"}`))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeClusterConfig(t *testing.T, srv *httptest.Server, extra string) string {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)

	content := fmt.Sprintf(`
clusters:
  - name: local
    endpoint: %s
    port: %s
    protocol: http
    repositories:
      nightly:
        patterns: ["%%Y%%m%%d"]
%s`, host, port, extra)

	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoot_OkayGoesToStdout(t *testing.T) {
	srv := fakeCluster(t, map[string]string{"nightly": `[{"id":"20240101","status":"SUCCESS"}]`})
	path := writeClusterConfig(t, srv, "")

	stdout, stderr, err := run(t, path, "--date", "2024-01-01")
	require.NoError(t, err)
	assert.Contains(t, stdout, "local: ... OKAY")
	assert.Contains(t, stderr, "no notifiers configured")
}

func TestRoot_MissingGoesToStderr(t *testing.T) {
	srv := fakeCluster(t, map[string]string{"nightly": `[]`})
	path := writeClusterConfig(t, srv, "")

	stdout, stderr, err := run(t, path, "--date", "2024-01-01", "--stdout")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "MISSING")
	assert.Contains(t, stderr, "local: ... MISSING")
}

func TestRoot_JSONReport(t *testing.T) {
	srv := fakeCluster(t, map[string]string{"nightly": `[{"id":"20240101","status":"PARTIAL"}]`})
	path := writeClusterConfig(t, srv, "")

	stdout, _, err := run(t, path, "--date", "2024-01-01", "--json", "--log-format", "json")
	require.NoError(t, err)

	// The console line precedes the JSON document.
	start := bytes.IndexByte([]byte(stdout), '{')
	require.GreaterOrEqual(t, start, 0)
	var report domain.RunReport
	require.NoError(t, json.Unmarshal([]byte(stdout[start:]), &report))
	require.Len(t, report.Clusters, 1)
	assert.Equal(t, domain.StatusPartial, report.Clusters[0].Status)
	assert.Equal(t, []string{"20240101"}, report.Clusters[0].Repositories["nightly"].Partial)
}

func TestRoot_FailOn(t *testing.T) {
	srv := fakeCluster(t, map[string]string{"nightly": `[]`})
	path := writeClusterConfig(t, srv, "")

	_, _, err := run(t, path, "--date", "2024-01-01", "--stdout", "--fail-on", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MISSING")

	_, _, err = run(t, path, "--date", "2024-01-01", "--stdout", "--fail-on", "FAILED")
	assert.NoError(t, err)
}

func TestRoot_RepositoryErrorIsTimedOut(t *testing.T) {
	srv := fakeCluster(t, map[string]string{})
	path := writeClusterConfig(t, srv, "")

	_, stderr, err := run(t, path, "--date", "2024-01-01", "--stdout")
	require.NoError(t, err)
	assert.Contains(t, stderr, "local: ... TIMED OUT")
}

func TestRoot_WebhookNotifier(t *testing.T) {
	var got map[string]any
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer hook.Close()

	srv := fakeCluster(t, map[string]string{"nightly": `[{"id":"20240101","status":"SUCCESS"}]`})
	path := writeClusterConfig(t, srv, fmt.Sprintf(`
notifiers:
  webhook:
    url: %s
`, hook.URL))

	stdout, _, err := run(t, path, "--date", "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, stdout, "console is not used when a notifier is configured")
	require.NotNil(t, got)
	assert.Equal(t, "2024-01-01", got["date"])
	assert.Equal(t, map[string]any{"local": "OKAY"}, got["clusters"])
}

func TestRoot_BadDate(t *testing.T) {
	_, _, err := run(t, "config.yaml", "--date", "2024-13-01")
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}

func TestRoot_MissingConfig(t *testing.T) {
	_, _, err := run(t, filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}

func TestPatternsCommand(t *testing.T) {
	srv := fakeCluster(t, nil)
	path := writeClusterConfig(t, srv, "")

	stdout, _, err := run(t, "patterns", path, "--date", "2024-02-29")
	require.NoError(t, err)
	assert.Contains(t, stdout, "20240229")
	assert.Contains(t, stdout, "nightly")
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dude dev")

	stdout, _, err = run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dude dev (none)")
}
