package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardCmd(t *testing.T) {
	routes := map[string]string{
		"/repos/octo/alpha":              `{"full_name":"octo/alpha","stargazers_count":3}`,
		"/repos/octo/alpha/pulls":        `[]`,
		"/repos/octo/alpha/contributors": `[{"login":"a","contributions":2}]`,
		"/repos/octo/alpha/contents/":    `[{"name":"README.md","path":"README.md","type":"file"}]`,
		"/repos/octo/alpha/commits":      `[]`,
		"/repos/octo/alpha/readme":       `{}`,
		"/users/octocat":                 `{"login":"octocat","followers":1}`,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
			return
		}
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	configPath := filepath.Join(t.TempDir(), "dashboard.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(fmt.Sprintf(`
user = "octocat"

[[repositories]]
owner = "octo"
repo = "alpha"
label = "alpha"

[api]
base_url = %q
`, server.URL)), 0o600))
	t.Setenv("GITHUB_TOKEN", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"dashboard", "--config", configPath})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })
	require.NoError(t, rootCmd.Execute())

	var view map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	assert.NotContains(t, view, "error")
	assert.Equal(t, false, view["loading_general"])
	assert.Equal(t, false, view["loading_deep"])
	assert.Equal(t, false, view["loading_profile"])
	assert.Equal(t, "present", view["readme"])
	assert.Equal(t, "octocat", view["profile"].(map[string]any)["login"])

	repos := view["repositories"].([]any)
	require.Len(t, repos, 1)
	assert.Equal(t, "https://github.com/octo/alpha", repos[0].(map[string]any)["url"])
	contents := view["contents"].([]any)
	require.Len(t, contents, 1)
	assert.Equal(t, "https://github.com/octo/alpha/tree/main/README.md", contents[0].(map[string]any)["browse_url"])
}
