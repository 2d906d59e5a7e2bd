package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/appdiscovery/discovery"
)

const plistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleName</key>
	<string>%s</string>
</dict>
</plist>
`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"APPDISCOVERY_DEBUG", "APPDISCOVERY_LOG_LEVEL", "APPDISCOVERY_BACKEND"} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

// setup creates an app directory with a few bundles and a config file
// pointing at it, and returns the config path and the app directory.
func setup(t *testing.T, extra string) (string, string) {
	t.Helper()
	clearEnv(t)

	appDir := t.TempDir()
	for _, name := range []string{"Safari", "Slack", "Calculator"} {
		contents := filepath.Join(appDir, name+".app", "Contents")
		require.NoError(t, os.MkdirAll(contents, 0o755))
		plist := fmt.Sprintf(plistTemplate, name)
		require.NoError(t, os.WriteFile(filepath.Join(contents, "Info.plist"), []byte(plist), 0o644))
	}

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := fmt.Sprintf("apps:\n  dirs: [%q]\n  watch: false\nlaunch:\n  command: \"true\"\nlog:\n  level: error\n%s", appDir, extra)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath, appDir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestSearch(t *testing.T) {
	cfgPath, appDir := setup(t, "")

	out, err := execute(t, "", "--config", cfgPath, "search", "sa")
	require.NoError(t, err)

	assert.Contains(t, out, "Safari")
	assert.Contains(t, out, filepath.Join(appDir, "Safari.app"))
	assert.NotContains(t, out, "Slack")
}

func TestSearch_JSON(t *testing.T) {
	cfgPath, appDir := setup(t, "")

	out, err := execute(t, "", "--config", cfgPath, "search", "--json", "cal")
	require.NoError(t, err)

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "app", results[0]["type"])
	assert.Equal(t, "Calculator", results[0]["name"])
	assert.Equal(t, filepath.Join(appDir, "Calculator.app"), results[0]["path"])
}

func TestSearch_NoMatchesJSON(t *testing.T) {
	cfgPath, _ := setup(t, "")

	out, err := execute(t, "", "--config", cfgPath, "search", "--json", "zzz")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestSearch_Limit(t *testing.T) {
	cfgPath, _ := setup(t, "")

	out, err := execute(t, "", "--config", cfgPath, "search", "--limit", "1", "s")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 1)

	_, err = execute(t, "", "--config", cfgPath, "search", "--limit", "-1", "s")
	assert.Error(t, err)
}

func TestSearch_JSONPlugin(t *testing.T) {
	cfgPath, _ := setup(t, "")

	out, err := execute(t, "", "--config", cfgPath, "search", `{"b":1,"a":[2]}`)
	require.NoError(t, err)
	assert.Contains(t, out, "[{}] JSON")
	assert.Contains(t, out, `"b": 1`)
	assert.Less(t, strings.Index(out, `"b"`), strings.Index(out, `"a"`))
}

func TestSearch_BleveBackend(t *testing.T) {
	cfgPath, _ := setup(t, "search:\n  backend: bleve\n")

	out, err := execute(t, "", "--config", cfgPath, "search", "--json", "LAC")
	require.NoError(t, err)

	var results discovery.Results
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Slack", results[0].App.Name)
}

func TestList(t *testing.T) {
	cfgPath, _ := setup(t, "")

	out, err := execute(t, "", "--config", cfgPath, "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Calculator"))
	assert.True(t, strings.HasPrefix(lines[1], "Safari"))
	assert.True(t, strings.HasPrefix(lines[2], "Slack"))
}

func TestList_JSON(t *testing.T) {
	cfgPath, _ := setup(t, "")

	out, err := execute(t, "", "--config", cfgPath, "list", "--json")
	require.NoError(t, err)

	var apps []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &apps))
	assert.Len(t, apps, 3)
}

func TestLaunch(t *testing.T) {
	cfgPath, _ := setup(t, "")

	out, err := execute(t, "", "--config", cfgPath, "launch", "saf")
	require.NoError(t, err)
	assert.Equal(t, "Launched Safari\n", out)
}

func TestLaunch_NoMatch(t *testing.T) {
	cfgPath, _ := setup(t, "")

	_, err := execute(t, "", "--config", cfgPath, "launch", "zzz")
	assert.True(t, errors.Is(err, discovery.ErrNotFound))
}

func TestServe_Stdio(t *testing.T) {
	cfgPath, _ := setup(t, "")

	stdin := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18"}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"search_apps","arguments":{"keyword":"sla"}}}`,
	}, "\n") + "\n"

	out, err := execute(t, stdin, "--config", cfgPath, "serve")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"protocolVersion":"2025-06-18"`)
	assert.Contains(t, lines[1], "Slack")
	assert.NotContains(t, lines[1], "Safari")
}

func TestConfigCommands(t *testing.T) {
	cfgPath, _ := setup(t, "")

	out, err := execute(t, "", "--config", cfgPath, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, cfgPath+"\n", out)

	out, err = execute(t, "", "--config", cfgPath, "config", "get", "search.limit")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)

	_, err = execute(t, "", "--config", cfgPath, "config", "set", "search.limit", "7")
	require.NoError(t, err)

	out, err = execute(t, "", "--config", cfgPath, "config", "get", "search.limit")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)

	out, err = execute(t, "", "--config", cfgPath, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "search.limit = 7")
	assert.Contains(t, out, "Config file: "+cfgPath)
}

func TestConfigSet_Invalid(t *testing.T) {
	cfgPath, _ := setup(t, "")

	_, err := execute(t, "", "--config", cfgPath, "config", "set", "search.backend", "sqlite")
	assert.Error(t, err)

	_, err = execute(t, "", "--config", cfgPath, "config", "get", "search.nope")
	assert.Error(t, err)
}

func TestConfigSet_DoesNotPersistFlags(t *testing.T) {
	cfgPath, _ := setup(t, "")

	_, err := execute(t, "", "--config", cfgPath, "--log-level", "debug", "config", "set", "search.limit", "3")
	require.NoError(t, err)

	out, err := execute(t, "", "--config", cfgPath, "config", "get", "log.level")
	require.NoError(t, err)
	assert.Equal(t, "error\n", out)
}

func TestInvalidLogLevel(t *testing.T) {
	cfgPath, _ := setup(t, "")

	_, err := execute(t, "", "--config", cfgPath, "--log-level", "loud", "list")
	assert.Error(t, err)
}
