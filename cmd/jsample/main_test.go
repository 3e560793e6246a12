package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const graphDoc = `{"nodes":[{"id":"a"},{"id":"b"},{"id":"c"}],` +
	`"links":[{"source":"a","target":"b"},{"source":"a","target":"c"}]}`

type result struct {
	code   int
	stdout string
	stderr string
}

func runCmd(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractFromStdin(t *testing.T) {
	res := runCmd(t, graphDoc, "extract", "-n", "2", "--compact")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, `[{"id":"a"},{"id":"b"}]`+"\n", res.stdout)
}

func TestExtractPretty(t *testing.T) {
	res := runCmd(t, graphDoc, "extract", "--field", "links", "-n", "1", "-")
	require.Equal(t, 0, res.code, res.stderr)
	assert.JSONEq(t, `[{"source":"a","target":"b"}]`, res.stdout)
	assert.NotContains(t, res.stdout, "\033[", "no color when not a terminal")
}

func TestExtractColor(t *testing.T) {
	res := runCmd(t, graphDoc, "--color", "always", "extract", "-n", "1")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, brightBlue+`"id"`)
	assert.Contains(t, res.stdout, green+`"a"`)
}

func TestExtractFieldFromConfig(t *testing.T) {
	cfg := writeFile(t, "jsample.yaml", "sample:\n  nodes_field: links\n")
	res := runCmd(t, graphDoc, "--config", cfg, "extract", "-n", "5", "--compact")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, `[{"source":"a","target":"b"},{"source":"a","target":"c"}]`+"\n", res.stdout)
}

func TestExtractDebugLogging(t *testing.T) {
	res := runCmd(t, graphDoc, "--log-level", "debug", "extract", "-n", "1")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "level=DEBUG")
	assert.Contains(t, res.stderr, "extraction finished")
}

func TestSample(t *testing.T) {
	path := writeFile(t, "graph.json", graphDoc)
	res := runCmd(t, "", "sample", "--max-nodes", "2", "--compact", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t,
		`{"nodes":[{"id":"a"},{"id":"b"}],"links":[{"source":"a","target":"b"}]}`+"\n",
		res.stdout)
}

func TestVerify(t *testing.T) {
	path := writeFile(t, "graph.json", graphDoc)
	res := runCmd(t, "", "verify", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "nodes: 3 objects checked")
	assert.Contains(t, res.stdout, "dangling links: 0")

	// With fewer nodes checked the second link points outside
	res = runCmd(t, "", "verify", "--limit", "2", path)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "dangling links: 1")
	assert.Contains(t, res.stderr, "verification failed")
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"bad color", []string{"--color", "rainbow", "extract"}, "invalid --color value"},
		{"bad log level", []string{"--log-level", "loud", "extract"}, "log_level must be one of"},
		{"missing file", []string{"sample", filepath.Join(t.TempDir(), "nope.json")}, "no such file"},
		{"missing array", []string{"extract", "--field", "edges"}, "need more data"},
		{"too many args", []string{"extract", "a", "b"}, "accepts at most 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCmd(t, graphDoc, tt.args...)
			assert.Equal(t, 1, res.code)
			assert.Contains(t, res.stderr, tt.msg)
		})
	}
}

func TestFlagHelpShowsConfigKeys(t *testing.T) {
	res := runCmd(t, "", "sample", "--help")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "sample.max_nodes from the config if unset")
	assert.NotContains(t, res.stdout, "(default 100)")
	assert.NotContains(t, res.stdout, "(default 150)")

	res = runCmd(t, "", "verify", "--help")
	assert.NotContains(t, res.stdout, "(default 1000)")
	res = runCmd(t, "", "extract", "--help")
	assert.NotContains(t, res.stdout, `(default "nodes")`)
}

func TestSampleCapsFromConfig(t *testing.T) {
	cfg := writeFile(t, "jsample.yaml", "sample:\n  max_nodes: 1\nverify:\n  limit: 2\n")
	path := writeFile(t, "graph.json", graphDoc)
	res := runCmd(t, "", "--config", cfg, "sample", "--compact", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, `{"nodes":[{"id":"a"}],"links":[]}`+"\n", res.stdout)

	res = runCmd(t, "", "--config", cfg, "verify", path)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "nodes: 2 objects checked")
}
