package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sandboxConfig writes a config for a persistent sandbox rooted in a temp dir.
func sandboxConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf(`
logging:
  level: DEBUG
  output: %q
adapter:
  prefix: "/Personal Folders"
client:
  type: sandbox
  sandbox:
    items:
      type: badger
      badger:
        db_path: %q
    content:
      type: filesystem
      filesystem:
        path: %q
`, filepath.Join(dir, "sharefs.log"), filepath.Join(dir, "items"), filepath.Join(dir, "content"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

type result struct {
	code   int
	stdout string
	stderr string
}

func sharefs(t *testing.T, configPath, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"-config", configPath}, args...),
		strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestCLI_FileLifecycle(t *testing.T) {
	cfg := sandboxConfig(t)

	require.Equal(t, 0, sharefs(t, cfg, "", "mkdir", "notes").code)

	res := sharefs(t, cfg, "hello world", "put", "-", "notes/a.txt")
	require.Equal(t, 0, res.code, res.stderr)

	res = sharefs(t, cfg, "", "cat", "notes/a.txt")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "hello world", res.stdout)

	res = sharefs(t, cfg, "", "stat", "notes/a.txt")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "type:")
	assert.Contains(t, res.stdout, "file")
	assert.Contains(t, res.stdout, "text/plain")

	require.Equal(t, 0, sharefs(t, cfg, "", "cp", "notes/a.txt", "notes/b.txt").code)
	require.Equal(t, 0, sharefs(t, cfg, "", "mv", "notes/a.txt", "notes/c.txt").code)

	res = sharefs(t, cfg, "", "ls", "notes")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "notes/b.txt")
	assert.Contains(t, res.stdout, "notes/c.txt")
	assert.NotContains(t, res.stdout, "notes/a.txt")

	require.Equal(t, 0, sharefs(t, cfg, "", "rm", "notes/b.txt").code)

	res = sharefs(t, cfg, "", "cat", "notes/b.txt")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "not found or not permitted")
}

func TestCLI_PutFromLocalFile(t *testing.T) {
	cfg := sandboxConfig(t)
	local := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(local, []byte(`{"ok":true}`), 0600))

	res := sharefs(t, cfg, "", "put", local, "report.json")
	require.Equal(t, 0, res.code, res.stderr)

	res = sharefs(t, cfg, "", "cat", "report.json")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, `{"ok":true}`, res.stdout)
}

func TestCLI_RecursiveListingAndDirectoryRemoval(t *testing.T) {
	cfg := sandboxConfig(t)

	require.Equal(t, 0, sharefs(t, cfg, "", "mkdir", "a").code)
	require.Equal(t, 0, sharefs(t, cfg, "", "mkdir", "a/b").code)
	require.Equal(t, 0, sharefs(t, cfg, "x", "put", "-", "a/b/deep.txt").code)

	flat := sharefs(t, cfg, "", "ls", "a")
	require.Equal(t, 0, flat.code, flat.stderr)
	assert.NotContains(t, flat.stdout, "deep.txt")

	deep := sharefs(t, cfg, "", "ls", "-r", "a")
	require.Equal(t, 0, deep.code, deep.stderr)
	assert.Contains(t, deep.stdout, "a/b/deep.txt")

	require.Equal(t, 0, sharefs(t, cfg, "", "rm", "-d", "a").code)
	assert.Equal(t, 1, sharefs(t, cfg, "", "stat", "a/b").code)
}

func TestCLI_Usage(t *testing.T) {
	cfg := sandboxConfig(t)

	assert.Equal(t, 2, sharefs(t, cfg, "", "frobnicate").code)
	assert.Equal(t, 2, sharefs(t, cfg, "", "cat").code)
	assert.Equal(t, 2, sharefs(t, cfg, "", "mv", "only-one").code)

	var stderr bytes.Buffer
	code := run(context.Background(), nil, strings.NewReader(""), &bytes.Buffer{}, &stderr)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "Commands:")
}

func TestCLI_Init(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sharefs", "config.yaml")

	res := sharefs(t, path, "", "init")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, path)

	res = sharefs(t, path, "", "init")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "already exists")

	res = sharefs(t, path, "", "init", "-force")
	assert.Equal(t, 0, res.code, res.stderr)
}

func TestCLI_InvalidLogLevel(t *testing.T) {
	cfg := sandboxConfig(t)

	var stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", cfg, "-log-level", "LOUD", "ls"},
		strings.NewReader(""), &bytes.Buffer{}, &stderr)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "Level")
}
