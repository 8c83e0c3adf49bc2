package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-no-such-flag"}, &stdout, &stderr)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "no-such-flag")
}

func TestRun_MissingManifest(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "none.yaml")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "failed to load manifest")
}

const manifestYAML = `
locations:
  - file://testdata/create.sql
  - ftp://host/ignored.sql
parameters:
  table: settings
  env: prod
`

func TestRun_DryRun(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "preload.yaml", manifestYAML)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", cfg, "-dry-run"}, &stdout, &stderr)
	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), `CREATE TABLE "settings"`)
	assert.Contains(t, stdout.String(), "VALUES ('env', 'prod');")
}

func TestRun_ExecutesAgainstSQLite(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "preload.yaml", manifestYAML)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", cfg, "-driver", "sqlite", "-dsn", ":memory:"}, &stdout, &stderr)
	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stderr.String(), "preload complete")
}

func TestRun_InvalidLocation(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "preload.yaml", "location: not-a-location\n")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", cfg}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "not-a-location")
}

func TestRun_TraceWritesSpans(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "preload.yaml", manifestYAML)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", cfg, "-dry-run", "-trace"}, &stdout, &stderr)
	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stderr.String(), `"Name":"preload.location"`)
}
