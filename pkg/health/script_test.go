package health

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript writes a shell script standing in for a generated
// health-check script
func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "health_check.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func TestScriptCheckerHealthy(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir,
		`echo '{"status": "healthy", "model_loaded": true, "deployment": "demo"}'`)

	checker := NewScriptChecker("sh", script, dir)
	result := checker.Check(context.Background())

	assert.True(t, result.Healthy)
	assert.Equal(t, "healthy", result.Verdict.Status)
	assert.True(t, result.Verdict.ModelLoaded)
	assert.Equal(t, "demo", result.Verdict.Deployment)
	assert.False(t, result.Verdict.CheckedAt.IsZero())
}

func TestScriptCheckerUnhealthyReport(t *testing.T) {
	dir := t.TempDir()
	// Generated scripts exit non-zero on an unhealthy verdict but still
	// print the report
	script := writeScript(t, dir,
		`echo '{"status": "unhealthy", "model_loaded": false, "error": "model file missing"}'; exit 1`)

	checker := NewScriptChecker("sh", script, dir)
	result := checker.Check(context.Background())

	assert.False(t, result.Healthy)
	assert.Equal(t, "unhealthy", result.Verdict.Status)
	assert.Equal(t, "model file missing", result.Verdict.Error)
}

func TestScriptCheckerGarbageOutput(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, `echo "Traceback (most recent call last):" >&2; echo "not json"; exit 1`)

	checker := NewScriptChecker("sh", script, dir)
	result := checker.Check(context.Background())

	assert.False(t, result.Healthy)
	assert.Equal(t, "unknown", result.Verdict.Status)
	assert.Contains(t, result.Message, "invalid health report")
	assert.Contains(t, result.Message, "Traceback")
}

func TestScriptCheckerMissingScript(t *testing.T) {
	dir := t.TempDir()

	checker := NewScriptChecker("sh", filepath.Join(dir, "nope.sh"), dir)
	result := checker.Check(context.Background())

	assert.False(t, result.Healthy)
	assert.Equal(t, "unknown", result.Verdict.Status)
}

func TestScriptCheckerTimeout(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, `sleep 5; echo '{"status": "healthy"}'`)

	checker := NewScriptChecker("sh", script, dir).WithTimeout(100 * time.Millisecond)

	start := time.Now()
	result := checker.Check(context.Background())

	assert.Less(t, time.Since(start), 3*time.Second)
	assert.False(t, result.Healthy)
	assert.Equal(t, "unhealthy", result.Verdict.Status)
	assert.Contains(t, result.Verdict.Error, "timed out")
}

func TestScriptCheckerRunsInWorkDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), []byte("x"), 0644))
	script := writeScript(t, dir,
		`if [ -f marker ]; then echo '{"status": "healthy"}'; else echo '{"status": "unhealthy"}'; fi`)

	checker := NewScriptChecker("sh", script, dir)
	result := checker.Check(context.Background())

	assert.True(t, result.Healthy, "script must resolve files relative to the deployment directory")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcde...", truncate("abcdefgh", 5))
}
