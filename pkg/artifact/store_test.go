package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "deployed_models"))
	require.NoError(t, err)
	return store
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestStagePublishCycle(t *testing.T) {
	store := newTestStore(t)

	stageDir, err := store.Stage("demo")
	require.NoError(t, err)
	writeFile(t, filepath.Join(stageDir, "model.pkl"), "weights")

	// Staged deployments are invisible
	assert.False(t, store.Exists("demo"))
	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, store.Publish("demo"))
	assert.True(t, store.Exists("demo"))

	names, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"demo"}, names)

	data, err := os.ReadFile(filepath.Join(store.Path("demo"), "model.pkl"))
	require.NoError(t, err)
	assert.Equal(t, "weights", string(data))
}

func TestStageRejectsPublishedName(t *testing.T) {
	store := newTestStore(t)

	stageDir, err := store.Stage("demo")
	require.NoError(t, err)
	writeFile(t, filepath.Join(stageDir, "model.pkl"), "v1")
	require.NoError(t, store.Publish("demo"))

	_, err = store.Stage("demo")
	assert.Error(t, err)
}

func TestStageClearsStaleStage(t *testing.T) {
	store := newTestStore(t)

	// Simulate a crashed deploy that left a stage behind
	stageDir, err := store.Stage("demo")
	require.NoError(t, err)
	writeFile(t, filepath.Join(stageDir, "leftover"), "junk")

	stageDir, err = store.Stage("demo")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(stageDir, "leftover"))
	assert.True(t, os.IsNotExist(err))
}

func TestDiscardStage(t *testing.T) {
	store := newTestStore(t)

	stageDir, err := store.Stage("demo")
	require.NoError(t, err)

	store.DiscardStage("demo")
	_, err = os.Stat(stageDir)
	assert.True(t, os.IsNotExist(err))
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Stage("demo")
	require.NoError(t, err)
	require.NoError(t, store.Publish("demo"))

	require.NoError(t, store.Remove("demo"))
	assert.False(t, store.Exists("demo"))

	err = store.Remove("demo")
	assert.Error(t, err)
}

func TestListSkipsFilesAndHiddenEntries(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Stage("visible")
	require.NoError(t, err)
	require.NoError(t, store.Publish("visible"))

	// A stray file and an in-progress stage must not show up
	writeFile(t, filepath.Join(store.Root(), "notes.txt"), "n/a")
	_, err = store.Stage("building")
	require.NoError(t, err)

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"visible"}, names)
}

func TestCopyArtifacts(t *testing.T) {
	store := newTestStore(t)
	srcDir := t.TempDir()

	writeFile(t, filepath.Join(srcDir, "model.pkl"), "0123456789")
	writeFile(t, filepath.Join(srcDir, "vectorizer.pkl"), "abcde")

	stageDir, err := store.Stage("demo")
	require.NoError(t, err)

	files, err := store.CopyArtifacts(stageDir, map[string]string{
		"vectorizer": filepath.Join(srcDir, "vectorizer.pkl"),
		"model":      filepath.Join(srcDir, "model.pkl"),
	})
	require.NoError(t, err)

	// Sorted by artifact type, paths reduced to base names
	require.Len(t, files.FilesCopied, 2)
	assert.Equal(t, "model", files.FilesCopied[0].Type)
	assert.Equal(t, "model.pkl", files.FilesCopied[0].Path)
	assert.Equal(t, "vectorizer", files.FilesCopied[1].Type)

	for _, f := range files.FilesCopied {
		_, err := os.Stat(filepath.Join(stageDir, f.Path))
		assert.NoError(t, err)
	}
}

func TestCopyArtifactsRejectsBasenameCollision(t *testing.T) {
	store := newTestStore(t)

	srcA := t.TempDir()
	srcB := t.TempDir()
	writeFile(t, filepath.Join(srcA, "model.pkl"), "primary weights")
	writeFile(t, filepath.Join(srcB, "model.pkl"), "backup weights")

	stageDir, err := store.Stage("demo")
	require.NoError(t, err)

	// Both sources would land on stage/model.pkl; the second copy would
	// silently clobber the first while the accounting still listed both.
	_, err = store.CopyArtifacts(stageDir, map[string]string{
		"model":  filepath.Join(srcA, "model.pkl"),
		"backup": filepath.Join(srcB, "model.pkl"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model.pkl")
	assert.Contains(t, err.Error(), "backup")
}

func TestCopyArtifactsMissingSource(t *testing.T) {
	store := newTestStore(t)

	stageDir, err := store.Stage("demo")
	require.NoError(t, err)

	_, err = store.CopyArtifacts(stageDir, map[string]string{
		"model": filepath.Join(t.TempDir(), "does-not-exist.pkl"),
	})
	assert.Error(t, err)
}

func TestRoundMB(t *testing.T) {
	assert.Equal(t, 0.0, roundMB(0))
	assert.Equal(t, 1.0, roundMB(1024*1024))
	assert.Equal(t, 2.5, roundMB(1024*1024*5/2))
	assert.Equal(t, 0.01, roundMB(10*1024))
}
