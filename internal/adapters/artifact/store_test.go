package artifact_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cachebridge/internal/adapters/artifact"
	"go.trai.ch/cachebridge/internal/adapters/codec"
	"go.trai.ch/cachebridge/internal/adapters/pathmap"
	"go.trai.ch/cachebridge/internal/core/domain"
)

func newStore(t *testing.T) (*artifact.Store, string) {
	t.Helper()
	root := t.TempDir()
	execRoot := filepath.Join(root, "execroot", "ws")
	v, err := pathmap.New(root, execRoot)
	require.NoError(t, err)
	return artifact.NewStore(codec.New(v), nil), execRoot
}

func sample(execRoot string) *domain.LabelResult {
	r := domain.NewLabelResult(domain.NewLabel("ws", "lib", "lib"))
	r.Configurations = []*domain.Configuration{{
		ID:               1,
		ProjectPath:      filepath.Join(execRoot, "lib", "lib.csproj"),
		GlobalProperties: map[string]string{},
	}}
	res := domain.NewResult(1)
	res.AddTarget("Build", &domain.TargetResult{
		Items: []*domain.Item{{Spec: filepath.Join(execRoot, "bin", "lib.dll")}},
	})
	r.Results = []*domain.Result{res}
	return r
}

func TestStore_SaveLoadResult(t *testing.T) {
	t.Parallel()

	store, execRoot := newStore(t)
	path := filepath.Join(execRoot, "bazel-out", "lib", "lib.cache")

	require.NoError(t, store.SaveResult(t.Context(), path, sample(execRoot)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), execRoot)

	got, err := store.LoadResult(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, sample(execRoot), got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(domain.FilePerm), info.Mode().Perm())
}

func TestStore_LoadMissing(t *testing.T) {
	t.Parallel()

	store, execRoot := newStore(t)
	_, err := store.LoadResult(t.Context(), filepath.Join(execRoot, "missing.cache"))
	require.ErrorIs(t, err, domain.ErrArtifactRead)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestStore_LoadCorrupt(t *testing.T) {
	t.Parallel()

	store, execRoot := newStore(t)
	path := filepath.Join(execRoot, "corrupt.cache")
	require.NoError(t, store.SaveResult(t.Context(), path, sample(execRoot)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw[:len(raw)-1], 0o600))

	_, err = store.LoadResult(t.Context(), path)
	require.ErrorIs(t, err, domain.ErrCorruptArtifact)
	assert.ErrorContains(t, err, "decode label result")
}

func TestStore_SaveCancelledLeavesNothing(t *testing.T) {
	t.Parallel()

	store, execRoot := newStore(t)
	dir := filepath.Join(execRoot, "out")
	path := filepath.Join(dir, "r.bin")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := store.SaveResult(ctx, path, sample(execRoot))
	require.ErrorIs(t, err, domain.ErrArtifactWrite)
	require.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_SaveReplacesExisting(t *testing.T) {
	t.Parallel()

	store, execRoot := newStore(t)
	path := filepath.Join(execRoot, "r.bin")
	require.NoError(t, os.MkdirAll(execRoot, 0o750))
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))

	require.NoError(t, store.SaveResult(t.Context(), path, sample(execRoot)))

	got, err := store.LoadResult(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, "lib", got.Label.Name)

	entries, err := os.ReadDir(execRoot)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_Project(t *testing.T) {
	t.Parallel()

	store, execRoot := newStore(t)
	path := filepath.Join(execRoot, "lib.project")
	project := &domain.ProjectInstance{
		FullPath:   filepath.Join(execRoot, "lib", "lib.csproj"),
		Properties: map[string]string{"OutputPath": filepath.Join(execRoot, "bin")},
		Items: []domain.ProjectItem{
			{Type: "Compile", Item: &domain.Item{Spec: "Lib.cs"}},
		},
	}

	require.NoError(t, store.SaveProject(t.Context(), path, project))

	got, err := store.LoadProject(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, project, got)

	_, err = store.LoadResult(t.Context(), path)
	require.ErrorIs(t, err, domain.ErrIncompatibleArtifact)
}
