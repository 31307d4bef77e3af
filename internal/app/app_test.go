package app_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cachebridge/internal/adapters/artifact"
	"go.trai.ch/cachebridge/internal/adapters/codec"
	"go.trai.ch/cachebridge/internal/adapters/engine"
	"go.trai.ch/cachebridge/internal/adapters/logger"
	"go.trai.ch/cachebridge/internal/adapters/manifest"
	"go.trai.ch/cachebridge/internal/adapters/telemetry"
	"go.trai.ch/cachebridge/internal/app"
	"go.trai.ch/cachebridge/internal/core/domain"
	"go.trai.ch/cachebridge/internal/core/ports"
	"go.trai.ch/cachebridge/internal/core/ports/mocks"
	"go.trai.ch/cachebridge/internal/engine/bridge"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type env struct {
	inv    app.Invocation
	engine *engine.Engine
	app    *app.App
}

func newEnv(t *testing.T) *env {
	t.Helper()
	outputBase := t.TempDir()
	execRoot := filepath.Join(outputBase, "execroot", "ws")
	require.NoError(t, os.MkdirAll(execRoot, domain.DirPerm))
	return newEnvAt(t, outputBase, execRoot)
}

func newEnvAt(t *testing.T, outputBase, execRoot string) *env {
	t.Helper()
	log := logger.New()
	log.(*logger.Logger).SetOutput(io.Discard)

	eng := engine.New()
	stores := func(mapper ports.PathMapper) ports.ArtifactStore {
		return artifact.NewStore(codec.New(mapper), log)
	}
	return &env{
		inv: app.Invocation{
			OutputBase: outputBase,
			ExecRoot:   execRoot,
			Label:      "@ws//app:app",
		},
		engine: eng,
		app:    app.New(manifest.NewLoader(), stores, eng, log, telemetry.NewNoOpTracer()),
	}
}

func (e *env) writeManifest(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(e.inv.ExecRoot, domain.DefaultManifestName)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func (e *env) build(targets ...string) app.BuildFunc {
	return func(ctx context.Context, _ *bridge.Bridge) (*domain.ProjectInstance, error) {
		_, err := e.engine.Execute(ctx, engine.Request{
			ProjectPath: filepath.Join(e.inv.ExecRoot, "app.proj"),
			Targets:     targets,
			Run: func(_ context.Context, _ *domain.Configuration, target string) (*domain.TargetResult, error) {
				if target == "Broken" {
					return nil, errors.New("compile error")
				}
				return &domain.TargetResult{
					Items: []*domain.Item{{Spec: filepath.Join(e.inv.ExecRoot, "bin", target)}},
				}, nil
			},
		})
		return nil, err
	}
}

func TestApp_MapPath(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	realPath := filepath.Join(e.inv.ExecRoot, "src", "a.cs")

	got, err := e.app.MapPath(e.inv, "virtual", realPath)
	require.NoError(t, err)
	assert.Equal(t, "$exec_root/src/a.cs", got)

	got, err = e.app.MapPath(e.inv, "real", "$exec_root/src/a.cs")
	require.NoError(t, err)
	assert.Equal(t, realPath, got)

	got, err = e.app.MapPath(e.inv, "manifest", realPath)
	require.NoError(t, err)
	assert.Equal(t, "src/a.cs", got)

	_, err = e.app.MapPath(e.inv, "manifest", "/nowhere/a.cs")
	require.ErrorIs(t, err, domain.ErrInvalidRoots)

	_, err = e.app.MapPath(e.inv, "sideways", realPath)
	require.ErrorIs(t, err, domain.ErrUnknownPathMode)
}

func TestApp_InvalidInvocation(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	inv := e.inv
	inv.ExecRoot = "/somewhere/else"
	_, err := e.app.Check(t.Context(), inv)
	require.ErrorIs(t, err, domain.ErrInvalidRoots)

	inv = e.inv
	inv.Label = "not-a-label"
	_, err = e.app.Check(t.Context(), inv)
	require.ErrorIs(t, err, domain.ErrInvalidLabel)

	e.writeManifest(t, `{"dependencyArtifacts": [""]}`)
	_, err = e.app.Check(t.Context(), e.inv)
	require.ErrorIs(t, err, domain.ErrManifestInvalid)
}

func TestApp_Check_NoManifest(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	report, err := e.app.Check(t.Context(), e.inv)
	require.NoError(t, err)
	assert.False(t, report.ManifestFound)
	assert.Equal(t, "@ws//app:app", report.Label)
	assert.Zero(t, report.Configurations)
	assert.Zero(t, report.Results)
}

func TestApp_Session_Leaf(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.writeManifest(t, `{
		// leaf unit
		"output": {"result": "r.bin"},
		"dependencyArtifacts": [],
	}`)

	require.NoError(t, e.app.Session(t.Context(), e.inv, e.build("Build")))

	got, err := e.app.Inspect(t.Context(), e.inv, "r.bin")
	require.NoError(t, err)
	assert.Equal(t, "@ws//app:app", got.Label.String())
	require.Len(t, got.Results, 1)
	assert.Equal(t, 1, got.Results[0].ConfigurationID)
	assert.Empty(t, got.ConfigOwner)
	assert.Empty(t, got.OriginalIDs)
}

func TestApp_Session_BuildFailureStillSaves(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.writeManifest(t, `{"output": {"result": "r.bin"}}`)

	err := e.app.Session(t.Context(), e.inv, e.build("Build", "Broken"))
	require.ErrorIs(t, err, domain.ErrBuildFailed)

	got, err := e.app.Inspect(t.Context(), e.inv, "r.bin")
	require.NoError(t, err)
	require.Len(t, got.Results, 1)
	assert.Equal(t, []string{"Broken", "Build"}, got.Results[0].TargetNames())
	assert.Equal(t, domain.ResultFailure, got.Results[0].Targets["Broken"].Code)
}

func TestApp_Check_Dependencies(t *testing.T) {
	t.Parallel()

	dep := newEnv(t)
	dep.inv.Label = "@ws//lib:lib"
	dep.writeManifest(t, `{"output": {"result": "cache/lib.cache"}}`)
	require.NoError(t, dep.app.Session(t.Context(), dep.inv, dep.build("Build", "Pack")))

	// The dependent runs in another sandbox of the same output base.
	execRoot := filepath.Join(dep.inv.OutputBase, "sandbox", "2", "execroot", "ws")
	require.NoError(t, os.MkdirAll(filepath.Join(execRoot, "cache"), domain.DirPerm))
	data, err := os.ReadFile(filepath.Join(dep.inv.ExecRoot, "cache", "lib.cache"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(execRoot, "cache", "lib.cache"), data, domain.FilePerm))

	e := newEnvAt(t, dep.inv.OutputBase, execRoot)
	e.writeManifest(t, `{"dependencyArtifacts": ["cache/lib.cache"]}`)

	report, err := e.app.Check(t.Context(), e.inv)
	require.NoError(t, err)
	assert.True(t, report.ManifestFound)
	assert.Equal(t, 1, report.Artifacts)
	assert.Equal(t, 1, report.Configurations)
	assert.Equal(t, 1, report.Results)
	assert.Equal(t, 2, report.CarriedTargets)

	configs, _, err := e.engine.ReadBackCaches(t.Context())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(execRoot, "app.proj"), configs.All()[0].ProjectPath)
}

func TestApp_Check_MissingDependency(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.writeManifest(t, `{"dependencyArtifacts": ["cache/none.cache"]}`)

	_, err := e.app.Check(t.Context(), e.inv)
	require.ErrorIs(t, err, domain.ErrMissingDependencyArtifact)
}

type invocationKey struct{}

func newMockedApp(t *testing.T) (*app.App, app.Invocation, *mocks.MockManifestLoader, *mocks.MockArtifactStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockManifestLoader(ctrl)
	store := mocks.NewMockArtifactStore(ctrl)

	log := logger.New()
	log.(*logger.Logger).SetOutput(io.Discard)

	outputBase := t.TempDir()
	inv := app.Invocation{
		OutputBase: outputBase,
		ExecRoot:   filepath.Join(outputBase, "execroot", "ws"),
		Label:      "@ws//app:app",
	}
	stores := func(ports.PathMapper) ports.ArtifactStore { return store }
	return app.New(loader, stores, engine.New(), log, telemetry.NewNoOpTracer()), inv, loader, store
}

func TestApp_Check_ManifestLoadFails(t *testing.T) {
	t.Parallel()

	a, inv, loader, _ := newMockedApp(t)
	ctx := context.WithValue(t.Context(), invocationKey{}, "check")

	loader.EXPECT().
		Load(gomock.Any(), filepath.Join(inv.ExecRoot, domain.DefaultManifestName)).
		DoAndReturn(func(ctx context.Context, _ string) (*domain.CacheManifest, bool, error) {
			assert.Equal(t, "check", ctx.Value(invocationKey{}))
			return nil, false, zerr.Wrap(domain.ErrManifestRead, "permission denied")
		})

	_, err := a.Check(ctx, inv)
	require.ErrorIs(t, err, domain.ErrManifestRead)
}

func TestApp_Session_SaveFails(t *testing.T) {
	t.Parallel()

	a, inv, loader, store := newMockedApp(t)
	inv.Manifest = "m.json"

	loader.EXPECT().
		Load(gomock.Any(), filepath.Join(inv.ExecRoot, "m.json")).
		Return(&domain.CacheManifest{Output: domain.ManifestOutput{Result: "out/r.bin"}}, true, nil)
	store.EXPECT().
		SaveResult(gomock.Any(), filepath.Join(inv.ExecRoot, "out", "r.bin"), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, r *domain.LabelResult) error {
			assert.Equal(t, "@ws//app:app", r.Label.String())
			return zerr.Wrap(domain.ErrArtifactWrite, "disk full")
		})

	err := a.Session(t.Context(), inv, nil)
	require.ErrorIs(t, err, domain.ErrArtifactWrite)
	assert.NotErrorIs(t, err, domain.ErrBuildFailed)
}
