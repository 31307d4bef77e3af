// Package app implements the application layer for cachebridge.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.trai.ch/cachebridge/internal/adapters/pathmap"
	"go.trai.ch/cachebridge/internal/core/domain"
	"go.trai.ch/cachebridge/internal/core/ports"
	"go.trai.ch/cachebridge/internal/engine/bridge"
	"go.trai.ch/zerr"
)

// Invocation holds the parameters the orchestrator passes to one invocation.
type Invocation struct {
	OutputBase string
	ExecRoot   string
	Label      string
	Manifest   string
	Jobs       int
}

// CheckReport summarizes the merged caches of an invocation.
type CheckReport struct {
	Label          string
	Manifest       string
	ManifestFound  bool
	Artifacts      int
	Configurations int
	Results        int
	CarriedTargets int
}

// BuildFunc runs the build of a session against the installed caches and returns the
// evaluated project to cache, if any.
type BuildFunc func(ctx context.Context, b *bridge.Bridge) (*domain.ProjectInstance, error)

// App represents the main application logic.
type App struct {
	loader ports.ManifestLoader
	stores ports.ArtifactStoreFactory
	engine ports.Engine
	logger ports.Logger
	tracer ports.Tracer
}

// New creates a new App instance.
func New(
	loader ports.ManifestLoader,
	stores ports.ArtifactStoreFactory,
	engine ports.Engine,
	log ports.Logger,
	tracer ports.Tracer,
) *App {
	return &App{
		loader: loader,
		stores: stores,
		engine: engine,
		logger: log,
		tracer: tracer,
	}
}

// MapPath converts path with the mapper of inv. mode is one of "virtual", "real" or
// "manifest".
func (a *App) MapPath(inv Invocation, mode, path string) (string, error) {
	mapper, err := pathmap.New(inv.OutputBase, inv.ExecRoot)
	if err != nil {
		return "", err
	}

	switch mode {
	case "virtual":
		return mapper.ToVirtual(path), nil
	case "real":
		return mapper.ToReal(path), nil
	case "manifest":
		mp, ok := mapper.ToManifestPath(path)
		if !ok {
			return "", zerr.With(zerr.Wrap(domain.ErrInvalidRoots, "path is outside of both roots"), "path", path)
		}
		return mp, nil
	default:
		return "", zerr.With(zerr.Wrap(domain.ErrUnknownPathMode, "map path"), "mode", mode)
	}
}

// Inspect loads a label result artifact. Paths come back in real form for inv.
func (a *App) Inspect(ctx context.Context, inv Invocation, artifactPath string) (*domain.LabelResult, error) {
	mapper, err := pathmap.New(inv.OutputBase, inv.ExecRoot)
	if err != nil {
		return nil, err
	}
	return a.stores(mapper).LoadResult(ctx, mapper.Abs(artifactPath))
}

// Check loads and merges the artifacts the manifest of inv lists, installs them into the
// engine and reports what was merged. Nothing is written.
func (a *App) Check(ctx context.Context, inv Invocation) (*CheckReport, error) {
	s, err := a.open(ctx, inv)
	if err != nil {
		return nil, err
	}

	if err := s.bridge.Initialize(ctx, s.manifest); err != nil {
		return nil, zerr.With(err, "session", s.id)
	}

	report := &CheckReport{
		Label:         s.bridge.Label().String(),
		Manifest:      s.manifestPath,
		ManifestFound: s.manifest != nil,
	}
	if s.manifest != nil {
		report.Artifacts = len(s.manifest.Artifacts())
	}

	configs, results := s.bridge.Caches()
	report.Configurations = configs.Len()
	report.Results = results.Len()
	for _, r := range results.All() {
		for name, tr := range r.Targets {
			if s.bridge.Carried(name, tr) {
				report.CarriedTargets++
			}
		}
	}

	a.logger.Info("caches merged", "session", s.id, "label", report.Label,
		"configurations", report.Configurations, "results", report.Results)
	return report, nil
}

// Session initializes the caches, runs build and saves the output artifacts. The artifacts
// are written even when build fails, so that targets which succeeded stay cached; the
// build error is returned afterwards.
func (a *App) Session(ctx context.Context, inv Invocation, build BuildFunc) (err error) {
	s, err := a.open(ctx, inv)
	if err != nil {
		return err
	}

	ctx, span := a.tracer.Start(ctx, "session",
		ports.WithAttribute("session", s.id),
		ports.WithAttribute("label", s.bridge.Label().String()),
	)
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	if err := s.bridge.Initialize(ctx, s.manifest); err != nil {
		return zerr.With(err, "session", s.id)
	}

	var buildErr error
	var project *domain.ProjectInstance
	if build != nil {
		project, buildErr = build(ctx, s.bridge)
	}
	if buildErr != nil {
		a.logger.Warn("build failed, saving completed results", "session", s.id)
	}

	if err := s.bridge.Save(ctx, project); err != nil {
		return zerr.With(errors.Join(err, buildErr), "session", s.id)
	}

	if buildErr != nil {
		return zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrBuildFailed, buildErr), "run session"), "session", s.id)
	}
	return nil
}

type session struct {
	id           string
	bridge       *bridge.Bridge
	manifest     *domain.CacheManifest
	manifestPath string
}

// open validates inv, reads the manifest and creates the bridge of one session.
func (a *App) open(ctx context.Context, inv Invocation) (*session, error) {
	mapper, err := pathmap.New(inv.OutputBase, inv.ExecRoot)
	if err != nil {
		return nil, err
	}

	var label domain.Label
	if inv.Label != "" {
		label, err = domain.ParseLabel(inv.Label)
		if err != nil {
			return nil, err
		}
	}

	name := inv.Manifest
	if name == "" {
		name = domain.DefaultManifestName
	}
	manifestPath := mapper.Abs(name)

	manifest, ok, err := a.loader.Load(ctx, manifestPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		a.logger.Debug("no cache manifest", "path", manifestPath)
		manifest = nil
	}

	id := uuid.NewString()
	a.logger.Debug("session started", "session", id, "label", label.String(), "manifest", manifestPath)

	b := bridge.New(label, mapper, a.stores(mapper), a.engine,
		bridge.WithLogger(a.logger),
		bridge.WithTracer(a.tracer),
		bridge.WithJobs(inv.Jobs),
	)
	return &session{id: id, bridge: b, manifest: manifest, manifestPath: manifestPath}, nil
}
