package bridge

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go.trai.ch/cachebridge/internal/core/domain"
	"go.trai.ch/cachebridge/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Initialize prepares the engine caches for the build. A nil manifest installs empty
// caches. Otherwise every dependency artifact is loaded, re-keyed and merged in manifest
// order before the result is installed.
func (b *Bridge) Initialize(ctx context.Context, manifest *domain.CacheManifest) (err error) {
	ctx, span := b.tracer.Start(ctx, "bridge.initialize", ports.WithAttribute("label", b.label.String()))
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	if manifest == nil {
		if err := b.transition(StateEmpty, StateNew); err != nil {
			return err
		}
		b.logger.Debug("no cache manifest, starting with empty caches", "label", b.label.String())
		if err := b.install(ctx); err != nil {
			return b.fail(err)
		}
		return nil
	}

	if err := b.transition(StateLoading, StateNew); err != nil {
		return err
	}
	b.manifest = manifest

	artifacts, err := b.loadArtifacts(ctx, manifest.Artifacts())
	if err != nil {
		return b.fail(err)
	}
	span.SetAttribute("artifacts", len(artifacts))

	if err := b.transition(StateAggregating, StateLoading); err != nil {
		return b.fail(err)
	}
	if err := b.aggregate(ctx, artifacts); err != nil {
		return b.fail(err)
	}

	if err := b.install(ctx); err != nil {
		return b.fail(err)
	}
	return b.transition(StateInstalled, StateAggregating)
}

// loadArtifacts reads the artifacts concurrently and returns them in the order given.
func (b *Bridge) loadArtifacts(ctx context.Context, paths []string) ([]*domain.LabelResult, error) {
	ctx, span := b.tracer.Start(ctx, "bridge.load", ports.WithAttribute("artifacts", len(paths)))
	defer span.End()

	loaded := make([]*domain.LabelResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.jobs)
	for i, p := range paths {
		g.Go(func() error {
			path := b.mapper.Abs(p)
			res, err := b.store.LoadResult(gctx, path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrMissingDependencyArtifact, err),
						"load dependency artifact"), "path", path)
				}
				return zerr.With(zerr.Wrap(err, "load dependency artifact"), "path", path)
			}
			b.logger.Debug("loaded dependency artifact", "path", path, "label", res.Label.String(),
				"configurations", len(res.Configurations), "results", len(res.Results))
			loaded[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return loaded, nil
}

// install applies the real-form fix-up and hands the merged caches to the engine.
func (b *Bridge) install(ctx context.Context) error {
	ctx, span := b.tracer.Start(ctx, "bridge.install")
	defer span.End()

	fixupConfigs(b.configs, b.mapper.ToReal)
	fixupResults(b.results, b.mapper.ToReal)
	span.SetAttribute("configurations", b.configs.Len())
	span.SetAttribute("results", b.results.Len())

	if b.engine == nil {
		return nil
	}
	if err := b.engine.InstallCaches(ctx, b.configs, b.results); err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrEngineInstall) {
			return err
		}
		return zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrEngineInstall, err), "install caches")
	}
	return nil
}
