package bridge

import (
	"context"
	"maps"

	"go.trai.ch/cachebridge/internal/core/domain"
	"go.trai.ch/cachebridge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Save reads the caches back from the engine and writes the output artifacts the manifest
// names. The result artifact holds the configurations created by this invocation and the
// results it computed. project is written to the project output when both are set.
func (b *Bridge) Save(ctx context.Context, project *domain.ProjectInstance) (err error) {
	ctx, span := b.tracer.Start(ctx, "bridge.save", ports.WithAttribute("label", b.label.String()))
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	prev := b.State()
	if prev != StateEmpty && prev != StateInstalled {
		return zerr.With(zerr.Wrap(domain.ErrInvalidState, "save caches"), "state", prev.String())
	}

	out, err := b.Output(ctx)
	if err != nil {
		return b.fail(err)
	}
	span.SetAttribute("configurations", len(out.Configurations))
	span.SetAttribute("results", len(out.Results))

	if b.manifest == nil {
		b.logger.Debug("no cache manifest, nothing to save", "label", b.label.String())
		return b.transition(StateSaved, prev)
	}

	if p := b.manifest.Output.Project; p != "" && project != nil {
		path := b.mapper.Abs(p)
		if err := b.store.SaveProject(ctx, path, project); err != nil {
			return b.fail(err)
		}
		b.logger.Debug("saved project artifact", "path", path)
	}

	if p := b.manifest.Output.Result; p != "" {
		path := b.mapper.Abs(p)
		if err := b.store.SaveResult(ctx, path, out); err != nil {
			return b.fail(err)
		}
		b.logger.Info("saved cache artifact", "path", path,
			"configurations", len(out.Configurations), "results", len(out.Results))
	}

	return b.transition(StateSaved, prev)
}

// Output assembles the label result this invocation would write: configurations created
// during the session and filtered results, all in virtual form, plus copies of the owner
// and original identifier tables. It leaves the engine caches in virtual form.
func (b *Bridge) Output(ctx context.Context) (*domain.LabelResult, error) {
	configs, results, err := b.readBack(ctx)
	if err != nil {
		return nil, err
	}

	fixupConfigs(configs, b.mapper.ToVirtual)
	fixupResults(results, b.mapper.ToVirtual)

	out := domain.NewLabelResult(b.label)
	b.mu.Lock()
	for _, cfg := range configs.All() {
		if _, input := b.inputIDs[cfg.ID]; !input {
			out.Configurations = append(out.Configurations, cfg)
		}
	}
	maps.Copy(out.ConfigOwner, b.configOwner)
	maps.Copy(out.OriginalIDs, b.originalIDs)
	b.mu.Unlock()

	out.Results = b.filterResults(results.All())
	return out, nil
}

func (b *Bridge) readBack(ctx context.Context) (*domain.ConfigCache, *domain.ResultsCache, error) {
	if b.engine == nil {
		return b.configs, b.results, nil
	}
	configs, results, err := b.engine.ReadBackCaches(ctx)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "read back caches")
	}
	return configs, results, nil
}
