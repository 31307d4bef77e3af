package bridge

import (
	"context"

	"go.trai.ch/cachebridge/internal/core/domain"
	"go.trai.ch/cachebridge/internal/core/ports"
	"go.trai.ch/zerr"
)

// aggregate merges loaded artifacts into the session caches. Artifacts must be in
// postorder so that every configuration a result borrows from another label was already
// re-keyed.
func (b *Bridge) aggregate(ctx context.Context, artifacts []*domain.LabelResult) error {
	_, span := b.tracer.Start(ctx, "bridge.aggregate", ports.WithAttribute("artifacts", len(artifacts)))
	defer span.End()

	// remaps holds, per label key, the original identifier to session identifier table.
	remaps := make(map[string]map[int]int, len(artifacts))

	for _, art := range artifacts {
		if err := ctx.Err(); err != nil {
			return zerr.Wrap(err, "aggregate caches")
		}

		key := art.Label.Key()
		if _, ok := remaps[key]; ok {
			err := zerr.With(zerr.Wrap(domain.ErrDuplicateArtifact, "aggregate caches"), "label", art.Label.String())
			span.RecordError(err)
			return err
		}

		remap, err := b.addConfigurations(art)
		if err != nil {
			span.RecordError(err)
			return err
		}
		remaps[key] = remap

		if err := b.addResults(art, remap, remaps); err != nil {
			span.RecordError(err)
			return err
		}
		b.logger.Debug("aggregated artifact", "label", art.Label.String())
	}

	span.SetAttribute("configurations", b.configs.Len())
	span.SetAttribute("results", b.results.Len())
	return nil
}

func (b *Bridge) addConfigurations(art *domain.LabelResult) (map[int]int, error) {
	remap := make(map[int]int, len(art.Configurations))
	owner := art.Label.String()

	for _, cfg := range art.Configurations {
		if existing, ok := b.configs.Match(cfg); ok {
			return nil, zerr.With(zerr.With(zerr.With(zerr.Wrap(domain.ErrDuplicateConfiguration, "aggregate caches"),
				"label", owner), "project", cfg.ProjectPath), "existing_owner", b.configOwner[existing.ID])
		}

		newID := b.newConfigurationID()
		clone := cfg.CloneWithID(newID)
		clone.ProjectPath = b.mapper.ToReal(clone.ProjectPath)
		clone.ExplicitlyLoaded = true
		if err := b.configs.Add(clone); err != nil {
			return nil, zerr.With(err, "label", owner)
		}

		remap[cfg.ID] = newID
		b.inputIDs[newID] = struct{}{}
		b.originalIDs[newID] = cfg.ID
		b.configOwner[newID] = owner
	}
	return remap, nil
}

func (b *Bridge) addResults(art *domain.LabelResult, local map[int]int, remaps map[string]map[int]int) error {
	for _, r := range art.Results {
		newID, err := resolveConfigurationID(art, r.ConfigurationID, local, remaps)
		if err != nil {
			return err
		}

		clone := r.Clone(newID)
		b.results.Add(clone)
		for name, tr := range clone.Targets {
			b.carried[provenanceKey{target: name, result: tr}] = struct{}{}
		}
	}
	return nil
}

// resolveConfigurationID maps a configuration identifier of art to the session identifier.
// Configurations art borrowed from another label resolve through that label's remap.
func resolveConfigurationID(art *domain.LabelResult, id int, local map[int]int, remaps map[string]map[int]int) (int, error) {
	label := art.Label.String()

	owner, borrowed := art.ConfigOwner[id]
	if !borrowed || domain.LabelKey(owner) == art.Label.Key() {
		newID, ok := local[id]
		if !ok {
			return 0, zerr.With(zerr.With(zerr.Wrap(domain.ErrUnresolvedConfiguration, "resolve configuration"),
				"label", label), "configuration_id", id)
		}
		return newID, nil
	}

	originalID, ok := art.OriginalIDs[id]
	if !ok {
		return 0, zerr.With(zerr.With(zerr.Wrap(domain.ErrCorruptArtifact, "configuration owner without original identifier"),
			"label", label), "configuration_id", id)
	}
	ownerRemap, ok := remaps[domain.LabelKey(owner)]
	if !ok {
		return 0, zerr.With(zerr.With(zerr.Wrap(domain.ErrMissingDependencyArtifact, "resolve configuration"),
			"label", label), "owner", owner)
	}
	newID, ok := ownerRemap[originalID]
	if !ok {
		return 0, zerr.With(zerr.With(zerr.With(zerr.Wrap(domain.ErrUnresolvedConfiguration, "resolve configuration"),
			"label", label), "owner", owner), "configuration_id", originalID)
	}
	return newID, nil
}
