package bridge

import (
	"context"

	"go.trai.ch/cachebridge/internal/core/domain"
)

// LoadProject returns the cached evaluation of the project at projectPath. It reports false
// when the manifest has no entry for the project.
func (b *Bridge) LoadProject(ctx context.Context, projectPath string) (*domain.ProjectInstance, bool, error) {
	if b.manifest == nil {
		return nil, false, nil
	}

	key, ok := b.mapper.ToManifestPath(projectPath)
	if !ok {
		b.logger.Debug("project outside of roots", "project", projectPath)
		return nil, false, nil
	}

	artifact, ok := b.manifest.Projects[key]
	if !ok {
		b.logger.Debug("project cache miss", "project", key)
		return nil, false, nil
	}

	b.logger.Debug("project cache hit", "project", key)
	project, err := b.store.LoadProject(ctx, b.mapper.Abs(artifact))
	if err != nil {
		return nil, false, err
	}
	return project, true, nil
}
