package ports

import (
	"context"

	"go.trai.ch/cachebridge/internal/core/domain"
)

// ArtifactStore reads and writes serialized cache artifacts.
//
//go:generate go run go.uber.org/mock/mockgen -source=artifact_store.go -destination=mocks/mock_artifact_store.go -package=mocks
type ArtifactStore interface {
	// LoadResult reads a label result artifact. Paths inside it come back in real form.
	LoadResult(ctx context.Context, path string) (*domain.LabelResult, error)

	// SaveResult writes a label result artifact atomically. Paths are stored in virtual form.
	SaveResult(ctx context.Context, path string, result *domain.LabelResult) error

	// LoadProject reads a project instance artifact.
	LoadProject(ctx context.Context, path string) (*domain.ProjectInstance, error)

	// SaveProject writes a project instance artifact atomically.
	SaveProject(ctx context.Context, path string, project *domain.ProjectInstance) error
}

// ArtifactStoreFactory creates the ArtifactStore of one invocation. The store virtualizes
// paths with the invocation's mapper.
type ArtifactStoreFactory func(mapper PathMapper) ArtifactStore
