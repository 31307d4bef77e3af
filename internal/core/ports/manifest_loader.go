package ports

import (
	"context"

	"go.trai.ch/cachebridge/internal/core/domain"
)

// ManifestLoader reads the cache manifest that lists a label's artifacts.
//
//go:generate go run go.uber.org/mock/mockgen -source=manifest_loader.go -destination=mocks/mock_manifest_loader.go -package=mocks
type ManifestLoader interface {
	// Load reads the manifest at path. It returns ok=false and no error when the file
	// does not exist, and fails without reading when ctx is done.
	Load(ctx context.Context, path string) (manifest *domain.CacheManifest, ok bool, err error)
}
