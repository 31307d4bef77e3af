// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/cachebridge/internal/core/domain"
)

// Engine is the inner build engine whose caches the bridge reads and writes.
//
//go:generate go run go.uber.org/mock/mockgen -source=engine.go -destination=mocks/mock_engine.go -package=mocks
type Engine interface {
	// NewConfigurationID reserves a configuration identifier that is unused in the
	// engine's current session.
	NewConfigurationID() int

	// InstallCaches replaces the engine's configuration and results caches before a build.
	InstallCaches(ctx context.Context, configs *domain.ConfigCache, results *domain.ResultsCache) error

	// ReadBackCaches returns the caches as they stand after the build, including every
	// configuration and result the build added.
	ReadBackCaches(ctx context.Context) (*domain.ConfigCache, *domain.ResultsCache, error)
}
