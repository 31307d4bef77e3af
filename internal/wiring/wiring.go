// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/cachebridge/internal/adapters/artifact"
	_ "go.trai.ch/cachebridge/internal/adapters/engine"
	_ "go.trai.ch/cachebridge/internal/adapters/logger"
	_ "go.trai.ch/cachebridge/internal/adapters/manifest"
	_ "go.trai.ch/cachebridge/internal/adapters/telemetry"
	// Register app nodes.
	_ "go.trai.ch/cachebridge/internal/app"
)
