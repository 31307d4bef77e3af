package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cachebridge/internal/adapters/artifact"  //nolint:depguard // Wired in app layer
	"go.trai.ch/cachebridge/internal/adapters/engine"    //nolint:depguard // Wired in app layer
	"go.trai.ch/cachebridge/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/cachebridge/internal/adapters/manifest"  //nolint:depguard // Wired in app layer
	"go.trai.ch/cachebridge/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/cachebridge/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			manifest.NodeID,
			artifact.NodeID,
			engine.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ManifestLoader](ctx)
	if err != nil {
		return nil, err
	}

	stores, err := graft.Dep[ports.ArtifactStoreFactory](ctx)
	if err != nil {
		return nil, err
	}

	eng, err := graft.Dep[ports.Engine](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, stores, eng, log, tracer), nil
}
