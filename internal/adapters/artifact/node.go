package artifact

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cachebridge/internal/adapters/codec"
	"go.trai.ch/cachebridge/internal/adapters/logger"
	"go.trai.ch/cachebridge/internal/core/ports"
)

// NodeID is the unique identifier for the artifact store factory Graft node.
const NodeID graft.ID = "adapter.artifact_store"

func init() {
	graft.Register(graft.Node[ports.ArtifactStoreFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ArtifactStoreFactory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return func(mapper ports.PathMapper) ports.ArtifactStore {
				return NewStore(codec.New(mapper), log)
			}, nil
		},
	})
}
