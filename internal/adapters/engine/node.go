package engine

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cachebridge/internal/core/ports"
)

// NodeID is the unique identifier for the engine Graft node.
const NodeID graft.ID = "adapter.engine"

func init() {
	graft.Register(graft.Node[ports.Engine]{
		ID:        NodeID,
		Cacheable: false,
		Run: func(_ context.Context) (ports.Engine, error) {
			return New(), nil
		},
	})
}
