package threadpool

import (
	"context"
	"runtime"

	"github.com/grindlemire/graft"
	"go.trai.ch/buildsched/internal/core/ports"
)

// NodeID is the unique identifier for the local thread pool Graft node.
const NodeID graft.ID = "adapter.threadpool"

func init() {
	graft.Register(graft.Node[ports.ThreadPool]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ThreadPool, error) {
			return New(runtime.NumCPU()), nil
		},
	})
}
