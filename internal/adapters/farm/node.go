package farm

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/buildsched/internal/adapters/shell"
	"go.trai.ch/buildsched/internal/core/ports"
)

// NodeID is the unique identifier for the farm substrate Graft node.
const NodeID graft.ID = "adapter.farm"

func init() {
	graft.Register(graft.Node[ports.Farm]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.Farm, error) {
			executor, err := graft.Dep[*shell.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return New(executor), nil
		},
	})
}
