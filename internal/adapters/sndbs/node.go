package sndbs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/buildsched/internal/adapters/shell"
	"go.trai.ch/buildsched/internal/core/ports"
)

// NodeID is the unique identifier for the SN-DBS substrate Graft node.
const NodeID graft.ID = "adapter.sndbs"

func init() {
	graft.Register(graft.Node[ports.SnDbs]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.SnDbs, error) {
			executor, err := graft.Dep[*shell.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return New(executor), nil
		},
	})
}
