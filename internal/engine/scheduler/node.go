package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/buildsched/internal/adapters/cas"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/buildsched/internal/adapters/farm"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/buildsched/internal/adapters/fs"         //nolint:depguard // Wired in engine wiring
	"go.trai.ch/buildsched/internal/adapters/logger"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/buildsched/internal/adapters/sndbs"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/buildsched/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/buildsched/internal/adapters/threadpool" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/buildsched/internal/core/ports"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cas.NodeID,
			fs.HasherNodeID,
			fs.ResolverNodeID,
			threadpool.NodeID,
			farm.NodeID,
			sndbs.NodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			store, err := graft.Dep[ports.DataStore](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			resolver, err := graft.Dep[ports.InputResolver](ctx)
			if err != nil {
				return nil, err
			}

			pool, err := graft.Dep[ports.ThreadPool](ctx)
			if err != nil {
				return nil, err
			}

			remoteFarm, err := graft.Dep[ports.Farm](ctx)
			if err != nil {
				return nil, err
			}

			distCompiler, err := graft.Dep[ports.SnDbs](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return NewScheduler(store, hasher, resolver, pool, remoteFarm, distCompiler, log, tel), nil
		},
	})
}
