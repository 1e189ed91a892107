package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/buildsched/internal/adapters/config"     //nolint:depguard // Wired in app layer
	"go.trai.ch/buildsched/internal/adapters/farm"       //nolint:depguard // Wired in app layer
	"go.trai.ch/buildsched/internal/adapters/fs"         //nolint:depguard // Wired in app layer
	"go.trai.ch/buildsched/internal/adapters/logger"     //nolint:depguard // Wired in app layer
	"go.trai.ch/buildsched/internal/adapters/shell"      //nolint:depguard // Wired in app layer
	"go.trai.ch/buildsched/internal/adapters/sndbs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/buildsched/internal/adapters/threadpool" //nolint:depguard // Wired in app layer
	"go.trai.ch/buildsched/internal/core/ports"
	"go.trai.ch/buildsched/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			scheduler.NodeID,
			shell.NodeID,
			fs.HasherNodeID,
			threadpool.NodeID,
			farm.NodeID,
			sndbs.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			sched, err := graft.Dep[*scheduler.Scheduler](ctx)
			if err != nil {
				return nil, err
			}

			executor, err := graft.Dep[*shell.Executor](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
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

			return New(loader, sched, executor, hasher, pool, remoteFarm, distCompiler), nil
		},
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			// Components is built directly here because its configLoader
			// field is unexported.
			return &Components{
				App:          app,
				Logger:       log,
				configLoader: loader,
			}, nil
		},
	})
}
