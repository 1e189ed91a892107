// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/buildsched/internal/adapters/cas"
	_ "go.trai.ch/buildsched/internal/adapters/config"
	_ "go.trai.ch/buildsched/internal/adapters/farm"
	_ "go.trai.ch/buildsched/internal/adapters/fs"
	_ "go.trai.ch/buildsched/internal/adapters/logger"
	_ "go.trai.ch/buildsched/internal/adapters/shell"
	_ "go.trai.ch/buildsched/internal/adapters/sndbs"
	_ "go.trai.ch/buildsched/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/buildsched/internal/adapters/threadpool"
	// Register app and engine nodes.
	_ "go.trai.ch/buildsched/internal/app"
	_ "go.trai.ch/buildsched/internal/engine/scheduler"
)
