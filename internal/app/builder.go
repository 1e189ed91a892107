// Package app implements the application layer for buildsched.
package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/buildsched/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App          *App
	Logger       ports.Logger
	configLoader ports.ConfigLoader
}

// NewApp resolves a fully wired Components graph through Graft. The
// caller is responsible for blank-importing internal/wiring so every
// adapter and engine node has registered itself before this runs.
func NewApp(ctx context.Context) (*Components, error) {
	components, _, err := graft.ExecuteFor[*Components](ctx)
	return components, err
}
