// Package app implements the application layer for buildsched.
package app

import (
	"context"

	"go.trai.ch/buildsched/internal/adapters/shell"
	"go.trai.ch/buildsched/internal/core/domain"
	"go.trai.ch/buildsched/internal/core/ports"
	"go.trai.ch/buildsched/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic: it turns a loaded build
// manifest into scheduler transforms and drives Evaluate to completion.
type App struct {
	configLoader ports.ConfigLoader
	scheduler    *scheduler.Scheduler
	runtime      transformRuntime
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	sched *scheduler.Scheduler,
	executor *shell.Executor,
	hasher ports.Hasher,
	pool ports.ThreadPool,
	farm ports.Farm,
	sndbs ports.SnDbs,
) *App {
	return &App{
		configLoader: loader,
		scheduler:    sched,
		runtime: transformRuntime{
			executor:   executor,
			threadPool: pool,
			farm:       farm,
			sndbs:      sndbs,
			hasher:     hasher,
		},
	}
}

// Build loads the manifest from cwd, registers a BuildTransform for each
// declared entry, and drives the scheduler's Evaluate loop to
// completion (spec §6.6).
func (a *App) Build(ctx context.Context, cwd string, cfg scheduler.BuildSchedulerConfig) (scheduler.BuildStatus, error) {
	manifest, err := a.configLoader.Load(cwd)
	if err != nil {
		return scheduler.BuildStatusErrorOccurred, zerr.Wrap(err, "failed to load build manifest")
	}

	a.scheduler.Configure(cfg)

	for _, spec := range manifest.Transforms {
		x, err := a.runtime.BuildTransformFromSpec(spec)
		if err != nil {
			return scheduler.BuildStatusErrorOccurred, zerr.Wrap(err, "failed to build transform "+spec.Name)
		}
		applyEvalMode(x, spec.EvalMode)
		applyDepMode(x, spec.DepMode)
		a.scheduler.AddBuildTransform(x, nil)
	}

	status, err := a.scheduler.Evaluate(ctx)
	if err != nil {
		return status, zerr.Wrap(err, "build evaluation failed")
	}
	return status, nil
}

// ResumeDemo registers a single transform that always suspends on the
// thread-pool substrate and resumes once that task completes,
// demonstrating the WaitItem/ResumeItem state machine end to end
// (SPEC_FULL item 5).
func (a *App) ResumeDemo(ctx context.Context) (scheduler.BuildStatus, error) {
	spec := ports.TransformSpec{
		Name:      "resume_demo",
		TypeName:  "resume_demo",
		Substrate: "thread_pool",
		Outputs: []ports.OutputSpec{
			{Path: "[build]/demo/resume_demo.out"},
		},
		Config: map[string]string{"cmd": "echo resumed"},
	}

	x, err := a.runtime.BuildTransformFromSpec(spec)
	if err != nil {
		return scheduler.BuildStatusErrorOccurred, zerr.Wrap(err, "failed to build resume-demo transform")
	}
	a.scheduler.AddBuildTransform(x, nil)

	return a.scheduler.Evaluate(ctx)
}

func applyEvalMode(x *domain.BuildTransform, mode string) {
	switch mode {
	case "forced":
		x.EvalMode = domain.EvalForced
	case "disabled":
		x.EvalMode = domain.EvalDisabled
	default:
		x.EvalMode = domain.EvalNormal
	}
}

func applyDepMode(x *domain.BuildTransform, mode string) {
	if mode == "ignore" {
		x.DepMode = domain.IgnoreDependency
		return
	}
	x.DepMode = domain.DependencyChecked
}
