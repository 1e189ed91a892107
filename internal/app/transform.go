package app

import (
	"context"
	"strings"

	"go.trai.ch/buildsched/internal/adapters/shell"
	"go.trai.ch/buildsched/internal/core/domain"
	"go.trai.ch/buildsched/internal/core/ports"
	"go.trai.ch/buildsched/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// ErrUnknownSubstrate is returned when a manifest transform names a
// substrate the app layer doesn't know how to dispatch to.
var ErrUnknownSubstrate = zerr.New("transform manifest: unknown substrate")

// transformRuntime bundles the concrete adapters a manifest-declared
// transform's Evaluate/ResumeEvaluation closures need to actually run a
// command. The scheduler core never sees these directly; it only ever
// calls through domain.EvalFunc/domain.ResumeFunc.
type transformRuntime struct {
	executor   *shell.Executor
	threadPool ports.ThreadPool
	farm       ports.Farm
	sndbs      ports.SnDbs
	hasher     ports.Hasher
}

const farmRetries = 2

// BuildTransformFromSpec turns a declarative ports.TransformSpec into a
// domain.BuildTransform whose Evaluate closure dispatches the spec's
// "cmd" config entry to the substrate named by spec.Substrate. This is
// the generic transform body the "build" CLI command registers for
// every entry in a loaded manifest (spec §6.6, SPEC_FULL item 5);
// concrete transform implementations (compilers, packers) remain out of
// the core's scope, exactly as spec §1 requires.
func (rt transformRuntime) BuildTransformFromSpec(spec ports.TransformSpec) (*domain.BuildTransform, error) {
	x := domain.NewBuildTransform(spec.TypeName, rt.evaluate(spec), rt.resume())

	for _, in := range spec.Inputs {
		path, err := domain.ParseBuildPath(in.Path)
		if err != nil {
			return nil, zerr.Wrap(err, "transform "+spec.Name+": bad input path")
		}
		kind := domain.KindSourceFile
		if in.Kind == "hashed_resource" {
			kind = domain.KindHashedResource
		}
		if err := x.AddInput(kind, path, in.Nickname); err != nil {
			return nil, zerr.Wrap(err, "transform "+spec.Name+": add input")
		}
	}

	for _, out := range spec.Outputs {
		path, err := domain.ParseBuildPath(out.Path)
		if err != nil {
			return nil, zerr.Wrap(err, "transform "+spec.Name+": bad output path")
		}
		if err := x.AddOutput(path, ports.ResolveFlags(out.Flags), out.Nickname); err != nil {
			return nil, zerr.Wrap(err, "transform "+spec.Name+": add output")
		}
	}

	return x, nil
}

func (rt transformRuntime) commandSpec(spec ports.TransformSpec) shell.CommandSpec {
	cmd := spec.Config["cmd"]
	return shell.CommandSpec{Command: "sh", Args: []string{"-c", cmd}}
}

func (rt transformRuntime) evaluate(spec ports.TransformSpec) domain.EvalFunc {
	return func(ctx context.Context, x *domain.BuildTransform) (domain.Status, error) {
		switch spec.Substrate {
		case "", "local":
			result, err := rt.executor.Run(ctx, rt.commandSpec(spec))
			if err != nil {
				x.AddError(err.Error())
				return domain.StatusFailed, nil
			}
			return rt.finishOrFail(x, result.ExitCode == 0, result.Output)

		case "thread_pool":
			taskID, err := rt.threadPool.Submit(ctx, func(taskCtx context.Context) (ports.ThreadPoolResult, error) {
				result, runErr := rt.executor.Run(taskCtx, rt.commandSpec(spec))
				if runErr != nil {
					return ports.ThreadPoolResult{Message: runErr.Error()}, nil
				}
				return ports.ThreadPoolResult{Succeeded: result.ExitCode == 0, Output: result.Output}, nil
			})
			if err != nil {
				return domain.StatusFailed, err
			}
			sched, ok := scheduler.SchedulerFromContext(ctx)
			if !ok {
				return domain.StatusFailed, zerr.New("transform evaluated outside a scheduler context")
			}
			sched.RegisterThreadPoolWaitItem(taskID)
			return domain.StatusResumeNeeded, nil

		case "farm":
			sched, ok := scheduler.SchedulerFromContext(ctx)
			if !ok {
				return domain.StatusFailed, zerr.New("transform evaluated outside a scheduler context")
			}
			c := rt.commandSpec(spec)
			if _, err := sched.SubmitFarmJob(ctx, ports.FarmJobSpec{Command: c.Command, Args: c.Args}, farmRetries); err != nil {
				return domain.StatusFailed, err
			}
			return domain.StatusResumeNeeded, nil

		case "sn_dbs":
			jobID, err := rt.sndbs.Submit(ctx, ports.SnDbsJobSpec{Toolchain: spec.TypeName, Command: "sh", Args: []string{"-c", spec.Config["cmd"]}})
			if err != nil {
				return domain.StatusFailed, err
			}
			sched, ok := scheduler.SchedulerFromContext(ctx)
			if !ok {
				return domain.StatusFailed, zerr.New("transform evaluated outside a scheduler context")
			}
			sched.RegisterSnDbsWaitItem(jobID)
			return domain.StatusResumeNeeded, nil

		default:
			return domain.StatusFailed, zerr.With(ErrUnknownSubstrate, "substrate", spec.Substrate)
		}
	}
}

func (rt transformRuntime) resume() domain.ResumeFunc {
	return func(_ context.Context, x *domain.BuildTransform, item domain.ResumeItem) (domain.Status, error) {
		return rt.finishOrFail(x, item.Succeeded, item.RawOutput)
	}
}

// finishOrFail hashes every declared output from disk and marks the
// transform updated, or records a failure message when succeeded is
// false.
func (rt transformRuntime) finishOrFail(x *domain.BuildTransform, succeeded bool, output string) (domain.Status, error) {
	if !succeeded {
		msg := strings.TrimSpace(output)
		if msg == "" {
			msg = "command failed"
		}
		x.AddError(msg)
		return domain.StatusFailed, nil
	}

	for _, out := range x.Outputs() {
		hash, err := rt.hasher.ComputeFileHash(out.Path.AbsolutePath())
		if err != nil {
			x.AddError(zerr.Wrap(err, "hashing output "+out.Path.Prefixed()).Error())
			return domain.StatusFailed, nil
		}
		x.SetOutputContentHash(out.Path.Prefixed(), hash)
	}
	x.MarkOutputsUpdated()
	return domain.StatusOutputsUpdated, nil
}
