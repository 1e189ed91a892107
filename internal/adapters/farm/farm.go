// Package farm implements the remote job-submission substrate (spec
// §4.8, §5) as an in-process reference transport: jobs run locally
// through the shared shell executor, standing in for a real farm agent
// fleet. Production deployments would swap this for a network client;
// the scheduler only ever sees the ports.Farm interface.
package farm

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.trai.ch/buildsched/internal/adapters/shell"
	"go.trai.ch/buildsched/internal/core/ports"
	"go.trai.ch/zerr"
)

// ErrUnknownJob is returned by Poll for a job id Farm never issued, or
// one whose result has already been collected.
var ErrUnknownJob = zerr.New("farm: unknown job id")

type jobRecord struct {
	done   chan struct{}
	result ports.FarmJobResult
}

// Farm is an in-memory ports.Farm implementation.
type Farm struct {
	executor *shell.Executor

	mu   sync.Mutex
	jobs map[string]*jobRecord
}

// New creates a Farm that runs submitted jobs through executor.
func New(executor *shell.Executor) *Farm {
	return &Farm{executor: executor, jobs: make(map[string]*jobRecord)}
}

// Submit enqueues spec and returns its job id immediately.
func (f *Farm) Submit(ctx context.Context, spec ports.FarmJobSpec) (string, error) {
	jobID := uuid.NewString()
	rec := &jobRecord{done: make(chan struct{})}

	f.mu.Lock()
	f.jobs[jobID] = rec
	f.mu.Unlock()

	go func() {
		defer close(rec.done)
		result, err := f.executor.Run(ctx, shell.CommandSpec{
			Command: spec.Command,
			Args:    spec.Args,
			Env:     spec.Env,
		})
		rec.result = ports.FarmJobResult{
			Succeeded: err == nil && result.ExitCode == 0,
			Output:    result.Output,
			Message:   farmMessage(err, result.ExitCode),
		}
	}()

	return jobID, nil
}

// Poll reports whether jobID has finished.
func (f *Farm) Poll(_ context.Context, jobID string) (ports.FarmJobResult, bool, error) {
	f.mu.Lock()
	rec, ok := f.jobs[jobID]
	f.mu.Unlock()
	if !ok {
		return ports.FarmJobResult{}, false, zerr.With(ErrUnknownJob, "job_id", jobID)
	}

	select {
	case <-rec.done:
		f.mu.Lock()
		delete(f.jobs, jobID)
		f.mu.Unlock()
		return rec.result, true, nil
	default:
		return ports.FarmJobResult{}, false, nil
	}
}

func farmMessage(err error, exitCode int) string {
	if err != nil {
		return err.Error()
	}
	if exitCode != 0 {
		return "job exited with non-zero status"
	}
	return ""
}
