// Package sndbs implements the SN-DBS distributed compilation substrate
// (spec §4.8, §9.7) as an in-process reference transport, running jobs
// locally through the shared shell executor. Poll is wrapped in a
// circuit breaker (github.com/sony/gobreaker) so a substrate that stops
// responding degrades to a fast gobreaker.ErrOpenState instead of the scheduler
// spinning its 500ms poll loop forever against a dead service.
package sndbs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.trai.ch/buildsched/internal/adapters/shell"
	"go.trai.ch/buildsched/internal/core/ports"
	"go.trai.ch/zerr"
)

// ErrUnknownJob is returned by Poll for a job id SnDbs never issued, or
// one whose result has already been collected.
var ErrUnknownJob = zerr.New("sndbs: unknown job id")

type jobRecord struct {
	done         chan struct{}
	result       ports.SnDbsJobResult
	transportErr error
}

type pollOutcome struct {
	result ports.SnDbsJobResult
	done   bool
}

// SnDbs is an in-memory ports.SnDbs implementation.
type SnDbs struct {
	executor *shell.Executor
	breaker  *gobreaker.CircuitBreaker

	mu   sync.Mutex
	jobs map[string]*jobRecord
}

// New creates a SnDbs that runs submitted jobs through executor. The
// breaker trips once more than 5 consecutive polls have failed (on the
// 6th) and allows one probe
// request every 30 seconds while open.
func New(executor *shell.Executor) *SnDbs {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "sndbs-poll",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	return &SnDbs{executor: executor, breaker: breaker, jobs: make(map[string]*jobRecord)}
}

// Submit enqueues spec and returns its job id immediately.
func (s *SnDbs) Submit(ctx context.Context, spec ports.SnDbsJobSpec) (string, error) {
	jobID := uuid.NewString()
	rec := &jobRecord{done: make(chan struct{})}

	s.mu.Lock()
	s.jobs[jobID] = rec
	s.mu.Unlock()

	go func() {
		defer close(rec.done)
		started := time.Now()
		result, err := s.executor.Run(ctx, shell.CommandSpec{Command: spec.Command, Args: spec.Args})
		rec.transportErr = err
		rec.result = ports.SnDbsJobResult{
			Succeeded: err == nil && result.ExitCode == 0,
			Output:    result.Output,
			Message:   sndbsMessage(err, result.ExitCode),
			Host:      "localhost",
			Where:     spec.Toolchain,
			StartedAt: started,
			EndedAt:   time.Now(),
		}
	}()

	return jobID, nil
}

// Poll reports whether jobID has finished. Only bookkeeping failures
// (an id Poll doesn't recognize) count toward the circuit breaker's
// failure streak; a job that itself failed to run is a normal result
// with Succeeded=false, not a breaker trip.
func (s *SnDbs) Poll(_ context.Context, jobID string) (ports.SnDbsJobResult, bool, error) {
	v, err := s.breaker.Execute(func() (any, error) {
		s.mu.Lock()
		rec, ok := s.jobs[jobID]
		s.mu.Unlock()
		if !ok {
			return pollOutcome{}, zerr.With(ErrUnknownJob, "job_id", jobID)
		}

		select {
		case <-rec.done:
			return pollOutcome{result: rec.result, done: true}, nil
		default:
			return pollOutcome{done: false}, nil
		}
	})
	if err != nil {
		return ports.SnDbsJobResult{}, false, err
	}

	outcome, _ := v.(pollOutcome)
	if !outcome.done {
		return ports.SnDbsJobResult{}, false, nil
	}

	s.mu.Lock()
	delete(s.jobs, jobID)
	s.mu.Unlock()
	return outcome.result, true, nil
}

func sndbsMessage(err error, exitCode int) string {
	if err != nil {
		return err.Error()
	}
	if exitCode != 0 {
		return "job exited with non-zero status"
	}
	return ""
}
