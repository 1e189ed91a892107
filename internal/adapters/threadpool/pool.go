// Package threadpool implements the local CPU-bound worker pool substrate
// (spec §4.8) on top of golang.org/x/sync/errgroup.
package threadpool

import (
	"context"
	"fmt"
	"sync"

	"go.trai.ch/buildsched/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by Submit once Close has been called.
var ErrClosed = zerr.New("thread pool is closed")

// ErrUnknownTask is returned by Poll for a task id it never issued, or
// one whose result has already been collected.
var ErrUnknownTask = zerr.New("thread pool: unknown task id")

type future struct {
	done   chan struct{}
	result ports.ThreadPoolResult
	err    error
}

// Pool is a bounded local worker pool. Submit blocks while every worker
// slot is busy and returns once the task has a slot. Poll is the non-blocking probe the
// scheduler drives from its wait list (spec §4.8's WaitKind ThreadPool).
type Pool struct {
	group *errgroup.Group

	mu      sync.Mutex
	futures map[string]*future
	nextID  uint64
	closed  bool
}

// New creates a Pool bounded to workers concurrent tasks. workers <= 0
// means unbounded.
func New(workers int) *Pool {
	g := &errgroup.Group{}
	if workers > 0 {
		g.SetLimit(workers)
	}
	return &Pool{group: g, futures: make(map[string]*future)}
}

// Submit schedules task to run as soon as a worker is free and returns a
// task id the caller polls for completion.
func (p *Pool) Submit(ctx context.Context, task ports.ThreadPoolTask) (string, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return "", ErrClosed
	}
	p.nextID++
	id := fmt.Sprintf("tp-%d", p.nextID)
	f := &future{done: make(chan struct{})}
	p.futures[id] = f
	p.mu.Unlock()

	p.group.Go(func() error {
		defer close(f.done)
		f.result, f.err = task(ctx)
		return nil
	})

	return id, nil
}

// Poll reports whether taskID has finished. ok is false while the task is
// still running; the result is removed from the pool once collected.
func (p *Pool) Poll(_ context.Context, taskID string) (ports.ThreadPoolResult, bool, error) {
	p.mu.Lock()
	f, ok := p.futures[taskID]
	p.mu.Unlock()
	if !ok {
		return ports.ThreadPoolResult{}, false, zerr.With(ErrUnknownTask, "task_id", taskID)
	}

	select {
	case <-f.done:
		p.mu.Lock()
		delete(p.futures, taskID)
		p.mu.Unlock()
		return f.result, true, f.err
	default:
		return ports.ThreadPoolResult{}, false, nil
	}
}

// Close marks the pool closed to new submissions and waits for in-flight
// tasks to drain.
func (p *Pool) Close(_ context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return p.group.Wait()
}
