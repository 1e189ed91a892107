package ports

import "context"

// ThreadPoolTask is a unit of local CPU-bound work submitted to the
// in-process substrate (spec §4.8, §6 concurrency model).
type ThreadPoolTask func(ctx context.Context) (ThreadPoolResult, error)

// ThreadPoolResult is the outcome of a local task.
type ThreadPoolResult struct {
	Succeeded bool
	Output    string
	Message   string
}

// ThreadPool is the local worker-pool substrate port. Submit does not
// wait for the task to finish; the caller registers a WaitItem against
// the returned task id and later polls Poll (spec §4.8).
//
//go:generate go run go.uber.org/mock/mockgen -source=threadpool.go -destination=mocks/mock_threadpool.go -package=mocks
type ThreadPool interface {
	Submit(ctx context.Context, task ThreadPoolTask) (taskID string, err error)
	Poll(ctx context.Context, taskID string) (result ThreadPoolResult, ok bool, err error)
	// Close waits for in-flight tasks to drain and releases pool workers.
	Close(ctx context.Context) error
}
