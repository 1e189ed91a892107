package threadpool_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/buildsched/internal/adapters/threadpool"
	"go.trai.ch/buildsched/internal/core/ports"
)

func TestPool_SubmitAndPoll(t *testing.T) {
	pool := threadpool.New(2)
	ctx := context.Background()

	release := make(chan struct{})
	taskID, err := pool.Submit(ctx, func(context.Context) (ports.ThreadPoolResult, error) {
		<-release
		return ports.ThreadPoolResult{Succeeded: true, Output: "done"}, nil
	})
	require.NoError(t, err)

	_, ok, err := pool.Poll(ctx, taskID)
	require.NoError(t, err)
	require.False(t, ok, "task should still be running")

	close(release)

	require.Eventually(t, func() bool {
		result, ok, err := pool.Poll(ctx, taskID)
		if err != nil || !ok {
			return false
		}
		return result.Succeeded && result.Output == "done"
	}, time.Second, 5*time.Millisecond)

	// The result was consumed; polling again is unknown-task.
	_, _, err = pool.Poll(ctx, taskID)
	require.Error(t, err)
}

func TestPool_TaskError(t *testing.T) {
	pool := threadpool.New(1)
	ctx := context.Background()

	wantErr := errors.New("boom")
	taskID, err := pool.Submit(ctx, func(context.Context) (ports.ThreadPoolResult, error) {
		return ports.ThreadPoolResult{}, wantErr
	})
	require.NoError(t, err)

	var gotErr error
	require.Eventually(t, func() bool {
		_, ok, pollErr := pool.Poll(ctx, taskID)
		if !ok {
			return false
		}
		gotErr = pollErr
		return true
	}, time.Second, 5*time.Millisecond)
	require.ErrorIs(t, gotErr, wantErr)
}

func TestPool_SubmitAfterClose(t *testing.T) {
	pool := threadpool.New(1)
	ctx := context.Background()
	require.NoError(t, pool.Close(ctx))

	_, err := pool.Submit(ctx, func(context.Context) (ports.ThreadPoolResult, error) {
		return ports.ThreadPoolResult{}, nil
	})
	require.ErrorIs(t, err, threadpool.ErrClosed)
}
