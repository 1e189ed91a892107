package sndbs_test

import (
	"context"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
	"go.trai.ch/buildsched/internal/adapters/shell"
	"go.trai.ch/buildsched/internal/adapters/sndbs"
	"go.trai.ch/buildsched/internal/core/ports"
	"go.trai.ch/buildsched/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestSnDbs_SubmitAndPoll_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("compiled").AnyTimes()

	s := sndbs.New(shell.NewExecutor(mockLogger))
	ctx := context.Background()

	jobID, err := s.Submit(ctx, ports.SnDbsJobSpec{Toolchain: "msvc", Command: "echo", Args: []string{"compiled"}})
	require.NoError(t, err)

	var result ports.SnDbsJobResult
	require.Eventually(t, func() bool {
		r, ok, pollErr := s.Poll(ctx, jobID)
		if pollErr != nil || !ok {
			return false
		}
		result = r
		return true
	}, time.Second, 5*time.Millisecond)

	require.True(t, result.Succeeded)
	require.Equal(t, "msvc", result.Where)
}

func TestSnDbs_Poll_UnknownJobTripsBreakerEventually(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s := sndbs.New(shell.NewExecutor(mocks.NewMockLogger(ctrl)))
	ctx := context.Background()

	var lastErr error
	for i := 0; i < 10; i++ {
		_, _, lastErr = s.Poll(ctx, "no-such-job")
	}
	require.ErrorIs(t, lastErr, gobreaker.ErrOpenState)
}
