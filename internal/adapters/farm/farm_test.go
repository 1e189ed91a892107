package farm_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/buildsched/internal/adapters/farm"
	"go.trai.ch/buildsched/internal/adapters/shell"
	"go.trai.ch/buildsched/internal/core/ports"
	"go.trai.ch/buildsched/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestFarm_SubmitAndPoll_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("ok").AnyTimes()

	f := farm.New(shell.NewExecutor(mockLogger))
	ctx := context.Background()

	jobID, err := f.Submit(ctx, ports.FarmJobSpec{Command: "echo", Args: []string{"ok"}})
	require.NoError(t, err)
	require.NotEmpty(t, jobID)

	var result ports.FarmJobResult
	require.Eventually(t, func() bool {
		r, ok, pollErr := f.Poll(ctx, jobID)
		if pollErr != nil || !ok {
			return false
		}
		result = r
		return true
	}, time.Second, 5*time.Millisecond)

	require.True(t, result.Succeeded)
	require.Contains(t, result.Output, "ok")
}

func TestFarm_Poll_UnknownJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := farm.New(shell.NewExecutor(mocks.NewMockLogger(ctrl)))

	_, ok, err := f.Poll(context.Background(), "does-not-exist")
	require.False(t, ok)
	require.Error(t, err)
}
