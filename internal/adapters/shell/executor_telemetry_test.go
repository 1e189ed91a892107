package shell_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/buildsched/internal/adapters/shell"
	"go.trai.ch/buildsched/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// TestExecutor_Run_CapturesCombinedOutput verifies stdout and stderr both
// land in CommandResult.Output, which is what the farm/SN-DBS adapters
// feed to the scheduler's "Content Hash:" log-scanning grammar.
func TestExecutor_Run_CapturesCombinedOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("hello to stdout").Times(1)
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	executor := shell.NewExecutor(mockLogger)
	tmpDir := t.TempDir()

	result, err := executor.Run(context.Background(), shell.CommandSpec{
		Command:    "sh",
		Args:       []string{"-c", "echo hello to stdout; echo hello to stderr >&2"},
		WorkingDir: tmpDir,
	})
	require.NoError(t, err)
	require.Equal(t, 0, result.ExitCode)
	require.Contains(t, result.Output, "hello to stdout")
	require.Contains(t, result.Output, "hello to stderr")
}
