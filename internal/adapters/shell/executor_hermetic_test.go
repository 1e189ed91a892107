package shell_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/buildsched/internal/adapters/shell"
	"go.trai.ch/buildsched/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// TestExecutor_Run_EnvOverridePATH verifies that a command given by
// absolute path still runs and captures its output when the per-command
// environment overrides PATH.
func TestExecutor_Run_EnvOverridePATH(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("success").Times(1)

	executor := shell.NewExecutor(mockLogger)

	binDir := t.TempDir()
	cmdPath := filepath.Join(binDir, "my-tool")
	//nolint:gosec // test fixture requires an executable file
	require.NoError(t, os.WriteFile(cmdPath, []byte("#!/bin/sh\necho success\n"), 0o700))

	result, err := executor.Run(context.Background(), shell.CommandSpec{
		Command: cmdPath,
		Env:     map[string]string{"PATH": binDir},
	})
	require.NoError(t, err)
	require.Equal(t, 0, result.ExitCode)
	require.Contains(t, result.Output, "success")
}
