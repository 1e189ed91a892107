package shell

import (
	"context"
	"testing"

	"go.trai.ch/buildsched/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestExecutor_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	executor := NewExecutor(mockLogger)

	t.Run("Success", func(t *testing.T) {
		mockLogger.EXPECT().Info("hello")

		result, err := executor.Run(context.Background(), CommandSpec{Command: "echo", Args: []string{"hello"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ExitCode != 0 {
			t.Fatalf("expected exit code 0, got %d", result.ExitCode)
		}
	})

	t.Run("NonZeroExit", func(t *testing.T) {
		result, err := executor.Run(context.Background(), CommandSpec{Command: "sh", Args: []string{"-c", "exit 3"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ExitCode != 3 {
			t.Fatalf("expected exit code 3, got %d", result.ExitCode)
		}
	})

	t.Run("EmptyCommand", func(t *testing.T) {
		if _, err := executor.Run(context.Background(), CommandSpec{}); err == nil {
			t.Fatal("expected error for empty command")
		}
	})
}
