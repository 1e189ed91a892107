// Package shell runs local commands for the thread-pool, farm, and SN-DBS
// substrate adapters.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.trai.ch/buildsched/internal/core/ports"
	"go.trai.ch/zerr"
)

// CommandSpec describes a command to run. Env entries override the
// process environment by key.
type CommandSpec struct {
	Command    string
	Args       []string
	Env        map[string]string
	WorkingDir string
}

// CommandResult is the captured outcome of a command run.
type CommandResult struct {
	// Output is the combined, interleaved stdout+stderr text. The
	// scheduler's log-scanning grammar (spec §4.7) looks for "Content
	// Hash:" lines in this text.
	Output   string
	ExitCode int
}

// Executor runs commands via os/exec, streaming their output to both a
// logger and an in-memory buffer.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates an Executor that logs command output through logger.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Run executes spec and blocks until it exits or ctx is canceled.
func (e *Executor) Run(ctx context.Context, spec CommandSpec) (CommandResult, error) {
	if spec.Command == "" {
		return CommandResult{}, zerr.New("shell: empty command")
	}

	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...) //nolint:gosec // command source is the transform manifest
	cmd.Dir = spec.WorkingDir
	cmd.Env = resolveEnvironment(os.Environ(), spec.Env)

	var buf bytes.Buffer
	cmd.Stdout = io.MultiWriter(&buf, &logWriter{logger: e.logger, level: levelInfo})
	cmd.Stderr = io.MultiWriter(&buf, &logWriter{logger: e.logger, level: levelError})

	err := cmd.Run()
	if err == nil {
		return CommandResult{Output: buf.String(), ExitCode: 0}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return CommandResult{Output: buf.String(), ExitCode: exitErr.ExitCode()}, nil
	}

	return CommandResult{Output: buf.String()}, zerr.Wrap(err, "command failed to start")
}

const (
	levelInfo  = "info"
	levelError = "error"
)

type logWriter struct {
	logger ports.Logger
	level  string
}

func (w *logWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimSuffix(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		if w.level == levelInfo {
			w.logger.Info(line)
		} else {
			w.logger.Error(zerr.New(line))
		}
	}
	return len(p), nil
}

// resolveEnvironment merges the process environment with per-command
// overrides, last write wins.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}
