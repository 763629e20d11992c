// Package sandbox provides the concrete engine/action.ShellSandbox used
// outside of tests: it tokenizes a command with shlex and runs it directly
// (never through a host shell), bounding it by a timeout.
package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/google/shlex"

	"github.com/swissarmyhammer/swissarmyhammer/engine/action"
)

// Local runs shell commands as direct child processes of the current host.
type Local struct{}

func New() *Local { return &Local{} }

// Run tokenizes command with shlex (so shell metacharacters in substituted
// variables are inert rather than re-interpreted) and executes it, applying
// timeoutSecs as a hard deadline when positive. A command that runs past the
// deadline is killed and reported as exit code -1 with stderr
// "Command timed out", not as an error.
func (Local) Run(ctx context.Context, command, workingDir string, env map[string]string, timeoutSecs int) (*action.ShellResult, error) {
	args, err := shlex.Split(command)
	if err != nil {
		return nil, &action.ParseError{Detail: fmt.Sprintf("tokenize shell command: %v", err)}
	}
	if len(args) == 0 {
		return nil, &action.ParseError{Detail: "shell command tokenized to nothing"}
	}

	runCtx := ctx
	if timeoutSecs > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSecs)*time.Second)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	if workingDir != "" {
		cmd.Dir = workingDir
	}
	if len(env) > 0 {
		cmd.Env = cmd.Environ()
		for k, v := range env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if runErr != nil && runCtx.Err() == context.DeadlineExceeded {
		return &action.ShellResult{
			ExitCode:        -1,
			Stderr:          "Command timed out",
			ExecutionTimeMs: elapsed.Milliseconds(),
		}, nil
	}

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if ok := asExitError(runErr, &exitErr); ok {
			exitCode = exitErr.ExitCode()
		} else if runCtx.Err() != nil {
			return nil, &action.ExecutionError{Detail: fmt.Sprintf("shell command cancelled: %v", runCtx.Err())}
		} else {
			return nil, &action.IOError{Op: "exec " + args[0], Err: runErr}
		}
	}

	return &action.ShellResult{
		ExitCode:        exitCode,
		Stdout:          stdout.String(),
		Stderr:          stderr.String(),
		ExecutionTimeMs: elapsed.Milliseconds(),
	}, nil
}

func asExitError(err error, target **exec.ExitError) bool {
	if exitErr, ok := err.(*exec.ExitError); ok {
		*target = exitErr
		return true
	}
	return false
}
