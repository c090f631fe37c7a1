// Package cmdexec runs external programs for tagtrack, such as the git
// invocations that record accepted updates.
//
// Programs are started directly from an argument vector, never through a
// shell, so arguments like commit messages need no quoting.
package cmdexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ajxudir/tagtrack/pkg/verbose"
	"github.com/ajxudir/tagtrack/pkg/warnings"
)

// ExitError reports a program that ran but exited with a non-zero status.
//
// Fields:
//   - Args: The argument vector that was executed
//   - Code: The exit status
//   - Output: Combined stdout and stderr
type ExitError struct {
	Args   []string
	Code   int
	Output string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", strings.Join(e.Args, " "), e.Code)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

// RunFunc is the signature of Run, used for test injection.
type RunFunc func(ctx context.Context, dir string, timeout time.Duration, args ...string) ([]byte, error)

// Runner is the function used by callers to execute programs. Tests replace
// it to observe invocations without spawning processes.
var Runner RunFunc = Run

// Run executes args[0] with the remaining arguments and waits for it.
//
// It performs the following operations:
//   - Starts the program in its own process group, in dir when not empty
//   - Kills the whole group when timeout (if > 0) elapses
//   - Collects stdout and stderr into one buffer
//
// Parameters:
//   - ctx: Context for cancellation
//   - dir: Working directory, "" for the current one
//   - timeout: Maximum run time, 0 for none
//   - args: Program and arguments
//
// Returns:
//   - []byte: Combined output
//   - error: *ExitError on a non-zero exit, a timeout error, or a start failure
func Run(ctx context.Context, dir string, timeout time.Duration, args ...string) ([]byte, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return nil, fmt.Errorf("empty command")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	display := strings.Join(args, " ")
	verbose.CommandExec(display, dir)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if dir != "" {
		cmd.Dir = dir
	}
	setProcGroup(cmd)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	if err == nil {
		verbose.CommandResult(display, 0, output.String())
		return output.Bytes(), nil
	}

	if timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		if killErr := killProcGroup(cmd); killErr != nil {
			warnings.Warnf("Warning: failed to kill process group on timeout: %v\n", killErr)
		}
		return output.Bytes(), fmt.Errorf("%s timed out after %s: %w", display, timeout, err)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		verbose.CommandResult(display, exitErr.ExitCode(), output.String())
		return output.Bytes(), &ExitError{
			Args:   append([]string(nil), args...),
			Code:   exitErr.ExitCode(),
			Output: output.String(),
		}
	}

	return output.Bytes(), fmt.Errorf("running %s: %w", display, err)
}
