package commit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ajxudir/tagtrack/pkg/cmdexec"
)

// commandTimeout bounds each git invocation.
const commandTimeout = 2 * time.Minute

// CreationError reports a git invocation that failed.
type CreationError struct {
	Args     []string
	ExitCode int
	Output   string
}

// Error implements the error interface.
func (e *CreationError) Error() string {
	msg := fmt.Sprintf("commit creation failed: %s exited with status %d", strings.Join(e.Args, " "), e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

// ExecCommitter runs the git binary.
type ExecCommitter struct {
	Dir string
}

// Commit runs Plan sequentially and stops at the first failure.
//
// Returns:
//   - error: *CreationError for a non-zero exit; other errors when git
//     could not be started
func (c *ExecCommitter) Commit(ctx context.Context, registryFile string, changes []Change) error {
	for _, args := range Plan(registryFile, changes) {
		out, err := cmdexec.Runner(ctx, c.Dir, commandTimeout, args...)
		if err == nil {
			continue
		}
		var exitErr *cmdexec.ExitError
		if errors.As(err, &exitErr) {
			return &CreationError{Args: exitErr.Args, ExitCode: exitErr.Code, Output: exitErr.Output}
		}
		if len(out) > 0 {
			return fmt.Errorf("commit creation failed: %w: %s", err, strings.TrimSpace(string(out)))
		}
		return fmt.Errorf("commit creation failed: %w", err)
	}
	return nil
}
