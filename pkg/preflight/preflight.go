// Package preflight checks that external commands are available before a
// run starts, so a missing tool is reported before any API quota is spent.
package preflight

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/ajxudir/tagtrack/pkg/verbose"
)

var lookPathFunc = exec.LookPath

// CommandResolutionHints maps command names to installation instructions.
var CommandResolutionHints = map[string]string{
	"git": "Install git: https://git-scm.com/downloads, or set commit.backend: go-git",
}

// ValidationError reports a command missing from PATH.
//
// Fields:
//   - Command: The name of the missing command
//   - Hint: Installation instructions, empty when none are known
type ValidationError struct {
	Command string
	Hint    string
}

// Error returns a formatted error message with resolution instructions.
func (e *ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("command not found: %s\n  Resolution: %s", e.Command, e.Hint)
	}
	return fmt.Sprintf("command not found: %s\n  Resolution: Ensure '%s' is installed and available in your PATH.", e.Command, e.Command)
}

// ValidateResult holds the result of pre-flight validation.
type ValidateResult struct {
	Errors []ValidationError
}

// HasErrors returns true if there are validation errors.
func (r *ValidateResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Error returns every missing command with its resolution hint.
func (r *ValidateResult) Error() string {
	var sb strings.Builder
	sb.WriteString("Pre-flight validation failed:\n")
	for _, err := range r.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ValidateCommands checks that every command resolves in PATH.
//
// Parameters:
//   - commands: Command names such as "git"; empty names are ignored
//
// Returns:
//   - error: A *ValidateResult listing the missing commands, or nil
func ValidateCommands(commands ...string) error {
	result := &ValidateResult{}
	seen := make(map[string]bool, len(commands))
	for _, cmd := range commands {
		if cmd == "" || seen[cmd] {
			continue
		}
		seen[cmd] = true

		path, err := lookPathFunc(cmd)
		if err == nil {
			verbose.Printf("Preflight: command %q found at %s", cmd, path)
			continue
		}
		verbose.Printf("Preflight: command %q not found: %v", cmd, err)
		result.Errors = append(result.Errors, ValidationError{Command: cmd, Hint: CommandResolutionHints[cmd]})
	}

	if result.HasErrors() {
		return result
	}
	return nil
}
