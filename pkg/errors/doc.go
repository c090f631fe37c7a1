// Package errors defines process exit codes and the user-facing hints
// attached to common failures.
//
// Exit Codes:
//   - ExitSuccess (0): The run completed; per-package failures are reported, not fatal
//   - ExitFailure (1): The registry could not be loaded or saved
//   - ExitConfigError (2): The configuration or command line is invalid
//
// Use GetExitCode to map any error returned by a command:
//
//	os.Exit(errors.GetExitCode(err))
package errors
