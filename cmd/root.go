// Package cmd implements the tagtrack command-line interface.
//
// The root command checks every package tracked in the versions file
// against its upstream tags and records accepted updates. Subcommands list
// the tracked packages and print build information.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajxudir/tagtrack/pkg/errors"
	"github.com/ajxudir/tagtrack/pkg/verbose"
	"github.com/ajxudir/tagtrack/pkg/warnings"
)

// DefaultRegistryFile is the versions file used when --registry is not set.
const DefaultRegistryFile = "versions.json"

var exitFunc = os.Exit

var (
	verboseFlag  bool
	versionFlag  bool
	registryFlag string
	configFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "tagtrack",
	Short: "Track upstream release tags of pinned dependencies",
	Long: `Check every package in the versions file against the tags published
upstream, offer newer releases, and record the accepted version, commit date
and archive digest.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verboseFlag {
			verbose.Enable()
		}
		if msg := GetArchMismatchWarning(); msg != "" {
			warnings.Warnf("%s", msg)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionFlag {
			printVersionOutput(os.Stdout)
			return nil
		}
		return runCheck(cmd, args)
	},
}

// Execute runs the root command and exits with appropriate code:
//   - 0: Success, including runs where single packages failed
//   - 1: The versions file could not be read or written, or the run was interrupted
//   - 2: Invalid configuration or flags
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := errors.GetExitCode(err)
		fmt.Fprintf(os.Stderr, "Error: %s\n", errors.EnhanceErrorWithHint(err))
		verbose.Infof("Exit code %d: %v", code, err)
		exitFunc(code)
	}
}

// ExecuteTest runs the root command for testing (returns error instead of exiting).
//
// Returns:
//   - error: Command execution error, or nil on success
func ExecuteTest() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().StringVarP(&registryFlag, "registry", "f", DefaultRegistryFile, "Versions file to read")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Config file path (default: .tagtrack.yml when present)")

	rootCmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "Show version information")
	registerCheckFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
}
