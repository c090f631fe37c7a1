package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajxudir/tagtrack/pkg/commit"
	"github.com/ajxudir/tagtrack/pkg/config"
	"github.com/ajxudir/tagtrack/pkg/decision"
	"github.com/ajxudir/tagtrack/pkg/digest"
	"github.com/ajxudir/tagtrack/pkg/errors"
	"github.com/ajxudir/tagtrack/pkg/fetch"
	"github.com/ajxudir/tagtrack/pkg/github"
	"github.com/ajxudir/tagtrack/pkg/output"
	"github.com/ajxudir/tagtrack/pkg/preflight"
	"github.com/ajxudir/tagtrack/pkg/prompt"
	"github.com/ajxudir/tagtrack/pkg/recipe"
	"github.com/ajxudir/tagtrack/pkg/registry"
	"github.com/ajxudir/tagtrack/pkg/verbose"
	"github.com/ajxudir/tagtrack/pkg/warnings"
)

// TokenEnv is the environment variable read when --token is not set.
const TokenEnv = "TOKEN"

var (
	checkForceFlag   bool
	checkTokenFlag   string
	checkYesFlag     bool
	checkOutputFlag  string
	checkPackageFlag string
	checkAddFlag     string
	checkDelayFlag   float64
	checkCommitFlag  bool
	checkRecipesFlag bool
	checkFormatFlag  string
)

var (
	stdinReaderFunc  = func() io.Reader { return os.Stdin }
	stdoutFunc       = func() io.Writer { return os.Stdout }
	getenvFunc       = os.Getenv
	nowFunc          = time.Now
	newCommitterFunc = commit.New
	preflightFunc    = preflight.ValidateCommands
)

// sleepFunc replaces the wait between packages when set.
var sleepFunc func(context.Context, time.Duration) error

func registerCheckFlags(c *cobra.Command) {
	c.Flags().BoolVar(&checkForceFlag, "force", false, "Record the best tag even when it is not newer")
	c.Flags().StringVar(&checkTokenFlag, "token", "", "API token (default: $"+TokenEnv+")")
	c.Flags().BoolVarP(&checkYesFlag, "yes", "y", false, "Accept every update without asking")
	c.Flags().StringVarP(&checkOutputFlag, "output", "o", "", "Versions file to write (default: the --registry file)")
	c.Flags().StringVarP(&checkPackageFlag, "package", "p", "", "Check only this package")
	c.Flags().StringVar(&checkAddFlag, "add", "", "Track a new package, as name[:version], and check it")
	c.Flags().Float64Var(&checkDelayFlag, "delay", 0, "Seconds to wait between packages")
	c.Flags().BoolVar(&checkCommitFlag, "commit", false, "Commit the versions file and recipes when anything changed")
	c.Flags().BoolVar(&checkRecipesFlag, "recipes", false, "Rewrite the recipe file of updated packages")
	c.Flags().StringVar(&checkFormatFlag, "format", "", "Summary format: json, csv, xml (default: table)")
}

// runCheck executes the check of the versions file.
//
// It performs the following operations:
//   - Step 1: Validates flags, loads the configuration, and checks that git
//     is installed when --commit uses the exec backend
//   - Step 2: Loads the versions file, or starts an empty one for --add
//   - Step 3: Checks each package and applies accepted updates
//   - Step 4: Writes the versions file and optionally commits it
//   - Step 5: Prints the summary, including the warnings raised on the way
//
// Progress lines go to stdout, or to stderr when --format selects a
// structured summary so stdout stays parseable.
//
// Parameters:
//   - cmd: Cobra command instance, may be nil in tests
//   - args: Unused
//
// Returns:
//   - error: ExitError for configuration, registry, or interruption failures
func runCheck(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(checkFormatFlag)
	if err != nil {
		return errors.NewExitError(errors.ExitConfigError, err)
	}
	if checkDelayFlag < 0 {
		return errors.NewExitErrorf(errors.ExitConfigError, "--delay must not be negative, got %g", checkDelayFlag)
	}
	if checkAddFlag != "" {
		if _, _, err := decision.ParseAdd(checkAddFlag); err != nil {
			return errors.NewExitError(errors.ExitConfigError, err)
		}
	}

	cfg, err := config.LoadConfig(configFlag, ".")
	if err != nil {
		return errors.NewExitError(errors.ExitConfigError, err)
	}

	if checkCommitFlag && cfg.Commit.Backend == config.BackendExec {
		if err := preflightFunc("git"); err != nil {
			return errors.NewExitError(errors.ExitConfigError, err)
		}
	}

	reg, err := loadRegistry(registryFlag, checkAddFlag != "")
	if err != nil {
		return errors.NewExitError(errors.ExitFailure, err)
	}

	stdout := stdoutFunc()
	progress := stdout
	if format != output.FormatTable {
		progress = os.Stderr
	}

	collector := &warnings.Collector{}
	restoreWarnings := warnings.SetWarningWriter(collector)
	reported := false
	defer func() {
		restoreWarnings()
		if !reported {
			for _, msg := range collector.Messages() {
				warnings.Warnf("%s", msg)
			}
		}
	}()

	client := newClient(cfg, progress)
	checker := &decision.Checker{
		Source:   github.NewSource(client, cfg.APIURL, cfg.ArchiveURL),
		Digester: digest.NewFetcher(client),
		Prompter: newPrompter(progress),
		Recipes:  recipe.Updater{},
		Out:      progress,
	}
	runner := &decision.Runner{Checker: checker, Sleep: sleepFunc}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg.Touch(nowFunc())
	summary, err := runner.Run(ctx, reg, decision.RunOptions{
		Options: decision.Options{
			Force:         checkForceFlag,
			AutoAccept:    checkYesFlag,
			UpdateRecipes: checkRecipesFlag,
			BranchNames:   cfg.Branches,
		},
		Package: checkPackageFlag,
		Add:     checkAddFlag,
		Delay:   time.Duration(checkDelayFlag * float64(time.Second)),
	})
	if err != nil {
		return errors.NewExitErrorf(errors.ExitFailure, "run interrupted, %s not written: %v", registryFlag, err)
	}

	if verbose.IsEnabled() {
		for host, state := range client.BreakerState() {
			verbose.Printf("Circuit breaker %s: %s", host, state)
		}
	}

	dest := checkOutputFlag
	if dest == "" {
		dest = registryFlag
	}
	if err := registry.Save(dest, reg); err != nil {
		return errors.NewExitError(errors.ExitFailure, err)
	}

	committed := false
	if checkCommitFlag && len(summary.Changes) > 0 {
		committed = commitChanges(ctx, cfg, dest, summary.Changes)
	}

	reported = true
	warns := warningMessages(collector.Messages())
	if format == output.FormatTable {
		printSummaryTable(stdout, summary, committed, warns)
		return nil
	}
	return output.WriteCheckResult(stdout, format, buildCheckResult(summary, committed, warns))
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// loadRegistry reads path. A missing file yields an empty registry when a
// package is being added.
func loadRegistry(path string, adding bool) (*registry.Registry, error) {
	reg, err := registry.Load(path)
	if err != nil && adding && stderrors.Is(err, fs.ErrNotExist) {
		verbose.Infof("Registry %s does not exist, starting a new one", path)
		return registry.New(), nil
	}
	return reg, err
}

// newClient builds the HTTP client from the configuration and the token.
func newClient(cfg *config.Config, progress io.Writer) *fetch.Client {
	token := checkTokenFlag
	if token == "" {
		token = getenvFunc(TokenEnv)
	}
	return fetch.New(
		fetch.WithToken(token),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithTimeout(cfg.Fetch.Timeout),
		fetch.WithMaxAttempts(cfg.Fetch.MaxAttempts),
		fetch.WithBackoff(cfg.Fetch.RateLimitWait),
		fetch.WithBreaker(cfg.Fetch.BreakerThreshold),
		fetch.WithNotify(func(url string, attempt int, wait time.Duration) {
			_, _ = fmt.Fprintf(progress, "  403 - waiting %g seconds ...\n", wait.Seconds())
		}),
	)
}

func newPrompter(out io.Writer) prompt.Prompter {
	if checkYesFlag {
		return prompt.AutoAccept{}
	}
	return prompt.NewReader(stdinReaderFunc(), out)
}

// commitChanges commits the written files. Failures are reported as a
// warning and do not fail the run.
func commitChanges(ctx context.Context, cfg *config.Config, registryFile string, changes []commit.Change) bool {
	committer, err := newCommitterFunc(cfg.Commit.Backend, commit.Options{
		AuthorName:  cfg.Commit.AuthorName,
		AuthorEmail: cfg.Commit.AuthorEmail,
	})
	if err == nil {
		err = committer.Commit(ctx, registryFile, changes)
	}
	if err != nil {
		warnings.Warnf("Warning: failed to commit changes: %s\n", errors.EnhanceErrorWithHint(err))
		return false
	}
	verbose.Infof("Committed %d change(s) with backend %s", len(changes), cfg.Commit.Backend)
	return true
}
