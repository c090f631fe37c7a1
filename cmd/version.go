package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ajxudir/tagtrack/pkg/config"
	"github.com/ajxudir/tagtrack/pkg/output"
)

// Build metadata, set with -ldflags "-X github.com/ajxudir/tagtrack/cmd.Version=1.0.0".
var (
	Version   = "dev"
	BuildTime = ""
	GitCommit = ""
	BuildOS   = ""
	BuildArch = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information and the endpoints in use",
	Long: `Show the tagtrack version and build platform, followed by the
configuration a check would run with: its source, the API and archive
endpoints, and the commit backend.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printVersionOutput(os.Stdout)
	},
}

// printVersionOutput writes the build details and the resolved configuration.
// A configuration that fails to load is reported in place of the endpoints.
func printVersionOutput(w io.Writer) {
	rows := [][]string{{"Version:", Version}}
	if GitCommit != "" {
		rows = append(rows, []string{"Commit:", GitCommit})
	}
	if BuildTime != "" {
		rows = append(rows, []string{"Built:", BuildTime})
	}

	target := buildTarget()
	rows = append(rows, []string{"Platform:", target})
	if running := runtime.GOOS + "/" + runtime.GOARCH; running != target {
		rows = append(rows, []string{"Runtime:", running})
	}
	rows = append(rows, []string{"Go:", runtime.Version()})

	cfg, err := config.LoadConfig(configFlag, ".")
	if err != nil {
		rows = append(rows, []string{"Config:", firstLine(err.Error())})
	} else {
		source := cfg.Source
		if source == "" {
			source = "built-in defaults"
		}
		rows = append(rows,
			[]string{"Config:", source},
			[]string{"API:", cfg.APIURL},
			[]string{"Archives:", cfg.ArchiveURL},
			[]string{"Backend:", cfg.Commit.Backend},
		)
	}

	table := output.NewTable().AddColumn("").AddColumn("")
	for _, row := range rows {
		table.UpdateWidths(row...)
	}
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "  %s\n", table.FormatRow(row...))
	}
}

// GetVersion returns the version set at build time, "dev" otherwise.
func GetVersion() string {
	return Version
}

// buildTarget reports the os/arch pair the binary was built for. Builds
// without ldflags report the running platform.
func buildTarget() string {
	goos, goarch := BuildOS, BuildArch
	if goos == "" {
		goos = runtime.GOOS
	}
	if goarch == "" {
		goarch = runtime.GOARCH
	}
	return goos + "/" + goarch
}

// HasArchMismatch reports whether a release binary runs on a platform other
// than the one it was built for.
func HasArchMismatch() bool {
	if BuildOS == "" && BuildArch == "" {
		return false
	}
	return buildTarget() != runtime.GOOS+"/"+runtime.GOARCH
}

// GetArchMismatchWarning describes a platform mismatch, or returns "".
func GetArchMismatchWarning() string {
	if !HasArchMismatch() {
		return ""
	}
	return fmt.Sprintf("Warning: binary built for %s is running on %s/%s; download the matching release",
		buildTarget(), runtime.GOOS, runtime.GOARCH)
}
