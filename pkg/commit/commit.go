// Package commit records accepted updates in version control.
//
// Two backends share the same staging semantics: every touched recipe file
// and the versions file are staged, then a single commit is created whose
// message lists each updated package.
package commit

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by New.
const (
	BackendExec  = "exec"
	BackendGoGit = "go-git"
)

// Change is one accepted update.
//
// Fields:
//   - Package: Package identifier
//   - OldVersion: Version recorded before the run
//   - NewVersion: Version accepted in this run
//   - RecipeFile: Recipe file that was rewritten, or ""
type Change struct {
	Package    string
	OldVersion string
	NewVersion string
	RecipeFile string
}

// Committer stages the versions file and recipe files and commits them.
type Committer interface {
	Commit(ctx context.Context, registryFile string, changes []Change) error
}

// Options configure a Committer created by New.
type Options struct {
	// Dir is the directory git runs in. Empty means the current directory.
	Dir string

	// AuthorName and AuthorEmail set the commit author for the go-git
	// backend. When empty the repository's git config is used.
	AuthorName  string
	AuthorEmail string
}

// New returns the Committer for backend ("" selects exec).
func New(backend string, opts Options) (Committer, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendExec:
		return &ExecCommitter{Dir: opts.Dir}, nil
	case BackendGoGit:
		return &GitCommitter{Dir: opts.Dir, AuthorName: opts.AuthorName, AuthorEmail: opts.AuthorEmail}, nil
	default:
		return nil, fmt.Errorf("unknown commit backend %q (expected %q or %q)", backend, BackendExec, BackendGoGit)
	}
}

// Message builds the commit message for changes.
//
//	maint: update versions
//
//	  * owner/repo 1.2.3
func Message(changes []Change) string {
	var b strings.Builder
	b.WriteString("maint: update versions\n")
	for _, c := range changes {
		fmt.Fprintf(&b, "\n  * %s %s", c.Package, c.NewVersion)
	}
	return b.String()
}

// Plan returns the git invocations that commit changes, in execution order.
//
// Recipe files are staged first, the last change's recipe leading, followed
// by the versions file and the commit itself.
func Plan(registryFile string, changes []Change) [][]string {
	commands := [][]string{
		{"git", "add", registryFile},
		{"git", "commit", "-m", Message(changes)},
	}
	for _, c := range changes {
		if c.RecipeFile != "" {
			commands = append([][]string{{"git", "add", c.RecipeFile}}, commands...)
		}
	}
	return commands
}

// stagedFiles lists the files Plan stages, in the same order.
func stagedFiles(registryFile string, changes []Change) []string {
	var files []string
	for _, cmd := range Plan(registryFile, changes) {
		if len(cmd) == 3 && cmd[1] == "add" {
			files = append(files, cmd[2])
		}
	}
	return files
}
