// Package decision decides, package by package, whether a newer upstream
// release should replace the recorded version, and applies accepted updates
// to the in-memory registry.
package decision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/ajxudir/tagtrack/pkg/commit"
	"github.com/ajxudir/tagtrack/pkg/constants"
	"github.com/ajxudir/tagtrack/pkg/prompt"
	"github.com/ajxudir/tagtrack/pkg/registry"
	"github.com/ajxudir/tagtrack/pkg/tags"
	"github.com/ajxudir/tagtrack/pkg/verbose"
	"github.com/ajxudir/tagtrack/pkg/version"
	"github.com/ajxudir/tagtrack/pkg/warnings"
)

// ErrNoTags is returned when no tag survives filtering.
var ErrNoTags = errors.New("no tags found")

// Outcome is the terminal state of one package check.
type Outcome string

// Outcomes of Check.
const (
	SkippedBranch    Outcome = constants.StatusSkippedBranch
	SkippedCommitPin Outcome = constants.StatusSkippedCommitPin
	NoUpdate         Outcome = constants.StatusNoUpdate
	DeclinedByUser   Outcome = constants.StatusDeclined
	Updated          Outcome = constants.StatusUpdated
	Failed           Outcome = constants.StatusFailed
)

// Source provides the upstream data of a package.
type Source interface {
	Tags(ctx context.Context, pkg string) ([]tags.Tag, error)
	CommitDate(ctx context.Context, pkg, sha string) (string, error)
	ArchiveURL(pkg, tag string) string
}

// Digester fingerprints a release archive.
type Digester interface {
	Digest(ctx context.Context, url string) (string, error)
}

// RecipeUpdater rewrites the version field of a recipe file.
type RecipeUpdater interface {
	UpdateVersion(path, version string) error
}

// Options are the policy flags of a check.
//
// Fields:
//   - Force: Update to the best tag even when it is not newer
//   - AutoAccept: Do not ask before accepting a newer tag
//   - UpdateRecipes: Rewrite the recipe file of updated packages
//   - BranchNames: Versions treated as branches; nil means main and master
type Options struct {
	Force         bool
	AutoAccept    bool
	UpdateRecipes bool
	BranchNames   []string
}

func (o Options) branches() []string {
	if o.BranchNames == nil {
		return constants.DefaultBranchNames
	}
	return o.BranchNames
}

// Result describes the check of one package.
type Result struct {
	Package    string
	Outcome    Outcome
	OldVersion string
	NewVersion string
	Tag        string
	Change     *commit.Change
	Err        error

	// RecipeErr is set when the recipe rewrite failed; the update still counts.
	RecipeErr error
}

// Checker runs the update decision for single packages.
type Checker struct {
	Source   Source
	Digester Digester
	Prompter prompt.Prompter
	Recipes  RecipeUpdater

	// Out receives the progress lines; nil discards them.
	Out io.Writer
}

func (c *Checker) printf(format string, args ...any) {
	if c.Out != nil {
		_, _ = fmt.Fprintf(c.Out, format, args...)
	}
}

// Check decides whether pkg needs an update and applies it to rec.
//
// It performs the following operations:
//   - Skips branch versions and "#sha" commit pins
//   - Lists upstream tags, applies rec.TagFilter and picks the highest tag
//   - Accepts the tag when forced, or when it is newer and the user agrees
//   - Writes version, date and sha256 into rec, in that order
//   - Optionally rewrites the recipe file; a recipe error is only reported
//
// Any error ends the check with the Failed outcome. rec keeps whatever
// fields were already written at that point.
//
// Parameters:
//   - ctx: Context for the network calls
//   - pkg: Package identifier ("owner/repo")
//   - rec: The record to check and update in place
//   - opts: Policy flags
//
// Returns:
//   - Result: The outcome; Change is set for Updated
func (c *Checker) Check(ctx context.Context, pkg string, rec *registry.Record, opts Options) (res Result) {
	res = Result{Package: pkg, OldVersion: rec.Version}
	c.printf("* checking %s\n", pkg)

	defer func() {
		if r := recover(); r != nil {
			res.Outcome = Failed
			res.Err = fmt.Errorf("internal error checking %s: %v", pkg, r)
			c.printf("  %v\n", res.Err)
		}
	}()

	if slices.Contains(opts.branches(), rec.Version) {
		c.printf("  skipping branch\n")
		verbose.PackageSkipped(pkg, "branch "+rec.Version)
		res.Outcome = SkippedBranch
		return res
	}
	if strings.HasPrefix(rec.Version, "#") {
		c.printf("  skipping commit\n")
		verbose.PackageSkipped(pkg, "commit pin "+rec.Version)
		res.Outcome = SkippedCommitPin
		return res
	}

	outcome, err := c.resolve(ctx, pkg, rec, opts, &res)
	if err != nil {
		c.printf("  %v\n", err)
		res.Outcome = Failed
		res.Err = err
		return res
	}
	res.Outcome = outcome
	return res
}

func (c *Checker) resolve(ctx context.Context, pkg string, rec *registry.Record, opts Options, res *Result) (Outcome, error) {
	list, err := c.Source.Tags(ctx, pkg)
	if err != nil {
		return Failed, err
	}
	filtered, err := tags.Filter(list, rec.TagFilter)
	if err != nil {
		return Failed, err
	}
	best, ok := tags.Best(filtered)
	if !ok {
		return Failed, fmt.Errorf("%w for %s (%d fetched, filter %q)", ErrNoTags, pkg, len(list), rec.TagFilter)
	}
	verbose.TagSelected(pkg, len(list), len(filtered), best.Name)

	candidate := best.Version()
	res.Tag = best.Name
	res.NewVersion = candidate
	if version.IsPrerelease(best.Name) {
		warnings.Warnf("Warning: %s: selected tag %s looks like a pre-release\n", pkg, best.Name)
	}

	proceed := opts.Force
	if !proceed {
		proceed = version.NeedsUpdate(rec.Version, candidate)
		if proceed && !opts.AutoAccept {
			if c.Prompter == nil {
				return Failed, fmt.Errorf("no prompter configured to confirm %s", pkg)
			}
			accepted, err := c.Prompter.Confirm(fmt.Sprintf("  update %s from %s to %s?", pkg, rec.Version, candidate))
			if err != nil {
				return Failed, fmt.Errorf("confirming update of %s: %w", pkg, err)
			}
			if !accepted {
				c.printf("  declined\n")
				return DeclinedByUser, nil
			}
		}
	}
	if !proceed {
		c.printf("  no updates\n")
		return NoUpdate, nil
	}

	date, err := c.Source.CommitDate(ctx, pkg, best.Commit.SHA)
	if err != nil {
		return Failed, err
	}
	old := rec.Version
	rec.Version = candidate
	rec.Date = date

	sum, err := c.Digester.Digest(ctx, c.Source.ArchiveURL(pkg, best.Name))
	if err != nil {
		return Failed, err
	}
	rec.SHA256 = sum

	var recipeFile string
	if opts.UpdateRecipes && rec.Recipe != "" {
		recipeFile = rec.Recipe
		if c.Recipes == nil {
			warnings.Warnf("Warning: %s: no recipe updater configured, %s not rewritten\n", pkg, recipeFile)
		} else if err := c.Recipes.UpdateVersion(recipeFile, candidate); err != nil {
			c.printf("  %v\n", err)
			res.RecipeErr = err
		}
	}

	c.printf("  %s -> %s\n", old, candidate)
	res.Change = &commit.Change{
		Package:    pkg,
		OldVersion: old,
		NewVersion: candidate,
		RecipeFile: recipeFile,
	}
	return Updated, nil
}
