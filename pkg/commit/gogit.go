package commit

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ajxudir/tagtrack/pkg/verbose"
)

var nowFunc = time.Now

// GitCommitter commits in-process with go-git, for hosts without a git
// binary.
type GitCommitter struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// Commit stages the same files as Plan and creates one commit.
//
// It performs the following operations:
//   - Opens the repository containing Dir, searching parent directories
//   - Stages each file relative to the worktree root
//   - Commits with the configured author, or the git config author when unset
func (c *GitCommitter) Commit(ctx context.Context, registryFile string, changes []Change) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := c.Dir
	if dir == "" {
		dir = "."
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("commit creation failed: opening repository at %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("commit creation failed: %w", err)
	}
	root := wt.Filesystem.Root()

	for _, file := range stagedFiles(registryFile, changes) {
		rel, err := relativeTo(root, dir, file)
		if err != nil {
			return fmt.Errorf("commit creation failed: %w", err)
		}
		verbose.Printf("go-git: staging %s", rel)
		if _, err := wt.Add(rel); err != nil {
			return fmt.Errorf("commit creation failed: staging %s: %w", rel, err)
		}
	}

	opts := &git.CommitOptions{}
	if c.AuthorName != "" || c.AuthorEmail != "" {
		opts.Author = &object.Signature{Name: c.AuthorName, Email: c.AuthorEmail, When: nowFunc()}
	}
	hash, err := wt.Commit(Message(changes), opts)
	if err != nil {
		return fmt.Errorf("commit creation failed: %w", err)
	}
	verbose.Printf("go-git: created commit %s", hash)
	return nil
}

// relativeTo resolves file (relative to dir unless absolute) against the
// worktree root and returns a slash-separated path inside it.
func relativeTo(root, dir, file string) (string, error) {
	if !filepath.IsAbs(file) {
		file = filepath.Join(dir, file)
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", err
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(rootAbs); err == nil {
		rootAbs = resolved
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(rootAbs, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the repository at %s", file, root)
	}
	return filepath.ToSlash(rel), nil
}
