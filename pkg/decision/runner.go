package decision

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ajxudir/tagtrack/pkg/commit"
	"github.com/ajxudir/tagtrack/pkg/registry"
	"github.com/ajxudir/tagtrack/pkg/verbose"
	"github.com/ajxudir/tagtrack/pkg/warnings"
)

// RunOptions configure a whole run.
//
// Fields:
//   - Options: Policy flags applied to every package
//   - Package: When set, only this package is checked
//   - Add: "name[:version]" registers and checks a new package instead of
//     checking the registry
//   - Delay: Pause before each checked package after the first
type RunOptions struct {
	Options
	Package string
	Add     string
	Delay   time.Duration
}

// Summary collects the results of a run.
type Summary struct {
	Results []Result
	Changes []commit.Change
}

// Count returns the number of results with outcome.
func (s Summary) Count(outcome Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == outcome {
			n++
		}
	}
	return n
}

func (s *Summary) add(res Result) {
	s.Results = append(s.Results, res)
	if res.Change != nil {
		s.Changes = append(s.Changes, *res.Change)
	}
}

// Runner checks the packages of a registry one after another.
type Runner struct {
	Checker *Checker

	// Sleep waits between packages; nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// ParseAdd splits an --add value into package and initial version.
func ParseAdd(spec string) (string, string, error) {
	name, ver, _ := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", fmt.Errorf("invalid package spec %q: expected name[:version]", spec)
	}
	return name, strings.TrimSpace(ver), nil
}

// Run checks packages sequentially and updates reg in place.
//
// It performs the following operations:
//   - In add mode, checks only the new package and stores its record in reg
//     whatever the outcome
//   - Otherwise checks every package in sorted order, or only opts.Package
//   - Waits opts.Delay before each checked package after the first
//
// Package failures are recorded in the summary and never stop the run.
//
// Parameters:
//   - ctx: Context; cancellation stops the run before the next package
//   - reg: Registry whose records are checked and updated
//   - opts: Run options
//
// Returns:
//   - Summary: Results so far and the accepted changes
//   - error: Invalid add spec or context cancellation
func (r *Runner) Run(ctx context.Context, reg *registry.Registry, opts RunOptions) (Summary, error) {
	var summary Summary

	if opts.Add != "" {
		name, ver, err := ParseAdd(opts.Add)
		if err != nil {
			return summary, err
		}
		rec := &registry.Record{Version: ver}
		summary.add(r.Checker.Check(ctx, name, rec, opts.Options))
		reg.Set(name, rec)
		return summary, nil
	}

	if opts.Package != "" {
		if _, ok := reg.Get(opts.Package); !ok {
			warnings.Warnf("Warning: package %s is not tracked in the registry\n", opts.Package)
			return summary, nil
		}
	}

	checked := 0
	for _, name := range reg.Names() {
		if opts.Package != "" && opts.Package != name {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if checked > 0 && opts.Delay > 0 {
			verbose.Printf("Waiting %s before checking %s", opts.Delay, name)
			if err := r.sleep(ctx, opts.Delay); err != nil {
				return summary, err
			}
		}
		checked++

		rec, _ := reg.Get(name)
		summary.add(r.Checker.Check(ctx, name, rec, opts.Options))
	}

	return summary, ctx.Err()
}

func (r *Runner) sleep(ctx context.Context, d time.Duration) error {
	if r.Sleep != nil {
		return r.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
