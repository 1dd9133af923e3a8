package git

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RepoWorktrees pairs a repository root with its worktrees.
type RepoWorktrees struct {
	Repo      string
	Worktrees []Worktree
}

// LoadWarning represents a non-fatal error encountered while listing
// worktrees for one repository.
type LoadWarning struct {
	Repo string
	Err  error
}

// LoadAll lists the worktrees of all repos in parallel.
// Results keep the order of the repos argument; repositories that fail to
// list are collected as warnings instead of failing the whole load.
func LoadAll(ctx context.Context, repos []string) ([]RepoWorktrees, []LoadWarning) {
	// Per-repo results stored by index for stable ordering
	type result struct {
		worktrees []Worktree
		warning   *LoadWarning
	}
	results := make([]result, len(repos))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8) // Bound concurrent git operations

	for i, repo := range repos {
		g.Go(func() error {
			worktrees, err := ListWorktrees(ctx, repo)
			if err != nil {
				results[i] = result{warning: &LoadWarning{Repo: repo, Err: err}}
			} else {
				results[i] = result{worktrees: worktrees}
			}
			return nil // Never fail, warnings are non-fatal
		})
	}

	_ = g.Wait() // Always nil, goroutines collect errors as warnings

	var listings []RepoWorktrees
	var warnings []LoadWarning
	for i, r := range results {
		if r.warning != nil {
			warnings = append(warnings, *r.warning)
			continue
		}
		listings = append(listings, RepoWorktrees{Repo: repos[i], Worktrees: r.worktrees})
	}

	return listings, warnings
}
