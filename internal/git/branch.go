package git

import (
	"context"
	"fmt"
)

// LocalBranchExists checks if a local branch exists in the repository at dir.
func LocalBranchExists(ctx context.Context, dir, branch string) bool {
	return runGit(ctx, dir, "rev-parse", "--verify", "refs/heads/"+branch) == nil
}

// RemoteBranchExists checks if branch exists on the origin remote, going by
// the local remote-tracking refs.
func RemoteBranchExists(ctx context.Context, dir, branch string) bool {
	return runGit(ctx, dir, "rev-parse", "--verify", "refs/remotes/origin/"+branch) == nil
}

// BranchExists checks if branch exists locally or on origin.
func BranchExists(ctx context.Context, dir, branch string) bool {
	return LocalBranchExists(ctx, dir, branch) || RemoteBranchExists(ctx, dir, branch)
}

// CreateBranch creates branch at start (HEAD when start is empty).
// Returns [ErrBranchExists] when the branch already exists locally.
func CreateBranch(ctx context.Context, dir, branch, start string) error {
	if LocalBranchExists(ctx, dir, branch) {
		return fmt.Errorf("%w: %q", ErrBranchExists, branch)
	}

	args := []string{"branch", branch}
	if start != "" {
		args = append(args, start)
	}
	if err := runGit(ctx, dir, args...); err != nil {
		return fmt.Errorf("create branch %q: %w", branch, err)
	}
	return nil
}

// DeleteBranch deletes a local branch. Unmerged branches are refused unless
// force is set. Returns [ErrBranchNotFound] when the branch does not exist.
func DeleteBranch(ctx context.Context, dir, branch string, force bool) error {
	if !LocalBranchExists(ctx, dir, branch) {
		return fmt.Errorf("%w: %q", ErrBranchNotFound, branch)
	}

	flag := "-d"
	if force {
		flag = "-D"
	}
	if err := runGit(ctx, dir, "branch", flag, branch); err != nil {
		return fmt.Errorf("delete branch %q: %w", branch, err)
	}
	return nil
}
