package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Worktree represents one entry of `git worktree list --porcelain`.
// The source repository itself appears as the first entry.
type Worktree struct {
	Path     string
	Branch   string // empty when bare or detached
	Commit   string // full hash, empty for bare repos
	Bare     bool
	Detached bool
	Locked   bool
	Prunable string // reason the entry can be pruned, if any
}

// ListWorktrees lists all worktrees of the repository at dir.
func ListWorktrees(ctx context.Context, dir string) ([]Worktree, error) {
	output, err := outputGit(ctx, dir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}
	return parseWorktrees(string(output)), nil
}

// parseWorktrees parses porcelain worktree output. Entries are separated by
// blank lines; the attribute lines per entry are documented in
// git-worktree(1).
func parseWorktrees(output string) []Worktree {
	var worktrees []Worktree
	var current *Worktree

	flush := func() {
		if current != nil {
			worktrees = append(worktrees, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		if current == nil {
			current = &Worktree{}
		}

		switch {
		case strings.HasPrefix(line, "worktree "):
			current.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "HEAD "):
			current.Commit = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			ref := strings.TrimPrefix(line, "branch ")
			current.Branch = strings.TrimPrefix(ref, "refs/heads/")
		case line == "bare":
			current.Bare = true
		case line == "detached":
			current.Detached = true
		case line == "locked" || strings.HasPrefix(line, "locked "):
			current.Locked = true
		case strings.HasPrefix(line, "prunable "):
			current.Prunable = strings.TrimPrefix(line, "prunable ")
		}
	}
	flush()

	return worktrees
}

// FindWorktreeByBranch returns the worktree that has branch checked out,
// or nil if no worktree does.
func FindWorktreeByBranch(ctx context.Context, dir, branch string) (*Worktree, error) {
	worktrees, err := ListWorktrees(ctx, dir)
	if err != nil {
		return nil, err
	}
	for i := range worktrees {
		if worktrees[i].Branch == branch {
			return &worktrees[i], nil
		}
	}
	return nil, nil
}

// FindWorktreeByPath returns the worktree at path, or nil if path is not a
// registered worktree of the repository at dir. Paths are compared with
// symlinks resolved so /tmp and /private/tmp match on macOS.
func FindWorktreeByPath(ctx context.Context, dir, path string) (*Worktree, error) {
	worktrees, err := ListWorktrees(ctx, dir)
	if err != nil {
		return nil, err
	}
	want := normalizePath(path)
	for i := range worktrees {
		if normalizePath(worktrees[i].Path) == want {
			return &worktrees[i], nil
		}
	}
	return nil, nil
}

// normalizePath makes path absolute and resolves symlinks when it exists.
func normalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// AddWorktree checks out branch in a new worktree at path, creating parent
// directories as needed. With create set, the branch is created at base
// (HEAD when base is empty) instead of looked up. Returns
// [ErrWorktreeExists] when the branch is already checked out somewhere.
func AddWorktree(ctx context.Context, repoDir, path, branch string, create bool, base string) error {
	existing, err := FindWorktreeByBranch(ctx, repoDir, branch)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w for branch %q at %s", ErrWorktreeExists, branch, existing.Path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	args := []string{"worktree", "add", path}
	if create {
		args = append(args, "-b", branch)
		if base != "" {
			args = append(args, base)
		}
	} else {
		args = append(args, branch)
	}

	if err := runGit(ctx, repoDir, args...); err != nil {
		// Races with a concurrent checkout land here instead of the
		// pre-check above.
		if strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("%w: branch %q is checked out in another worktree", ErrWorktreeExists, branch)
		}
		return fmt.Errorf("add worktree: %w", err)
	}
	return nil
}

// RemoveWorktree removes the worktree at path from the repository at
// repoDir. Dirty worktrees are refused unless force is set.
func RemoveWorktree(ctx context.Context, repoDir, path string, force bool) error {
	wt, err := FindWorktreeByPath(ctx, repoDir, path)
	if err != nil {
		return err
	}
	if wt == nil {
		return fmt.Errorf("%w: %s", ErrWorktreeNotFound, path)
	}

	if !force {
		clean, err := IsClean(ctx, path)
		if err != nil {
			return err
		}
		if !clean {
			return fmt.Errorf("%w: %s (use --force to remove anyway)", ErrWorktreeDirty, path)
		}
	}

	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)

	if err := runGit(ctx, repoDir, args...); err != nil {
		return fmt.Errorf("remove worktree: %w", err)
	}
	return nil
}

// PruneWorktrees drops metadata for worktrees whose directories no longer
// exist. With dryRun nothing is removed. Returns one line per affected
// worktree as reported by git.
func PruneWorktrees(ctx context.Context, dir string, dryRun bool) ([]string, error) {
	args := []string{"worktree", "prune", "--verbose"}
	if dryRun {
		args = append(args, "--dry-run")
	}

	output, err := outputGit(ctx, dir, args...)
	if err != nil {
		return nil, fmt.Errorf("prune worktrees: %w", err)
	}

	var pruned []string
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			pruned = append(pruned, line)
		}
	}
	return pruned, nil
}

// RepairWorktrees fixes up the links between the repository at repoDir and
// its worktrees after either side moved on disk. Moved worktrees must be
// named by their new paths.
func RepairWorktrees(ctx context.Context, repoDir string, paths ...string) error {
	args := append([]string{"worktree", "repair"}, paths...)
	if err := runGit(ctx, repoDir, args...); err != nil {
		return fmt.Errorf("repair worktrees: %w", err)
	}
	return nil
}
