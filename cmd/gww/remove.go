package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/gww/internal/config"
	"github.com/raphi011/gww/internal/git"
	"github.com/raphi011/gww/internal/log"
	"github.com/raphi011/gww/internal/output"
	"github.com/raphi011/gww/internal/ui"
)

func newRemoveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "remove [<branch> | <path>]",
		Short:   "Remove a worktree",
		GroupID: GroupWorktree,
		Args:    cobra.MaximumNArgs(1),
		Long: `Remove a worktree, addressed by branch name, by absolute path, or
interactively.

With a branch name the worktree is looked up in the repository the
current directory belongs to. An absolute path names the worktree
directly and works from anywhere. Without an argument, a fuzzy picker
lists the current repository's worktrees.

Dirty worktrees are refused unless --force is given.`,
		Example: `  gww remove feature/login
  gww remove /home/me/worktrees/repo/feature-login
  gww remove
  gww remove -f feature/login`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			worktreePath, sourceRepo, err := removeTarget(ctx, args)
			if err != nil || worktreePath == "" {
				// Empty path without error means the picker was cancelled.
				return err
			}

			if l.IsVerbose() {
				l.Printf("Removing worktree %s...\n", worktreePath)
			}
			if err := git.RemoveWorktree(ctx, sourceRepo, worktreePath, force); err != nil {
				return err
			}

			output.FromContext(ctx).Printf("Removed worktree: %s\n", worktreePath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove even if the worktree has uncommitted changes")
	return cmd
}

// removeTarget resolves the remove argument to a worktree path and its
// source repository. Without an argument it falls back to the
// interactive picker; a cancelled pick returns an empty path and no
// error.
func removeTarget(ctx context.Context, args []string) (worktreePath, sourceRepo string, err error) {
	workDir := config.WorkDirFromContext(ctx)

	switch {
	case len(args) == 1 && isPathArg(args[0]):
		repo, err := git.Detect(ctx, args[0])
		if err != nil {
			return "", "", err
		}
		if !repo.IsWorktree {
			return "", "", fmt.Errorf("not a worktree: %s", args[0])
		}
		source, err := git.SourceRepository(ctx, repo.Path)
		if err != nil {
			return "", "", fmt.Errorf("find source repository: %w", err)
		}
		return repo.Path, source, nil

	case len(args) == 1:
		source, err := resolveSourceRepo(ctx, workDir)
		if err != nil {
			return "", "", err
		}
		wt, err := git.FindWorktreeByBranch(ctx, source, args[0])
		if err != nil {
			return "", "", err
		}
		if wt == nil {
			return "", "", fmt.Errorf("no worktree found for branch %q", args[0])
		}
		return wt.Path, source, nil

	default:
		return pickWorktree(ctx, workDir)
	}
}

// pickWorktree runs the interactive selector over the current
// repository's worktrees. The source repository itself is not removable
// and stays out of the list.
func pickWorktree(ctx context.Context, workDir string) (worktreePath, sourceRepo string, err error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return "", "", fmt.Errorf("no worktree specified (interactive selection needs a terminal)")
	}

	source, err := resolveSourceRepo(ctx, workDir)
	if err != nil {
		return "", "", err
	}

	worktrees, err := git.ListWorktrees(ctx, source)
	if err != nil {
		return "", "", err
	}

	candidates := make([]git.Worktree, 0, len(worktrees))
	for _, wt := range worktrees {
		if wt.Bare || wt.Path == source {
			continue
		}
		candidates = append(candidates, wt)
	}

	result, err := ui.RunSelector(candidates)
	if err != nil {
		return "", "", err
	}
	if result.Cancelled || !result.Selected {
		return "", "", nil
	}
	return result.Worktree.Path, source, nil
}
