package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/gww/internal/actions"
	"github.com/raphi011/gww/internal/config"
	"github.com/raphi011/gww/internal/git"
	"github.com/raphi011/gww/internal/log"
	"github.com/raphi011/gww/internal/output"
	"github.com/raphi011/gww/internal/resolve"
	"github.com/raphi011/gww/internal/uri"
)

func newAddCmd() *cobra.Command {
	var createBranch bool

	cmd := &cobra.Command{
		Use:     "add <branch>",
		Short:   "Add a worktree for a branch at its configured location",
		GroupID: GroupWorktree,
		Args:    cobra.ExactArgs(1),
		Long: `Add a worktree for a branch, placed at the location the configuration
resolves from the repository's origin URI and the branch name.

The command works from the source repository or from any of its
worktrees. After the worktree is created, the after_add actions of
every matching project rule run inside it. The final path is printed
to stdout.`,
		Example: `  gww add feature/login
  gww add -c spike/caching
  cd $(gww add feature/login)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			branch := args[0]
			tags := parseTags(tagArgs)
			workDir := config.WorkDirFromContext(ctx)

			repo, err := git.Detect(ctx, workDir)
			if err != nil {
				return err
			}

			sourcePath := repo.Path
			if repo.IsWorktree {
				sourcePath, err = git.SourceRepository(ctx, repo.Path)
				if err != nil {
					return fmt.Errorf("find source repository: %w", err)
				}
			}

			if repo.RemoteURL == "" {
				return fmt.Errorf("repository has no origin remote, cannot resolve a worktree path")
			}
			u, err := uri.Parse(repo.RemoteURL)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			if !git.BranchExists(ctx, sourcePath, branch) {
				if !createBranch {
					return fmt.Errorf("branch %q not found, use --create-branch to create it from the current commit", branch)
				}
				commit, err := git.CurrentCommit(ctx, workDir)
				if err != nil {
					return err
				}
				if err := git.CreateBranch(ctx, sourcePath, branch, commit); err != nil {
					return err
				}
				if l.IsVerbose() {
					l.Printf("Created branch %q from %s\n", branch, commit[:min(8, len(commit))])
				}
			}

			worktreePath, err := resolve.WorktreePath(cfg, u, branch, tags)
			if err != nil {
				return err
			}

			if l.IsVerbose() {
				l.Printf("Adding worktree for %q at %s...\n", branch, worktreePath)
			}
			if err := git.AddWorktree(ctx, sourcePath, worktreePath, branch, false, ""); err != nil {
				return err
			}

			runAddActions(ctx, cfg, sourcePath, worktreePath, tags)

			output.FromContext(ctx).Println(worktreePath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&createBranch, "create-branch", "c", false, "Create the branch from the current commit if it does not exist")
	return cmd
}

// runAddActions executes the after_add actions of matching project
// rules inside the new worktree. Failures only warn: the worktree
// exists and its path must still be printed.
func runAddActions(ctx context.Context, cfg *config.Config, sourcePath, worktreePath string, tags map[string]string) {
	if len(cfg.Projects) == 0 {
		return
	}
	l := log.FromContext(ctx)

	acts, err := actions.AddActions(cfg.Projects, sourcePath, worktreePath, tags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: matching project rules failed: %v\n", err)
		return
	}
	if len(acts) == 0 {
		return
	}

	if l.IsVerbose() {
		l.Printf("Running %d worktree action(s)...\n", len(acts))
	}
	if _, err := actions.Execute(ctx, acts, sourcePath, worktreePath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: worktree action failed: %v\n", err)
	}
}
