package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/gww/internal/config"
	"github.com/raphi011/gww/internal/git"
	"github.com/raphi011/gww/internal/log"
	"github.com/raphi011/gww/internal/output"
)

func newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pull",
		Short:   "Pull updates into the source repository",
		GroupID: GroupRepo,
		Args:    cobra.NoArgs,
		Long: `Pull updates into the source repository of the current directory,
hopping there from a worktree if necessary.

The source repository must be on its main or master branch with a
clean working tree; worktrees based on it pick up the new commits
through the shared object store.`,
		Example: `  gww pull`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			workDir := config.WorkDirFromContext(ctx)

			sourceRepo, err := resolveSourceRepo(ctx, workDir)
			if err != nil {
				return err
			}

			branch, err := git.CurrentBranch(ctx, sourceRepo)
			if err != nil {
				return err
			}
			if branch != "main" && branch != "master" {
				return fmt.Errorf("source repository must be on 'main' or 'master', currently on %q", branch)
			}

			clean, err := git.IsClean(ctx, sourceRepo)
			if err != nil {
				return err
			}
			if !clean {
				return fmt.Errorf("source repository has uncommitted changes, commit or stash them first")
			}

			if l.IsVerbose() {
				l.Printf("Pulling updates for %s...\n", sourceRepo)
			}
			if err := git.Pull(ctx, sourceRepo); err != nil {
				return err
			}

			output.FromContext(ctx).Printf("Updated source repository: %s\n", sourceRepo)
			return nil
		},
	}
	return cmd
}
