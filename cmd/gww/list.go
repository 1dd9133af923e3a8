package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/gww/internal/config"
	"github.com/raphi011/gww/internal/git"
	"github.com/raphi011/gww/internal/output"
	"github.com/raphi011/gww/internal/ui"
)

func newListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "list [--all [<dir>]]",
		Short:   "List worktrees",
		GroupID: GroupWorktree,
		Args:    cobra.MaximumNArgs(1),
		Long: `List the worktrees of the current repository, including the source
repository itself.

With --all, every repository under the given directory (default: the
current directory) is scanned and listed with a REPO column.
Repositories whose worktrees cannot be listed are reported on stderr
and skipped.`,
		Example: `  gww list
  gww list --all
  gww list --all ~/Developer/sources`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := output.FromContext(ctx)
			workDir := config.WorkDirFromContext(ctx)

			if len(args) == 1 && !all {
				return fmt.Errorf("directory argument requires --all")
			}

			if !all {
				sourceRepo, err := resolveSourceRepo(ctx, workDir)
				if err != nil {
					return err
				}
				worktrees, err := git.ListWorktrees(ctx, sourceRepo)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(worktrees))
				for _, wt := range worktrees {
					rows = append(rows, ui.WorktreeRow(wt))
				}
				p.Print(ui.RenderTable(ui.WorktreeHeaders, rows))
				return nil
			}

			root := workDir
			if len(args) == 1 {
				var err error
				root, err = expandPath(args[0])
				if err != nil {
					return err
				}
			}

			found, err := git.FindRepositories(root)
			if err != nil {
				return err
			}
			// Worktrees show up in the scan too but are already covered
			// by their source repository's listing.
			repos := found[:0]
			for _, repo := range found {
				if !git.IsWorktree(repo) {
					repos = append(repos, repo)
				}
			}

			listings, warnings := git.LoadAll(ctx, repos)
			for _, w := range warnings {
				fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", w.Repo, w.Err)
			}

			headers := append([]string{"REPO"}, ui.WorktreeHeaders...)
			var rows [][]string
			for _, listing := range listings {
				repoName := filepath.Base(listing.Repo)
				for _, wt := range listing.Worktrees {
					rows = append(rows, append([]string{repoName}, ui.WorktreeRow(wt)...))
				}
			}
			p.Print(ui.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "List worktrees of every repository under a directory")
	return cmd
}
