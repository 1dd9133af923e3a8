package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/gww/internal/output"
	"github.com/raphi011/gww/internal/resolve"
	"github.com/raphi011/gww/internal/uri"
)

func newPathCmd() *cobra.Command {
	var copyPath bool

	cmd := &cobra.Command{
		Use:     "path <uri> [<branch>]",
		Short:   "Print the configured path for a repository or worktree",
		GroupID: GroupRepo,
		Args:    cobra.RangeArgs(1, 2),
		Long: `Print the path the configuration resolves for a repository URI, or for
one of its worktrees when a branch is given. Nothing is cloned or
created; the path is computed from the rules alone.

The gcd function printed by "gww init shell" wraps this command in a
directory change.`,
		Example: `  gww path https://github.com/org/repo
  gww path git@github.com:org/repo.git feature/login
  cd $(gww path https://github.com/org/repo)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tags := parseTags(tagArgs)

			u, err := uri.Parse(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			var path string
			if len(args) == 2 {
				path, err = resolve.WorktreePath(cfg, u, args[1], tags)
			} else {
				path, err = resolve.SourcePath(cfg, u, tags)
			}
			if err != nil {
				return err
			}

			if copyPath {
				if err := clipboard.WriteAll(path); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
			}

			output.FromContext(ctx).Println(path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyPath, "copy", "c", false, "Copy the path to the clipboard as well")
	return cmd
}
