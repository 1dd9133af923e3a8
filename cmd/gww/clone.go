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
	"github.com/raphi011/gww/internal/ui"
	"github.com/raphi011/gww/internal/uri"
)

func newCloneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clone <uri>",
		Short:   "Clone a repository to its configured location",
		GroupID: GroupRepo,
		Args:    cobra.ExactArgs(1),
		Long: `Clone a git repository to the location the configuration resolves for
its URI, then run the after_clone actions of every matching project
rule. The final path is printed to stdout.`,
		Example: `  gww clone https://github.com/org/repo
  gww clone git@github.com:org/repo.git --tag env=prod
  cd $(gww clone https://github.com/org/repo)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			tags := parseTags(tagArgs)

			u, err := uri.Parse(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			sourcePath, err := resolve.SourcePath(cfg, u, tags)
			if err != nil {
				return err
			}

			if _, err := os.Stat(sourcePath); err == nil {
				return fmt.Errorf("repository already exists at: %s", sourcePath)
			}

			if l.IsVerbose() {
				l.Printf("Cloning %s to %s...\n", args[0], sourcePath)
			}

			spin := ui.NewSpinner(fmt.Sprintf("Cloning %s...", args[0]))
			if !l.IsVerbose() && !quiet {
				spin.Start()
			}
			err = git.Clone(ctx, args[0], sourcePath)
			spin.Stop()
			if err != nil {
				return err
			}

			runCloneActions(ctx, cfg, sourcePath, tags)

			output.FromContext(ctx).Println(sourcePath)
			return nil
		},
	}
	return cmd
}

// runCloneActions executes the after_clone actions of matching project
// rules. Failures only warn: the clone itself already succeeded and the
// path must still be printed.
func runCloneActions(ctx context.Context, cfg *config.Config, sourcePath string, tags map[string]string) {
	if len(cfg.Projects) == 0 {
		return
	}
	l := log.FromContext(ctx)

	acts, err := actions.CloneActions(cfg.Projects, sourcePath, tags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: matching project rules failed: %v\n", err)
		return
	}
	if len(acts) == 0 {
		return
	}

	if l.IsVerbose() {
		l.Printf("Running %d clone action(s)...\n", len(acts))
	}
	if _, err := actions.Execute(ctx, acts, "", sourcePath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: clone action failed: %v\n", err)
	}
}
