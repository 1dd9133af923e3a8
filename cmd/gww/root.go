package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/gww/internal/config"
	"github.com/raphi011/gww/internal/git"
	"github.com/raphi011/gww/internal/log"
	"github.com/raphi011/gww/internal/output"
	"github.com/raphi011/gww/internal/resolve"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	tagArgs []string
)

// Command group IDs for organizing help output
const (
	GroupWorktree = "worktree"
	GroupRepo     = "repository"
	GroupConfig   = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gww",
	Short: "Clone repositories and manage worktrees at configured locations",
	Long: `gww is a git worktree wrapper that keeps repositories and their
worktrees at predictable filesystem locations.

Path templates and routing rules in a YAML config file decide where a
repository lives; its worktrees get derived locations of their own, and
project rules can copy files or run commands after cloning or after
adding a worktree.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Validate mutually exclusive flags
		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		// Wire logger and printer here, after flag parsing, so verbose
		// and quiet take effect.
		ctx := cmd.Context()
		ctx = log.WithLogger(ctx, log.New(os.Stderr, verbose, quiet))
		out := io.Writer(os.Stdout)
		if quiet {
			out = io.Discard
		}
		ctx = output.WithPrinter(ctx, out)
		cmd.SetContext(ctx)

		if skipsGitCheck(cmd) {
			return nil
		}
		return git.CheckGit()
	},
	// Run is not set - shows help when no subcommand provided
}

// skipsGitCheck reports whether cmd works without git installed.
// Completion, help, and init never touch a repository.
func skipsGitCheck(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "completion", "__complete", "help", "init":
			return true
		}
	}
	return false
}

// Execute runs the root command and maps failures to exit codes:
// 1 for ordinary errors, 2 for configuration and rule errors,
// 130 when interrupted.
func Execute() {
	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "\nOperation cancelled.")
			os.Exit(130)
		}
		if errors.Is(err, config.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "Error: %v. Run 'gww init config' to create one.\n", err)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if isConfigError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// isConfigError reports whether err belongs to the configuration class
// of failures: an unreadable or invalid config file, or a rule that
// could not be evaluated.
func isConfigError(err error) bool {
	var ruleErr *resolve.RuleError
	return errors.Is(err, config.ErrInvalid) || errors.As(err, &ruleErr)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all non-error output")
	rootCmd.PersistentFlags().StringArrayVarP(&tagArgs, "tag", "t", nil, "Tag as KEY=VALUE (or bare KEY) for resolution rules")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// The default completion command stays available for init shell but
	// is hidden from help output.
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupWorktree, Title: "Worktree Commands:"},
		&cobra.Group{ID: GroupRepo, Title: "Repository Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Worktree commands
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newListCmd())

	// Repository commands
	rootCmd.AddCommand(newCloneCmd())
	rootCmd.AddCommand(newPullCmd())
	rootCmd.AddCommand(newPathCmd())
	rootCmd.AddCommand(newMigrateCmd())

	// Config commands
	rootCmd.AddCommand(newInitCmd())
}
