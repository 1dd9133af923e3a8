package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/raphi011/gww/internal/config"
	"github.com/raphi011/gww/internal/output"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Set up the config file or shell integration",
		GroupID: GroupConfig,
	}
	cmd.AddCommand(newInitConfigCmd())
	cmd.AddCommand(newInitShellCmd())
	return cmd
}

func newInitConfigCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create a commented default config file",
		Args:  cobra.NoArgs,
		Long: `Create the config file with commented defaults and examples at the
platform config location. An existing file is never overwritten unless
--force is given.`,
		Example: `  gww init config
  gww init config -f`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Init(force)
			if err != nil {
				return err
			}
			output.FromContext(cmd.Context()).Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}

func newInitShellCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell <bash|zsh|fish>",
		Short: "Print completion and the gcd helper for a shell",
		Args:  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Long: `Print the completion script and a gcd shell function for the given
shell. Add the output to your shell profile:

  # bash (~/.bashrc)
  eval "$(gww init shell bash)"

  # zsh (~/.zshrc)
  eval "$(gww init shell zsh)"

  # fish (~/.config/fish/config.fish)
  gww init shell fish | source

gcd changes into the configured path of a repository or worktree:

  gcd https://github.com/org/repo           # the source checkout
  gcd https://github.com/org/repo feature   # the feature worktree`,
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := output.FromContext(cmd.Context()).Writer()
			return writeShellInit(w, cmd.Root(), args[0])
		},
	}
	return cmd
}

// writeShellInit emits the completion script followed by the gcd
// function for shell.
func writeShellInit(w io.Writer, root *cobra.Command, shell string) error {
	var err error
	switch shell {
	case "bash":
		err = root.GenBashCompletionV2(w, true)
	case "zsh":
		err = root.GenZshCompletion(w)
	case "fish":
		err = root.GenFishCompletion(w, true)
	default:
		return fmt.Errorf("unsupported shell %q, must be one of: bash, zsh, fish", shell)
	}
	if err != nil {
		return fmt.Errorf("generate %s completion: %w", shell, err)
	}

	_, err = fmt.Fprint(w, gcdFunction(shell))
	return err
}

// gcdFunction returns the shell function that wraps "gww path" in a
// directory change. bash and zsh share the POSIX form.
func gcdFunction(shell string) string {
	if shell == "fish" {
		return `
function gcd --description "cd to a gww-managed repository or worktree"
    set -l target (gww path $argv)
    and cd $target
end
`
	}
	return `
gcd() {
    local target
    target="$(gww path "$@")" || return
    cd "$target"
}
`
}
