package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raphi011/gww/internal/config"
	"github.com/raphi011/gww/internal/git"
)

// loadConfig returns the config from the context when a test injected
// one, and loads the config file otherwise. Loading is deferred to the
// commands so that init and completion work without a config file.
func loadConfig(ctx context.Context) (*config.Config, error) {
	if cfg := config.FromContext(ctx); cfg != nil {
		return cfg, nil
	}
	return config.Load()
}

// parseTags converts repeated --tag arguments into the tag map used by
// resolution rules. A bare KEY gets an empty value; a later duplicate
// overrides an earlier one.
func parseTags(args []string) map[string]string {
	tags := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, _ := strings.Cut(arg, "=")
		tags[key] = value
	}
	return tags
}

// resolveSourceRepo locates the source repository for dir, hopping from
// a worktree to the repository it belongs to.
func resolveSourceRepo(ctx context.Context, dir string) (string, error) {
	repo, err := git.Detect(ctx, dir)
	if err != nil {
		return "", err
	}
	if !repo.IsWorktree {
		return repo.Path, nil
	}
	source, err := git.SourceRepository(ctx, repo.Path)
	if err != nil {
		return "", fmt.Errorf("find source repository: %w", err)
	}
	return source, nil
}

// isPathArg reports whether a remove argument names a worktree by path
// rather than by branch. Branch names may contain slashes, so only
// absolute paths count.
func isPathArg(arg string) bool {
	return strings.Contains(arg, "/") && filepath.IsAbs(arg)
}

// expandPath expands a leading ~ and makes the path absolute.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
