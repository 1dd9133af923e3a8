package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultConfig is the commented starter config written by
// "gww init config". The %s is the config path.
const defaultConfig = `# gww (git worktree wrapper) configuration
# ==========================================
#
# This file controls where gww places cloned repositories and their
# worktrees. Location: %s

# Template Functions
# ==================
# Path templates and predicates can call these functions:
#
#   host(), port(), protocol(), uri()
#                        - Components of the repository URI
#                          host() of "git@github.com:org/repo.git" is "github.com"
#
#   path(n)              - URI path segment by index, negative counts from the end
#                          path(-2)/path(-1) of "github.com/user/repo" is "user/repo"
#
#   branch()             - Branch name as-is (worktree templates only)
#
#   norm_branch(sep)     - Branch name with "/" replaced, default separator "-"
#                          norm_branch() of "feature/new-ui" is "feature-new-ui"
#
#   tag(name)            - Value of a --tag KEY=VALUE option, "" when unset
#   tag_exist(name)      - Whether --tag KEY was passed at all
#
# Project rule predicates can additionally probe the repository:
#
#   file_exists(p), dir_exists(p), path_exists(p)
#                        - Existence checks relative to the repository root
#   source_path(), dest_path()
#                        - Repository and target paths as absolute strings

# Default locations for sources (cloned repositories) and worktrees.
default_sources: ~/Developer/sources/default/path(-2)/path(-1)
default_worktrees: ~/Developer/worktrees/default/path(-2)/path(-1)/norm_branch()

# Source routing rules (optional).
# The first rule whose predicate matches wins, in the order written here.
#
# sources:
#   github:
#     predicate: '"github" in host()'
#     sources: ~/Developer/sources/github/path(-2)/path(-1)
#     worktrees: ~/Developer/worktrees/github/path(-2)/path(-1)/norm_branch()
#
#   gitlab:
#     predicate: '"gitlab" in host()'
#     sources: ~/Developer/sources/gitlab/path(-3)/path(-2)/path(-1)
#     worktrees: ~/Developer/worktrees/gitlab/path(-3)/path(-2)/path(-1)/norm_branch()
#
#   work:
#     predicate: 'path(0) == "myorg"'
#     sources: ~/work/sources/path(-1)
#
#   # Tags route too, and can appear inside templates:
#   production:
#     predicate: 'tag_exist("env") and tag("env") == "prod"'
#     sources: ~/Developer/sources/prod/path(-2)/path(-1)
#
#   tagged:
#     predicate: 'tag_exist("project")'
#     sources: ~/Developer/sources/tag("project")/path(-2)/path(-1)

# Project rules (optional).
# Every matching rule's actions run after cloning (after_clone) or after
# creating a worktree (after_add), in the order written here.
#
# projects:
#   - predicate: 'file_exists("local.properties")'
#     after_clone:
#       - abs_copy: ["~/templates/local.properties", "local.properties"]
#     after_add:
#       - rel_copy: local.properties
#
#   - predicate: 'file_exists("package.json")'
#     after_add:
#       - rel_copy: [.env]
#       - command: npm install
`

// Init writes the default config file and returns its path. An
// existing file is left untouched unless force is set.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config file already exists at %s, not overwriting (use -f to replace it)", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	content := fmt.Sprintf(defaultConfig, path)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write config file: %w", err)
	}
	return path, nil
}
