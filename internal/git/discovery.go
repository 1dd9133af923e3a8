package git

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// isGitRepo checks if a path is a git repository root (has .git dir or file)
func isGitRepo(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

// FindRepositories walks root and returns every git repository root below
// it, including root itself and worktrees, in lexical order. Submodules are
// excluded since they move with their superproject. The walk does not
// descend into .git directories; unreadable subtrees are skipped.
func FindRepositories(root string) ([]string, error) {
	var repos []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" && path != root {
			return fs.SkipDir
		}
		if isGitRepo(path) && !IsSubmodule(path) {
			repos = append(repos, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	return repos, nil
}
