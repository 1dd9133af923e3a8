package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// ErrGitNotFound indicates git is not installed or not in PATH
var ErrGitNotFound = fmt.Errorf("git not found: please install git (https://git-scm.com)")

// CheckGit verifies that git is available in PATH
func CheckGit() error {
	_, err := exec.LookPath("git")
	if err != nil {
		return ErrGitNotFound
	}
	return nil
}

// IsRepository returns true if path is inside a git repository.
// An empty path means the current working directory.
func IsRepository(ctx context.Context, path string) bool {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return runGit(ctx, path, "rev-parse", "--git-dir") == nil
}
