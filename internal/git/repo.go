package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Repository describes a repository root found on disk.
type Repository struct {
	Path       string
	IsWorktree bool
	RemoteURL  string // empty when no origin remote is configured
}

// Detect resolves the repository containing path.
func Detect(ctx context.Context, path string) (*Repository, error) {
	root, err := RepoRoot(ctx, path)
	if err != nil {
		return nil, err
	}
	url, _ := RemoteURL(ctx, root)
	return &Repository{
		Path:       root,
		IsWorktree: IsWorktree(root),
		RemoteURL:  url,
	}, nil
}

// RepoRoot returns the top-level directory of the repository containing path.
// For a worktree this is the worktree root, not the source repository.
// An empty path means the current working directory.
func RepoRoot(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		where := path
		if where == "" {
			where = "current directory"
		}
		return "", fmt.Errorf("%w: %s", ErrNotRepository, where)
	}
	return strings.TrimSpace(string(output)), nil
}

// IsWorktree returns true if path is a linked worktree rather than a main
// repository. Worktrees have .git as a file pointing at the source repo,
// main repos have .git as a directory.
func IsWorktree(path string) bool {
	info, err := os.Stat(filepath.Join(path, ".git"))
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsSubmodule returns true if path is a submodule checkout. Like worktrees,
// submodules have a .git link file, but theirs points into the
// superproject's .git/modules/ directory instead of .git/worktrees/.
func IsSubmodule(path string) bool {
	gitdir, err := readGitFile(filepath.Join(path, ".git"))
	if err != nil {
		return false
	}
	return strings.Contains(filepath.ToSlash(gitdir), ".git/modules/")
}

// readGitFile parses a .git link file and returns the gitdir target,
// resolved relative to the file's directory when not absolute.
func readGitFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	// Only the first line matters; any additional lines are ignored.
	line := strings.TrimSpace(string(content))
	if idx := strings.Index(line, "\n"); idx != -1 {
		line = strings.TrimSpace(line[:idx])
	}
	gitdir, ok := strings.CutPrefix(line, "gitdir:")
	if !ok {
		return "", fmt.Errorf("invalid .git file %s: expected 'gitdir: <path>'", path)
	}
	gitdir = strings.TrimSpace(gitdir)
	if gitdir == "" {
		return "", fmt.Errorf("invalid .git file %s: empty gitdir path", path)
	}

	if !filepath.IsAbs(gitdir) {
		gitdir = filepath.Join(filepath.Dir(path), gitdir)
	}
	return filepath.Clean(gitdir), nil
}

// SourceRepository returns the main repository for the repo containing path.
// Inside a worktree this follows the .git file's gitdir pointer
// (<source>/.git/worktrees/<name>) back to the source; inside a main repo it
// returns the repo root itself.
func SourceRepository(ctx context.Context, path string) (string, error) {
	root, err := RepoRoot(ctx, path)
	if err != nil {
		return "", err
	}
	if !IsWorktree(root) {
		return root, nil
	}

	gitdir, err := readGitFile(filepath.Join(root, ".git"))
	if err != nil {
		return "", err
	}

	// gitdir is <source>/.git/worktrees/<name>; walk up to find .git.
	dir := gitdir
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("cannot determine source repository for %s: gitdir %s has no .git component", root, gitdir)
		}
		if filepath.Base(dir) == ".git" {
			return parent, nil
		}
		dir = parent
	}
}

// RemoteURL returns the URL of the origin remote.
func RemoteURL(ctx context.Context, dir string) (string, error) {
	output, err := outputGit(ctx, dir, "remote", "get-url", "origin")
	if err != nil {
		return "", fmt.Errorf("no origin remote: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// CurrentBranch returns the branch checked out in dir.
// Returns [ErrDetachedHead] when HEAD does not point at a branch.
func CurrentBranch(ctx context.Context, dir string) (string, error) {
	output, err := outputGit(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("get current branch: %w", err)
	}
	branch := strings.TrimSpace(string(output))
	if branch == "HEAD" {
		return "", ErrDetachedHead
	}
	return branch, nil
}

// CurrentCommit returns the full commit hash of HEAD in dir.
func CurrentCommit(ctx context.Context, dir string) (string, error) {
	output, err := outputGit(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("get current commit: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// IsClean reports whether the working tree at dir has no uncommitted
// changes and no untracked files.
func IsClean(ctx context.Context, dir string) (bool, error) {
	output, err := outputGit(ctx, dir, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("get status: %w", err)
	}
	return strings.TrimSpace(string(output)) == "", nil
}

// Clone clones uri into target, creating parent directories as needed.
func Clone(ctx context.Context, uri, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	if err := runGit(ctx, "", "clone", uri, target); err != nil {
		return fmt.Errorf("clone %s: %w", uri, err)
	}
	return nil
}

// Pull runs git pull in dir.
func Pull(ctx context.Context, dir string) error {
	if err := runGit(ctx, dir, "pull"); err != nil {
		return fmt.Errorf("pull: %w", err)
	}
	return nil
}
