//go:build integration

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/raphi011/gww/internal/config"
	"github.com/raphi011/gww/internal/log"
	"github.com/raphi011/gww/internal/output"
)

// testContext returns a context with a silent logger and a discarded
// printer, plus the given config and working directory injected the way
// Execute would.
func testContext(t *testing.T, cfg *config.Config, workDir string) context.Context {
	t.Helper()

	ctx := context.Background()
	ctx = log.WithLogger(ctx, log.New(io.Discard, false, true))
	ctx = output.WithPrinter(ctx, io.Discard)
	if cfg != nil {
		ctx = config.WithConfig(ctx, cfg)
	}
	if workDir != "" {
		ctx = config.WithWorkDir(ctx, workDir)
	}
	return ctx
}

// testContextWithOutput is testContext with the printer wired to a
// buffer so tests can assert on stdout data.
func testContextWithOutput(t *testing.T, cfg *config.Config, workDir string) (context.Context, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	ctx := testContext(t, cfg, workDir)
	ctx = output.WithPrinter(ctx, &buf)
	return ctx, &buf
}

// testConfig returns a config routing sources and worktrees under
// tmpDir.
func testConfig(tmpDir string) *config.Config {
	return &config.Config{
		DefaultSources:   filepath.Join(tmpDir, "sources", "path(-2)", "path(-1)"),
		DefaultWorktrees: filepath.Join(tmpDir, "worktrees", "path(-1)", "norm_branch()"),
	}
}

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// setupTestRepo creates a git repo with an initial commit in dir/name
// and a fake https origin. Returns the absolute repo path.
func setupTestRepo(t *testing.T, dir, name string) string {
	t.Helper()

	dir = resolvePath(t, dir)
	repoPath := filepath.Join(dir, name)
	if err := os.MkdirAll(repoPath, 0o755); err != nil {
		t.Fatalf("failed to create repo dir: %v", err)
	}

	runGitCommand(t, repoPath, "git", "init", "-b", "main")
	runGitCommand(t, repoPath, "git", "config", "user.email", "test@test.com")
	runGitCommand(t, repoPath, "git", "config", "user.name", "Test User")
	runGitCommand(t, repoPath, "git", "config", "commit.gpgsign", "false")

	if err := os.WriteFile(filepath.Join(repoPath, "README.md"), []byte("# "+name+"\n"), 0o644); err != nil {
		t.Fatalf("failed to write README: %v", err)
	}
	runGitCommand(t, repoPath, "git", "add", "README.md")
	runGitCommand(t, repoPath, "git", "commit", "-m", "Initial commit")

	// Fake origin so remote-based path resolution works
	runGitCommand(t, repoPath, "git", "remote", "add", "origin", "https://github.com/test/"+name+".git")

	return repoPath
}

// setupBareOrigin creates a bare repository in dir/name.git seeded with
// one commit on main, usable as a clone and pull origin. Returns the
// bare repo path.
func setupBareOrigin(t *testing.T, dir, name string) string {
	t.Helper()

	dir = resolvePath(t, dir)
	barePath := filepath.Join(dir, name+".git")
	if err := os.MkdirAll(barePath, 0o755); err != nil {
		t.Fatalf("failed to create bare repo dir: %v", err)
	}
	runGitCommand(t, barePath, "git", "init", "--bare", "-b", "main")

	// The clone of the empty bare starts on an unborn main branch.
	seedPath := filepath.Join(dir, name+"-seed")
	runGitCommand(t, dir, "git", "clone", barePath, seedPath)
	runGitCommand(t, seedPath, "git", "config", "user.email", "test@test.com")
	runGitCommand(t, seedPath, "git", "config", "user.name", "Test User")
	runGitCommand(t, seedPath, "git", "config", "commit.gpgsign", "false")

	if err := os.WriteFile(filepath.Join(seedPath, "README.md"), []byte("# "+name+"\n"), 0o644); err != nil {
		t.Fatalf("failed to write README: %v", err)
	}
	runGitCommand(t, seedPath, "git", "add", "README.md")
	runGitCommand(t, seedPath, "git", "commit", "-m", "Initial commit")
	runGitCommand(t, seedPath, "git", "push", "-u", "origin", "main")

	return barePath
}

// setupWorktree creates a worktree with a new branch at worktreePath.
func setupWorktree(t *testing.T, repoPath, worktreePath, branch string) {
	t.Helper()
	runGitCommand(t, repoPath, "git", "worktree", "add", "-b", branch, worktreePath)
}

// createBranch creates a branch without checking it out.
func createBranch(t *testing.T, repoPath, branch string) {
	t.Helper()
	runGitCommand(t, repoPath, "git", "branch", branch)
}

// makeDirty creates uncommitted changes in a worktree.
func makeDirty(t *testing.T, worktreePath string) {
	t.Helper()

	filePath := filepath.Join(worktreePath, "dirty.txt")
	if err := os.WriteFile(filePath, []byte("uncommitted changes\n"), 0o644); err != nil {
		t.Fatalf("failed to create dirty file: %v", err)
	}
}

// verifyWorktreeWorks checks that git status works in the worktree.
func verifyWorktreeWorks(t *testing.T, worktreePath string) {
	t.Helper()

	cmd := exec.Command("git", "status")
	cmd.Dir = worktreePath
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Errorf("worktree %s is broken: git status failed: %v\n%s", worktreePath, err, out)
	}
}

// runGitCommand runs a git command and returns its output.
func runGitCommand(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to run %v: %v\n%s", args, err, out)
	}
	return string(out)
}
