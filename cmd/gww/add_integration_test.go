//go:build integration

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/gww/internal/config"
)

// TestAdd_ExistingBranch tests adding a worktree for a local branch.
//
// Scenario: User runs `gww add feature` inside the source repository
// Expected: Worktree appears at the configured location and its path is
// printed to stdout
func TestAdd_ExistingBranch(t *testing.T) {
	t.Parallel()

	tmpDir := resolvePath(t, t.TempDir())
	repoPath := setupTestRepo(t, tmpDir, "app")
	createBranch(t, repoPath, "feature")

	ctx, out := testContextWithOutput(t, testConfig(tmpDir), repoPath)
	cmd := newAddCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"feature"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	wantPath := filepath.Join(tmpDir, "worktrees", "app", "feature")
	if got := strings.TrimSpace(out.String()); got != wantPath {
		t.Errorf("printed path = %q, want %q", got, wantPath)
	}
	verifyWorktreeWorks(t, wantPath)

	// Worktrees have .git as a file pointing at the source repo
	info, err := os.Stat(filepath.Join(wantPath, ".git"))
	if err != nil {
		t.Fatalf("worktree has no .git: %v", err)
	}
	if info.IsDir() {
		t.Error("expected .git to be a link file, not a directory")
	}
}

// TestAdd_SlashedBranchName tests branch name normalization in paths.
//
// Scenario: User runs `gww add feature/login`
// Expected: The worktree directory uses the normalized branch name
func TestAdd_SlashedBranchName(t *testing.T) {
	t.Parallel()

	tmpDir := resolvePath(t, t.TempDir())
	repoPath := setupTestRepo(t, tmpDir, "app")
	createBranch(t, repoPath, "feature/login")

	ctx, out := testContextWithOutput(t, testConfig(tmpDir), repoPath)
	cmd := newAddCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"feature/login"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	wantPath := filepath.Join(tmpDir, "worktrees", "app", "feature-login")
	if got := strings.TrimSpace(out.String()); got != wantPath {
		t.Errorf("printed path = %q, want %q", got, wantPath)
	}
	verifyWorktreeWorks(t, wantPath)
}

// TestAdd_MissingBranch tests adding a worktree for an unknown branch.
//
// Scenario: User runs `gww add nope` without --create-branch
// Expected: Command fails and suggests --create-branch
func TestAdd_MissingBranch(t *testing.T) {
	t.Parallel()

	tmpDir := resolvePath(t, t.TempDir())
	repoPath := setupTestRepo(t, tmpDir, "app")

	ctx := testContext(t, testConfig(tmpDir), repoPath)
	cmd := newAddCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"nope"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for missing branch")
	}
	if !strings.Contains(err.Error(), "--create-branch") {
		t.Errorf("error = %q, want a --create-branch hint", err)
	}
}

// TestAdd_CreateBranch tests creating the branch on the fly.
//
// Scenario: User runs `gww add -c spike`
// Expected: Branch is created from the current commit and checked out
// in a new worktree
func TestAdd_CreateBranch(t *testing.T) {
	t.Parallel()

	tmpDir := resolvePath(t, t.TempDir())
	repoPath := setupTestRepo(t, tmpDir, "app")

	ctx, out := testContextWithOutput(t, testConfig(tmpDir), repoPath)
	cmd := newAddCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"-c", "spike"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	branches := runGitCommand(t, repoPath, "git", "branch", "--list", "spike")
	if !strings.Contains(branches, "spike") {
		t.Error("branch spike should have been created")
	}
	verifyWorktreeWorks(t, strings.TrimSpace(out.String()))
}

// TestAdd_FromWorktree tests adding while standing in another worktree.
//
// Scenario: User runs `gww add second` from inside an existing worktree
// Expected: The new worktree is created against the shared source
// repository
func TestAdd_FromWorktree(t *testing.T) {
	t.Parallel()

	tmpDir := resolvePath(t, t.TempDir())
	repoPath := setupTestRepo(t, tmpDir, "app")

	firstPath := filepath.Join(tmpDir, "worktrees", "app", "first")
	setupWorktree(t, repoPath, firstPath, "first")
	createBranch(t, repoPath, "second")

	ctx, out := testContextWithOutput(t, testConfig(tmpDir), firstPath)
	cmd := newAddCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"second"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	wantPath := filepath.Join(tmpDir, "worktrees", "app", "second")
	if got := strings.TrimSpace(out.String()); got != wantPath {
		t.Errorf("printed path = %q, want %q", got, wantPath)
	}

	// Both worktrees must be registered with the source repo
	list := runGitCommand(t, repoPath, "git", "worktree", "list")
	if !strings.Contains(list, firstPath) || !strings.Contains(list, wantPath) {
		t.Errorf("worktree list missing entries:\n%s", list)
	}
}

// TestAdd_BranchAlreadyCheckedOut tests adding the same branch twice.
//
// Scenario: User runs `gww add feature` when a worktree for it exists
// Expected: Command fails naming the existing worktree
func TestAdd_BranchAlreadyCheckedOut(t *testing.T) {
	t.Parallel()

	tmpDir := resolvePath(t, t.TempDir())
	repoPath := setupTestRepo(t, tmpDir, "app")

	existing := filepath.Join(tmpDir, "worktrees", "app", "feature")
	setupWorktree(t, repoPath, existing, "feature")

	ctx := testContext(t, testConfig(tmpDir), repoPath)
	cmd := newAddCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"feature"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for branch that is already checked out")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error = %q, want worktree exists", err)
	}
}

// TestAdd_AfterAddActions tests that matching project rules run in the
// new worktree.
//
// Scenario: A rule matches the source repo and copies an untracked file
// into the worktree
// Expected: The file exists in the worktree afterwards
func TestAdd_AfterAddActions(t *testing.T) {
	t.Parallel()

	tmpDir := resolvePath(t, t.TempDir())
	repoPath := setupTestRepo(t, tmpDir, "app")
	createBranch(t, repoPath, "feature")

	// Untracked file that after_add should carry over
	if err := os.WriteFile(filepath.Join(repoPath, "local.properties"), []byte("secret=1\n"), 0o644); err != nil {
		t.Fatalf("failed to write local.properties: %v", err)
	}

	cfg := testConfig(tmpDir)
	cfg.Projects = []config.ProjectRule{
		{
			Predicate: `file_exists("local.properties")`,
			AfterAdd: []config.Action{
				{Type: config.ActionRelCopy, Args: []string{"local.properties"}},
			},
		},
	}

	ctx := testContext(t, cfg, repoPath)
	cmd := newAddCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"feature"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	copied := filepath.Join(tmpDir, "worktrees", "app", "feature", "local.properties")
	got, err := os.ReadFile(copied)
	if err != nil {
		t.Fatalf("after_add did not copy the file: %v", err)
	}
	if string(got) != "secret=1\n" {
		t.Errorf("copied content = %q", got)
	}
}
