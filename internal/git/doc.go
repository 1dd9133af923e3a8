// Package git wraps the git CLI for repository and worktree management.
//
// All operations shell out to the git binary via [os/exec] rather than using
// a Go git library. This keeps behavior identical to what users get on the
// command line and picks up their configuration (SSH keys, credential
// helpers, aliases) for free.
//
// # Repository Operations
//
//   - [RepoRoot], [SourceRepository]: locate the repository containing a path
//   - [Clone], [Pull]: network operations against origin
//   - [CurrentBranch], [CurrentCommit], [IsClean]: working tree state
//
// # Worktree Operations
//
// Worktrees are linked checkouts sharing one object store. The link lives in
// the worktree's .git file, which points into the source repository's
// .git/worktrees/ directory:
//
//   - [ListWorktrees]: parse `git worktree list --porcelain`
//   - [AddWorktree], [RemoveWorktree]: create and remove worktrees
//   - [RepairWorktrees]: fix links after a worktree or repository moved
//   - [PruneWorktrees]: drop metadata for checkouts deleted outside git
//
// # Discovery
//
// Migration needs to locate every repository below a directory:
//
//   - [FindRepositories]: recursive scan, submodules excluded
//   - [LoadAll]: fetch worktrees from many repositories in parallel
package git
