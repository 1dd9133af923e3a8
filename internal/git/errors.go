package git

import "errors"

// Sentinel errors for callers that branch on failure kind. Wrapped errors
// carry the specifics; match with [errors.Is].
var (
	ErrNotRepository    = errors.New("not a git repository")
	ErrDetachedHead     = errors.New("HEAD is detached, not on a branch")
	ErrWorktreeExists   = errors.New("worktree already exists")
	ErrWorktreeNotFound = errors.New("worktree not found")
	ErrWorktreeDirty    = errors.New("worktree has uncommitted changes")
	ErrBranchExists     = errors.New("branch already exists")
	ErrBranchNotFound   = errors.New("branch not found")
)
