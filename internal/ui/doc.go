// Package ui provides terminal UI components for gww command output.
//
// This package uses the Charm libraries (bubbletea, bubbles, lipgloss)
// for interactive selection and styled output, with fuzzy filtering
// from sahilm/fuzzy.
//
// # Selector
//
// [RunSelector] shows an interactive worktree picker with a text filter:
// entries are ranked by fuzzy match score and the matched characters are
// highlighted. Enter selects, esc cancels. Used by `gww remove` when no
// target argument is given on a terminal.
//
// # Tables
//
// [RenderTable] renders aligned, borderless columns for `gww list`.
// [WorktreeRow] builds the FOLDER, BRANCH, COMMIT, STATUS cells for one
// worktree; callers prepend a REPO column when listing multiple repos.
//
// # Spinner
//
// The [Spinner] type shows an indeterminate progress indicator during
// long-running git operations such as clone. It writes to stderr and
// disables itself when stderr is not a terminal.
//
// # Design Notes
//
// Interactive components and the spinner never write to stdout: primary
// output stays clean for piping and shell substitution.
package ui
