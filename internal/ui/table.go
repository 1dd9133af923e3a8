package ui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/raphi011/gww/internal/git"
)

// WorktreeHeaders are the column titles matching [WorktreeRow].
var WorktreeHeaders = []string{"FOLDER", "BRANCH", "COMMIT", "STATUS"}

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// WorktreeRow builds the table row for a single worktree.
func WorktreeRow(wt git.Worktree) []string {
	branch := wt.Branch
	switch {
	case wt.Bare:
		branch = "(bare)"
	case wt.Detached && branch == "":
		branch = "(detached)"
	case branch == "":
		branch = "-"
	}

	commit := "-"
	if len(wt.Commit) >= 7 {
		commit = wt.Commit[:7]
	}

	return []string{filepath.Base(wt.Path), branch, commit, worktreeStatus(wt)}
}

// worktreeStatus summarizes the porcelain flags for the STATUS column.
func worktreeStatus(wt git.Worktree) string {
	var flags []string
	if wt.Locked {
		flags = append(flags, "locked")
	}
	if wt.Prunable != "" {
		flags = append(flags, "prunable")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ", ")
}
