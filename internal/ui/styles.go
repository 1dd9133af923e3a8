package ui

import "github.com/charmbracelet/lipgloss"

// Shared styles for the interactive and static components.
var (
	// accentStyle marks the row under the cursor.
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)

	// normalStyle renders unselected rows.
	normalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	// mutedStyle renders help lines and scroll indicators.
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// highlightStyle marks filter-matched characters within a row.
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Underline(true)

	// headerStyle and cellStyle shape table output. PaddingRight keeps
	// columns readable without drawing borders.
	headerStyle = lipgloss.NewStyle().Bold(true).PaddingRight(2)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
)
