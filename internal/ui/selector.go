package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/gww/internal/git"
)

// SelectorResult contains the result of the selection
type SelectorResult struct {
	Worktree  git.Worktree
	Selected  bool // true if user selected, false if cancelled
	Cancelled bool
}

// labelSource adapts the rendered worktree labels to fuzzy.Source.
type labelSource []string

func (s labelSource) String(i int) string { return s[i] }
func (s labelSource) Len() int            { return len(s) }

// selectorModel is the bubbletea model for worktree selection
type selectorModel struct {
	worktrees []git.Worktree
	labels    []string
	matches   []fuzzy.Match
	textInput textinput.Model
	cursor    int
	selected  *git.Worktree
	cancelled bool
	maxHeight int
}

// worktreeLabel renders a worktree as "folder (branch)" for both display
// and fuzzy matching. Detached checkouts show the abbreviated commit.
func worktreeLabel(wt git.Worktree) string {
	folder := filepath.Base(wt.Path)
	switch {
	case wt.Branch != "":
		return fmt.Sprintf("%s (%s)", folder, wt.Branch)
	case wt.Detached && len(wt.Commit) >= 7:
		return fmt.Sprintf("%s (%s)", folder, wt.Commit[:7])
	default:
		return folder
	}
}

func newSelectorModel(worktrees []git.Worktree) selectorModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40
	ti.PromptStyle = accentStyle

	labels := make([]string, len(worktrees))
	for i, wt := range worktrees {
		labels[i] = worktreeLabel(wt)
	}

	m := selectorModel{
		worktrees: worktrees,
		labels:    labels,
		textInput: ti,
		cursor:    0,
		maxHeight: 10,
	}
	m.filter()
	return m
}

// filter ranks the worktrees against the current input. An empty query
// keeps every entry in list order; otherwise matches are ordered by
// fuzzy score, best first.
func (m *selectorModel) filter() {
	query := m.textInput.Value()
	if query == "" {
		matches := make([]fuzzy.Match, len(m.labels))
		for i, label := range m.labels {
			matches[i] = fuzzy.Match{Str: label, Index: i}
		}
		m.matches = matches
		return
	}
	m.matches = fuzzy.FindFrom(query, labelSource(m.labels))
}

func (m selectorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m selectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if len(m.matches) > 0 && m.cursor < len(m.matches) {
				wt := m.worktrees[m.matches[m.cursor].Index]
				m.selected = &wt
			}
			return m, tea.Quit

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	// Handle text input
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)

	// Re-rank against the new query
	m.filter()

	// Reset cursor if out of bounds
	if m.cursor >= len(m.matches) {
		m.cursor = max(0, len(m.matches)-1)
	}

	return m, cmd
}

func (m selectorModel) View() string {
	var sb strings.Builder

	// Show search input
	sb.WriteString("Select worktree:\n")
	sb.WriteString(m.textInput.View())
	sb.WriteString("\n\n")

	// Show ranked results
	if len(m.matches) == 0 {
		sb.WriteString(mutedStyle.Render("  No matches found"))
		sb.WriteString("\n")
	} else {
		// Calculate visible range
		start := 0
		end := len(m.matches)
		if end > m.maxHeight {
			// Center the cursor in the visible area
			halfHeight := m.maxHeight / 2
			start = m.cursor - halfHeight
			if start < 0 {
				start = 0
			}
			end = start + m.maxHeight
			if end > len(m.matches) {
				end = len(m.matches)
				start = max(0, end-m.maxHeight)
			}
		}

		for i := start; i < end; i++ {
			match := m.matches[i]
			if i == m.cursor {
				sb.WriteString(accentStyle.Render("> "))
			} else {
				sb.WriteString("  ")
			}
			sb.WriteString(highlightMatch(match, i == m.cursor))
			sb.WriteString("\n")
		}

		// Show scroll indicator
		if len(m.matches) > m.maxHeight {
			sb.WriteString(mutedStyle.Render(fmt.Sprintf("\n  %d/%d", m.cursor+1, len(m.matches))))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("↑/↓ navigate • enter select • esc cancel"))

	return sb.String()
}

// highlightMatch renders one match, emphasizing the characters the query
// matched. MatchedIndexes are byte offsets into the label.
func highlightMatch(match fuzzy.Match, selected bool) string {
	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	base := normalStyle
	if selected {
		base = accentStyle
	}

	var sb strings.Builder
	for i, r := range match.Str {
		if matched[i] {
			sb.WriteString(highlightStyle.Render(string(r)))
		} else {
			sb.WriteString(base.Render(string(r)))
		}
	}
	return sb.String()
}

// RunSelector shows an interactive fuzzy search selector for worktrees
// Returns the selected worktree or nil if cancelled
func RunSelector(worktrees []git.Worktree) (*SelectorResult, error) {
	if len(worktrees) == 0 {
		return &SelectorResult{Cancelled: true}, nil
	}

	model := newSelectorModel(worktrees)
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m := finalModel.(selectorModel)
	if m.cancelled {
		return &SelectorResult{Cancelled: true}, nil
	}
	if m.selected != nil {
		return &SelectorResult{Worktree: *m.selected, Selected: true}, nil
	}
	return &SelectorResult{Cancelled: true}, nil
}
