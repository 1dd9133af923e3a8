package ui

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// Spinner wraps a Bubbletea spinner for simple non-interactive use
type Spinner struct {
	program   *tea.Program
	done      chan struct{}
	mu        sync.Mutex
	isRunning bool
	message   string
}

// spinnerModel is the internal Bubbletea model
type spinnerModel struct {
	spinner spinner.Model
	message string
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() string {
	return fmt.Sprintf("%s %s", m.spinner.View(), m.message)
}

// NewSpinner creates a new spinner with the given message
func NewSpinner(message string) *Spinner {
	return &Spinner{
		done:    make(chan struct{}),
		message: message,
	}
}

// Start begins the spinner animation. It does nothing when stderr is not
// a terminal, so piped and scripted runs stay clean.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return
	}
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	model := spinnerModel{
		spinner: sp,
		message: s.message,
	}

	// Write to stderr so stdout remains clean for piping (e.g., cd $(gww path ...))
	s.program = tea.NewProgram(model, tea.WithoutSignalHandler(), tea.WithOutput(os.Stderr))
	s.isRunning = true

	go func() {
		_, _ = s.program.Run()
		close(s.done)
	}()
}

// Stop stops the spinner and clears the line
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	s.program.Quit()

	// Wait for the program to finish with timeout
	select {
	case <-s.done:
	case <-time.After(500 * time.Millisecond):
	}

	// Clear to stderr (UI output shouldn't pollute stdout for piping)
	fmt.Fprint(os.Stderr, "\r\033[K")
}
