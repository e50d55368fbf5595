package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	progressStyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	progressStyleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	progressStyleErr     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	progressStyleStep    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// ========================================
// Bubbletea Progress Model
// ========================================

// uploadModel renders a validation run as a checklist of completed steps.
// A run has few, coarse steps (preflight, upload, save), so a step list
// reads better than a percentage bar.
type uploadModel struct {
	steps  []string
	total  int
	label  string
	done   bool
	failed bool
	err    error
}

func (m uploadModel) Init() tea.Cmd {
	return nil
}

func (m uploadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepDoneMsg:
		m.steps = append(m.steps, msg.message)
	case setTotalMsg:
		m.total = msg.total
	case runCompleteMsg:
		m.done = true
		return m, tea.Quit
	case runFailMsg:
		m.failed = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m uploadModel) View() string {
	var b strings.Builder
	b.WriteString(progressStyleTitle.Render(m.label))
	b.WriteString("\n")
	for _, step := range m.steps {
		b.WriteString(progressStyleSuccess.Render("  ✓ "))
		b.WriteString(progressStyleStep.Render(step))
		b.WriteString("\n")
	}

	switch {
	case m.failed:
		b.WriteString(progressStyleErr.Render(fmt.Sprintf("  ✗ failed: %v", m.err)))
		b.WriteString("\n")
	case m.done:
		b.WriteString(progressStyleSuccess.Render(fmt.Sprintf("✓ %s done", m.label)))
		b.WriteString("\n")
	default:
		b.WriteString(progressStyleStep.Render(fmt.Sprintf("  … (%d/%d)", len(m.steps), m.total)))
		b.WriteString("\n")
	}
	return b.String()
}

// ========================================
// Bubbletea Messages
// ========================================

type stepDoneMsg struct {
	message string
}

type setTotalMsg struct {
	total int
}

type runCompleteMsg struct{}

type runFailMsg struct {
	err error
}

// ========================================
// UploadProgressTracker Implementation
// ========================================

// UploadProgressTracker renders run progress using bubbletea
type UploadProgressTracker struct {
	program *tea.Program
}

// NewUploadProgressTracker creates a new bubbletea progress tracker
func NewUploadProgressTracker(total int, label string) *UploadProgressTracker {
	m := uploadModel{
		total: total,
		label: label,
	}

	p := tea.NewProgram(m)

	// Start program in background
	go func() {
		_, _ = p.Run()
	}()

	return &UploadProgressTracker{program: p}
}

// Increment marks a step as done with a message.
func (t *UploadProgressTracker) Increment(message string) {
	t.program.Send(stepDoneMsg{message: message})
}

// SetTotal sets the total step count.
func (t *UploadProgressTracker) SetTotal(total int) {
	t.program.Send(setTotalMsg{total: total})
}

// Complete marks the run as complete.
func (t *UploadProgressTracker) Complete() {
	t.program.Send(runCompleteMsg{})
	time.Sleep(100 * time.Millisecond) // Allow final render
}

// Fail marks the run as failed with an error.
func (t *UploadProgressTracker) Fail(err error) {
	t.program.Send(runFailMsg{err: err})
	time.Sleep(100 * time.Millisecond) // Allow final render
}

// ========================================
// Text Progress (Non-TTY)
// ========================================

// TextProgressTracker provides simple text-based progress
type TextProgressTracker struct {
	current int
	total   int
	label   string
}

// NewTextProgressTracker creates a new text progress tracker
func NewTextProgressTracker(total int, label string) *TextProgressTracker {
	fmt.Printf("Starting: %s\n", label)
	return &TextProgressTracker{total: total, label: label}
}

// Increment marks a step as done with a message.
func (t *TextProgressTracker) Increment(message string) {
	t.current++
	msg := fmt.Sprintf("  [%d/%d]", t.current, t.total)
	if message != "" {
		msg += " " + message
	}
	fmt.Println(msg)
}

// SetTotal sets the total step count.
func (t *TextProgressTracker) SetTotal(total int) {
	t.total = total
}

// Complete marks the run as complete.
func (t *TextProgressTracker) Complete() {
	fmt.Printf("✓ %s: done\n", t.label)
}

// Fail marks the run as failed with an error.
func (t *TextProgressTracker) Fail(err error) {
	fmt.Printf("✗ %s: failed - %v\n", t.label, err)
}

// ========================================
// No-Op Progress (Quiet/JSON)
// ========================================

// NoOpProgressTracker does nothing (for quiet/JSON/testing modes)
type NoOpProgressTracker struct{}

// NewNoOpProgressTracker creates a new no-op progress tracker
func NewNoOpProgressTracker() *NoOpProgressTracker {
	return &NoOpProgressTracker{}
}

// Increment does nothing (no-op implementation).
func (t *NoOpProgressTracker) Increment(_ string) {}

// SetTotal does nothing (no-op implementation).
func (t *NoOpProgressTracker) SetTotal(_ int) {}

// Complete does nothing (no-op implementation).
func (t *NoOpProgressTracker) Complete() {}

// Fail does nothing (no-op implementation).
func (t *NoOpProgressTracker) Fail(_ error) {}
