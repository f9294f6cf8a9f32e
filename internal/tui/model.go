package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = 150 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// tickMsg drives the spinner animation.
type tickMsg time.Time

// RunnerModel is a bubbletea model showing the update workflow: a status
// line, a progress bar, and a download speed readout. Messages arrive from
// the worker goroutine via Program.Send; the consumer drains them without
// ever blocking the worker.
type RunnerModel struct {
	title    string
	status   string
	bar      progress.Model
	fraction float64
	speed    float64
	done     bool
	err      error
	tick     int
}

// NewRunnerModel creates the model with the given title.
func NewRunnerModel(title string) RunnerModel {
	return RunnerModel{
		title:  title,
		status: "Initializing...",
		bar:    progress.New(progress.WithDefaultGradient()),
	}
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init satisfies the tea.Model interface.
func (m RunnerModel) Init() tea.Cmd {
	return scheduleTick()
}

// Update satisfies the tea.Model interface.
func (m RunnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, scheduleTick()

	case StatusMsg:
		m.status = msg.Text
		m.speed = 0
		return m, nil

	case DownloadProgressMsg:
		m.fraction = msg.Fraction
		m.speed = msg.SpeedKBps
		return m, nil

	case ProgressMsg:
		m.fraction = msg.Fraction
		m.speed = 0
		return m, nil

	case WorkDoneMsg:
		m.done = true
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		width := msg.Width - 4
		if width > 60 {
			width = 60
		}
		if width > 0 {
			m.bar.Width = width
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View satisfies the tea.Model interface.
func (m RunnerModel) View() string {
	if m.done && m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.title))
	b.WriteString("\n\n")

	if !m.done {
		spinner := spinnerFrames[m.tick%len(spinnerFrames)]
		fmt.Fprintf(&b, "%s %s\n", spinner, StatusTextStyle.Render(m.status))
	} else {
		fmt.Fprintf(&b, "  %s\n", StatusTextStyle.Render(m.status))
	}

	b.WriteString(m.bar.ViewAs(m.fraction))
	b.WriteByte('\n')

	if m.speed > 0 {
		b.WriteString(SpeedStyle.Render(fmt.Sprintf("%.2f KB/s", m.speed)))
		b.WriteByte('\n')
	}
	return b.String()
}

// Done reports whether the model has finished (work done or error).
func (m RunnerModel) Done() bool {
	return m.done
}

// Err returns any fatal error that occurred.
func (m RunnerModel) Err() error {
	return m.err
}
