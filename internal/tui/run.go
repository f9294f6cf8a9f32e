package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RunWithWork creates a bubbletea program, launches workFn on a worker
// goroutine, and blocks until the program exits. workFn receives a send
// callback wrapping tea.Program.Send, which never blocks the worker.
func RunWithWork(out io.Writer, model RunnerModel, workFn func(send func(tea.Msg))) error {
	p := tea.NewProgram(model, tea.WithOutput(out))

	go func() {
		// Let bubbletea start its event loop and render the initial frame.
		time.Sleep(50 * time.Millisecond)
		workFn(p.Send)
		p.Send(WorkDoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(RunnerModel); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

// Reporter adapts bubbletea message sending to the runner.Reporter interface.
type Reporter struct {
	send func(tea.Msg)
}

// NewReporter constructs a reporter around a send callback.
func NewReporter(send func(tea.Msg)) *Reporter {
	return &Reporter{send: send}
}

// Status implements runner.Reporter.
func (r *Reporter) Status(message string) {
	r.send(StatusMsg{Text: message})
}

// DownloadProgress implements runner.Reporter.
func (r *Reporter) DownloadProgress(fraction, speedKBps float64) {
	r.send(DownloadProgressMsg{Fraction: fraction, SpeedKBps: speedKBps})
}

// Progress implements runner.Reporter.
func (r *Reporter) Progress(fraction float64) {
	r.send(ProgressMsg{Fraction: fraction})
}
