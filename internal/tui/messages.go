package tui

// StatusMsg replaces the status line text.
type StatusMsg struct {
	Text string
}

// DownloadProgressMsg updates the progress bar and the speed readout.
type DownloadProgressMsg struct {
	Fraction  float64
	SpeedKBps float64
}

// ProgressMsg updates the progress bar without a speed readout.
type ProgressMsg struct {
	Fraction float64
}

// WorkDoneMsg signals that the background run has completed.
type WorkDoneMsg struct{}

// ErrorMsg signals a fatal error; the TUI should quit.
type ErrorMsg struct {
	Err error
}
