package tui

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// OutputMode describes how progress output should be rendered.
type OutputMode int

const (
	// ModeTUI uses bubbletea for interactive progress rendering.
	ModeTUI OutputMode = iota
	// ModePlain writes status lines as they happen, no animation.
	ModePlain
)

// DetectMode determines the appropriate output mode for the given writer.
func DetectMode(out io.Writer, noProgress bool) OutputMode {
	if noProgress {
		return ModePlain
	}
	file, ok := out.(*os.File)
	if !ok {
		return ModePlain
	}
	info, err := file.Stat()
	if err != nil {
		return ModePlain
	}
	if info.Mode()&os.ModeCharDevice == 0 {
		return ModePlain
	}
	if runtime.GOOS != "windows" {
		term := os.Getenv("TERM")
		if term == "" || strings.EqualFold(term, "dumb") {
			return ModePlain
		}
	}
	return ModeTUI
}

// PlainReporter writes status updates directly to a writer for
// non-interactive runs. Download progress is sampled to avoid flooding the
// output with one line per chunk.
type PlainReporter struct {
	Out      io.Writer
	lastTens int
}

// Status implements runner.Reporter.
func (r *PlainReporter) Status(message string) {
	io.WriteString(r.Out, message+"\n")
	r.lastTens = -1
}

// DownloadProgress implements runner.Reporter.
func (r *PlainReporter) DownloadProgress(fraction, speedKBps float64) {
	tens := int(fraction * 10)
	if tens == r.lastTens {
		return
	}
	r.lastTens = tens
	fmt.Fprintf(r.Out, "  %d%%\n", int(fraction*100))
}

// Progress implements runner.Reporter.
func (r *PlainReporter) Progress(fraction float64) {
	if fraction >= 1.0 {
		io.WriteString(r.Out, "Done\n")
	}
}
