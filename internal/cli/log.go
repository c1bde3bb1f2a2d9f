// Package cli implements the bpmnlayout command-line interface.
//
// The commands lay out BPMN documents and node-link graphs, render them, and
// serve the same pipeline over HTTP. The CLI is built using cobra and logs
// through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - layout: Write diagram interchange into a BPMN file, or a layout.json for a graph
//   - render: Generate SVG, PNG, PDF, JSON, BPMN or DOT output
//   - inspect: Browse node positions and layers in a table
//   - serve: Run the HTTP service
//   - cache: Manage the layout cache
//
// # Configuration
//
// Settings come from $XDG_CONFIG_HOME/bpmnlayout/config.toml or the file
// named by --config. Flags override the file. --verbose (-v) forces
// debug-level logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Rendered 3 artifacts (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
