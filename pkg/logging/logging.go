// Package logging provides the process-wide structured logger tree: one
// zerolog.Logger per component, each emitting one JSON object per line to
// its own stream under <rundir>/logs/<component>.jsonl. The logger never
// raises on a formatting failure — zerolog coerces unserializable fields to
// strings on its own.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Component names line up with one log stream each under logs/.
const (
	ComponentPipeline   = "pipeline"
	ComponentAgent      = "agent"
	ComponentSearch     = "search"
	ComponentValidation = "validation"
	ComponentCost       = "cost"
	ComponentMemory     = "memory"
	ComponentErrors     = "errors"
)

var allComponents = []string{
	ComponentPipeline, ComponentAgent, ComponentSearch,
	ComponentValidation, ComponentCost, ComponentMemory, ComponentErrors,
}

// Set is the process-wide logger tree: one named logger per component,
// plus a combined "agent.log" line-oriented transcript mirroring every
// record.
type Set struct {
	loggers map[string]zerolog.Logger
	files   []*os.File
}

// NewSet creates the logger tree, opening one file per component under
// <rundir>/logs/ and a combined agent.log at the run directory root.
func NewSet(runDir string) (*Set, error) {
	zerolog.TimeFieldFormat = time.RFC3339

	logsDir := filepath.Join(runDir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, err
	}

	combined, err := os.OpenFile(filepath.Join(runDir, "agent.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	s := &Set{loggers: make(map[string]zerolog.Logger, len(allComponents)), files: []*os.File{combined}}

	for _, name := range allComponents {
		f, err := os.OpenFile(filepath.Join(logsDir, name+".jsonl"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.files = append(s.files, f)

		writer := io.MultiWriter(f, combined)
		s.loggers[name] = zerolog.New(writer).With().
			Timestamp().
			Str("logger", name).
			Logger()
	}
	return s, nil
}

// For returns the logger for a named component. Falls back to the errors
// logger if component is unknown — never returns a nil logger.
func (s *Set) For(component string) zerolog.Logger {
	if l, ok := s.loggers[component]; ok {
		return l
	}
	return s.loggers[ComponentErrors]
}

// Close flushes and closes all per-component log files.
func (s *Set) Close() {
	for _, f := range s.files {
		_ = f.Close()
	}
}
