// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pfxkit/pfxkit/internal/runtime"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"
)

// LogFileName is the launch log inside the log directory.
const LogFileName = "pfxkit.log"

// maxOutput bounds each captured stream in a log entry.
const maxOutput = 4096

var _ runtime.Observer = (*FileObserver)(nil)

// FileObserver appends one logfmt entry per launch to a log file.
type FileObserver struct {
	mu     sync.Mutex
	file   *os.File
	logger *log.Logger
	closed bool
}

// OpenFileObserver opens <dir>/pfxkit.log for appending, creating dir.
func OpenFileObserver(dir string) (*FileObserver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	path := filepath.Join(dir, LogFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open launch log: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Formatter:       log.LogfmtFormatter,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	return &FileObserver{file: f, logger: logger}, nil
}

// Path returns the log file path.
func (o *FileObserver) Path() string { return o.file.Name() }

// ObserveLaunch records the launch. Failed launches are logged at error
// level. Writes after Close are dropped.
func (o *FileObserver) ObserveLaunch(executable, stdout, stderr string, exitCode int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	kv := []any{
		"executable", quote(executable),
		"exit_code", exitCode,
		"stdout", truncate(stdout),
		"stderr", truncate(stderr),
	}
	if exitCode != 0 {
		o.logger.Error("launch", kv...)
		return
	}
	o.logger.Info("launch", kv...)
}

// Close flushes and closes the log file. It is safe to call more than once.
func (o *FileObserver) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	return o.file.Close()
}

// quote renders executable as a bash word so paths with spaces stay
// copy-pasteable from the log.
func quote(executable string) string {
	q, err := syntax.Quote(executable, syntax.LangBash)
	if err != nil {
		return executable
	}
	return q
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxOutput {
		return s
	}
	return s[:maxOutput] + "...(truncated)"
}
