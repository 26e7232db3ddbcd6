// SPDX-License-Identifier: MPL-2.0

// Package logging wires pfxkit's log output: the process-wide slog default
// for diagnostics, and a file log of every runtime launch.
package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// Prefix tags every console line.
const Prefix = "pfxkit"

// NewLogger returns the console logger. Debug output and caller reporting
// are enabled when verbose is set.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:       Prefix,
		Level:        level,
		ReportCaller: verbose,
	})
}

// Setup installs a charmbracelet handler writing to w as the slog default
// and returns it.
func Setup(w io.Writer, verbose bool) *slog.Logger {
	logger := slog.New(NewLogger(w, verbose))
	slog.SetDefault(logger)
	return logger
}
