// SPDX-License-Identifier: MPL-2.0

package toolexec

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrToolUnavailable is the sentinel error wrapped by ToolUnavailableError.
	ErrToolUnavailable = errors.New("no suitable tool available")
	// ErrNonZeroExit is the sentinel error wrapped by ExitError.
	ErrNonZeroExit = errors.New("process exited with non-zero status")
)

type (
	// ToolUnavailableError is returned when neither the preferred tool nor any
	// of its fallbacks can be found on the host, or when every one that was
	// found failed.
	ToolUnavailableError struct {
		// Purpose describes what the tools are needed for (e.g. "download").
		Purpose string
		// Tools lists the executables that were looked up, in preference order.
		Tools []string
		// Cause joins the failures of the tools that were found, if any.
		Cause error
	}

	// ExitError reports a process that ran but exited unsuccessfully.
	ExitError struct {
		Command  string
		Args     []string
		ExitCode ExitCode
		// Stderr holds the trimmed standard error of the process, if captured.
		Stderr string
	}
)

// Error implements the error interface.
func (e *ToolUnavailableError) Error() string {
	msg := fmt.Sprintf("no tool available for %s (tried: %s)", e.Purpose, strings.Join(e.Tools, ", "))
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns ErrToolUnavailable and the cause, if any, for errors.Is()
// compatibility.
func (e *ToolUnavailableError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrToolUnavailable}
	}
	return []error{ErrToolUnavailable, e.Cause}
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %s", e.Command, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + lastLine(e.Stderr)
	}
	return msg
}

// Unwrap returns ErrNonZeroExit for errors.Is() compatibility.
func (e *ExitError) Unwrap() error { return ErrNonZeroExit }

// CheckExit converts a finished run into an error when its exit code is non-zero.
func CheckExit(command string, args []string, res Result) error {
	if res.ExitCode.IsSuccess() {
		return nil
	}
	return &ExitError{
		Command:  command,
		Args:     args,
		ExitCode: res.ExitCode,
		Stderr:   strings.TrimSpace(string(res.Stderr)),
	}
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
