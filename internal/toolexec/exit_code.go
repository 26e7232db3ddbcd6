// SPDX-License-Identifier: MPL-2.0

package toolexec

import (
	"errors"
	"os/exec"
	"strconv"
)

// ExitCode represents a process exit status code. The zero value means success.
// A process terminated by a signal reports -1.
type ExitCode int

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// exitCodeFromError extracts the process exit code from an exec error.
// The boolean is false when err did not come from a started process
// (spawn failures, context errors before start).
func exitCodeFromError(err error) (ExitCode, bool) {
	if err == nil {
		return 0, true
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ExitCode(exitErr.ExitCode()), true
	}
	return 0, false
}
