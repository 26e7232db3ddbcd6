// SPDX-License-Identifier: MPL-2.0

package runtime

import "github.com/pfxkit/pfxkit/internal/toolexec"

// Result holds the captured output of a finished runtime launch.
type Result struct {
	// Executable is the program the loader was asked to run (args[0]).
	Executable string
	ExitCode   toolexec.ExitCode
	Stdout     string
	Stderr     string
}

// Success returns true if the launch exited with status zero.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode.IsSuccess()
}
