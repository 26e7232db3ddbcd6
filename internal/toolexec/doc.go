// SPDX-License-Identifier: MPL-2.0

// Package toolexec runs external host tools (downloaders, digest tools,
// archive extractors, the compatibility runtime binaries) behind a small
// Runner interface so that every caller can be exercised with a fake.
//
// Tools are grouped into fallback chains: a chain names a purpose and the
// ordered list of executables that can serve it. Callers try each available
// tool in order and report ToolUnavailableError when none is installed.
package toolexec
