// SPDX-License-Identifier: MPL-2.0

package discovery

import "fmt"

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a definition that was skipped.
	SeverityError Severity = "error"
)

// Diagnostic codes.
const (
	CodeReadFailed    = "read_failed"
	CodeParseFailed   = "parse_failed"
	CodeMissingName   = "missing_name"
	CodeUnknownAction = "unknown_action"
	CodeInvalidAction = "invalid_action"
	CodeUnknownCat    = "unknown_category"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic is a structured, non-fatal discovery problem. Diagnostics are
	// returned to callers rather than printed so the CLI decides how to
	// render them.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier (e.g. "unknown_action").
		Code    string
		Message string
		// Path is the definition file the diagnostic is about.
		Path string
		// Cause is the underlying error, if any.
		Cause error
	}
)

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	msg := fmt.Sprintf("%s: %s: %s", d.Severity, d.Path, d.Message)
	if d.Cause != nil {
		msg += ": " + d.Cause.Error()
	}
	return msg
}

func skipped(path, code, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityError, Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}
