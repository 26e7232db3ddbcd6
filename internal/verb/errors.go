// SPDX-License-Identifier: MPL-2.0

package verb

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is the sentinel error wrapped by NotFoundError.
var ErrNotFound = errors.New("verb not found")

type (
	// NotFoundError reports an unknown verb name.
	NotFoundError struct {
		Name string
		// RequiredBy names the verb that referenced Name, if any.
		RequiredBy  string
		Suggestions []string
	}

	// DanglingCallError reports a CallVerb whose target is not registered.
	DanglingCallError struct {
		Verb   string
		Target string
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("verb %q not found", e.Name)
	if e.RequiredBy != "" {
		msg += fmt.Sprintf(" (required by %q)", e.RequiredBy)
	}
	if len(e.Suggestions) > 0 {
		msg += "; did you mean " + strings.Join(e.Suggestions, ", ") + "?"
	}
	return msg
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Error implements the error interface.
func (e *DanglingCallError) Error() string {
	return fmt.Sprintf("verb %q calls unknown verb %q", e.Verb, e.Target)
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *DanglingCallError) Unwrap() error { return ErrNotFound }
