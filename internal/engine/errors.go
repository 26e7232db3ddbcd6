// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"fmt"
)

// ErrFileNotFound is the sentinel error wrapped by MissingFileError.
var ErrFileNotFound = errors.New("file not found")

type (
	// ActionError reports the action that stopped an execution.
	ActionError struct {
		Verb string
		// Index is the zero-based position of the action in the verb.
		Index int
		Kind  string
		Err   error
	}

	// MissingFileError reports a local installer or script that does not
	// exist. Nothing is spawned when it is returned.
	MissingFileError struct {
		Kind string
		Path string
	}
)

// Error implements the error interface.
func (e *ActionError) Error() string {
	return fmt.Sprintf("verb %q: action %d (%s): %v", e.Verb, e.Index+1, e.Kind, e.Err)
}

// Unwrap returns the underlying action failure.
func (e *ActionError) Unwrap() error { return e.Err }

// Error implements the error interface.
func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Path)
}

// Unwrap returns ErrFileNotFound for errors.Is() compatibility.
func (e *MissingFileError) Unwrap() error { return ErrFileNotFound }
