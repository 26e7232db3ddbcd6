// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrVerificationFailed is the sentinel error wrapped by VerificationError.
	ErrVerificationFailed = errors.New("checksum verification failed")
	// ErrInvalidFilename is the sentinel error wrapped by InvalidFilenameError.
	ErrInvalidFilename = errors.New("invalid cache filename")
)

type (
	// VerificationError reports a downloaded file whose digest does not
	// match the expected one. The file has already been discarded.
	VerificationError struct {
		URL      string
		Filename string
		Expected string
		Actual   string
	}

	// InvalidFilenameError is returned for cache names that are empty or
	// would escape the cache directory.
	InvalidFilenameError struct {
		Filename string
	}
)

// Error implements the error interface.
func (e *VerificationError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: expected %s, got %s", e.Filename, e.Expected, e.Actual)
}

// Unwrap returns ErrVerificationFailed for errors.Is() compatibility.
func (e *VerificationError) Unwrap() error { return ErrVerificationFailed }

// Error implements the error interface.
func (e *InvalidFilenameError) Error() string {
	return fmt.Sprintf("invalid cache filename %q", e.Filename)
}

// Unwrap returns ErrInvalidFilename for errors.Is() compatibility.
func (e *InvalidFilenameError) Unwrap() error { return ErrInvalidFilename }
