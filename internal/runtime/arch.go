// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Win64 targets a 64-bit prefix. It is the default.
	Win64 Arch = iota
	// Win32 targets a 32-bit-only prefix.
	Win32
)

// ErrInvalidArch is the sentinel error wrapped by InvalidArchError.
var ErrInvalidArch = errors.New("invalid architecture")

type (
	// Arch is the CPU width of a prefix.
	Arch int

	// InvalidArchError is returned when an architecture string is not recognized.
	InvalidArchError struct {
		Value string
	}
)

// String returns the WINEARCH spelling of the architecture.
func (a Arch) String() string {
	if a == Win32 {
		return "win32"
	}
	return "win64"
}

// Bits returns 32 or 64.
func (a Arch) Bits() int {
	if a == Win32 {
		return 32
	}
	return 64
}

// ParseArch accepts win32/32/x86/i386 and win64/64/x64/amd64, case-insensitively.
// An empty string yields Win64.
func ParseArch(s string) (Arch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "win64", "64", "x64", "amd64", "x86_64":
		return Win64, nil
	case "win32", "32", "x86", "i386":
		return Win32, nil
	default:
		return Win64, &InvalidArchError{Value: s}
	}
}

// Error implements the error interface.
func (e *InvalidArchError) Error() string {
	return fmt.Sprintf("invalid architecture %q (expected win32 or win64)", e.Value)
}

// Unwrap returns ErrInvalidArch for errors.Is() compatibility.
func (e *InvalidArchError) Unwrap() error { return ErrInvalidArch }
