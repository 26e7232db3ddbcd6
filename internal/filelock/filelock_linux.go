// SPDX-License-Identifier: MPL-2.0

//go:build linux

// Package filelock provides exclusive advisory locks on well-known files,
// serializing work across pfxkit processes (cache downloads, prefix sessions).
package filelock

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

// Lock holds a blocking exclusive flock. The kernel releases the lock when
// the descriptor is closed (including on process crash), so an orphaned
// zero-byte lock file is harmless.
type Lock struct {
	file *os.File
}

// Acquire opens (or creates) path and blocks until it holds an exclusive
// flock on it.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("flock %s: %w", path, err)
	}

	return &Lock{file: f}, nil
}

// Release unlocks the flock and closes the file descriptor. It is safe to
// call multiple times.
func (l *Lock) Release() {
	if l == nil || l.file == nil {
		return
	}
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		slog.Debug("flock unlock failed", "error", err)
	}
	if err := l.file.Close(); err != nil {
		slog.Debug("lock file close failed", "error", err)
	}
	l.file = nil
}
