// SPDX-License-Identifier: MPL-2.0

//go:build !linux

// Package filelock provides exclusive advisory locks on well-known files,
// serializing work across pfxkit processes (cache downloads, prefix sessions).
package filelock

import "sync"

// Outside Linux there is no cross-process lock; a per-path mutex still
// serializes goroutines of this process.
var (
	mu    sync.Mutex
	locks = map[string]*sync.Mutex{}
)

// Lock holds the in-process lock for a path.
type Lock struct {
	m *sync.Mutex
}

// Acquire blocks until it holds the in-process lock for path.
func Acquire(path string) (*Lock, error) {
	mu.Lock()
	m, ok := locks[path]
	if !ok {
		m = &sync.Mutex{}
		locks[path] = m
	}
	mu.Unlock()

	m.Lock()
	return &Lock{m: m}, nil
}

// Release unlocks. It is safe to call multiple times.
func (l *Lock) Release() {
	if l == nil || l.m == nil {
		return
	}
	l.m.Unlock()
	l.m = nil
}
