// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// MustMkdirAll creates path and its parents, failing the test on error.
func MustMkdirAll(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustWriteFile writes content to path, creating parent directories.
func MustWriteFile(t testing.TB, path, content string, perm os.FileMode) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// Installation lays out a runtime build under root: a loader binary in
// files/bin and a prefix template holding drive_c/windows. It returns root.
func Installation(t testing.TB, root string) string {
	t.Helper()
	MustWriteFile(t, filepath.Join(root, "files", "bin", "wine"), "#!/bin/sh\n", 0o755)
	MustMkdirAll(t, filepath.Join(root, "files", "share", "default_pfx", "drive_c", "windows"))
	return root
}
