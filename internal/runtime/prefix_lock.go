// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pfxkit/pfxkit/internal/filelock"
)

// PrefixLockName is the lock file created in a prefix root while a session
// owns the prefix.
const PrefixLockName = ".pfxkit.lock"

// LockPrefix blocks until the calling process exclusively owns dir.
// Release the returned lock when the session ends.
func LockPrefix(dir string) (*filelock.Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create prefix directory: %w", err)
	}
	return filelock.Acquire(filepath.Join(dir, PrefixLockName))
}
