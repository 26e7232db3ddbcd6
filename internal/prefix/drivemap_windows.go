// SPDX-License-Identifier: MPL-2.0

//go:build windows

package prefix

import (
	"fmt"
	"os"
	"path/filepath"
)

// MapDrives creates the dosdevices directory. Drive links are left to the
// runtime's first boot.
func MapDrives(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, dosDevicesDir), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dosDevicesDir, err)
	}
	return nil
}
