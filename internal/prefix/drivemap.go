// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package prefix

import (
	"fmt"
	"os"
	"path/filepath"
)

// driveLinks maps drive entries in dosdevices to their link targets.
var driveLinks = []struct{ name, target string }{
	{"c:", "../drive_c"},
	{"z:", "/"},
}

// MapDrives creates dosdevices with the c: and z: drive links. Existing
// entries, including dangling links, are left alone.
func MapDrives(dir string) error {
	devices := filepath.Join(dir, dosDevicesDir)
	if err := os.MkdirAll(devices, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dosDevicesDir, err)
	}
	for _, link := range driveLinks {
		path := filepath.Join(devices, link.name)
		if _, err := os.Lstat(path); err == nil {
			continue
		}
		if err := os.Symlink(link.target, path); err != nil {
			return fmt.Errorf("map drive %s: %w", link.name, err)
		}
	}
	return nil
}
