// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"os"
	"path/filepath"
)

// Historical layout directories of a Proton build. Newer builds ship "files",
// older ones "dist".
const (
	layoutDist  = "dist"
	layoutFiles = "files"
)

// Installation describes a located runtime build.
type Installation struct {
	// Name is the display name, e.g. "Proton 9.0".
	Name string
	// AppID is the numeric store identifier; zero for standalone builds.
	AppID uint32
	// Root is the installation directory containing dist/ or files/.
	Root string
	// Ready is true once the build's binary tree exists on disk.
	Ready bool
}

// DetectInstallation inspects root and reports whether a loader binary exists.
func DetectInstallation(name, root string) Installation {
	inst := Installation{Name: name, Root: root}
	if name == "" {
		inst.Name = filepath.Base(root)
	}
	inst.Ready = isFile(filepath.Join(LayoutDir(root), "bin", "wine"))
	return inst
}

// LayoutDir returns the directory holding bin/, lib/ and share/ for the
// installation rooted at root: dist/ when it exists, otherwise files/.
func LayoutDir(root string) string {
	dist := filepath.Join(root, layoutDist)
	if isDir(dist) {
		return dist
	}
	return filepath.Join(root, layoutFiles)
}

// TemplatePrefixDir returns the location of the template prefix shipped by
// the installation (share/default_pfx).
func TemplatePrefixDir(root string) string {
	return filepath.Join(LayoutDir(root), "share", "default_pfx")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
