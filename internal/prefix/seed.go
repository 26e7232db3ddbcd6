// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
)

const dosDevicesDir = "dosdevices"

// Seed copies template into dir with symlinks replaced by the content they
// point at. Dangling links, links that loop back into a directory being
// copied, and every dosdevices directory are skipped. When template does
// not exist an empty dir is created and Seed returns false.
func Seed(dir, template string) (bool, error) {
	if template == "" || !isDir(template) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create prefix directory: %w", err)
		}
		return false, nil
	}

	resolved, err := filepath.EvalSymlinks(template)
	if err != nil {
		return false, fmt.Errorf("resolve prefix template: %w", err)
	}
	if err := copyTree(template, dir, []string{resolved}); err != nil {
		return false, fmt.Errorf("seed prefix from template: %w", err)
	}
	return true, nil
}

// copyTree copies src into dst. stack holds the resolved paths of the
// directories currently being copied.
func copyTree(src, dst string, stack []string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == dosDevicesDir {
			continue
		}
		srcPath := filepath.Join(src, name)
		dstPath := filepath.Join(dst, name)

		switch {
		case entry.Type()&os.ModeSymlink != 0:
			if err := copyLink(srcPath, dstPath, stack); err != nil {
				return err
			}
		case entry.IsDir():
			resolved, err := filepath.EvalSymlinks(srcPath)
			if err != nil {
				return err
			}
			if err := copyTree(srcPath, dstPath, append(stack, resolved)); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func copyLink(link, dst string, stack []string) error {
	target, err := os.Readlink(link)
	if err != nil {
		return err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}

	resolved, err := filepath.EvalSymlinks(target)
	if err != nil {
		slog.Debug("skipping dangling template link", "link", link, "target", target)
		return nil
	}
	info, err := os.Stat(resolved)
	if err != nil {
		slog.Debug("skipping unreadable template link", "link", link, "error", err)
		return nil
	}

	switch {
	case info.IsDir():
		if slices.Contains(stack, resolved) {
			slog.Debug("skipping looping template link", "link", link, "target", resolved)
			return nil
		}
		return copyTree(resolved, dst, append(stack, resolved))
	case info.Mode().IsRegular():
		return copyFile(resolved, dst)
	default:
		return nil
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
