// SPDX-License-Identifier: MPL-2.0

package regedit

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FontKeys are the key suffixes whose absolute-path values are removed
// from registry exports. They point at fonts on the machine that built the
// template prefix.
var FontKeys = []string{
	`Software\Microsoft\Windows\CurrentVersion\Fonts`,
	`Software\Microsoft\Windows NT\CurrentVersion\Fonts`,
	`Software\Wine\Fonts\External Fonts`,
}

// SanitizeFile rewrites the registry export at path in place, dropping
// drive-letter paths under FontKeys. It returns the number of removed lines.
func SanitizeFile(path string) (removed int, err error) {
	in, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open registry export: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat registry export: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create sanitized export: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(tmp)
	if removed, err = Sanitize(in, w); err != nil {
		return 0, err
	}
	if err = w.Flush(); err != nil {
		return 0, fmt.Errorf("write sanitized export: %w", err)
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("write sanitized export: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return 0, fmt.Errorf("write sanitized export: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return 0, fmt.Errorf("replace registry export: %w", err)
	}
	return removed, nil
}

// Sanitize copies a registry export from r to w line by line, dropping
// string values that start with a drive letter ("C:...") while inside a
// key ending in one of FontKeys. Every other line is copied verbatim.
func Sanitize(r io.Reader, w io.Writer) (removed int, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	filtering := false
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)

		if key, ok := parseKeyLine(trimmed); ok {
			filtering = isFontKey(key)
		} else if filtering {
			if value, ok := parseStringValue(trimmed); ok && isDrivePath(value) {
				removed++
				continue
			}
		}

		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return removed, fmt.Errorf("write sanitized export: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return removed, fmt.Errorf("read registry export: %w", err)
	}
	return removed, nil
}

// parseKeyLine accepts "[key]" and the export form "[key] 1700000000".
func parseKeyLine(line string) (string, bool) {
	if !strings.HasPrefix(line, "[") {
		return "", false
	}
	end := strings.LastIndexByte(line, ']')
	if end < 1 {
		return "", false
	}
	rest := strings.TrimSpace(line[end+1:])
	for _, c := range rest {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	return line[1:end], true
}

// parseStringValue extracts the raw text of a "name"="value" line.
func parseStringValue(line string) (string, bool) {
	if !strings.HasPrefix(line, `"`) {
		return "", false
	}
	nameEnd := strings.IndexByte(line[1:], '"')
	if nameEnd < 0 {
		return "", false
	}
	after := line[1+nameEnd+1:]
	eq := strings.IndexByte(after, '=')
	if eq < 0 {
		return "", false
	}
	v := strings.TrimSpace(after[eq+1:])
	if len(v) < 2 || v[0] != '"' {
		return "", false
	}
	closing := strings.LastIndexByte(v, '"')
	if closing == 0 {
		return "", false
	}
	return v[1:closing], true
}

func isFontKey(key string) bool {
	// Exported keys use doubled backslashes.
	key = strings.ToLower(strings.ReplaceAll(key, `\\`, `\`))
	for _, suffix := range FontKeys {
		if strings.HasSuffix(key, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}

func isDrivePath(v string) bool {
	if len(v) < 3 || v[1] != ':' {
		return false
	}
	c := v[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
