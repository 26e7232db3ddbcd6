// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfxkit/pfxkit/internal/filelock"
	"github.com/pfxkit/pfxkit/internal/toolexec"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	locksDir       = ".locks"
	partialSuffix  = ".part"
	scratchDirName = "tmp"
)

type (
	// Cache is a directory of downloaded files. It is safe for concurrent
	// use, including by several processes sharing the directory.
	Cache struct {
		dir          string
		runner       toolexec.Runner
		lookPath     toolexec.LookPathFunc
		strictVerify bool
		progress     io.Writer

		group singleflight.Group
	}

	// Option configures a Cache.
	Option func(*Cache)
)

// WithRunner sets the process runner used for download and digest tools.
func WithRunner(r toolexec.Runner) Option {
	return func(c *Cache) { c.runner = r }
}

// WithLookPath sets the executable resolver.
func WithLookPath(lookPath toolexec.LookPathFunc) Option {
	return func(c *Cache) { c.lookPath = lookPath }
}

// WithStrictVerify makes a missing digest tool an error instead of treating
// the check as satisfied.
func WithStrictVerify(strict bool) Option {
	return func(c *Cache) { c.strictVerify = strict }
}

// WithProgress forwards the download tool's progress output to w.
func WithProgress(w io.Writer) Option {
	return func(c *Cache) { c.progress = w }
}

// New creates the cache directory if needed and returns a Cache rooted there.
func New(dir string, opts ...Option) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("cache directory must not be empty")
	}
	if err := os.MkdirAll(filepath.Join(dir, locksDir), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	c := &Cache{
		dir:      dir,
		runner:   toolexec.CmdRunner{},
		lookPath: toolexec.DefaultLookPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Path returns the location a cached file has or would have.
func (c *Cache) Path(filename string) string {
	return filepath.Join(c.dir, filename)
}

// TempDir returns the directory holding per-verb scratch directories. It
// is created on demand by callers and removed by Clear.
func (c *Cache) TempDir() string { return filepath.Join(c.dir, scratchDirName) }

// IsCached reports whether filename is present, without verifying it.
func (c *Cache) IsCached(filename string) bool {
	return validFilename(filename) && fileExists(c.Path(filename))
}

// Fetch returns the path of filename in the cache, downloading it from url
// on a miss. When digest is non-empty the file must have that SHA-256
// (hex, case-insensitive): a cached file that does not match is deleted and
// downloaded once more, and a download that does not match is discarded.
func (c *Cache) Fetch(ctx context.Context, url, filename, digest string) (string, error) {
	if !validFilename(filename) {
		return "", &InvalidFilenameError{Filename: filename}
	}
	digest = strings.ToLower(strings.TrimSpace(digest))

	v, err, _ := c.group.Do(filename+"\x00"+digest, func() (any, error) {
		return c.fetch(ctx, url, filename, digest)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Cache) fetch(ctx context.Context, url, filename, digest string) (string, error) {
	lock, err := filelock.Acquire(filepath.Join(c.dir, locksDir, filename+".lock"))
	if err != nil {
		return "", err
	}
	defer lock.Release()

	path := c.Path(filename)
	if fileExists(path) {
		if digest == "" {
			slog.Debug("cache hit", "file", filename)
			return path, nil
		}
		ok, actual, err := c.verify(ctx, path, digest)
		if err != nil {
			return "", err
		}
		if ok {
			slog.Debug("cache hit (verified)", "file", filename)
			return path, nil
		}
		slog.Warn("cached file failed verification, downloading again",
			"file", filename, "expected", digest, "actual", actual)
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("remove stale cache entry: %w", err)
		}
	}

	tmp := filepath.Join(c.dir, "."+filename+"."+uuid.NewString()+partialSuffix)
	defer func() {
		if err := os.Remove(tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Debug("remove partial download failed", "path", tmp, "error", err)
		}
	}()

	if err := c.download(ctx, url, tmp); err != nil {
		return "", err
	}

	if digest != "" {
		ok, actual, err := c.verify(ctx, tmp, digest)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", &VerificationError{URL: url, Filename: filename, Expected: digest, Actual: actual}
		}
	}

	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("move download into cache: %w", err)
	}
	slog.Debug("cached download", "file", filename, "url", url)
	return path, nil
}

// Clear removes every cached file.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read cache directory: %w", err)
	}
	for _, entry := range entries {
		if entry.Name() == locksDir {
			continue
		}
		if err := os.RemoveAll(filepath.Join(c.dir, entry.Name())); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
	}
	return nil
}

// Entries lists the cached file names (excluding partial downloads and
// bookkeeping directories), sorted by name.
func (c *Cache) Entries() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("read cache directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func validFilename(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
