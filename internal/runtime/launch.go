// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pfxkit/pfxkit/internal/toolexec"
)

type (
	cwdMode int

	// CwdPolicy selects the working directory of a launch.
	CwdPolicy struct {
		mode cwdMode
		dir  string
	}
)

const (
	cwdAuto cwdMode = iota
	cwdNone
	cwdExplicit
)

// CwdAuto changes into the parent directory of the first argument when it
// looks like a filesystem path and that directory exists, so running an
// executable behaves like double-clicking it.
func CwdAuto() CwdPolicy { return CwdPolicy{mode: cwdAuto} }

// CwdNone inherits the caller's working directory.
func CwdNone() CwdPolicy { return CwdPolicy{mode: cwdNone} }

// CwdExplicit runs in dir.
func CwdExplicit(dir string) CwdPolicy { return CwdPolicy{mode: cwdExplicit, dir: dir} }

// resolve returns the directory to run in for args; empty means inherit.
func (p CwdPolicy) resolve(args []string) string {
	switch p.mode {
	case cwdExplicit:
		return p.dir
	case cwdNone:
		return ""
	}
	if len(args) == 0 {
		return ""
	}
	first := args[0]
	if !filepath.IsAbs(first) && !strings.ContainsAny(first, `/\`) {
		return ""
	}
	parent := filepath.Dir(first)
	if isDir(parent) {
		return parent
	}
	return ""
}

// Run launches the primary loader with args and blocks until it exits.
// Spawn failures are returned as errors; a non-zero exit is reported in the
// Result only.
func (c *Context) Run(ctx context.Context, args []string, cwd CwdPolicy) (*Result, error) {
	opts := toolexec.RunOptions{
		Dir:    cwd.resolve(args),
		Env:    c.LaunchEnv(),
		Stdout: c.stdout,
		Stderr: c.stderr,
	}

	res, err := c.runner.Run(ctx, c.wine, args, opts)
	executable := "wine"
	if len(args) > 0 {
		executable = args[0]
	}
	if err != nil {
		return nil, fmt.Errorf("launch %s: %w", executable, err)
	}

	result := &Result{
		Executable: executable,
		ExitCode:   res.ExitCode,
		Stdout:     string(res.Stdout),
		Stderr:     string(res.Stderr),
	}
	c.observer.ObserveLaunch(executable, result.Stdout, result.Stderr, int(result.ExitCode))
	return result, nil
}

// FirstBoot initializes the prefix (wineboot --init).
func (c *Context) FirstBoot(ctx context.Context) (*Result, error) {
	return c.Run(ctx, []string{"wineboot", "--init"}, CwdNone())
}

// UpdatePrefix refreshes an existing prefix (wineboot --update).
func (c *Context) UpdatePrefix(ctx context.Context) (*Result, error) {
	return c.Run(ctx, []string{"wineboot", "--update"}, CwdNone())
}

// ImportRegistry imports a .reg file silently.
func (c *Context) ImportRegistry(ctx context.Context, path string) (*Result, error) {
	return c.Run(ctx, []string{"regedit", "/S", path}, CwdAuto())
}

// ConfigTool runs winecfg with args.
func (c *Context) ConfigTool(ctx context.Context, args ...string) (*Result, error) {
	return c.Run(ctx, append([]string{"winecfg"}, args...), CwdAuto())
}

// RegisterServer registers a COM server DLL silently.
func (c *Context) RegisterServer(ctx context.Context, dll string) (*Result, error) {
	return c.Run(ctx, []string{"regsvr32", "/s", dll}, CwdAuto())
}

// InstallMSI installs a Windows Installer package.
func (c *Context) InstallMSI(ctx context.Context, path string, args ...string) (*Result, error) {
	return c.Run(ctx, append([]string{"msiexec", "/i", path}, args...), CwdAuto())
}

// RunExecutable runs a Windows executable from its own directory.
func (c *Context) RunExecutable(ctx context.Context, path string, args ...string) (*Result, error) {
	return c.Run(ctx, append([]string{path}, args...), CwdAuto())
}
