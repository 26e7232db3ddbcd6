// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pfxkit/pfxkit/internal/toolexec"

	"golang.org/x/exp/maps"
)

// Environment variable names set for every launch.
const (
	EnvWine          = "WINE"
	EnvWine64        = "WINE64"
	EnvWineLoader    = "WINELOADER"
	EnvWineServer    = "WINESERVER"
	EnvWinePrefix    = "WINEPREFIX"
	EnvWineArch      = "WINEARCH"
	EnvWineDLLPath   = "WINEDLLPATH"
	EnvDLLOverrides  = "WINEDLLOVERRIDES"
	dllPathSeparator = ":"
)

// libraryDirs lists the library search locations under the layout directory
// in preference order. Only the ones that exist end up in WINEDLLPATH.
var libraryDirs = []string{
	"lib64/wine/x86_64-unix",
	"lib64/wine/x86_64-windows",
	"lib64/wine/i386-unix",
	"lib64/wine/i386-windows",
	"lib/wine/x86_64-unix",
	"lib/wine/x86_64-windows",
	"lib/wine/i386-unix",
	"lib/wine/i386-windows",
	"lib/wine/dxvk",
	"lib/wine/vkd3d-proton",
	"lib/wine/vkd3d-proton/x86_64-windows",
	"lib/wine/vkd3d-proton/i386-windows",
	"lib/wine/nvapi",
	"lib/wine/nvapi/x86_64-windows",
	"lib/wine/nvapi/i386-windows",
	"lib/vkd3d/x86_64-windows",
	"lib/vkd3d/i386-windows",
}

type (
	// Context is the launch environment for one installation and prefix.
	//
	// The derived variable map is fixed at construction. DLL overrides may be
	// added at any time; they are merged into the child environment at launch
	// and never written into the derived map. A Context is safe for
	// concurrent use.
	Context struct {
		installation Installation
		prefix       string
		arch         Arch
		layoutDir    string

		wine       string
		wine64     string
		wineServer string

		env map[string]string

		mu        sync.RWMutex
		overrides map[string]string

		runner     toolexec.Runner
		starter    toolexec.Starter
		envBuilder *EnvBuilder
		observer   Observer
		stdout     io.Writer
		stderr     io.Writer
	}

	// Option configures a Context.
	Option func(*Context)
)

// WithRunner sets the process runner. When r also implements
// toolexec.Starter it is used for background processes too.
func WithRunner(r toolexec.Runner) Option {
	return func(c *Context) {
		c.runner = r
		if s, ok := r.(toolexec.Starter); ok {
			c.starter = s
		}
	}
}

// WithStarter sets the spawner used for the background server.
func WithStarter(s toolexec.Starter) Option {
	return func(c *Context) { c.starter = s }
}

// WithObserver sets the launch observer.
func WithObserver(o Observer) Option {
	return func(c *Context) { c.observer = o }
}

// WithEnviron replaces the host environment source (os.Environ by default).
func WithEnviron(environ func() []string) Option {
	return func(c *Context) { c.envBuilder = &EnvBuilder{Environ: environ} }
}

// WithOutput tees launched processes' output to the given writers while it
// is still being captured.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *Context) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// NewContext derives the launch environment for inst and prefix. It performs
// no fallible I/O: paths that do not exist are kept as computed and only
// fail once something is launched.
func NewContext(inst Installation, prefix string, arch Arch, opts ...Option) *Context {
	layout := LayoutDir(inst.Root)
	bin := filepath.Join(layout, "bin")

	c := &Context{
		installation: inst,
		prefix:       prefix,
		arch:         arch,
		layoutDir:    layout,
		wine:         filepath.Join(bin, "wine"),
		wine64:       filepath.Join(bin, "wine64"),
		wineServer:   filepath.Join(bin, "wineserver"),
		overrides:    make(map[string]string),
		runner:       toolexec.CmdRunner{},
		starter:      toolexec.CmdRunner{},
		envBuilder:   NewEnvBuilder(),
		observer:     NopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.env = map[string]string{
		EnvWine:       c.wine,
		EnvWine64:     c.wine64,
		EnvWineLoader: c.wine,
		EnvWineServer: c.wineServer,
		EnvWinePrefix: prefix,
		EnvWineArch:   arch.String(),
	}
	if dllPath := c.LibraryPath(); dllPath != "" {
		c.env[EnvWineDLLPath] = dllPath
	}

	return c
}

// Installation returns the installation the context was built from.
func (c *Context) Installation() Installation { return c.installation }

// Prefix returns the prefix directory.
func (c *Context) Prefix() string { return c.prefix }

// Arch returns the prefix CPU width.
func (c *Context) Arch() Arch { return c.arch }

// LayoutDir returns the resolved dist/ or files/ directory.
func (c *Context) LayoutDir() string { return c.layoutDir }

// Wine returns the primary loader path.
func (c *Context) Wine() string { return c.wine }

// Wine64 returns the 64-bit loader path.
func (c *Context) Wine64() string { return c.wine64 }

// WineServer returns the background server path.
func (c *Context) WineServer() string { return c.wineServer }

// Env returns a copy of the derived variable map.
func (c *Context) Env() map[string]string {
	return maps.Clone(c.env)
}

// LibraryPath returns the colon-joined library search path, limited to the
// directories that exist right now.
func (c *Context) LibraryPath() string {
	var existing []string
	for _, rel := range libraryDirs {
		dir := filepath.Join(c.layoutDir, filepath.FromSlash(rel))
		if isDir(dir) {
			existing = append(existing, dir)
		}
	}
	return strings.Join(existing, dllPathSeparator)
}

// SetDLLOverride records a load-order override for dll. Mode is free text;
// see the verb package for the usual vocabulary. An empty mode disables the
// library.
func (c *Context) SetDLLOverride(dll, mode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overrides[dll] = mode
}

// DLLOverrides returns a copy of the override table.
func (c *Context) DLLOverrides() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.overrides)
}

// OverrideString serializes the override table as name=mode pairs joined by
// semicolons, sorted by name.
func (c *Context) OverrideString() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.overrides) == 0 {
		return ""
	}
	names := maps.Keys(c.overrides)
	slices.Sort(names)
	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+c.overrides[name])
	}
	return strings.Join(pairs, ";")
}

// LaunchEnv returns the complete child environment for a runtime launch.
func (c *Context) LaunchEnv() []string {
	return EnvToSlice(c.envBuilder.Build(c.env, c.OverrideString()))
}

// Runner returns the process runner used for launches.
func (c *Context) Runner() toolexec.Runner { return c.runner }

// Prefix-relative locations.

// DriveC returns <prefix>/drive_c.
func (c *Context) DriveC() string { return filepath.Join(c.prefix, "drive_c") }

// WindowsDir returns <prefix>/drive_c/windows.
func (c *Context) WindowsDir() string { return filepath.Join(c.DriveC(), "windows") }

// System32 returns the native system directory.
func (c *Context) System32() string { return filepath.Join(c.WindowsDir(), "system32") }

// SysWOW64 returns the 32-bit system directory of a 64-bit prefix.
func (c *Context) SysWOW64() string { return filepath.Join(c.WindowsDir(), "syswow64") }

// Fonts returns the Windows fonts directory.
func (c *Context) Fonts() string { return filepath.Join(c.WindowsDir(), "Fonts") }

// ProgramFiles returns C:\Program Files.
func (c *Context) ProgramFiles() string { return filepath.Join(c.DriveC(), "Program Files") }

// ProgramFilesX86 returns C:\Program Files (x86).
func (c *Context) ProgramFilesX86() string {
	return filepath.Join(c.DriveC(), "Program Files (x86)")
}

// UsersDir returns C:\users.
func (c *Context) UsersDir() string { return filepath.Join(c.DriveC(), "users") }

// System32For returns the directory receiving DLLs of the given width:
// 32-bit libraries go to syswow64 on a 64-bit prefix, everything else goes
// to system32.
func (c *Context) System32For(bits int) string {
	if bits == 32 && c.arch == Win64 {
		return c.SysWOW64()
	}
	return c.System32()
}
