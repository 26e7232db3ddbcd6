// SPDX-License-Identifier: MPL-2.0

// Package extract unpacks archives and Windows cabinets with host tools.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfxkit/pfxkit/internal/toolexec"
)

// ErrUnsupportedFormat is returned for archives whose extension has no
// known extraction tool.
var ErrUnsupportedFormat = errors.New("unsupported archive format")

type (
	// Extractor runs external extraction tools.
	Extractor struct {
		runner   toolexec.Runner
		lookPath toolexec.LookPathFunc
	}

	// UnsupportedFormatError names the archive that could not be handled.
	UnsupportedFormatError struct {
		Archive string
		Ext     string
	}

	// invocation builds the argument list of one tool for an archive.
	invocation struct {
		tool string
		args func(archive, dest string) []string
	}
)

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("cannot extract %s: no file extension", filepath.Base(e.Archive))
	}
	return fmt.Sprintf("cannot extract %s: unsupported extension %q", filepath.Base(e.Archive), e.Ext)
}

// Unwrap returns ErrUnsupportedFormat for errors.Is() compatibility.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

var (
	unzip = invocation{tool: "unzip", args: func(a, d string) []string {
		return []string{"-o", "-q", a, "-d", d}
	}}
	sevenZip = invocation{tool: "7z", args: func(a, d string) []string {
		return []string{"x", "-y", "-o" + d, a}
	}}
	tarball = invocation{tool: "tar", args: func(a, d string) []string {
		return []string{"-xf", a, "-C", d}
	}}
	cabinet = invocation{tool: "cabextract", args: func(a, d string) []string {
		return []string{"-q", "-d", d, a}
	}}
	msiextract = invocation{tool: "msiextract", args: func(a, d string) []string {
		return []string{"--directory", d, a}
	}}

	// toolsByExt lists the tools able to unpack each extension, most
	// preferred first.
	toolsByExt = map[string][]invocation{
		".zip": {unzip, sevenZip},
		".7z":  {sevenZip},
		".tar": {tarball},
		".gz":  {tarball},
		".tgz": {tarball},
		".bz2": {tarball},
		".xz":  {tarball},
		".zst": {tarball},
		".exe": {sevenZip, cabinet},
		".cab": {cabinet},
		".msi": {msiextract, sevenZip},
	}
)

// New returns an Extractor. A nil lookPath uses the host PATH.
func New(runner toolexec.Runner, lookPath toolexec.LookPathFunc) *Extractor {
	if runner == nil {
		runner = toolexec.CmdRunner{}
	}
	if lookPath == nil {
		lookPath = toolexec.DefaultLookPath
	}
	return &Extractor{runner: runner, lookPath: lookPath}
}

// Extract unpacks the whole archive into dest, creating dest if needed.
// The tool is chosen by the archive's extension.
func (e *Extractor) Extract(ctx context.Context, archive, dest string) error {
	ext := strings.ToLower(filepath.Ext(archive))
	candidates, ok := toolsByExt[ext]
	if !ok {
		return &UnsupportedFormatError{Archive: archive, Ext: ext}
	}

	chain := toolexec.Chain{Purpose: "extracting " + ext + " archives"}
	for _, inv := range candidates {
		chain.Tools = append(chain.Tools, inv.tool)
	}

	for _, inv := range candidates {
		path, err := e.lookPath(inv.tool)
		if err != nil {
			continue
		}
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return fmt.Errorf("create extraction directory: %w", err)
		}
		return e.run(ctx, inv.tool, path, inv.args(archive, dest))
	}
	return chain.Unavailable()
}

// ExtractCab unpacks a cabinet into dest. A non-empty filter restricts
// extraction to members matching the cabextract wildcard pattern.
func (e *Extractor) ExtractCab(ctx context.Context, archive, dest, filter string) error {
	tool, err := toolexec.CabinetChain.First(e.lookPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create extraction directory: %w", err)
	}

	args := []string{"-q", "-d", dest}
	if filter != "" {
		args = append(args, "-F", filter)
	}
	args = append(args, archive)
	return e.run(ctx, tool.Name, tool.Path, args)
}

func (e *Extractor) run(ctx context.Context, name, path string, args []string) error {
	slog.Debug("extracting", "tool", name, "args", args)
	res, err := e.runner.Run(ctx, path, args, toolexec.RunOptions{})
	if err != nil {
		return err
	}
	return toolexec.CheckExit(name, args, res)
}
