// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pfxkit/pfxkit/internal/regedit"
	"github.com/pfxkit/pfxkit/internal/runtime"
)

// RegistryExports are the files the runtime writes the registry to,
// relative to the prefix root.
var RegistryExports = []string{"user.reg", "system.reg"}

type (
	// Options configures Init.
	Options struct {
		// Dir is the prefix to create.
		Dir string
		// TemplateDir is copied into Dir when it exists.
		TemplateDir string
		// FirstBoot runs the runtime's first-boot step. It requires Runtime.
		FirstBoot bool
		Runtime   *runtime.Context
	}

	// Report summarizes a finished initialization.
	Report struct {
		// Seeded is true when the prefix was copied from a template.
		Seeded bool
		// Booted is true when first boot ran and exited successfully.
		Booted bool
		// Sanitized counts the registry lines removed per export file.
		Sanitized map[string]int
		// Warnings lists the non-fatal problems encountered.
		Warnings []string
	}
)

func (r *Report) warn(msg string, args ...any) {
	slog.Warn(msg, args...)
	text := msg
	for i := 0; i+1 < len(args); i += 2 {
		text += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	r.Warnings = append(r.Warnings, text)
}

// Init creates a prefix: seed from the template, map drives, optionally
// boot the runtime once, then strip build-machine font paths from the
// registry exports. Seeding and drive mapping errors are fatal; the rest
// are recorded as warnings.
func Init(ctx context.Context, opts Options) (*Report, error) {
	if opts.Dir == "" {
		return nil, errors.New("prefix directory must not be empty")
	}
	report := &Report{Sanitized: make(map[string]int)}

	seeded, err := Seed(opts.Dir, opts.TemplateDir)
	if err != nil {
		return nil, err
	}
	report.Seeded = seeded

	if err := MapDrives(opts.Dir); err != nil {
		return nil, err
	}

	if opts.FirstBoot {
		if opts.Runtime == nil {
			report.warn("first boot requested without a runtime, skipping")
		} else {
			report.Booted = firstBoot(ctx, opts.Runtime, report)
		}
	}

	for _, name := range RegistryExports {
		path := filepath.Join(opts.Dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		removed, err := regedit.SanitizeFile(path)
		if err != nil {
			report.warn("registry sanitization failed", "file", name, "error", err)
			continue
		}
		report.Sanitized[name] = removed
		if removed > 0 {
			slog.Debug("removed build-machine font paths", "file", name, "lines", removed)
		}
	}

	return report, nil
}

func firstBoot(ctx context.Context, rt *runtime.Context, report *Report) bool {
	ok := false
	res, err := rt.FirstBoot(ctx)
	switch {
	case err != nil:
		report.warn("first boot failed to start", "error", err)
	case !res.Success():
		report.warn("first boot exited with non-zero status", "exit_code", res.ExitCode)
	default:
		ok = true
	}

	if err := rt.Server().Wait(ctx); err != nil {
		report.warn("waiting for the runtime server failed", "error", err)
	}
	return ok
}

// IsInitialized reports whether dir looks like a prefix that has been set up.
func IsInitialized(dir string) bool {
	for _, name := range []string{"system.reg", "drive_c"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
