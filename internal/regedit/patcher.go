// SPDX-License-Identifier: MPL-2.0

package regedit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pfxkit/pfxkit/internal/runtime"
	"github.com/pfxkit/pfxkit/internal/toolexec"
)

// ErrImportFailed is the sentinel error wrapped by ImportError.
var ErrImportFailed = errors.New("registry import failed")

type (
	// Importer imports a patch file into a prefix. *runtime.Context
	// satisfies it through regedit /S.
	Importer interface {
		ImportRegistry(ctx context.Context, path string) (*runtime.Result, error)
	}

	// Patcher applies patch documents through an Importer.
	Patcher struct {
		Importer Importer
		// TempDir holds the temporary patch files. Empty uses os.TempDir().
		TempDir string
	}

	// ImportError reports an import tool that exited unsuccessfully.
	ImportError struct {
		Path     string
		ExitCode toolexec.ExitCode
		Stderr   string
	}
)

// Error implements the error interface.
func (e *ImportError) Error() string {
	msg := fmt.Sprintf("importing %s failed with exit code %s", e.Path, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap returns ErrImportFailed for errors.Is() compatibility.
func (e *ImportError) Unwrap() error { return ErrImportFailed }

// Apply writes content to a uniquely named temporary file, imports it and
// removes the file whether or not the import succeeded.
func (p *Patcher) Apply(ctx context.Context, content string) error {
	f, err := os.CreateTemp(p.TempDir, "pfxkit-*.reg")
	if err != nil {
		return fmt.Errorf("create registry patch file: %w", err)
	}
	path := f.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil {
			slog.Debug("remove registry patch file failed", "path", path, "error", rmErr)
		}
	}()

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("write registry patch file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write registry patch file: %w", err)
	}
	return p.ApplyFile(ctx, path)
}

// ApplyPatch renders and applies a Patch.
func (p *Patcher) ApplyPatch(ctx context.Context, patch *Patch) error {
	return p.Apply(ctx, patch.String())
}

// ApplyFile imports an existing patch file.
func (p *Patcher) ApplyFile(ctx context.Context, path string) error {
	res, err := p.Importer.ImportRegistry(ctx, path)
	if err != nil {
		return fmt.Errorf("import registry patch: %w", err)
	}
	if !res.Success() {
		return &ImportError{Path: path, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return nil
}
