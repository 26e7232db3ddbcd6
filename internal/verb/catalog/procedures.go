// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfxkit/pfxkit/internal/runtime"
	"github.com/pfxkit/pfxkit/internal/toolexec"
	"github.com/pfxkit/pfxkit/internal/verb"
)

// homeFolders are the per-user folders the runtime links to the host home.
var homeFolders = []string{
	"Desktop", "Downloads", "My Documents", "My Music", "My Pictures", "My Videos",
}

// errNoCabinets is returned when a redistributable carries no cabinet for
// the requested component.
var errNoCabinets = errors.New("no matching cabinets in redistributable")

type (
	// archiveDLLs copies DLLs from an archive with per-width directories.
	archiveDLLs struct {
		File verb.RemoteFile
		// Root is the top-level directory inside the archive, if any.
		Root  string
		Dir32 string
		Dir64 string
		DLLs  []string
	}

	// redistCabs installs the DLLs of one component of the DirectX
	// redistributable. The redistributable is a cabinet of cabinets.
	redistCabs struct {
		File  verb.RemoteFile
		Match string
		// Register lists COM servers to register once the DLLs are in place.
		Register []string
	}

	// zippedInstaller runs an installer shipped inside an archive.
	zippedInstaller struct {
		File       verb.RemoteFile
		Executable string
		Args       []string
	}
)

func fetch(ctx context.Context, env verb.ProcedureEnv, f verb.RemoteFile) (string, error) {
	return env.Cache.Fetch(ctx, f.URL, f.Filename, f.SHA256)
}

func (a archiveDLLs) install(ctx context.Context, env verb.ProcedureEnv) error {
	archive, err := fetch(ctx, env, a.File)
	if err != nil {
		return err
	}
	unpacked := filepath.Join(env.ScratchDir, "unpacked")
	if err := env.Extractor.Extract(ctx, archive, unpacked); err != nil {
		return err
	}
	base := filepath.Join(unpacked, a.Root)

	rt := env.Runtime
	if rt.Arch() == runtime.Win64 {
		if err := copyDLLs(filepath.Join(base, a.Dir64), rt.System32For(64), a.DLLs); err != nil {
			return err
		}
	}
	return copyDLLs(filepath.Join(base, a.Dir32), rt.System32For(32), a.DLLs)
}

func (r redistCabs) install(ctx context.Context, env verb.ProcedureEnv) error {
	redist, err := fetch(ctx, env, r.File)
	if err != nil {
		return err
	}
	cabs := filepath.Join(env.ScratchDir, "cabs")
	if err := env.Extractor.ExtractCab(ctx, redist, cabs, "*"+r.Match+"*"); err != nil {
		return err
	}
	entries, err := os.ReadDir(cabs)
	if err != nil {
		return fmt.Errorf("read %s: %w", cabs, err)
	}

	rt := env.Runtime
	installed := 0
	for _, e := range entries {
		name := strings.ToLower(e.Name())
		if e.IsDir() || !strings.HasSuffix(name, ".cab") || !strings.Contains(name, strings.ToLower(r.Match)) {
			continue
		}
		dest := rt.System32For(32)
		if strings.Contains(name, "_x64") {
			// 64-bit members have nowhere to go in a 32-bit prefix.
			if rt.Arch() != runtime.Win64 {
				continue
			}
			dest = rt.System32For(64)
		}
		if err := env.Extractor.ExtractCab(ctx, filepath.Join(cabs, e.Name()), dest, "*.dll"); err != nil {
			return err
		}
		installed++
	}
	if installed == 0 {
		return fmt.Errorf("%s: %w", r.Match, errNoCabinets)
	}
	for _, dll := range r.Register {
		res, err := rt.RegisterServer(ctx, dll)
		if err != nil {
			return err
		}
		if !res.Success() {
			slog.Warn("COM server registration failed", "dll", dll, "exit_code", int(res.ExitCode))
		}
	}
	return nil
}

func (z zippedInstaller) install(ctx context.Context, env verb.ProcedureEnv) error {
	archive, err := fetch(ctx, env, z.File)
	if err != nil {
		return err
	}
	unpacked := filepath.Join(env.ScratchDir, "unpacked")
	if err := env.Extractor.Extract(ctx, archive, unpacked); err != nil {
		return err
	}
	exe := filepath.Join(unpacked, z.Executable)
	res, err := env.Runtime.RunExecutable(ctx, exe, z.Args...)
	if err != nil {
		return err
	}
	if !res.Success() {
		return fmt.Errorf("%s exited with code %d: %w", z.Executable, res.ExitCode, toolexec.ErrNonZeroExit)
	}
	return nil
}

// isolateHome replaces the per-user folder links into the host home with
// plain directories. Folders that are already directories are left alone.
func isolateHome(_ context.Context, env verb.ProcedureEnv) error {
	users, err := os.ReadDir(env.Runtime.UsersDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read users: %w", err)
	}
	for _, u := range users {
		if !u.IsDir() {
			continue
		}
		for _, folder := range homeFolders {
			path := filepath.Join(env.Runtime.UsersDir(), u.Name(), folder)
			info, err := os.Lstat(path)
			if err != nil || info.Mode()&os.ModeSymlink == 0 {
				continue
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("unlink %s: %w", path, err)
			}
			if err := os.Mkdir(path, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
		}
	}
	return nil
}

func copyDLLs(srcDir, destDir string, names []string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", destDir, err)
	}
	for _, name := range names {
		if err := copyFile(filepath.Join(srcDir, name), filepath.Join(destDir, name)); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}
