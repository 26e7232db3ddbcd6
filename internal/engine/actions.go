// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfxkit/pfxkit/internal/regedit"
	"github.com/pfxkit/pfxkit/internal/runtime"
	"github.com/pfxkit/pfxkit/internal/toolexec"
	"github.com/pfxkit/pfxkit/internal/verb"
)

// execution is the state shared by the actions of one verb.
type execution struct {
	engine *Engine
	rt     *runtime.Context
	env    verb.ProcedureEnv
}

func (x *execution) run(ctx context.Context, a verb.Action) error {
	switch a := a.(type) {
	case verb.RunInstaller:
		path, err := x.fetch(ctx, a.File)
		if err != nil {
			return err
		}
		return x.install(ctx, path, a.Args)
	case verb.RunLocalInstaller:
		if err := requireFile("installer", a.File.Path); err != nil {
			return err
		}
		return x.install(ctx, a.File.Path, a.Args)
	case verb.RunScript:
		return x.script(ctx, a.Path)
	case verb.Extract:
		path, err := x.fetch(ctx, a.File)
		if err != nil {
			return err
		}
		return x.engine.extractor.Extract(ctx, path, x.dest(a.Dest, x.rt.Prefix()))
	case verb.ExtractFiltered:
		path, err := x.fetch(ctx, a.File)
		if err != nil {
			return err
		}
		return x.engine.extractor.ExtractCab(ctx, path, x.dest(a.Dest, x.env.ScratchDir), a.Filter)
	case verb.SetDLLOverride:
		slog.Debug("setting dll override", "dll", a.DLL, "mode", string(a.Mode))
		x.rt.SetDLLOverride(a.DLL, string(a.Mode))
		return nil
	case verb.ApplyRegistryPatch:
		return x.env.Registry.Apply(ctx, a.Content)
	case verb.RunConfigTool:
		res, err := x.rt.ConfigTool(ctx, a.Args...)
		if err != nil {
			return err
		}
		if err := checkResult("winecfg", a.Args, res); err != nil {
			return err
		}
		x.waitServer(ctx)
		return nil
	case verb.RegisterFont:
		return x.env.Registry.ApplyPatch(ctx, regedit.FontRegistrationPatch(a.Name, a.File))
	case verb.CallVerb:
		// Dependencies already ran as earlier plan steps.
		return nil
	case verb.CustomProcedure:
		slog.Debug("running procedure", "procedure", a.Name)
		return a.Run(ctx, x.env)
	default:
		return fmt.Errorf("unsupported action %T", a)
	}
}

func (x *execution) fetch(ctx context.Context, f verb.RemoteFile) (string, error) {
	return x.engine.cache.Fetch(ctx, f.URL, f.Filename, f.SHA256)
}

// install launches an installer and waits for the server to go idle.
// Installers often exit non-zero on success (3010 asks for a reboot), so
// the exit code only produces a warning.
func (x *execution) install(ctx context.Context, path string, args []string) error {
	var (
		res *runtime.Result
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".msi") {
		res, err = x.rt.InstallMSI(ctx, path, args...)
	} else {
		res, err = x.rt.RunExecutable(ctx, path, args...)
	}
	if err != nil {
		return err
	}
	if !res.Success() {
		slog.Warn("installer exited with non-zero status", "installer", filepath.Base(path), "exit_code", int(res.ExitCode))
	}
	x.waitServer(ctx)
	return nil
}

// waitServer lets registry writes of the last launch settle before the
// next action runs.
func (x *execution) waitServer(ctx context.Context) {
	if err := x.rt.Server().Wait(ctx); err != nil {
		slog.Debug("waiting for wineserver failed", "error", err)
	}
}

func (x *execution) script(ctx context.Context, path string) error {
	if err := requireFile("script", path); err != nil {
		return err
	}
	env := x.rt.ScriptEnv(x.env.ScratchDir, x.engine.cache.Dir())
	res, err := x.engine.scripts.RunScript(ctx, path, env)
	if err != nil {
		return err
	}
	return checkResult(path, nil, res)
}

// dest resolves an extraction destination: empty is fallback, relative
// paths are inside the prefix.
func (x *execution) dest(d, fallback string) string {
	switch {
	case d == "":
		return fallback
	case filepath.IsAbs(d):
		return d
	default:
		return filepath.Join(x.rt.Prefix(), filepath.FromSlash(d))
	}
}

func requireFile(kind, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &MissingFileError{Kind: kind, Path: path}
		}
		return fmt.Errorf("stat %s: %w", kind, err)
	}
	return nil
}

func checkResult(command string, args []string, res *runtime.Result) error {
	if res.Success() {
		return nil
	}
	return &toolexec.ExitError{
		Command:  command,
		Args:     args,
		ExitCode: res.ExitCode,
		Stderr:   strings.TrimSpace(res.Stderr),
	}
}
