// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pfxkit/pfxkit/internal/toolexec"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Variables exported to verb scripts in addition to the launch environment.
const (
	EnvProtonPath    = "PROTON_PATH"
	EnvScratchDir    = "W_TMP"
	EnvCacheDir      = "W_CACHE"
	EnvSystem32DLLs  = "W_SYSTEM32_DLLS"
	EnvSystem64DLLs  = "W_SYSTEM64_DLLS"
	defaultShellName = "bash"
)

type (
	// ScriptRunner executes a verb script file with an injected environment.
	ScriptRunner interface {
		RunScript(ctx context.Context, path string, env []string) (*Result, error)
	}

	// NativeScriptRunner runs scripts with a host shell.
	NativeScriptRunner struct {
		// Shell is the interpreter; "bash" when empty.
		Shell  string
		Runner toolexec.Runner
		Stdout io.Writer
		Stderr io.Writer
	}

	// VirtualScriptRunner interprets scripts in-process with mvdan/sh.
	// External commands invoked by the script still run on the host.
	VirtualScriptRunner struct {
		Stdout io.Writer
		Stderr io.Writer
	}
)

var (
	_ ScriptRunner = (*NativeScriptRunner)(nil)
	_ ScriptRunner = (*VirtualScriptRunner)(nil)
)

// ScriptEnv returns the environment for a verb script: the launch
// environment plus the installation path, the verb scratch directory, the
// download cache and both system DLL directories.
func (c *Context) ScriptEnv(scratchDir, cacheDir string) []string {
	env := c.envBuilder.Build(c.env, c.OverrideString())
	env[EnvProtonPath] = c.installation.Root
	env[EnvScratchDir] = scratchDir
	env[EnvCacheDir] = cacheDir
	env[EnvSystem32DLLs] = c.System32()
	env[EnvSystem64DLLs] = c.SysWOW64()
	return EnvToSlice(env)
}

// RunScript runs path with the configured shell.
func (r *NativeScriptRunner) RunScript(ctx context.Context, path string, env []string) (*Result, error) {
	shell := r.Shell
	if shell == "" {
		shell = defaultShellName
	}
	runner := r.Runner
	if runner == nil {
		runner = toolexec.CmdRunner{}
	}

	res, err := runner.Run(ctx, shell, []string{path}, toolexec.RunOptions{
		Dir:    filepath.Dir(path),
		Env:    env,
		Stdout: r.Stdout,
		Stderr: r.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("run script %s: %w", path, err)
	}
	return &Result{
		Executable: path,
		ExitCode:   res.ExitCode,
		Stdout:     string(res.Stdout),
		Stderr:     string(res.Stderr),
	}, nil
}

// RunScript parses and interprets path.
func (r *VirtualScriptRunner) RunScript(ctx context.Context, path string, env []string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	prog, err := syntax.NewParser().Parse(f, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}

	var stdout, stderr bytes.Buffer
	stdoutWriter := io.Writer(&stdout)
	if r.Stdout != nil {
		stdoutWriter = io.MultiWriter(&stdout, r.Stdout)
	}
	stderrWriter := io.Writer(&stderr)
	if r.Stderr != nil {
		stderrWriter = io.MultiWriter(&stderr, r.Stderr)
	}

	runner, err := interp.New(
		interp.Dir(filepath.Dir(path)),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, stdoutWriter, stderrWriter),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create interpreter: %w", err)
	}

	result := &Result{Executable: path}
	err = runner.Run(ctx, prog)
	if err != nil {
		var exitStatus interp.ExitStatus
		if !errors.As(err, &exitStatus) {
			return nil, fmt.Errorf("script execution failed: %w", err)
		}
		result.ExitCode = toolexec.ExitCode(exitStatus)
	}
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	return result, nil
}
