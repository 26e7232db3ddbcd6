// SPDX-License-Identifier: MPL-2.0

package toolexec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

type (
	// RunOptions configures a single process invocation.
	RunOptions struct {
		// Dir is the working directory. Empty inherits the caller's.
		Dir string
		// Env is the complete child environment as KEY=VALUE pairs.
		// A nil slice inherits the host environment unchanged.
		Env []string
		// Stdout and Stderr optionally receive a live copy of the output
		// in addition to the captured buffers.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Result holds the captured output and exit code of a finished process.
	Result struct {
		Stdout   []byte
		Stderr   []byte
		ExitCode ExitCode
	}

	// Runner executes a process to completion.
	//
	// A returned error means the process could not be run (missing binary,
	// spawn failure, cancellation). A process that ran and exited non-zero
	// is not an error: the code is reported in Result.ExitCode and callers
	// decide whether it matters (see CheckExit).
	Runner interface {
		Run(ctx context.Context, command string, args []string, opts RunOptions) (Result, error)
	}

	// Process is a handle to a process started without waiting for it.
	Process interface {
		Wait() error
		Kill() error
		Pid() int
	}

	// Starter spawns a process and returns immediately.
	Starter interface {
		Start(command string, args []string, opts RunOptions) (Process, error)
	}

	// LookPathFunc resolves an executable name to a path, like exec.LookPath.
	LookPathFunc func(file string) (string, error)

	// CmdRunner runs processes with os/exec.
	CmdRunner struct{}

	cmdProcess struct {
		cmd *exec.Cmd
	}
)

var (
	_ Runner  = CmdRunner{}
	_ Starter = CmdRunner{}
)

// Run starts the command, waits for it and captures its output.
func (CmdRunner) Run(ctx context.Context, command string, args []string, opts RunOptions) (Result, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = opts.Dir
	if opts.Env != nil {
		cmd.Env = opts.Env
	}

	var stdoutBuf, stderrBuf bytes.Buffer

	stdoutWriter := io.Writer(&stdoutBuf)
	if opts.Stdout != nil {
		stdoutWriter = io.MultiWriter(&stdoutBuf, opts.Stdout)
	}
	stderrWriter := io.Writer(&stderrBuf)
	if opts.Stderr != nil {
		stderrWriter = io.MultiWriter(&stderrBuf, opts.Stderr)
	}
	cmd.Stdout = stdoutWriter
	cmd.Stderr = stderrWriter

	slog.Debug("running tool", "command", FormatCommand(command, args), "dir", opts.Dir)

	err := cmd.Run()
	res := Result{Stdout: stdoutBuf.Bytes(), Stderr: stderrBuf.Bytes()}
	code, exited := exitCodeFromError(err)
	if !exited {
		return res, fmt.Errorf("run %s: %w", command, err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
		return res, fmt.Errorf("run %s: %w", command, ctxErr)
	}
	res.ExitCode = code
	return res, nil
}

// Start spawns the command detached from any context and returns at once.
// The caller owns the returned process and must Wait on it to reap it.
func (CmdRunner) Start(command string, args []string, opts RunOptions) (Process, error) {
	cmd := exec.Command(command, args...)
	cmd.Dir = opts.Dir
	if opts.Env != nil {
		cmd.Env = opts.Env
	}
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	slog.Debug("starting tool", "command", FormatCommand(command, args))

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", command, err)
	}
	return &cmdProcess{cmd: cmd}, nil
}

func (p *cmdProcess) Wait() error { return p.cmd.Wait() }

func (p *cmdProcess) Kill() error { return p.cmd.Process.Kill() }

func (p *cmdProcess) Pid() int { return p.cmd.Process.Pid }

// FormatCommand renders a command line as shell-quoted text for logs and
// dry-run output.
func FormatCommand(command string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, word := range append([]string{command}, args...) {
		quoted, err := syntax.Quote(word, syntax.LangBash)
		if err != nil {
			quoted = fmt.Sprintf("%q", word)
		}
		parts = append(parts, quoted)
	}
	return strings.Join(parts, " ")
}
