// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pfxkit/pfxkit/internal/toolexec"
)

type (
	// Call records one process invocation seen by a FakeRunner.
	Call struct {
		Command string
		Args    []string
		Dir     string
		Env     []string
		// Background is true for processes spawned through Start.
		Background bool
	}

	// Handler fakes the behavior of one tool.
	Handler func(call Call) (toolexec.Result, error)

	// FakeRunner implements toolexec.Runner and toolexec.Starter without
	// spawning processes. Handlers are keyed by the base name of the command,
	// so "/opt/proton/dist/bin/wine" is handled by the "wine" handler.
	// Commands without a handler succeed with empty output.
	FakeRunner struct {
		mu       sync.Mutex
		handlers map[string]Handler
		calls    []Call
	}

	fakeProcess struct {
		pid int
	}
)

var (
	_ toolexec.Runner  = (*FakeRunner)(nil)
	_ toolexec.Starter = (*FakeRunner)(nil)
)

// NewFakeRunner creates a FakeRunner with no handlers.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{handlers: make(map[string]Handler)}
}

// Handle registers h for commands whose base name is name.
func (f *FakeRunner) Handle(name string, h Handler) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[name] = h
	return f
}

// Run records the call and dispatches it to the matching handler.
func (f *FakeRunner) Run(ctx context.Context, command string, args []string, opts toolexec.RunOptions) (toolexec.Result, error) {
	if err := ctx.Err(); err != nil {
		return toolexec.Result{}, err
	}
	call := Call{Command: command, Args: slices.Clone(args), Dir: opts.Dir, Env: slices.Clone(opts.Env)}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	h := f.handlers[filepath.Base(command)]
	f.mu.Unlock()

	if h == nil {
		return toolexec.Result{}, nil
	}
	res, err := h(call)
	if opts.Stdout != nil && len(res.Stdout) > 0 {
		_, _ = opts.Stdout.Write(res.Stdout)
	}
	if opts.Stderr != nil && len(res.Stderr) > 0 {
		_, _ = opts.Stderr.Write(res.Stderr)
	}
	return res, err
}

// Start records a background call. The handler, if any, runs synchronously.
func (f *FakeRunner) Start(command string, args []string, opts toolexec.RunOptions) (toolexec.Process, error) {
	call := Call{Command: command, Args: slices.Clone(args), Dir: opts.Dir, Env: slices.Clone(opts.Env), Background: true}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	h := f.handlers[filepath.Base(command)]
	pid := len(f.calls) + 1000
	f.mu.Unlock()

	if h != nil {
		if _, err := h(call); err != nil {
			return nil, err
		}
	}
	return &fakeProcess{pid: pid}, nil
}

// Calls returns a copy of every recorded call.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// CallsTo returns the recorded calls whose command base name is name.
func (f *FakeRunner) CallsTo(name string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if filepath.Base(c.Command) == name {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many times a command with base name name was invoked.
func (f *FakeRunner) Count(name string) int {
	return len(f.CallsTo(name))
}

// EnvValue returns the value of key in the call's environment.
func (c Call) EnvValue(key string) (string, bool) {
	for _, kv := range slices.Backward(c.Env) {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v, true
		}
	}
	return "", false
}

// ArgsString joins the call arguments with spaces.
func (c Call) ArgsString() string {
	return strings.Join(c.Args, " ")
}

func (p *fakeProcess) Wait() error { return nil }
func (p *fakeProcess) Kill() error { return nil }
func (p *fakeProcess) Pid() int    { return p.pid }

// LookPath returns a LookPathFunc that resolves only the named tools,
// each to /usr/bin/<name>.
func LookPath(installed ...string) toolexec.LookPathFunc {
	return func(file string) (string, error) {
		if slices.Contains(installed, file) {
			return "/usr/bin/" + file, nil
		}
		return "", &os.PathError{Op: "lookpath", Path: file, Err: os.ErrNotExist}
	}
}

// ExitWith returns a handler that always exits with code.
func ExitWith(code int) Handler {
	return func(Call) (toolexec.Result, error) {
		return toolexec.Result{ExitCode: toolexec.ExitCode(code)}, nil
	}
}
