// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pfxkit/pfxkit/internal/testutil"
)

// lockedBuffer is safe for the concurrent writes of the process-wide slog
// default, which parallel tests replace under each other.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type harness struct {
	t      *testing.T
	dir    string
	app    *App
	runner *testutil.FakeRunner
	stdout *lockedBuffer
	stderr *lockedBuffer
}

// newHarness builds an App whose configuration, cache, verbs and logs live
// in a temp dir and whose processes go to a fake runner.
func newHarness(t *testing.T) *harness {
	t.Helper()

	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "config")
	cfg := "cache_dir: " + quoted(filepath.Join(dir, "cache")) + "\n" +
		"verbs_dir: " + quoted(filepath.Join(dir, "verbs")) + "\n" +
		"log_dir: " + quoted(filepath.Join(dir, "logs")) + "\n"
	testutil.MustWriteFile(t, filepath.Join(cfgDir, "config.cue"), cfg, 0o644)

	h := &harness{
		t:      t,
		dir:    dir,
		runner: testutil.NewFakeRunner(),
		stdout: &lockedBuffer{},
		stderr: &lockedBuffer{},
	}
	h.app = NewApp(Dependencies{
		Runner:    h.runner,
		LookPath:  testutil.LookPath("curl", "sha256sum", "tar", "cabextract"),
		Environ:   func() []string { return []string{"PATH=/usr/bin", "HOME=" + dir} },
		Stdout:    h.stdout,
		Stderr:    h.stderr,
		ConfigDir: cfgDir,
	})
	return h
}

func quoted(s string) string {
	return `"` + s + `"`
}

func (h *harness) run(args ...string) error {
	h.t.Helper()
	root := newRootCommand(h.app)
	root.SetArgs(args)
	return root.ExecuteContext(h.t.Context())
}

func (h *harness) installation() string {
	h.t.Helper()
	return testutil.Installation(h.t, filepath.Join(h.dir, "proton"))
}

func (h *harness) writeVerb(name, content string) {
	h.t.Helper()
	testutil.MustWriteFile(h.t, filepath.Join(h.dir, "verbs", name), content, 0o644)
}
