// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfxkit/pfxkit/internal/testutil"
	"github.com/pfxkit/pfxkit/internal/toolexec"
)

func TestVerbList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{"all", []string{"verb", "list"}, []string{"corefonts", "vcrun2022", "win10"}, nil},
		{"fonts only", []string{"verb", "list", "--category", "fonts"}, []string{"corefonts"}, []string{"vcrun2022"}},
		{"search", []string{"verb", "search", "DXVK"}, []string{"dxvk"}, []string{"corefonts"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t)
			if err := h.run(tt.args...); err != nil {
				t.Fatalf("run(%v) error = %v", tt.args, err)
			}
			out := h.stdout.String()
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q", s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q", s)
				}
			}
		})
	}
}

func TestVerbInfo(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if err := h.run("verb", "info", "vcrun2019"); err != nil {
		t.Fatal(err)
	}
	out := h.stdout.String()
	for _, want := range []string{"vcrun2019", "Depends on", "vcrun2022", "Actions:", "call"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestVerbInfo_UnknownRendersGuidance(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	err := h.run("verb", "info", "corefont")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("error = %v, want ExitError code 1", err)
	}
	stderr := h.stderr.String()
	if !strings.Contains(stderr, "corefonts") {
		t.Errorf("suggestion missing:\n%s", stderr)
	}
	if !strings.Contains(stderr, "Unknown verb") {
		t.Errorf("issue guidance missing:\n%s", stderr)
	}
	if !strings.Contains(stderr, "pfxkit verb info corefonts") {
		t.Errorf("lookup hint missing:\n%s", stderr)
	}
}

func TestVerbList_UnreadableVerbsDir(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	testutil.MustWriteFile(t, filepath.Join(h.dir, "verbs"), "not a directory", 0o644)

	err := h.run("verb", "list")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("error = %v, want ExitError code 1", err)
	}
	if stderr := h.stderr.String(); !strings.Contains(stderr, "failed to load user verbs") {
		t.Errorf("context missing:\n%s", stderr)
	}
}

func TestVerbPlan(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if err := h.run("verb", "plan", "vcrun2019"); err != nil {
		t.Fatal(err)
	}
	out := h.stdout.String()
	first, second := strings.Index(out, "vcrun2022"), strings.Index(out, "vcrun2019")
	if first < 0 || second < 0 || first > second {
		t.Errorf("plan should list vcrun2022 before vcrun2019:\n%s", out)
	}
}

func TestVerbCheck(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if err := h.run("verb", "check"); err != nil {
		t.Fatalf("catalog check error = %v\n%s", err, h.stdout.String())
	}
	if !strings.Contains(h.stdout.String(), "verbs OK") {
		t.Errorf("stdout = %s", h.stdout.String())
	}

	broken := newHarness(t)
	broken.writeVerb("bad.toml", "[verb]\nname = \"bad\"\n\n[[actions]]\ntype = \"teleport\"\n")
	broken.writeVerb("loop.toml", "[verb]\nname = \"loop\"\n\n[[actions]]\ntype = \"call\"\nverb = \"ghost\"\n")
	err := broken.run("verb", "check")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want ExitError", err)
	}
	out := broken.stdout.String()
	if !strings.Contains(out, "bad.toml") || !strings.Contains(out, "ghost") {
		t.Errorf("check output:\n%s", out)
	}
}

func TestVerbRun(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	root := h.installation()
	pfx := filepath.Join(h.dir, "pfx")
	h.writeVerb("tweaks.toml", `[verb]
name = "tweaks"
category = "settings"

[[actions]]
type = "override"
dll = "d3d9"

[[actions]]
type = "registry"
content = '''
[HKEY_CURRENT_USER\Software\Wine\Direct3D]
"csmt"=dword:00000000
'''
`)

	var imported string
	h.runner.Handle("wine", func(call testutil.Call) (toolexec.Result, error) {
		if len(call.Args) == 3 && call.Args[0] == "regedit" {
			data, err := os.ReadFile(call.Args[2])
			if err != nil {
				return toolexec.Result{}, err
			}
			imported = string(data)
			if v, _ := call.EnvValue("WINEDLLOVERRIDES"); v != "d3d9=native" {
				t.Errorf("WINEDLLOVERRIDES = %q", v)
			}
		}
		return toolexec.Result{}, nil
	})

	if err := h.run("verb", "run", "tweaks", "--prefix", pfx, "--runtime", root); err != nil {
		t.Fatalf("verb run error = %v\nstderr:\n%s", err, h.stderr.String())
	}
	if !strings.Contains(imported, `"csmt"=dword:00000000`) {
		t.Errorf("patch not imported, got %q", imported)
	}
	if !strings.Contains(h.stdout.String(), "tweaks") {
		t.Errorf("stdout = %s", h.stdout.String())
	}
	if _, err := os.Stat(filepath.Join(h.dir, "logs", "pfxkit.log")); err != nil {
		t.Errorf("launch log not written: %v", err)
	}
}

func TestVerbRun_UnknownTouchesNothing(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	root := h.installation()
	pfx := filepath.Join(h.dir, "pfx")

	err := h.run("verb", "run", "win10", "nosuchverb", "--prefix", pfx, "--runtime", root)
	if err == nil {
		t.Fatal("expected error")
	}
	if n := len(h.runner.Calls()); n != 0 {
		t.Errorf("%d processes spawned, want 0", n)
	}
	if _, statErr := os.Stat(pfx); !os.IsNotExist(statErr) {
		t.Errorf("prefix directory should not be created, stat error = %v", statErr)
	}
}
