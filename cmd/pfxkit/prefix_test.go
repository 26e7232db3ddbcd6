// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pfxkit/pfxkit/internal/prefix"
	"github.com/pfxkit/pfxkit/internal/runtime"
	"github.com/pfxkit/pfxkit/internal/testutil"
	"github.com/pfxkit/pfxkit/internal/toolexec"
)

func TestPrefixCreate(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	root := h.installation()
	pfx := filepath.Join(h.dir, "pfx")

	if err := h.run("prefix", "create", "--runtime", root, "--prefix", pfx, "--arch", "win32"); err != nil {
		t.Fatalf("prefix create error = %v\n%s", err, h.stderr.String())
	}

	if _, err := os.Stat(filepath.Join(pfx, "drive_c", "windows")); err != nil {
		t.Errorf("template not seeded: %v", err)
	}
	meta, err := prefix.ReadMetadata(pfx)
	if err != nil {
		t.Fatal(err)
	}
	if meta.ProtonPath != root || meta.Arch != runtime.Win32 || meta.Created.IsZero() {
		t.Errorf("metadata = %+v", meta)
	}

	boots := 0
	for _, c := range h.runner.CallsTo("wine") {
		if c.ArgsString() == "wineboot --init" {
			boots++
			if v, _ := c.EnvValue(runtime.EnvWineArch); v != "win32" {
				t.Errorf("WINEARCH = %q", v)
			}
		}
	}
	if boots != 1 {
		t.Errorf("wineboot --init ran %d times, want 1", boots)
	}
	if h.runner.Count("wineserver") != 1 {
		t.Errorf("wineserver -w not waited on")
	}

	// A second create must not touch the existing prefix.
	again := newHarness(t)
	again.app.configDir = h.app.configDir
	err = again.run("prefix", "create", "--runtime", root, "--prefix", pfx)
	if err == nil || !strings.Contains(again.stderr.String(), "already initialized") {
		t.Errorf("second create error = %v, stderr = %s", err, again.stderr.String())
	}
}

func TestPrefixCreate_NoBoot(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	root := h.installation()
	if err := h.run("prefix", "create", "--runtime", root, "--prefix", filepath.Join(h.dir, "pfx"), "--no-boot"); err != nil {
		t.Fatal(err)
	}
	if n := len(h.runner.Calls()); n != 0 {
		t.Errorf("%d processes spawned, want 0", n)
	}
}

func TestPrefixCommands_UseRecordedRuntime(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	root := h.installation()
	pfx := filepath.Join(h.dir, "pfx")
	if err := os.MkdirAll(pfx, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := prefix.WriteMetadata(pfx, prefix.Metadata{ProtonName: "Proton 9.0", ProtonPath: root, Arch: runtime.Win64}); err != nil {
		t.Fatal(err)
	}

	h.runner.Handle("wine", func(call testutil.Call) (toolexec.Result, error) {
		if len(call.Args) > 0 && filepath.Base(call.Args[0]) == "game.exe" {
			return toolexec.Result{ExitCode: 7}, nil
		}
		return toolexec.Result{}, nil
	})

	game := filepath.Join(h.dir, "Games", "game.exe")
	err := h.run("prefix", "run", "--prefix", pfx, game, "-windowed")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 7 {
		t.Fatalf("prefix run error = %v, want exit code 7", err)
	}
	calls := h.runner.CallsTo("wine")
	if len(calls) != 1 || calls[0].ArgsString() != game+" -windowed" {
		t.Fatalf("wine calls = %+v", calls)
	}
	if !strings.HasPrefix(calls[0].Command, root) {
		t.Errorf("loader %q not from the recorded runtime", calls[0].Command)
	}
}

func TestPrefixRun_NoRuntime(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	err := h.run("prefix", "run", "--prefix", filepath.Join(h.dir, "pfx"), "setup.exe")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrInstallationNotFound) {
		t.Errorf("error = %v, want ErrInstallationNotFound", err)
	}
	if !strings.Contains(h.stderr.String(), "Runtime installation not usable") {
		t.Errorf("guidance missing:\n%s", h.stderr.String())
	}
}

func TestPrefixRegistryCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"winver", []string{"prefix", "winver", "win7"}, `"ProductName"="Microsoft Windows 7"`, false},
		{"dpi", []string{"prefix", "dpi", "144"}, `"LogPixels"=dword:00000090`, false},
		{"bad dpi", []string{"prefix", "dpi", "huge"}, "", true},
		{"bad version", []string{"prefix", "winver", "win95ish"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			root := h.installation()
			var imported string
			h.runner.Handle("wine", func(call testutil.Call) (toolexec.Result, error) {
				if len(call.Args) == 3 && call.Args[0] == "regedit" {
					data, err := os.ReadFile(call.Args[2])
					imported = string(data)
					return toolexec.Result{}, err
				}
				return toolexec.Result{}, nil
			})

			args := slices.Concat(tt.args, []string{"--prefix", filepath.Join(h.dir, "pfx"), "--runtime", root})
			err := h.run(args...)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if len(h.runner.Calls()) != 0 {
					t.Error("invalid input must not launch anything")
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v\n%s", err, h.stderr.String())
			}
			if !strings.Contains(imported, tt.want) {
				t.Errorf("imported patch missing %q:\n%s", tt.want, imported)
			}
		})
	}
}

func TestPrefixInfo(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	pfx := filepath.Join(h.dir, "pfx")
	if err := h.run("prefix", "info", "--prefix", pfx); err != nil {
		t.Fatal(err)
	}
	if out := h.stdout.String(); !strings.Contains(out, "(none)") || !strings.Contains(out, "false") {
		t.Errorf("info without metadata:\n%s", out)
	}

	h2 := newHarness(t)
	if err := os.MkdirAll(pfx, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := prefix.WriteMetadata(pfx, prefix.Metadata{ProtonName: "GE-Proton9-20", ProtonPath: "/opt/ge", Arch: runtime.Win32}); err != nil {
		t.Fatal(err)
	}
	if err := h2.run("prefix", "info", "--prefix", pfx); err != nil {
		t.Fatal(err)
	}
	out := h2.stdout.String()
	for _, want := range []string{"GE-Proton9-20", "/opt/ge", "win32"} {
		if !strings.Contains(out, want) {
			t.Errorf("info missing %q:\n%s", want, out)
		}
	}
}

func TestPrefixServer(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	root := h.installation()
	pfx := filepath.Join(h.dir, "pfx")
	for _, op := range []string{"start", "wait", "kill"} {
		if err := h.run("prefix", "server", op, "--prefix", pfx, "--runtime", root); err != nil {
			t.Fatalf("server %s error = %v", op, err)
		}
	}

	calls := h.runner.CallsTo("wineserver")
	if len(calls) != 3 {
		t.Fatalf("wineserver calls = %d, want 3", len(calls))
	}
	want := []string{"-p", "-w", "-k"}
	for i, c := range calls {
		if c.ArgsString() != want[i] {
			t.Errorf("call %d args = %q, want %q", i, c.ArgsString(), want[i])
		}
		if v, _ := c.EnvValue(runtime.EnvWinePrefix); v != pfx {
			t.Errorf("call %d WINEPREFIX = %q", i, v)
		}
	}
	if !calls[0].Background {
		t.Error("start must spawn in the background")
	}
}

func TestPrefixUpdate(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	root := h.installation()
	pfx := filepath.Join(h.dir, "pfx")
	if err := h.run("prefix", "update", "--prefix", pfx, "--runtime", root); err != nil {
		t.Fatalf("prefix update error = %v", err)
	}

	var got []string
	for _, c := range h.runner.Calls() {
		if base := filepath.Base(c.Command); base == "wine" || base == "wineserver" {
			got = append(got, base+" "+c.ArgsString())
		}
	}
	want := []string{"wine wineboot --update", "wineserver -w"}
	if !slices.Equal(got, want) {
		t.Fatalf("calls = %q, want %q", got, want)
	}
}

func TestPrefixUpdate_NonZeroExit(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	root := h.installation()
	h.runner.Handle("wine", testutil.ExitWith(3))

	err := h.run("prefix", "update", "--prefix", filepath.Join(h.dir, "pfx"), "--runtime", root)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 3 {
		t.Fatalf("prefix update error = %v, want exit code 3", err)
	}
	if n := len(h.runner.CallsTo("wineserver")); n != 0 {
		t.Errorf("wineserver called %d times after a failed update", n)
	}
}
