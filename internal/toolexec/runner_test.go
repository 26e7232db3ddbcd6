// SPDX-License-Identifier: MPL-2.0

package toolexec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"testing"
)

func requireSh(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not found in PATH")
	}
	return sh
}

func TestCmdRunner_CapturesOutput(t *testing.T) {
	t.Parallel()
	sh := requireSh(t)

	var live bytes.Buffer
	res, err := CmdRunner{}.Run(context.Background(), sh, []string{"-c", "echo out; echo err >&2"}, RunOptions{Stdout: &live})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.TrimSpace(string(res.Stdout)); got != "out" {
		t.Errorf("Stdout = %q, want %q", got, "out")
	}
	if got := strings.TrimSpace(string(res.Stderr)); got != "err" {
		t.Errorf("Stderr = %q, want %q", got, "err")
	}
	if got := strings.TrimSpace(live.String()); got != "out" {
		t.Errorf("live stdout = %q, want %q", got, "out")
	}
	if !res.ExitCode.IsSuccess() {
		t.Errorf("ExitCode = %s, want 0", res.ExitCode)
	}
}

func TestCmdRunner_NonZeroExitIsNotAnError(t *testing.T) {
	t.Parallel()
	sh := requireSh(t)

	res, err := CmdRunner{}.Run(context.Background(), sh, []string{"-c", "exit 3"}, RunOptions{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %s, want 3", res.ExitCode)
	}

	checkErr := CheckExit("sh", nil, res)
	var exitErr *ExitError
	if !errors.As(checkErr, &exitErr) {
		t.Fatalf("CheckExit() = %v, want *ExitError", checkErr)
	}
	if !errors.Is(checkErr, ErrNonZeroExit) {
		t.Error("CheckExit() should wrap ErrNonZeroExit")
	}
}

func TestCmdRunner_EnvReplacesHost(t *testing.T) {
	t.Parallel()
	sh := requireSh(t)

	res, err := CmdRunner{}.Run(context.Background(), sh, []string{"-c", `printf %s "$PFXKIT_PROBE"`}, RunOptions{
		Env: []string{"PFXKIT_PROBE=value"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if string(res.Stdout) != "value" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "value")
	}
}

func TestCmdRunner_MissingBinary(t *testing.T) {
	t.Parallel()

	_, err := CmdRunner{}.Run(context.Background(), "/nonexistent/pfxkit-tool", nil, RunOptions{})
	if err == nil {
		t.Fatal("expected spawn error for missing binary")
	}
}

func TestCmdRunner_Start(t *testing.T) {
	t.Parallel()
	sh := requireSh(t)

	proc, err := CmdRunner{}.Start(sh, []string{"-c", "exit 0"}, RunOptions{})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if proc.Pid() <= 0 {
		t.Errorf("Pid() = %d, want positive", proc.Pid())
	}
	if err := proc.Wait(); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestFormatCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		command string
		args    []string
		want    string
	}{
		{"plain", "wine", []string{"winecfg"}, "wine winecfg"},
		{"spaces", "wine", []string{"C:\\Program Files\\app.exe"}, `wine 'C:\Program Files\app.exe'`},
		{"no args", "wineserver", nil, "wineserver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatCommand(tt.command, tt.args); got != tt.want {
				t.Errorf("FormatCommand() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_Message(t *testing.T) {
	t.Parallel()

	err := &ExitError{Command: "curl", ExitCode: 22, Stderr: "progress\ncurl: (22) 404 Not Found"}
	want := "curl exited with status 22: curl: (22) 404 Not Found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
