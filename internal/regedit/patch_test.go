// SPDX-License-Identifier: MPL-2.0

package regedit

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/pfxkit/pfxkit/internal/runtime"
)

func TestPatch_String(t *testing.T) {
	t.Parallel()

	p := NewPatch().
		Set(`HKEY_CURRENT_USER\Software\Wine\DllOverrides`, "d3d9", String("native")).
		DeleteKey(`HKEY_CURRENT_USER\Software\Old`).
		SetDefault(`HKEY_CLASSES_ROOT\.txt`, String("txtfile")).
		Set(`HKEY_CURRENT_USER\Software\Wine\DllOverrides`, "dxgi", Delete())

	want := "Windows Registry Editor Version 5.00\n" +
		"\n[HKEY_CURRENT_USER\\Software\\Wine\\DllOverrides]\n" +
		"\"d3d9\"=\"native\"\n" +
		"\"dxgi\"=-\n" +
		"\n[-HKEY_CURRENT_USER\\Software\\Old]\n" +
		"\n[HKEY_CLASSES_ROOT\\.txt]\n" +
		"@=\"txtfile\"\n"

	if got := p.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
	empty := NewPatch().AddKey(`HKEY_LOCAL_MACHINE\Software\A`).AddKey(`HKEY_LOCAL_MACHINE\Software\A`).String()
	if want := "Windows Registry Editor Version 5.00\n\n[HKEY_LOCAL_MACHINE\\Software\\A]\n"; empty != want {
		t.Errorf("AddKey() patch = %q, want %q", empty, want)
	}
	if p.Empty() {
		t.Error("Empty() = true for populated patch")
	}
	if !NewPatch().Empty() {
		t.Error("Empty() = false for new patch")
	}
}

func TestPresets(t *testing.T) {
	t.Parallel()

	dpi := DPIPatch(120).String()
	want := "Windows Registry Editor Version 5.00\n" +
		"\n[HKEY_CURRENT_USER\\Control Panel\\Desktop]\n\"LogPixels\"=dword:00000078\n" +
		"\n[HKEY_CURRENT_USER\\Software\\Wine\\Fonts]\n\"LogPixels\"=dword:00000078\n"
	if dpi != want {
		t.Errorf("DPIPatch(120) =\n%s\nwant\n%s", dpi, want)
	}

	font := FontRegistrationPatch("Arial", "arial.ttf").String()
	if want := "\"Arial (TrueType)\"=\"arial.ttf\"\n"; !containsLine(font, want) {
		t.Errorf("FontRegistrationPatch missing %q in\n%s", want, font)
	}

	win7 := WindowsVersionPatch(Win7).String()
	for _, line := range []string{
		"\"CSDVersion\"=\"Service Pack 1\"\n",
		"\"CurrentVersion\"=\"6.1\"\n",
		"\"CSDVersion\"=dword:00000100\n",
		"\"Version\"=\"win7\"\n",
	} {
		if !containsLine(win7, line) {
			t.Errorf("WindowsVersionPatch(Win7) missing %q", line)
		}
	}
}

func TestParseWindowsVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    WindowsVersion
		wantErr bool
	}{
		{in: "win10", want: Win10},
		{in: "WIN7", want: Win7},
		{in: "8.1", want: Win81},
		{in: "xp", want: WinXP},
		{in: "winxp64", want: WinXP64},
		{in: "win95", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseWindowsVersion(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWindowsVersion(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseWindowsVersion(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if names := WindowsVersionNames(); names[0] != "win11" || names[len(names)-1] != "win98" {
		t.Errorf("WindowsVersionNames() = %v", names)
	}
}

type fakeImporter struct {
	result  *runtime.Result
	err     error
	path    string
	content string
}

func (f *fakeImporter) ImportRegistry(_ context.Context, path string) (*runtime.Result, error) {
	f.path = path
	data, _ := os.ReadFile(path)
	f.content = string(data)
	return f.result, f.err
}

func TestPatcher_Apply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		result  *runtime.Result
		err     error
		wantErr error
	}{
		{name: "success", result: &runtime.Result{}},
		{name: "non-zero exit", result: &runtime.Result{ExitCode: 1, Stderr: "bad"}, wantErr: ErrImportFailed},
		{name: "spawn error", err: os.ErrNotExist, wantErr: os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			imp := &fakeImporter{result: tt.result, err: tt.err}
			p := &Patcher{Importer: imp, TempDir: t.TempDir()}

			err := p.ApplyPatch(t.Context(), DPIPatch(96))
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Apply() error = %v, want %v", err, tt.wantErr)
			}
			if imp.content != DPIPatch(96).String() {
				t.Errorf("imported content = %q", imp.content)
			}
			if _, statErr := os.Stat(imp.path); !errors.Is(statErr, os.ErrNotExist) {
				t.Errorf("temporary patch %s was not removed", imp.path)
			}
		})
	}
}

func containsLine(doc, line string) bool {
	for i := 0; i+len(line) <= len(doc); i++ {
		if doc[i:i+len(line)] == line && (i == 0 || doc[i-1] == '\n') {
			return true
		}
	}
	return false
}
