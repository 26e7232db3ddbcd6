// SPDX-License-Identifier: MPL-2.0

package regedit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const export = `WINE REGISTRY Version 2
;; All keys relative to \\Machine

[Software\\Microsoft\\Windows NT\\CurrentVersion\\Fonts] 1700000000
#time=1da0000000000000
"Arial (TrueType)"="C:\\windows\\fonts\\x.ttf"
"Courier (TrueType)"="cour.ttf"
"Lower (TrueType)"="z:\\usr\\share\\fonts\\l.ttf"

[Software\\Wine\\Fonts\\External Fonts] 1700000001
"Noto"="Z:\\build\\noto.ttf"

[Software\\Microsoft\\Windows\\CurrentVersion\\Run] 1700000002
"Tool"="C:\\tool.exe"
`

func TestSanitize(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	removed, err := Sanitize(strings.NewReader(export), &out)
	if err != nil {
		t.Fatalf("Sanitize() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}

	got := out.String()
	for _, gone := range []string{`x.ttf`, `l.ttf`, `noto.ttf`} {
		if strings.Contains(got, gone) {
			t.Errorf("output still contains %s", gone)
		}
	}
	for _, kept := range []string{
		`"Courier (TrueType)"="cour.ttf"`,
		`"Tool"="C:\\tool.exe"`,
		`[Software\\Microsoft\\Windows NT\\CurrentVersion\\Fonts] 1700000000`,
		`#time=1da0000000000000`,
		`;; All keys relative to \\Machine`,
	} {
		if !strings.Contains(got, kept+"\n") {
			t.Errorf("output is missing verbatim line %q", kept)
		}
	}
}

func TestSanitize_KeyTracking(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare key header",
			input: "[HKEY_LOCAL_MACHINE\\Software\\Microsoft\\Windows NT\\CurrentVersion\\Fonts]\n\"A\"=\"D:\\a.ttf\"\n",
			want:  "[HKEY_LOCAL_MACHINE\\Software\\Microsoft\\Windows NT\\CurrentVersion\\Fonts]\n",
		},
		{
			name:  "case-insensitive key",
			input: "[software\\\\wine\\\\fonts\\\\external fonts] 1\n\"A\"=\"C:\\\\a.ttf\"\n",
			want:  "[software\\\\wine\\\\fonts\\\\external fonts] 1\n",
		},
		{
			name:  "non-string values kept",
			input: "[Software\\\\Wine\\\\Fonts\\\\External Fonts] 1\n\"A\"=dword:00000001\n\"B\"=\"1:\"\n",
			want:  "[Software\\\\Wine\\\\Fonts\\\\External Fonts] 1\n\"A\"=dword:00000001\n\"B\"=\"1:\"\n",
		},
		{
			name:  "filter ends at next key",
			input: "[Software\\\\Wine\\\\Fonts\\\\External Fonts] 1\n[Software\\\\Other] 2\n\"A\"=\"C:\\\\a\"\n",
			want:  "[Software\\\\Wine\\\\Fonts\\\\External Fonts] 1\n[Software\\\\Other] 2\n\"A\"=\"C:\\\\a\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out strings.Builder
			if _, err := Sanitize(strings.NewReader(tt.input), &out); err != nil {
				t.Fatalf("Sanitize() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("Sanitize() =\n%q\nwant\n%q", out.String(), tt.want)
			}
		})
	}
}

func TestSanitizeFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "system.reg")
	if err := os.WriteFile(path, []byte(export), 0o600); err != nil {
		t.Fatal(err)
	}

	removed, err := SanitizeFile(path)
	if err != nil {
		t.Fatalf("SanitizeFile() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}

	if _, err := SanitizeFile(filepath.Join(t.TempDir(), "missing.reg")); err == nil {
		t.Error("SanitizeFile() on missing file should fail")
	}
}
