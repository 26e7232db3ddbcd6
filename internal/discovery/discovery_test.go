// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pfxkit/pfxkit/internal/verb"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLoadVerbs_MissingDir(t *testing.T) {
	t.Parallel()

	verbs, diags, err := LoadVerbs(filepath.Join(t.TempDir(), "absent"))
	if err != nil || len(verbs) != 0 || len(diags) != 0 {
		t.Errorf("LoadVerbs(missing) = %v, %v, %v", verbs, diags, err)
	}
}

func TestLoadVerbs_Script(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"myapp.sh": "#!/bin/bash\n# Title: My Custom App\n# Publisher: Some Company\n# Year: 2024\n\n\"$WINE\" setup.exe /S\n",
		"bare.sh":  "echo hi\n",
		"notes.md": "ignored",
	})

	verbs, diags, err := loadVerbs(dir, "/home/u")
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v", diags)
	}
	if len(verbs) != 2 {
		t.Fatalf("got %d verbs, want 2", len(verbs))
	}

	// sorted file order: bare.sh before myapp.sh
	bare, app := verbs[0], verbs[1]
	if bare.Name != "bare" || bare.Title != "bare" || bare.Publisher != "" {
		t.Errorf("bare = %+v", bare)
	}
	if app.Name != "myapp" || app.Title != "My Custom App" || app.Publisher != "Some Company" || app.Year != "2024" {
		t.Errorf("myapp = %+v", app)
	}
	if app.Category != verb.Custom {
		t.Errorf("category = %v, want custom", app.Category)
	}
	rs, ok := app.Actions[0].(verb.RunScript)
	if !ok || rs.Path != filepath.Join(dir, "myapp.sh") {
		t.Errorf("actions = %+v", app.Actions)
	}
}

func TestScriptMetadata_OnlyHead(t *testing.T) {
	t.Parallel()

	content := strings.Repeat("echo\n", metadataLines) + "# Title: Late\n"
	title, _, _ := scriptMetadata([]byte(content), "fallback")
	if title != "fallback" {
		t.Errorf("title = %q, want fallback", title)
	}
}

func TestLoadVerbs_TOML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"sketchup.toml": `
[verb]
name = "sketchup2024"
category = "app"
title = "SketchUp 2024"
publisher = "Trimble"
year = "2024"

[[actions]]
type = "local_installer"
path = "~/Downloads/SketchUpPro-2024.exe"
args = ["/S"]

[[actions]]
type = "script"
path = "post.sh"

[[actions]]
type = "override"
dll = "d3d11"

[[actions]]
type = "override"
dll = "winemenubuilder.exe"
mode = ""

[[actions]]
type = "registry"
content = """
[HKEY_CURRENT_USER\\Software\\Wine]
"Version"="win10"
"""

[[actions]]
type = "installer"
url = "https://example.invalid/dl/setup.exe"
sha256 = "ABCDEF"

[[actions]]
type = "call"
verb = "vcrun2022"
`,
	})

	verbs, diags, err := loadVerbs(dir, "/home/u")
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v", diags)
	}
	if len(verbs) != 1 {
		t.Fatalf("got %d verbs", len(verbs))
	}
	v := verbs[0]
	if v.Name != "sketchup2024" || v.Category != verb.Application || v.Publisher != "Trimble" {
		t.Errorf("verb = %+v", v)
	}
	if len(v.Actions) != 7 {
		t.Fatalf("got %d actions", len(v.Actions))
	}

	li := v.Actions[0].(verb.RunLocalInstaller)
	if li.File.Path != "/home/u/Downloads/SketchUpPro-2024.exe" || li.File.Name != "SketchUpPro-2024.exe" || !slices.Equal(li.Args, []string{"/S"}) {
		t.Errorf("local installer = %+v", li)
	}
	if rs := v.Actions[1].(verb.RunScript); rs.Path != filepath.Join(dir, "post.sh") {
		t.Errorf("script path = %q", rs.Path)
	}
	if o := v.Actions[2].(verb.SetDLLOverride); o.Mode != verb.Native {
		t.Errorf("default mode = %q, want native", o.Mode)
	}
	if o := v.Actions[3].(verb.SetDLLOverride); o.Mode != verb.Disabled {
		t.Errorf("explicit empty mode = %q, want disabled", o.Mode)
	}
	reg := v.Actions[4].(verb.ApplyRegistryPatch)
	if !strings.HasPrefix(reg.Content, "Windows Registry Editor Version 5.00\n\n[HKEY_CURRENT_USER") {
		t.Errorf("registry content = %q", reg.Content)
	}
	inst := v.Actions[5].(verb.RunInstaller)
	if inst.File.Filename != "setup.exe" || inst.File.SHA256 != "abcdef" {
		t.Errorf("installer file = %+v", inst.File)
	}
	if deps := v.Dependencies(); !slices.Equal(deps, []string{"vcrun2022"}) {
		t.Errorf("deps = %v", deps)
	}
}

func TestLoadVerbs_Diagnostics(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a_noname.toml":  "[verb]\ntitle = \"x\"\n",
		"b_unknown.toml": "[verb]\nname = \"b\"\n[[actions]]\ntype = \"teleport\"\n",
		"c_broken.toml":  "[verb\nname = ",
		"d_invalid.toml": "[verb]\nname = \"d\"\n[[actions]]\ntype = \"installer\"\n",
		"e_oddcat.toml":  "[verb]\nname = \"e\"\ncategory = \"widgets\"\n[[actions]]\ntype = \"winecfg\"\n",
		"f_good.toml":    "[verb]\nname = \"f\"\n[[actions]]\ntype = \"font\"\nfile = \"myfont.ttf\"\n",
	})

	verbs, diags, err := loadVerbs(dir, "")
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, v := range verbs {
		names = append(names, v.Name)
	}
	if !slices.Equal(names, []string{"e", "f"}) {
		t.Errorf("loaded = %v, want [e f]", names)
	}

	wantCodes := []string{CodeMissingName, CodeUnknownAction, CodeParseFailed, CodeInvalidAction, CodeUnknownCat}
	var codes []string
	for _, d := range diags {
		codes = append(codes, d.Code)
		if d.Path == "" {
			t.Errorf("diagnostic %q has no path", d.Code)
		}
	}
	if !slices.Equal(codes, wantCodes) {
		t.Errorf("codes = %v, want %v", codes, wantCodes)
	}
	if diags[4].Severity != SeverityWarning {
		t.Errorf("unknown category severity = %v", diags[4].Severity)
	}

	e := verbs[0]
	if e.Category != verb.Custom {
		t.Errorf("unknown category = %v, want custom", e.Category)
	}
	font := verbs[1].Actions[0].(verb.RegisterFont)
	if font.Name != "myfont" {
		t.Errorf("font name = %q", font.Name)
	}
}

func TestRegisterUserVerbs_Overrides(t *testing.T) {
	t.Parallel()

	reg := verb.NewRegistry()
	reg.Register(verb.New("vlc", verb.Application, "Builtin VLC", "", ""))

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"vlc.sh": "# Title: My VLC\n"})

	diags, err := RegisterUserVerbs(reg, dir)
	if err != nil || len(diags) != 0 {
		t.Fatalf("RegisterUserVerbs() = %v, %v", diags, err)
	}
	v, _ := reg.Get("vlc")
	if v.Title != "My VLC" || v.Category != verb.Custom {
		t.Errorf("vlc = %+v, want user definition", v)
	}
}

func TestExpandPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"~/x.exe", "/home/u/x.exe"},
		{"/abs/x.exe", "/abs/x.exe"},
		{"rel/x.exe", "/defs/rel/x.exe"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in, "/defs", "/home/u"); got != filepath.FromSlash(tt.want) {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
