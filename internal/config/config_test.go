// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfxkit/pfxkit/internal/issue"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.DefaultArch != "win64" {
		t.Errorf("DefaultArch = %q", cfg.DefaultArch)
	}
	if cfg.Scripts.Runner != ScriptRunnerNative || cfg.Scripts.Shell != "bash" {
		t.Errorf("Scripts = %+v", cfg.Scripts)
	}
	if !cfg.Prefix.FirstBoot {
		t.Error("first boot should default to true")
	}
	if cfg.Download.StrictVerify {
		t.Error("strict verification should default to false")
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("ColorScheme = %q", cfg.UI.ColorScheme)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, path, err := Load(t.Context(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if cfg.DefaultArch != "win64" || !cfg.Prefix.FirstBoot {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := writeConfig(t, dir, `
cache_dir: "/srv/pfxkit-cache"
default_arch: "win32"
download: strict_verify: true
scripts: runner: "virtual"
ui: {
	verbose: true
	color_scheme: "dark"
}
`)

	cfg, path, err := Load(t.Context(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if cfg.CacheDir != "/srv/pfxkit-cache" || cfg.DefaultArch != "win32" {
		t.Errorf("top-level = %+v", cfg)
	}
	if !cfg.Download.StrictVerify || cfg.Scripts.Runner != ScriptRunnerVirtual {
		t.Errorf("nested = %+v %+v", cfg.Download, cfg.Scripts)
	}
	if cfg.Scripts.Shell != "bash" {
		t.Errorf("unset key lost its default: shell = %q", cfg.Scripts.Shell)
	}
	if !cfg.UI.Verbose || cfg.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("ui = %+v", cfg.UI)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad arch", `default_arch: "arm64"`, "default_arch"},
		{"wrong type", `download: strict_verify: "yes"`, "strict_verify"},
		{"unknown key", `colour: "red"`, "colour"},
		{"bad runner", `scripts: runner: "docker"`, "runner"},
		{"syntax", `ui: {`, "config.cue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, _, err := Load(t.Context(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("Load() should fail")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Errorf("error %T is not actionable", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	if _, _, err := Load(t.Context(), LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")}); err == nil {
		t.Error("missing explicit file should fail")
	}

	path := writeConfig(t, t.TempDir(), `verbs_dir: "/opt/verbs"`)
	cfg, got, err := Load(t.Context(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatal(err)
	}
	if got != path || cfg.VerbsDir != "/opt/verbs" {
		t.Errorf("Load() = %+v, %q", cfg, got)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PFXKIT_DOWNLOAD_STRICT_VERIFY", "true")
	t.Setenv("PFXKIT_DEFAULT_ARCH", "win32")

	dir := t.TempDir()
	writeConfig(t, dir, `default_arch: "win64"`)

	cfg, _, err := Load(t.Context(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Download.StrictVerify {
		t.Error("env should enable strict verification")
	}
	if cfg.DefaultArch != "win32" {
		t.Errorf("env should win over file: arch = %q", cfg.DefaultArch)
	}
}

func TestLoad_EnvValidated(t *testing.T) {
	t.Setenv("PFXKIT_SCRIPTS_RUNNER", "container")

	_, _, err := Load(t.Context(), LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrInvalidScriptRunner) {
		t.Errorf("Load() error = %v, want ErrInvalidScriptRunner", err)
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestCreateDefaultConfig_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := CreateDefaultConfig(dir)
	if err != nil {
		t.Fatal(err)
	}

	// A second call keeps the existing file.
	if err := os.WriteFile(path, []byte(`ui: verbose: true`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateDefaultConfig(dir); err != nil {
		t.Fatal(err)
	}
	cfg, _, err := Load(t.Context(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.UI.Verbose {
		t.Error("existing config was overwritten")
	}
}

func TestGenerateCUE_Loads(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		CacheDir:    "/c",
		VerbsDir:    "/v",
		LogDir:      "/l",
		DefaultArch: "win32",
		Download:    DownloadConfig{StrictVerify: true},
		Scripts:     ScriptsConfig{Runner: ScriptRunnerVirtual, Shell: "sh"},
		Prefix:      PrefixConfig{FirstBoot: false, TemplateDir: "/t"},
		UI:          UIConfig{Verbose: true, ColorScheme: ColorSchemeLight},
	}
	dir := t.TempDir()
	writeConfig(t, dir, GenerateCUE(cfg))

	got, _, err := Load(t.Context(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}
