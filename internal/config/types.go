// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// ScriptRunnerNative runs verb scripts with a host shell.
	ScriptRunnerNative ScriptRunner = "native"
	// ScriptRunnerVirtual interprets verb scripts with the embedded mvdan/sh.
	ScriptRunnerVirtual ScriptRunner = "virtual"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidScriptRunner is the sentinel error wrapped by InvalidScriptRunnerError.
	ErrInvalidScriptRunner = errors.New("invalid script runner")
	// ErrInvalidColorScheme is the sentinel error wrapped by InvalidColorSchemeError.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ScriptRunner selects how verb scripts are executed.
	ScriptRunner string

	// ColorScheme selects the CLI color scheme.
	ColorScheme string

	// InvalidScriptRunnerError is returned for an unknown ScriptRunner.
	InvalidScriptRunnerError struct {
		Value ScriptRunner
	}

	// InvalidColorSchemeError is returned for an unknown ColorScheme.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError collects the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the complete application configuration.
	Config struct {
		CacheDir    string         `json:"cache_dir" mapstructure:"cache_dir"`
		VerbsDir    string         `json:"verbs_dir" mapstructure:"verbs_dir"`
		LogDir      string         `json:"log_dir" mapstructure:"log_dir"`
		DefaultArch string         `json:"default_arch" mapstructure:"default_arch"`
		Download    DownloadConfig `json:"download" mapstructure:"download"`
		Scripts     ScriptsConfig  `json:"scripts" mapstructure:"scripts"`
		Prefix      PrefixConfig   `json:"prefix" mapstructure:"prefix"`
		UI          UIConfig       `json:"ui" mapstructure:"ui"`
	}

	// DownloadConfig configures the download cache.
	DownloadConfig struct {
		StrictVerify bool `json:"strict_verify" mapstructure:"strict_verify"`
	}

	// ScriptsConfig configures verb script execution.
	ScriptsConfig struct {
		Runner ScriptRunner `json:"runner" mapstructure:"runner"`
		Shell  string       `json:"shell" mapstructure:"shell"`
	}

	// PrefixConfig configures prefix creation.
	PrefixConfig struct {
		FirstBoot   bool   `json:"first_boot" mapstructure:"first_boot"`
		TemplateDir string `json:"template_dir" mapstructure:"template_dir"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}
)

// Validate reports whether r is a known runner.
func (r ScriptRunner) Validate() error {
	switch r {
	case ScriptRunnerNative, ScriptRunnerVirtual:
		return nil
	default:
		return &InvalidScriptRunnerError{Value: r}
	}
}

// Error implements the error interface.
func (e *InvalidScriptRunnerError) Error() string {
	return fmt.Sprintf("invalid script runner %q (valid: native, virtual)", e.Value)
}

// Unwrap returns ErrInvalidScriptRunner for errors.Is() compatibility.
func (e *InvalidScriptRunnerError) Unwrap() error { return ErrInvalidScriptRunner }

// Validate reports whether c is a known scheme.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Validate checks the values the schema cannot see, such as those set
// through environment variables.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Scripts.Runner.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.DefaultArch != "win64" && c.DefaultArch != "win32" {
		errs = append(errs, fmt.Errorf("invalid default_arch %q (valid: win64, win32)", c.DefaultArch))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
