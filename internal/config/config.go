// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pfxkit/pfxkit/internal/cueutil"
	"github.com/pfxkit/pfxkit/internal/issue"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name used in directory names.
	AppName = "pfxkit"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "PFXKIT"
)

//go:embed config_schema.cue
var configSchema []byte

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath string
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath string
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, string, error)
	}

	fileProvider struct{}
)

// NewProvider creates a configuration provider reading config.cue.
func NewProvider() Provider {
	return fileProvider{}
}

// Load reads the configuration and returns it with the path of the file it
// came from, empty when only defaults and environment were used.
func (fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	return Load(ctx, opts)
}

// ConfigDir returns the pfxkit configuration directory using platform
// conventions: %APPDATA% on Windows, ~/Library/Application Support on macOS
// and $XDG_CONFIG_HOME (defaulting to ~/.config) elsewhere.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, AppName), nil
}

// CacheDir returns the default download cache directory
// ($XDG_CACHE_HOME/pfxkit on Linux).
func CacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get cache directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// StateDir returns the directory for logs ($XDG_STATE_HOME/pfxkit, or
// ~/.local/state/pfxkit). Platforms without a state convention use the
// cache directory.
func StateDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".local", "state", AppName), nil
		}
	}
	return CacheDir()
}

// DefaultConfig returns the built-in defaults. Directory defaults are left
// empty when the platform directory cannot be determined.
func DefaultConfig() *Config {
	cfg := &Config{
		DefaultArch: "win64",
		Scripts:     ScriptsConfig{Runner: ScriptRunnerNative, Shell: "bash"},
		Prefix:      PrefixConfig{FirstBoot: true},
		UI:          UIConfig{ColorScheme: ColorSchemeAuto},
	}
	if dir, err := CacheDir(); err == nil {
		cfg.CacheDir = dir
	}
	if dir, err := ConfigDir(); err == nil {
		cfg.VerbsDir = filepath.Join(dir, "verbs")
	}
	if dir, err := StateDir(); err == nil {
		cfg.LogDir = filepath.Join(dir, "logs")
	}
	return cfg
}

// Load resolves the configuration: defaults, then the CUE file, then
// PFXKIT_ environment variables.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := resolvePath(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the values match the schema shown by 'pfxkit config show --schema'").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Check PFXKIT_* environment variables for typos").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}
	return &cfg, path, nil
}

// resolvePath returns the config file to read, or "" when none exists. An
// explicit ConfigFilePath must exist.
func resolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'pfxkit config show' to see the default configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(path) {
		return path, nil
	}
	return "", nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("cache_dir", d.CacheDir)
	v.SetDefault("verbs_dir", d.VerbsDir)
	v.SetDefault("log_dir", d.LogDir)
	v.SetDefault("default_arch", d.DefaultArch)
	v.SetDefault("download.strict_verify", d.Download.StrictVerify)
	v.SetDefault("scripts.runner", string(d.Scripts.Runner))
	v.SetDefault("scripts.shell", d.Scripts.Shell)
	v.SetDefault("prefix.first_boot", d.Prefix.FirstBoot)
	v.SetDefault("prefix.template_dir", d.Prefix.TemplateDir)
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("ui.color_scheme", string(d.UI.ColorScheme))
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into
// v, keeping defaults for unset keys.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	values, err := cueutil.Decode[map[string]any](configSchema, data, "#Config", cueutil.WithFilename(path))
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(values); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// Schema returns the embedded CUE schema.
func Schema() string { return string(configSchema) }

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the defaults to dir/config.cue unless the file
// exists. It returns the file path.
func CreateDefaultConfig(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to check config file: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// GenerateCUE renders cfg as a config.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder
	sb.WriteString("// pfxkit configuration\n\n")
	fmt.Fprintf(&sb, "cache_dir: %q\n", cfg.CacheDir)
	fmt.Fprintf(&sb, "verbs_dir: %q\n", cfg.VerbsDir)
	fmt.Fprintf(&sb, "log_dir: %q\n", cfg.LogDir)
	fmt.Fprintf(&sb, "default_arch: %q\n", cfg.DefaultArch)

	sb.WriteString("\ndownload: {\n")
	fmt.Fprintf(&sb, "\tstrict_verify: %v\n", cfg.Download.StrictVerify)
	sb.WriteString("}\n")

	sb.WriteString("\nscripts: {\n")
	fmt.Fprintf(&sb, "\trunner: %q\n", cfg.Scripts.Runner)
	fmt.Fprintf(&sb, "\tshell: %q\n", cfg.Scripts.Shell)
	sb.WriteString("}\n")

	sb.WriteString("\nprefix: {\n")
	fmt.Fprintf(&sb, "\tfirst_boot: %v\n", cfg.Prefix.FirstBoot)
	if cfg.Prefix.TemplateDir != "" {
		fmt.Fprintf(&sb, "\ttemplate_dir: %q\n", cfg.Prefix.TemplateDir)
	}
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")
	return sb.String()
}
