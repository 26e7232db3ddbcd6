// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pfxkit/pfxkit/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pfxkit configuration",
		Long: `Manage pfxkit configuration.

Configuration is read from config.cue in the pfxkit configuration directory
($XDG_CONFIG_HOME/pfxkit on Linux). Any key can be overridden through a
PFXKIT_ environment variable, with dots replaced by underscores, e.g.
PFXKIT_DOWNLOAD_STRICT_VERIFY=true.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var schema bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: app.handle(func(cmd *cobra.Command, _ []string) error {
			if schema {
				fmt.Fprint(app.stdout, config.Schema())
				return nil
			}
			cfg, err := app.config(cmd.Context())
			if err != nil {
				return err
			}
			source := SubtitleStyle.Render("(using defaults)")
			if app.cfgFile != "" {
				source = app.cfgFile
			}
			fmt.Fprintf(app.stdout, "%s %s\n\n", CmdStyle.Render("Config file:"), source)
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		}),
	}
	show.Flags().BoolVar(&schema, "schema", false, "print the CUE schema instead")

	cfgCmd.AddCommand(
		show,
		&cobra.Command{
			Use:         "path",
			Short:       "Print the configuration file path",
			Args:        cobra.NoArgs,
			Annotations: map[string]string{skipConfigAnnotation: "true"},
			RunE: app.handle(func(*cobra.Command, []string) error {
				path, err := app.configFilePath()
				if err != nil {
					return err
				}
				fmt.Fprintln(app.stdout, path)
				return nil
			}),
		},
		&cobra.Command{
			Use:         "init",
			Short:       "Create a default configuration file and verbs directory",
			Args:        cobra.NoArgs,
			Annotations: map[string]string{skipConfigAnnotation: "true"},
			RunE: app.handle(func(*cobra.Command, []string) error {
				path, err := app.configFilePath()
				if err != nil {
					return err
				}
				created, err := config.CreateDefaultConfig(filepath.Dir(path))
				if err != nil {
					return err
				}
				fmt.Fprintln(app.stdout, SuccessStyle.Render("✓ ")+"Configuration at "+CmdStyle.Render(created))

				verbsDir := config.DefaultConfig().VerbsDir
				if app.cfg != nil {
					verbsDir = app.cfg.VerbsDir
				}
				if err := os.MkdirAll(verbsDir, 0o755); err != nil {
					slog.Warn("failed to create verbs directory", "path", verbsDir, "error", err)
				}
				return nil
			}),
		},
	)
	return cfgCmd
}

// configFilePath is the file pfxkit reads its configuration from, whether or
// not it exists yet.
func (a *App) configFilePath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	dir := a.configDir
	if dir == "" {
		var err error
		if dir, err = config.ConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt), nil
}
