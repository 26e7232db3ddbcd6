// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pfxkit/pfxkit/internal/logging"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// skipConfigAnnotation marks commands that must run even when the
// configuration cannot be loaded.
const skipConfigAnnotation = "pfxkit/skip-config"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

func newRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "pfxkit",
		Short: "Prepare Wine and Proton prefixes and install verbs into them",
		Long: TitleStyle.Render("pfxkit") + SubtitleStyle.Render(" - prefix toolkit for Wine and Proton") + `

pfxkit creates compatibility prefixes from a Proton or Wine build and
installs verbs into them: redistributable DLLs, fonts, applications and
registry settings. Verbs come from a built-in catalog and from .sh and
.toml files in your verbs directory.

` + SubtitleStyle.Render("Examples:") + `
  pfxkit prefix create --runtime ~/proton-9.0 --prefix ~/games/pfx
  pfxkit verb run vcrun2022 corefonts --prefix ~/games/pfx
  pfxkit prefix run --prefix ~/games/pfx -- ~/Downloads/setup.exe
  pfxkit verb search dotnet`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.config(cmd.Context())
			if err != nil {
				if cmd.Annotations[skipConfigAnnotation] == "" {
					cmd.SilenceUsage = true
					cmd.SilenceErrors = true
					renderError(app.stderr, err, app.verbose, app.glamourStyle())
					return &ExitError{Code: 1, Err: err}
				}
				logging.Setup(app.stderr, app.verbose)
				return nil
			}
			if !cmd.Flags().Changed("verbose") {
				app.verbose = app.verbose || cfg.UI.Verbose
			}
			logging.Setup(app.stderr, app.verbose)
			return nil
		},
	}
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/pfxkit/config.cue)")

	root.AddCommand(
		newVerbCommand(app),
		newPrefixCommand(app),
		newCacheCommand(app),
		newConfigCommand(app),
	)
	return root
}

// Execute runs the CLI and exits with the command's status.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleFangError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// handleFangError leaves errors the handlers already rendered alone and
// hands usage errors to fang's default rendering.
func handleFangError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
