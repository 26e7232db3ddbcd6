// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pfxkit/pfxkit/internal/cache"
	"github.com/pfxkit/pfxkit/internal/config"
	"github.com/pfxkit/pfxkit/internal/dag"
	"github.com/pfxkit/pfxkit/internal/engine"
	"github.com/pfxkit/pfxkit/internal/issue"
	"github.com/pfxkit/pfxkit/internal/regedit"
	"github.com/pfxkit/pfxkit/internal/runtime"
	"github.com/pfxkit/pfxkit/internal/toolexec"
	"github.com/pfxkit/pfxkit/internal/verb"

	"github.com/spf13/cobra"
)

// classify maps err to the catalog entry explaining it, or 0. Issues
// attached through issue.ErrorContext take precedence.
func classify(err error) issue.Id {
	if is := issue.IssueFor(err); is != nil {
		return is.Id()
	}

	var actionErr *engine.ActionError
	switch {
	case errors.Is(err, verb.ErrNotFound):
		return issue.VerbNotFoundId
	case errors.Is(err, engine.ErrFileNotFound):
		return issue.VerbFileNotFoundId
	case errors.Is(err, dag.ErrCycle):
		return issue.DependencyCycleId
	case errors.Is(err, toolexec.ErrToolUnavailable):
		return issue.ToolUnavailableId
	case errors.Is(err, cache.ErrVerificationFailed):
		return issue.VerificationFailedId
	case errors.Is(err, regedit.ErrImportFailed):
		return issue.RegistryImportFailedId
	case errors.Is(err, runtime.ErrInvalidArch):
		return issue.InvalidArchId
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId
	case errors.Is(err, ErrInstallationNotFound):
		return issue.InstallationNotFoundId
	case errors.As(err, &actionErr) && actionErr.Kind == "script" && errors.Is(err, toolexec.ErrNonZeroExit):
		return issue.ScriptExecutionFailedId
	}
	return 0
}

// formatErrorForDisplay uses the ActionableError format when err carries
// one.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderError writes err and its catalog guidance, rendered with the given
// glamour style, to w.
func renderError(w io.Writer, err error, verbose bool, style string) {
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	id := classify(err)
	if id == 0 {
		return
	}
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(style)
	if renderErr != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
		return
	}
	fmt.Fprint(w, rendered)
}

// handle wraps a command body so that failures are rendered once here and
// surface to Execute as an ExitError. An ExitError returned by the body is
// passed through untouched.
func (a *App) handle(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if err == nil {
			return nil
		}
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true

		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return err
		}
		renderError(a.stderr, err, a.verbose, a.glamourStyle())
		return &ExitError{Code: 1, Err: err}
	}
}

// glamourStyle follows ui.color_scheme; "auto" lets glamour detect the
// terminal.
func (a *App) glamourStyle() string {
	if a.cfg == nil || a.cfg.UI.ColorScheme == "" {
		return string(config.ColorSchemeAuto)
	}
	return string(a.cfg.UI.ColorScheme)
}
