// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfxkit/pfxkit/internal/discovery"
	"github.com/pfxkit/pfxkit/internal/issue"
	"github.com/pfxkit/pfxkit/internal/verb"

	"github.com/spf13/cobra"
)

func newVerbCommand(app *App) *cobra.Command {
	verbCmd := &cobra.Command{
		Use:   "verb",
		Short: "List, inspect and install verbs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List available verbs",
		Args:  cobra.NoArgs,
		RunE: app.handle(func(cmd *cobra.Command, _ []string) error {
			reg, diags, err := app.registry(cmd.Context())
			if err != nil {
				return err
			}
			renderDiagnostics(app.stderr, diags)

			var filter *verb.Category
			if category != "" {
				c := verb.ParseCategory(category)
				filter = &c
			}
			printVerbs(app.stdout, reg.List(filter))
			return nil
		}),
	}
	list.Flags().StringVarP(&category, "category", "c", "", "only list one category (apps, dlls, fonts, settings, custom)")

	verbCmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "search <text>",
			Short: "Search verb names and titles",
			Args:  cobra.ExactArgs(1),
			RunE: app.handle(func(cmd *cobra.Command, args []string) error {
				reg, _, err := app.registry(cmd.Context())
				if err != nil {
					return err
				}
				found := reg.Search(args[0])
				if len(found) == 0 {
					fmt.Fprintln(app.stdout, SubtitleStyle.Render("No verbs match "+args[0]))
					return nil
				}
				printVerbs(app.stdout, found)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "info <verb>",
			Short: "Show a verb's metadata and actions",
			Args:  cobra.ExactArgs(1),
			RunE: app.handle(func(cmd *cobra.Command, args []string) error {
				reg, _, err := app.registry(cmd.Context())
				if err != nil {
					return err
				}
				v, err := reg.Lookup(args[0])
				if err != nil {
					return verbLookupError(err)
				}
				printVerbInfo(app.stdout, v)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "plan <verb>",
			Short: "Show the order verbs would be installed in",
			Args:  cobra.ExactArgs(1),
			RunE: app.handle(func(cmd *cobra.Command, args []string) error {
				reg, _, err := app.registry(cmd.Context())
				if err != nil {
					return err
				}
				eng, err := app.engine(cmd.Context(), reg)
				if err != nil {
					return err
				}
				order, err := eng.Plan(args[0])
				if err != nil {
					return verbLookupError(err)
				}
				for i, name := range order {
					fmt.Fprintf(app.stdout, "%2d. %s\n", i+1, CmdStyle.Render(name))
				}
				return nil
			}),
		},
		newVerbRunCommand(app),
		&cobra.Command{
			Use:   "check",
			Short: "Validate the catalog and user verb files",
			Args:  cobra.NoArgs,
			RunE: app.handle(func(cmd *cobra.Command, _ []string) error {
				reg, diags, err := app.registry(cmd.Context())
				if err != nil {
					return err
				}
				renderDiagnostics(app.stdout, diags)

				failed := false
				for _, d := range diags {
					if d.Severity == discovery.SeverityError {
						failed = true
					}
				}
				if err := reg.Check(); err != nil {
					for _, line := range strings.Split(err.Error(), "\n") {
						fmt.Fprintln(app.stdout, ErrorStyle.Render("✗ ")+line)
					}
					failed = true
				}
				if failed {
					return &ExitError{Code: 1}
				}
				fmt.Fprintln(app.stdout, SuccessStyle.Render("✓ ")+fmt.Sprintf("%d verbs OK", reg.Len()))
				return nil
			}),
		},
	)
	return verbCmd
}

func newVerbRunCommand(app *App) *cobra.Command {
	var target targetFlags
	run := &cobra.Command{
		Use:   "run <verb>...",
		Short: "Install verbs into a prefix",
		Long: `Install one or more verbs into a prefix, in the order given.

Dependencies of each verb are installed first. Installation stops at the
first verb that fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: app.handle(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg, diags, err := app.registry(ctx)
			if err != nil {
				return err
			}
			renderDiagnostics(app.stderr, diags)

			eng, err := app.engine(ctx, reg)
			if err != nil {
				return err
			}
			// Resolve every name before touching the prefix.
			for _, name := range args {
				if _, err := eng.Plan(name); err != nil {
					return verbLookupError(err)
				}
			}

			s, err := app.open(ctx, target, true)
			if err != nil {
				return err
			}
			defer s.Close()

			for _, name := range args {
				start := time.Now()
				if err := eng.Execute(ctx, name, s.rt); err != nil {
					return err
				}
				fmt.Fprintf(app.stdout, "%s %s %s\n",
					SuccessStyle.Render("✓"), CmdStyle.Render(name),
					SubtitleStyle.Render(time.Since(start).Round(time.Second).String()))
			}
			return nil
		}),
	}
	addTargetFlags(run, &target)
	return run
}

// verbLookupError points an unknown-verb error at the close matches.
func verbLookupError(err error) error {
	var nf *verb.NotFoundError
	if !errors.As(err, &nf) || len(nf.Suggestions) == 0 {
		return err
	}
	hints := make([]string, len(nf.Suggestions))
	for i, name := range nf.Suggestions {
		hints[i] = "pfxkit verb info " + name
	}
	return issue.NewErrorContext().
		WithOperation("resolve verb").
		WithResource(nf.Name).
		WithSuggestions(hints...).
		WithIssue(issue.VerbNotFoundId).
		Wrap(err).
		BuildError()
}

func printVerbs(w io.Writer, verbs []verb.Verb) {
	for _, v := range verbs {
		fmt.Fprintf(w, "%s%s%s\n", nameStyle.Render(v.Name), categoryStyle.Render(v.Category.String()), v.Title)
	}
}

func printVerbInfo(w io.Writer, v verb.Verb) {
	fmt.Fprintln(w, TitleStyle.Render(v.Name)+" "+SubtitleStyle.Render(v.Title))
	fmt.Fprintln(w)
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), value)
		}
	}
	field("Category", v.Category.String())
	field("Publisher", v.Publisher)
	field("Year", v.Year)
	field("Depends on", strings.Join(v.Dependencies(), ", "))

	fmt.Fprintln(w)
	fmt.Fprintln(w, labelStyle.Render("Actions:"))
	for i, a := range v.Actions {
		fmt.Fprintf(w, "%3d. %-16s %s\n", i+1, a.Kind(), describeAction(a))
	}
}

// describeAction summarizes an action on one line.
func describeAction(a verb.Action) string {
	switch a := a.(type) {
	case verb.RunInstaller:
		return strings.TrimSpace(a.File.Filename + " " + strings.Join(a.Args, " "))
	case verb.RunLocalInstaller:
		return strings.TrimSpace(a.File.Path + " " + strings.Join(a.Args, " "))
	case verb.RunScript:
		return a.Path
	case verb.Extract:
		return a.File.Filename + " -> " + destLabel(a.Dest, "(prefix)")
	case verb.ExtractFiltered:
		return a.File.Filename + " [" + a.Filter + "] -> " + destLabel(a.Dest, "(scratch)")
	case verb.SetDLLOverride:
		return a.DLL + "=" + string(a.Mode)
	case verb.ApplyRegistryPatch:
		return fmt.Sprintf("%d lines", strings.Count(strings.TrimRight(a.Content, "\n"), "\n")+1)
	case verb.RunConfigTool:
		return strings.Join(a.Args, " ")
	case verb.RegisterFont:
		return a.Name + " (" + a.File + ")"
	case verb.CallVerb:
		return a.Name
	case verb.CustomProcedure:
		return a.Name
	}
	return ""
}

func destLabel(dest, fallback string) string {
	if dest == "" {
		return fallback
	}
	return dest
}

func renderDiagnostics(w io.Writer, diags []discovery.Diagnostic) {
	for _, d := range diags {
		style := WarningStyle
		if d.Severity == discovery.SeverityError {
			style = ErrorStyle
		}
		fmt.Fprintln(w, style.Render(string(d.Severity)+":")+" "+d.Path+": "+d.Message+causeSuffix(d.Cause))
	}
}

func causeSuffix(err error) string {
	if err == nil {
		return ""
	}
	return ": " + err.Error()
}
