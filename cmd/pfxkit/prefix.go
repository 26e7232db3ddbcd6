// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/pfxkit/pfxkit/internal/prefix"
	"github.com/pfxkit/pfxkit/internal/regedit"
	"github.com/pfxkit/pfxkit/internal/runtime"

	"github.com/spf13/cobra"
)

func addTargetFlags(cmd *cobra.Command, f *targetFlags) {
	cmd.Flags().StringVarP(&f.prefix, "prefix", "p", "", "prefix directory (default $WINEPREFIX)")
	cmd.Flags().StringVarP(&f.runtime, "runtime", "r", "", "Proton or Wine installation (default: the one recorded in the prefix)")
	cmd.Flags().StringVar(&f.arch, "arch", "", "prefix architecture: win64 or win32")
}

func newPrefixCommand(app *App) *cobra.Command {
	prefixCmd := &cobra.Command{
		Use:   "prefix",
		Short: "Create, inspect and run programs in prefixes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	prefixCmd.AddCommand(
		newPrefixCreateCommand(app),
		newPrefixRunCommand(app),
		newPrefixInfoCommand(app),
		newPrefixWinecfgCommand(app),
		newPrefixUpdateCommand(app),
		newPrefixPatchCommand(app, "winver <version>", "Set the Windows version reported to programs", func(arg string) (*regedit.Patch, error) {
			v, err := regedit.ParseWindowsVersion(arg)
			if err != nil {
				return nil, err
			}
			return regedit.WindowsVersionPatch(v), nil
		}),
		newPrefixPatchCommand(app, "dpi <dots-per-inch>", "Set the display DPI", func(arg string) (*regedit.Patch, error) {
			dpi, err := strconv.ParseUint(arg, 10, 32)
			if err != nil || dpi == 0 {
				return nil, fmt.Errorf("invalid DPI %q: want a positive integer such as 96 or 144", arg)
			}
			return regedit.DPIPatch(uint32(dpi)), nil
		}),
		newServerCommand(app),
	)
	return prefixCmd
}

func newPrefixCreateCommand(app *App) *cobra.Command {
	var (
		target targetFlags
		noBoot bool
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create and initialize a prefix",
		Long: `Create a prefix from the runtime's default template, map its drives,
boot it once and strip build-machine font paths from its registry.`,
		Args: cobra.NoArgs,
		RunE: app.handle(func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := app.config(ctx)
			if err != nil {
				return err
			}
			s, err := app.open(ctx, target, true)
			if err != nil {
				return err
			}
			defer s.Close()

			dir := s.rt.Prefix()
			if prefix.IsInitialized(dir) {
				return fmt.Errorf("prefix %s is already initialized", dir)
			}

			template := cfg.Prefix.TemplateDir
			if template == "" {
				template = runtime.TemplatePrefixDir(s.rt.Installation().Root)
			}
			report, err := prefix.Init(ctx, prefix.Options{
				Dir:         dir,
				TemplateDir: template,
				FirstBoot:   cfg.Prefix.FirstBoot && !noBoot,
				Runtime:     s.rt,
			})
			if err != nil {
				return err
			}

			inst := s.rt.Installation()
			if err := prefix.WriteMetadata(dir, prefix.Metadata{
				ProtonName: inst.Name,
				ProtonPath: inst.Root,
				Arch:       s.rt.Arch(),
				Created:    time.Now().UTC(),
			}); err != nil {
				return err
			}
			printReport(app, dir, report)
			return nil
		}),
	}
	addTargetFlags(create, &target)
	create.Flags().BoolVar(&noBoot, "no-boot", false, "skip the first boot")
	return create
}

func printReport(app *App, dir string, report *prefix.Report) {
	fmt.Fprintln(app.stdout, SuccessStyle.Render("✓ ")+"Created prefix "+CmdStyle.Render(dir))
	if report.Seeded {
		fmt.Fprintln(app.stdout, "  seeded from template")
	}
	if report.Booted {
		fmt.Fprintln(app.stdout, "  first boot completed")
	}
	for file, removed := range report.Sanitized {
		if removed > 0 {
			fmt.Fprintf(app.stdout, "  removed %d font path(s) from %s\n", removed, file)
		}
	}
	for _, w := range report.Warnings {
		fmt.Fprintln(app.stderr, WarningStyle.Render("warning: ")+w)
	}
}

func newPrefixRunCommand(app *App) *cobra.Command {
	var target targetFlags
	run := &cobra.Command{
		Use:   "run [flags] -- <program> [args...]",
		Short: "Run a program in a prefix",
		Long: `Run a Windows program in a prefix. The working directory is the
program's own directory when the program is given as a path. The program's
exit status becomes pfxkit's.`,
		Args: cobra.MinimumNArgs(1),
		RunE: app.handle(func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context(), target, true)
			if err != nil {
				return err
			}
			defer s.Close()
			return launchResult(s.rt.Run(cmd.Context(), args, runtime.CwdAuto()))
		}),
	}
	addTargetFlags(run, &target)
	run.Flags().SetInterspersed(false)
	return run
}

func newPrefixWinecfgCommand(app *App) *cobra.Command {
	var target targetFlags
	winecfg := &cobra.Command{
		Use:   "winecfg [args...]",
		Short: "Open the runtime's configuration tool",
		RunE: app.handle(func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context(), target, true)
			if err != nil {
				return err
			}
			defer s.Close()
			return launchResult(s.rt.ConfigTool(cmd.Context(), args...))
		}),
	}
	addTargetFlags(winecfg, &target)
	return winecfg
}

func newPrefixUpdateCommand(app *App) *cobra.Command {
	var target targetFlags
	update := &cobra.Command{
		Use:   "update",
		Short: "Refresh an existing prefix after a runtime upgrade",
		Args:  cobra.NoArgs,
		RunE: app.handle(func(cmd *cobra.Command, _ []string) error {
			s, err := app.open(cmd.Context(), target, true)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := launchResult(s.rt.UpdatePrefix(cmd.Context())); err != nil {
				return err
			}
			return s.rt.Server().Wait(cmd.Context())
		}),
	}
	addTargetFlags(update, &target)
	return update
}

// launchResult turns a launch outcome into the command's result: spawn
// errors are errors, exit codes pass through.
func launchResult(res *runtime.Result, err error) error {
	if err != nil {
		return err
	}
	if !res.Success() {
		return &ExitError{Code: int(res.ExitCode)}
	}
	return nil
}

func newPrefixPatchCommand(app *App, use, short string, build func(arg string) (*regedit.Patch, error)) *cobra.Command {
	var target targetFlags
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: app.handle(func(cmd *cobra.Command, args []string) error {
			patch, err := build(args[0])
			if err != nil {
				return err
			}
			s, err := app.open(cmd.Context(), target, true)
			if err != nil {
				return err
			}
			defer s.Close()

			patcher := &regedit.Patcher{Importer: s.rt}
			if err := patcher.ApplyPatch(cmd.Context(), patch); err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("✓ ")+cmd.Name()+" set to "+args[0])
			return nil
		}),
	}
	addTargetFlags(c, &target)
	return c
}

func newPrefixInfoCommand(app *App) *cobra.Command {
	var target targetFlags
	info := &cobra.Command{
		Use:   "info",
		Short: "Show what is known about a prefix",
		Args:  cobra.NoArgs,
		RunE: app.handle(func(cmd *cobra.Command, _ []string) error {
			dir := target.prefix
			if dir == "" {
				dir = app.getenv(runtime.EnvWinePrefix)
			}
			if dir == "" {
				return errNoPrefix
			}
			return printPrefixInfo(cmd.Context(), app, dir, target)
		}),
	}
	addTargetFlags(info, &target)
	return info
}

func printPrefixInfo(ctx context.Context, app *App, dir string, target targetFlags) error {
	field := func(label, value string) {
		fmt.Fprintf(app.stdout, "%s %s\n", labelStyle.Render(label+":"), value)
	}
	fmt.Fprintln(app.stdout, TitleStyle.Render("Prefix ")+CmdStyle.Render(dir))
	field("Initialized", strconv.FormatBool(prefix.IsInitialized(dir)))

	meta, err := prefix.ReadMetadata(dir)
	switch {
	case err == nil:
		field("Runtime", meta.ProtonName)
		field("Runtime path", meta.ProtonPath)
		field("Architecture", meta.Arch.String())
		field("Created", meta.Created.Format(time.RFC3339))
	case errors.Is(err, prefix.ErrNoMetadata):
		field("Metadata", SubtitleStyle.Render("(none)"))
	default:
		return err
	}

	if !app.verbose {
		return nil
	}
	target.prefix = dir
	_, inst, arch, err := app.resolve(ctx, target)
	if err != nil {
		slog.Debug("runtime not resolvable, skipping environment", "error", err)
		return nil
	}
	rt := runtime.NewContext(inst, dir, arch, runtime.WithEnviron(app.Environ))
	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, labelStyle.Render("Environment:"))
	env := rt.Env()
	for _, key := range []string{
		runtime.EnvWine, runtime.EnvWine64, runtime.EnvWineLoader, runtime.EnvWineServer,
		runtime.EnvWinePrefix, runtime.EnvWineArch, runtime.EnvWineDLLPath,
	} {
		if v, ok := env[key]; ok {
			fmt.Fprintf(app.stdout, "  %s=%s\n", key, v)
		}
	}
	return nil
}

func newServerCommand(app *App) *cobra.Command {
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Control the runtime's background server for a prefix",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	control := func(use, short string, op func(ctx context.Context, srv *runtime.Server) error) *cobra.Command {
		var target targetFlags
		c := &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: app.handle(func(cmd *cobra.Command, _ []string) error {
				s, err := app.open(cmd.Context(), target, false)
				if err != nil {
					return err
				}
				defer s.Close()
				return op(cmd.Context(), s.rt.Server())
			}),
		}
		addTargetFlags(c, &target)
		return c
	}

	serverCmd.AddCommand(
		control("start", "Start a persistent server", func(ctx context.Context, srv *runtime.Server) error {
			return srv.Start(ctx)
		}),
		control("wait", "Wait until the server exits", func(ctx context.Context, srv *runtime.Server) error {
			return srv.Wait(ctx)
		}),
		control("kill", "Terminate the server and every program in the prefix", func(ctx context.Context, srv *runtime.Server) error {
			return srv.Kill(ctx)
		}),
	)
	return serverCmd
}
