// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pfxkit/pfxkit/internal/cache"
	"github.com/pfxkit/pfxkit/internal/config"
	"github.com/pfxkit/pfxkit/internal/discovery"
	"github.com/pfxkit/pfxkit/internal/engine"
	"github.com/pfxkit/pfxkit/internal/extract"
	"github.com/pfxkit/pfxkit/internal/issue"
	"github.com/pfxkit/pfxkit/internal/logging"
	"github.com/pfxkit/pfxkit/internal/prefix"
	"github.com/pfxkit/pfxkit/internal/runtime"
	"github.com/pfxkit/pfxkit/internal/toolexec"
	"github.com/pfxkit/pfxkit/internal/verb"
	"github.com/pfxkit/pfxkit/internal/verb/catalog"
)

// ErrInstallationNotFound is returned when no usable runtime installation
// could be resolved for a prefix.
var ErrInstallationNotFound = errors.New("runtime installation not found")

var errNoPrefix = errors.New("no prefix given: pass --prefix or set WINEPREFIX")

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives the App and goes through it for configuration, processes and
	// output streams.
	App struct {
		Config   config.Provider
		Runner   toolexec.Runner
		LookPath toolexec.LookPathFunc
		Environ  func() []string
		stdout   io.Writer
		stderr   io.Writer

		configDir  string
		configPath string
		verbose    bool
		cfg        *config.Config
		// cfgFile is the file the configuration was read from; empty for
		// defaults only.
		cfgFile string
	}

	// Dependencies are the injection points for NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config   config.Provider
		Runner   toolexec.Runner
		LookPath toolexec.LookPathFunc
		Environ  func() []string
		Stdout   io.Writer
		Stderr   io.Writer
		// ConfigDir replaces the per-user configuration directory.
		ConfigDir string
	}

	// targetFlags select the prefix a command operates on and the runtime
	// that drives it.
	targetFlags struct {
		prefix  string
		runtime string
		arch    string
	}

	// session is an opened prefix: its runtime context, the launch log, and
	// the prefix lock when one was taken.
	session struct {
		rt       *runtime.Context
		observer *logging.FileObserver
		lock     interface{ Release() }
	}
)

// NewApp builds an App from deps.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = toolexec.CmdRunner{}
	}
	if deps.LookPath == nil {
		deps.LookPath = toolexec.DefaultLookPath
	}
	if deps.Environ == nil {
		deps.Environ = os.Environ
	}
	return &App{
		Config:   deps.Config,
		Runner:   deps.Runner,
		LookPath: deps.LookPath,
		Environ:  deps.Environ,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,

		configDir: deps.ConfigDir,
	}
}

// config loads the configuration once per App.
func (a *App) config(ctx context.Context) (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, path, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: a.configPath,
		ConfigDirPath:  a.configDir,
	})
	if err != nil {
		return nil, err
	}
	a.cfg, a.cfgFile = cfg, path
	return cfg, nil
}

func (a *App) getenv(key string) string {
	prefix := key + "="
	for _, kv := range a.Environ() {
		if v, ok := strings.CutPrefix(kv, prefix); ok {
			return v
		}
	}
	return ""
}

// registry returns the built-in catalog overlaid with the user's verbs.
func (a *App) registry(ctx context.Context) (*verb.Registry, []discovery.Diagnostic, error) {
	cfg, err := a.config(ctx)
	if err != nil {
		return nil, nil, err
	}
	reg := verb.NewRegistry()
	catalog.Register(reg)
	diags, err := discovery.RegisterUserVerbs(reg, cfg.VerbsDir)
	if err != nil {
		return nil, nil, issue.WrapWithContext(err, "load user verbs", cfg.VerbsDir)
	}
	return reg, diags, nil
}

func (a *App) cache(ctx context.Context) (*cache.Cache, error) {
	cfg, err := a.config(ctx)
	if err != nil {
		return nil, err
	}
	return cache.New(cfg.CacheDir,
		cache.WithRunner(a.Runner),
		cache.WithLookPath(a.LookPath),
		cache.WithStrictVerify(cfg.Download.StrictVerify),
		cache.WithProgress(a.stderr),
	)
}

func (a *App) engine(ctx context.Context, reg *verb.Registry) (*engine.Engine, error) {
	cfg, err := a.config(ctx)
	if err != nil {
		return nil, err
	}
	c, err := a.cache(ctx)
	if err != nil {
		return nil, err
	}

	var scripts runtime.ScriptRunner
	switch cfg.Scripts.Runner {
	case config.ScriptRunnerVirtual:
		scripts = &runtime.VirtualScriptRunner{Stdout: a.stdout, Stderr: a.stderr}
	default:
		scripts = &runtime.NativeScriptRunner{
			Shell:  cfg.Scripts.Shell,
			Runner: a.Runner,
			Stdout: a.stdout,
			Stderr: a.stderr,
		}
	}
	return engine.New(reg, c,
		engine.WithExtractor(extract.New(a.Runner, a.LookPath)),
		engine.WithScriptRunner(scripts),
	), nil
}

// resolve fills the prefix directory, installation and architecture from
// the flags, then the prefix metadata, then the environment and config.
func (a *App) resolve(ctx context.Context, f targetFlags) (string, runtime.Installation, runtime.Arch, error) {
	cfg, err := a.config(ctx)
	if err != nil {
		return "", runtime.Installation{}, 0, err
	}

	dir := f.prefix
	if dir == "" {
		dir = a.getenv(runtime.EnvWinePrefix)
	}
	if dir == "" {
		return "", runtime.Installation{}, 0, errNoPrefix
	}

	meta, err := prefix.ReadMetadata(dir)
	if err != nil && !errors.Is(err, prefix.ErrNoMetadata) {
		return "", runtime.Installation{}, 0, err
	}

	root, name := f.runtime, ""
	if root == "" {
		root, name = meta.ProtonPath, meta.ProtonName
	}
	if root == "" {
		return "", runtime.Installation{}, 0, issue.NewErrorContext().
			WithOperation("resolve runtime").
			WithResource(dir).
			WithSuggestion("Pass --runtime <dir> with the Proton or Wine build to use").
			WithIssue(issue.InstallationNotFoundId).
			Wrap(ErrInstallationNotFound).
			BuildError()
	}
	inst := runtime.DetectInstallation(name, root)
	if !inst.Ready {
		return "", runtime.Installation{}, 0, issue.NewErrorContext().
			WithOperation("resolve runtime").
			WithResource(root).
			WithIssue(issue.InstallationNotFoundId).
			Wrap(ErrInstallationNotFound).
			BuildError()
	}

	archText := f.arch
	if archText == "" && meta.ProtonPath != "" {
		archText = meta.Arch.String()
	}
	if archText == "" {
		archText = cfg.DefaultArch
	}
	arch, err := runtime.ParseArch(archText)
	if err != nil {
		return "", runtime.Installation{}, 0, err
	}
	return dir, inst, arch, nil
}

// open resolves f into a runtime context whose launches are appended to the
// launch log. When lock is set the prefix lock is held until Close.
func (a *App) open(ctx context.Context, f targetFlags, lock bool) (*session, error) {
	cfg, err := a.config(ctx)
	if err != nil {
		return nil, err
	}
	dir, inst, arch, err := a.resolve(ctx, f)
	if err != nil {
		return nil, err
	}

	s := &session{}
	if lock {
		l, err := runtime.LockPrefix(dir)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("lock prefix").
				WithResource(dir).
				WithIssue(issue.PrefixLockFailedId).
				Wrap(err).
				BuildError()
		}
		s.lock = l
	}

	obs, err := logging.OpenFileObserver(cfg.LogDir)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.observer = obs
	s.rt = runtime.NewContext(inst, dir, arch,
		runtime.WithRunner(a.Runner),
		runtime.WithEnviron(a.Environ),
		runtime.WithObserver(obs),
		runtime.WithOutput(a.stdout, a.stderr),
	)
	return s, nil
}

// Close releases the lock and closes the launch log.
func (s *session) Close() {
	if s.observer != nil {
		if err := s.observer.Close(); err != nil {
			slog.Warn("close launch log", "error", err)
		}
	}
	if s.lock != nil {
		s.lock.Release()
	}
}
