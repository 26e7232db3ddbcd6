// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pfxkit/pfxkit/internal/cache"
	"github.com/pfxkit/pfxkit/internal/extract"
	"github.com/pfxkit/pfxkit/internal/regedit"
	"github.com/pfxkit/pfxkit/internal/runtime"
	"github.com/pfxkit/pfxkit/internal/verb"
)

type (
	// Engine runs verbs from a registry.
	Engine struct {
		registry  *verb.Registry
		cache     *cache.Cache
		extractor *extract.Extractor
		scripts   runtime.ScriptRunner
	}

	// Option configures an Engine.
	Option func(*Engine)
)

// WithExtractor sets the archive extractor.
func WithExtractor(x *extract.Extractor) Option {
	return func(e *Engine) { e.extractor = x }
}

// WithScriptRunner sets how RunScript actions are executed.
func WithScriptRunner(r runtime.ScriptRunner) Option {
	return func(e *Engine) { e.scripts = r }
}

// New returns an Engine resolving verbs in reg and downloading through c.
func New(reg *verb.Registry, c *cache.Cache, opts ...Option) *Engine {
	e := &Engine{
		registry:  reg,
		cache:     c,
		extractor: extract.New(nil, nil),
		scripts:   &runtime.NativeScriptRunner{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Plan returns the names of the verbs Execute(name) would run, in order.
func (e *Engine) Plan(name string) ([]string, error) {
	plan, err := e.plan(name)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(plan))
	for i, v := range plan {
		names[i] = v.Name
	}
	return names, nil
}

// plan resolves name depth-first. Every referenced verb is checked before
// the plan is returned, so an unknown name fails the execution before any
// side effect.
func (e *Engine) plan(name string) ([]verb.Verb, error) {
	if _, err := e.registry.Lookup(name); err != nil {
		return nil, err
	}
	graph := e.registry.Graph()
	order, err := graph.PostOrder(name)
	if err != nil {
		return nil, err
	}

	plan := make([]verb.Verb, 0, len(order))
	for _, n := range order {
		v, ok := e.registry.Get(n)
		if !ok {
			// Unregistered nodes come only from CallVerb edges.
			return nil, &verb.NotFoundError{
				Name:        n,
				RequiredBy:  requiredBy(order, n, graph.Dependencies),
				Suggestions: e.registry.Suggest(n),
			}
		}
		plan = append(plan, v)
	}
	return plan, nil
}

func requiredBy(order []string, name string, deps func(string) []string) string {
	for _, n := range order {
		for _, d := range deps(n) {
			if d == name {
				return n
			}
		}
	}
	return ""
}

// Execute installs name and its dependencies into the prefix of rt.
func (e *Engine) Execute(ctx context.Context, name string, rt *runtime.Context) error {
	plan, err := e.plan(name)
	if err != nil {
		return err
	}
	if len(plan) > 1 {
		slog.Debug("resolved verb plan", "verb", name, "steps", len(plan))
	}
	for _, v := range plan {
		if err := e.runVerb(ctx, v, rt); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) runVerb(ctx context.Context, v verb.Verb, rt *runtime.Context) error {
	root := e.cache.TempDir()
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create scratch root: %w", err)
	}
	scratch, err := os.MkdirTemp(root, v.Name+"-*")
	if err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			slog.Debug("remove scratch directory failed", "path", scratch, "error", err)
		}
	}()

	slog.Info("installing verb", "verb", v.Name, "title", v.Title)
	start := time.Now()

	x := &execution{
		engine: e,
		rt:     rt,
		env: verb.ProcedureEnv{
			Runtime:    rt,
			Cache:      e.cache,
			Extractor:  e.extractor,
			Registry:   &regedit.Patcher{Importer: rt, TempDir: scratch},
			ScratchDir: scratch,
		},
	}
	for i, a := range v.Actions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := x.run(ctx, a); err != nil {
			return &ActionError{Verb: v.Name, Index: i, Kind: a.Kind(), Err: err}
		}
	}

	slog.Info("installed verb", "verb", v.Name, "duration", time.Since(start).Round(time.Millisecond))
	return nil
}
