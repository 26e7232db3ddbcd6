// SPDX-License-Identifier: MPL-2.0

package verb

import (
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/pfxkit/pfxkit/internal/dag"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/exp/maps"
)

const (
	maxSuggestions     = 3
	maxSuggestDistance = 2
)

// Registry is an in-memory set of verbs keyed by name. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	verbs map[string]Verb
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{verbs: make(map[string]Verb)}
}

// Register adds v. A verb with the same name is replaced.
func (r *Registry) Register(v Verb) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verbs[v.Name] = v
}

// Get returns the verb registered under name.
func (r *Registry) Get(name string) (Verb, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.verbs[name]
	return v, ok
}

// Lookup is Get with a *NotFoundError carrying suggestions.
func (r *Registry) Lookup(name string) (Verb, error) {
	if v, ok := r.Get(name); ok {
		return v, nil
	}
	return Verb{}, &NotFoundError{Name: name, Suggestions: r.Suggest(name)}
}

// Len returns the number of registered verbs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.verbs)
}

// Names returns every verb name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := maps.Keys(r.verbs)
	slices.Sort(names)
	return names
}

// List returns the verbs sorted by name, restricted to category when it is
// non-nil.
func (r *Registry) List(category *Category) []Verb {
	return r.filter(func(v Verb) bool {
		return category == nil || v.Category == *category
	})
}

// Search returns the verbs whose name or title contains query,
// case-insensitively, sorted by name.
func (r *Registry) Search(query string) []Verb {
	q := strings.ToLower(query)
	return r.filter(func(v Verb) bool {
		return strings.Contains(strings.ToLower(v.Name), q) ||
			strings.Contains(strings.ToLower(v.Title), q)
	})
}

func (r *Registry) filter(keep func(Verb) bool) []Verb {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := maps.Keys(r.verbs)
	slices.Sort(names)
	var out []Verb
	for _, name := range names {
		if v := r.verbs[name]; keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Suggest returns up to three registered names close to name, best first.
func (r *Registry) Suggest(name string) []string {
	if name == "" {
		return nil
	}
	names := r.Names()

	best := make(map[string]int)
	ranks := fuzzy.RankFindFold(name, names)
	sort.Sort(ranks)
	for _, rank := range ranks {
		best[rank.Target] = rank.Distance
	}
	lower := strings.ToLower(name)
	for _, candidate := range names {
		d := fuzzy.LevenshteinDistance(lower, strings.ToLower(candidate))
		if d > maxSuggestDistance {
			continue
		}
		if prev, ok := best[candidate]; !ok || d < prev {
			best[candidate] = d
		}
	}

	out := maps.Keys(best)
	slices.SortFunc(out, func(a, b string) int {
		if best[a] != best[b] {
			return best[a] - best[b]
		}
		return strings.Compare(a, b)
	})
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// Graph builds the dependency graph of every registered verb.
func (r *Registry) Graph() *dag.Graph {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := maps.Keys(r.verbs)
	slices.Sort(names)
	g := dag.New()
	for _, name := range names {
		g.AddNode(name)
		for _, dep := range r.verbs[name].Dependencies() {
			g.AddDependency(name, dep)
		}
	}
	return g
}

// Check validates the registry: every CallVerb target must be registered
// and the dependency graph must be acyclic. All problems are joined.
func (r *Registry) Check() error {
	var errs []error
	for _, v := range r.List(nil) {
		for _, dep := range v.Dependencies() {
			if _, ok := r.Get(dep); !ok {
				errs = append(errs, &DanglingCallError{Verb: v.Name, Target: dep})
			}
		}
	}
	if _, err := r.Graph().TopologicalSort(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
