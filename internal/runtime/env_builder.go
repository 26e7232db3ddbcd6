// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"maps"
	"os"
	"slices"
	"strings"
)

// EnvBuilder merges the host environment with a derived variable map.
type EnvBuilder struct {
	// Environ returns the host environment as "KEY=VALUE" strings.
	// When nil, os.Environ() is used.
	Environ func() []string
}

// NewEnvBuilder creates an EnvBuilder reading the process environment.
func NewEnvBuilder() *EnvBuilder {
	return &EnvBuilder{}
}

// Build returns host environment, overlaid with derived. When overrides is
// non-empty it is appended to any host WINEDLLOVERRIDES value, separated by
// a semicolon, instead of replacing it.
func (b *EnvBuilder) Build(derived map[string]string, overrides string) map[string]string {
	environ := b.Environ
	if environ == nil {
		environ = os.Environ
	}

	env := make(map[string]string)
	for _, kv := range environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	hostOverrides := env[EnvDLLOverrides]

	maps.Copy(env, derived)

	if overrides != "" {
		if hostOverrides != "" {
			env[EnvDLLOverrides] = hostOverrides + ";" + overrides
		} else {
			env[EnvDLLOverrides] = overrides
		}
	}
	return env
}

// EnvToSlice converts an environment map to sorted KEY=VALUE pairs.
func EnvToSlice(env map[string]string) []string {
	keys := slices.Sorted(maps.Keys(env))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
