// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pfxkit/pfxkit/internal/verb"
)

const (
	scriptExt = ".sh"
	tomlExt   = ".toml"

	// metadataLines bounds how far into a script metadata comments are read.
	metadataLines = 20
)

// LoadVerbs reads every .sh and .toml definition in dir, in sorted file
// order. A missing directory yields no verbs and no error.
func LoadVerbs(dir string) ([]verb.Verb, []Diagnostic, error) {
	return loadVerbs(dir, userHome())
}

// RegisterUserVerbs loads the definitions in dir and registers them into
// reg. User verbs replace registered verbs of the same name.
func RegisterUserVerbs(reg *verb.Registry, dir string) ([]Diagnostic, error) {
	verbs, diags, err := LoadVerbs(dir)
	if err != nil {
		return diags, err
	}
	for _, v := range verbs {
		if _, ok := reg.Get(v.Name); ok {
			slog.Debug("user verb replaces existing verb", "verb", v.Name)
		}
		reg.Register(v)
	}
	return diags, nil
}

func loadVerbs(dir, home string) ([]verb.Verb, []Diagnostic, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read verbs directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	var (
		verbs []verb.Verb
		diags []Diagnostic
	)
	for _, name := range names {
		path := filepath.Join(dir, name)
		var (
			v     verb.Verb
			ok    bool
			fdiag []Diagnostic
		)
		switch filepath.Ext(name) {
		case scriptExt:
			v, ok, fdiag = loadScript(path)
		case tomlExt:
			v, ok, fdiag = loadDefinition(path, home)
		default:
			continue
		}
		diags = append(diags, fdiag...)
		if ok {
			slog.Debug("loaded user verb", "verb", v.Name, "path", path)
			verbs = append(verbs, v)
		}
	}
	return verbs, diags, nil
}

func loadScript(path string) (verb.Verb, bool, []Diagnostic) {
	content, err := os.ReadFile(path)
	if err != nil {
		d := skipped(path, CodeReadFailed, "cannot read script")
		d.Cause = err
		return verb.Verb{}, false, []Diagnostic{d}
	}
	name := strings.TrimSuffix(filepath.Base(path), scriptExt)
	title, publisher, year := scriptMetadata(content, name)
	v := verb.New(name, verb.Custom, title, publisher, year).With(verb.RunScript{Path: path})
	return v, true, nil
}

// scriptMetadata reads "# Title:", "# Publisher:" and "# Year:" comments
// from the first lines of a script. The title defaults to name.
func scriptMetadata(content []byte, name string) (title, publisher, year string) {
	title = name
	sc := bufio.NewScanner(bytes.NewReader(content))
	for i := 0; i < metadataLines && sc.Scan(); i++ {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "#"))
		if v, ok := strings.CutPrefix(line, "Title:"); ok {
			title = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "Publisher:"); ok {
			publisher = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "Year:"); ok {
			year = strings.TrimSpace(v)
		}
	}
	return title, publisher, year
}

// expandPath expands a leading "~/" and resolves relative paths against base.
func expandPath(p, base, home string) string {
	if rest, ok := strings.CutPrefix(p, "~/"); ok && home != "" {
		return filepath.Join(home, rest)
	}
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
