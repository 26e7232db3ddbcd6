// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfxkit/pfxkit/internal/regedit"
	"github.com/pfxkit/pfxkit/internal/verb"

	"github.com/pelletier/go-toml/v2"
)

type (
	// definition is the on-disk shape of a .toml verb.
	definition struct {
		Verb    verbTable     `toml:"verb"`
		Actions []actionTable `toml:"actions"`
	}

	verbTable struct {
		Name      string `toml:"name"`
		Category  string `toml:"category"`
		Title     string `toml:"title"`
		Publisher string `toml:"publisher"`
		Year      string `toml:"year"`
	}

	// actionTable holds the union of all action keys; Type selects which
	// ones apply.
	actionTable struct {
		Type     string   `toml:"type"`
		URL      string   `toml:"url"`
		Filename string   `toml:"filename"`
		SHA256   string   `toml:"sha256"`
		Path     string   `toml:"path"`
		Args     []string `toml:"args"`
		Dest     string   `toml:"dest"`
		Filter   string   `toml:"filter"`
		DLL      string   `toml:"dll"`
		// Mode is a pointer so an explicit empty mode (disable) differs
		// from an absent one (native).
		Mode    *string `toml:"mode"`
		Content string  `toml:"content"`
		File    string  `toml:"file"`
		Name    string  `toml:"name"`
		Target  string  `toml:"verb"`
	}
)

func loadDefinition(path, home string) (verb.Verb, bool, []Diagnostic) {
	data, err := os.ReadFile(path)
	if err != nil {
		d := skipped(path, CodeReadFailed, "cannot read definition")
		d.Cause = err
		return verb.Verb{}, false, []Diagnostic{d}
	}
	var def definition
	if err := toml.Unmarshal(data, &def); err != nil {
		d := skipped(path, CodeParseFailed, "invalid TOML")
		d.Cause = err
		return verb.Verb{}, false, []Diagnostic{d}
	}
	return def.toVerb(path, home)
}

func (def definition) toVerb(path, home string) (verb.Verb, bool, []Diagnostic) {
	meta := def.Verb
	name := strings.TrimSpace(meta.Name)
	if name == "" {
		return verb.Verb{}, false, []Diagnostic{skipped(path, CodeMissingName, "[verb] has no name")}
	}

	var diags []Diagnostic
	category := verb.Application
	if meta.Category != "" {
		category = verb.ParseCategory(meta.Category)
		if category == verb.Custom && !strings.EqualFold(meta.Category, "custom") {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeUnknownCat,
				Path:     path,
				Message:  fmt.Sprintf("unknown category %q, using custom", meta.Category),
			})
		}
	}
	title := meta.Title
	if title == "" {
		title = name
	}

	base := filepath.Dir(path)
	v := verb.New(name, category, title, meta.Publisher, meta.Year)
	for i, at := range def.Actions {
		a, d := at.toAction(base, home)
		if d != nil {
			d.Path = path
			d.Message = fmt.Sprintf("verb %s: action %d: %s", name, i+1, d.Message)
			return verb.Verb{}, false, append(diags, *d)
		}
		v = v.With(a)
	}
	return v, true, diags
}

func (at actionTable) remote() verb.RemoteFile {
	filename := at.Filename
	if filename == "" {
		filename = filepath.Base(at.URL)
	}
	return verb.RemoteFile{URL: at.URL, Filename: filename, SHA256: strings.ToLower(at.SHA256)}
}

func (at actionTable) toAction(base, home string) (verb.Action, *Diagnostic) {
	invalid := func(field string) *Diagnostic {
		d := skipped("", CodeInvalidAction, "%s action requires %q", at.Type, field)
		return &d
	}

	switch at.Type {
	case "installer":
		if at.URL == "" {
			return nil, invalid("url")
		}
		return verb.RunInstaller{File: at.remote(), Args: at.Args}, nil
	case "local_installer":
		if at.Path == "" {
			return nil, invalid("path")
		}
		p := expandPath(at.Path, base, home)
		return verb.RunLocalInstaller{File: verb.LocalFile{Path: p, Name: filepath.Base(p)}, Args: at.Args}, nil
	case "script":
		if at.Path == "" {
			return nil, invalid("path")
		}
		return verb.RunScript{Path: expandPath(at.Path, base, home)}, nil
	case "extract":
		if at.URL == "" {
			return nil, invalid("url")
		}
		return verb.Extract{File: at.remote(), Dest: at.Dest}, nil
	case "extract_filtered":
		if at.URL == "" {
			return nil, invalid("url")
		}
		if at.Filter == "" {
			return nil, invalid("filter")
		}
		return verb.ExtractFiltered{File: at.remote(), Dest: at.Dest, Filter: at.Filter}, nil
	case "override":
		if at.DLL == "" {
			return nil, invalid("dll")
		}
		mode := verb.Native
		if at.Mode != nil {
			mode = verb.OverrideMode(*at.Mode)
		}
		return verb.SetDLLOverride{DLL: at.DLL, Mode: mode}, nil
	case "registry":
		if at.Content == "" {
			return nil, invalid("content")
		}
		return verb.ApplyRegistryPatch{Content: withHeader(at.Content)}, nil
	case "winecfg":
		return verb.RunConfigTool{Args: at.Args}, nil
	case "font":
		if at.File == "" {
			return nil, invalid("file")
		}
		name := at.Name
		if name == "" {
			name = strings.TrimSuffix(at.File, filepath.Ext(at.File))
		}
		return verb.RegisterFont{File: at.File, Name: name}, nil
	case "call":
		if at.Target == "" {
			return nil, invalid("verb")
		}
		return verb.CallVerb{Name: at.Target}, nil
	default:
		d := skipped("", CodeUnknownAction, "unknown action type %q", at.Type)
		return nil, &d
	}
}

// withHeader prepends the regedit header to bare patch bodies.
func withHeader(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, regedit.Header) || strings.HasPrefix(trimmed, "REGEDIT4") {
		return content
	}
	return regedit.Header + "\n\n" + strings.TrimLeft(content, "\n")
}
