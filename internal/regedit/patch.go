// SPDX-License-Identifier: MPL-2.0

package regedit

import "strings"

// Header is the first line of every patch document.
const Header = "Windows Registry Editor Version 5.00"

type (
	// Patch builds a registry patch document. Sections keep the order in
	// which their keys were first used.
	Patch struct {
		sections []*section
	}

	section struct {
		key     string
		delete  bool
		entries []entry
	}

	entry struct {
		name  string // already rendered: "@" or a quoted name
		value Value
	}
)

// NewPatch returns an empty patch.
func NewPatch() *Patch { return &Patch{} }

// Set assigns name=value under key.
func (p *Patch) Set(key, name string, value Value) *Patch {
	s := p.section(key)
	s.entries = append(s.entries, entry{name: quote(name), value: value})
	return p
}

// SetDefault assigns the default ("@") value of key.
func (p *Patch) SetDefault(key string, value Value) *Patch {
	s := p.section(key)
	s.entries = append(s.entries, entry{name: "@", value: value})
	return p
}

// AddKey creates key without assigning any value.
func (p *Patch) AddKey(key string) *Patch {
	p.section(key)
	return p
}

// DeleteValue removes name from key.
func (p *Patch) DeleteValue(key, name string) *Patch {
	return p.Set(key, name, Delete())
}

// DeleteKey removes key and all of its values and subkeys.
func (p *Patch) DeleteKey(key string) *Patch {
	p.sections = append(p.sections, &section{key: key, delete: true})
	return p
}

// Empty reports whether the patch has no sections.
func (p *Patch) Empty() bool { return len(p.sections) == 0 }

func (p *Patch) section(key string) *section {
	for _, s := range p.sections {
		if !s.delete && s.key == key {
			return s
		}
	}
	s := &section{key: key}
	p.sections = append(p.sections, s)
	return s
}

// String renders the patch document.
func (p *Patch) String() string {
	var sb strings.Builder
	sb.WriteString(Header)
	sb.WriteString("\n")
	for _, s := range p.sections {
		sb.WriteString("\n")
		if s.delete {
			sb.WriteString("[-" + s.key + "]\n")
			continue
		}
		sb.WriteString("[" + s.key + "]\n")
		for _, e := range s.entries {
			sb.WriteString(e.name)
			sb.WriteByte('=')
			sb.WriteString(e.value.Format())
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
