// SPDX-License-Identifier: MPL-2.0

// Package catalog holds the built-in verbs: prefix settings, fonts,
// redistributable libraries and a few applications.
package catalog

import (
	"github.com/pfxkit/pfxkit/internal/regedit"
	"github.com/pfxkit/pfxkit/internal/verb"
)

// fontsDir is where font archives are unpacked, relative to the prefix.
const fontsDir = "drive_c/windows/Fonts"

// Register adds every built-in verb to reg. User-authored verbs registered
// afterwards replace built-ins of the same name.
func Register(reg *verb.Registry) {
	for _, v := range Verbs() {
		reg.Register(v)
	}
}

// Verbs returns the built-in verbs in registration order.
func Verbs() []verb.Verb {
	var all []verb.Verb
	all = append(all, settings()...)
	all = append(all, fonts()...)
	all = append(all, dlls()...)
	all = append(all, apps()...)
	return all
}

func remote(url, filename, sha256 string) verb.RemoteFile {
	return verb.RemoteFile{URL: url, Filename: filename, SHA256: sha256}
}

func installer(url, filename, sha256 string, args ...string) verb.Action {
	return verb.RunInstaller{File: remote(url, filename, sha256), Args: args}
}

func patch(p *regedit.Patch) verb.Action {
	return verb.ApplyRegistryPatch{Content: p.String()}
}

func call(name string) verb.Action {
	return verb.CallVerb{Name: name}
}
