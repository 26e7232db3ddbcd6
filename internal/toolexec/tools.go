// SPDX-License-Identifier: MPL-2.0

package toolexec

import (
	"os/exec"
	"slices"
)

// Chain is an ordered list of interchangeable tools serving one purpose.
type Chain struct {
	Purpose string
	Tools   []string
}

// Well-known chains used across the module.
var (
	DownloadChain = Chain{Purpose: "download", Tools: []string{"curl", "wget"}}
	DigestChain   = Chain{Purpose: "checksum verification", Tools: []string{"sha256sum", "openssl"}}
	CabinetChain  = Chain{Purpose: "cabinet extraction", Tools: []string{"cabextract"}}
)

// DefaultLookPath is the LookPathFunc used when none is configured.
var DefaultLookPath LookPathFunc = exec.LookPath

// Available returns the resolved paths of every tool in the chain that is
// installed, keyed in preference order.
func (c Chain) Available(lookPath LookPathFunc) []Tool {
	if lookPath == nil {
		lookPath = DefaultLookPath
	}
	var found []Tool
	for _, name := range c.Tools {
		path, err := lookPath(name)
		if err != nil {
			continue
		}
		found = append(found, Tool{Name: name, Path: path})
	}
	return found
}

// First returns the most preferred installed tool of the chain.
func (c Chain) First(lookPath LookPathFunc) (Tool, error) {
	found := c.Available(lookPath)
	if len(found) == 0 {
		return Tool{}, c.Unavailable()
	}
	return found[0], nil
}

// Unavailable builds the error reported when no tool of the chain exists.
func (c Chain) Unavailable() *ToolUnavailableError {
	return &ToolUnavailableError{Purpose: c.Purpose, Tools: slices.Clone(c.Tools)}
}

// Tool is a resolved executable.
type Tool struct {
	// Name is the short name used to select argument shapes.
	Name string
	// Path is the resolved executable path.
	Path string
}
