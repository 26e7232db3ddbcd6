// SPDX-License-Identifier: MPL-2.0

package verb

import (
	"context"

	"github.com/pfxkit/pfxkit/internal/cache"
	"github.com/pfxkit/pfxkit/internal/extract"
	"github.com/pfxkit/pfxkit/internal/regedit"
	"github.com/pfxkit/pfxkit/internal/runtime"
)

// OverrideMode is the load order of a DLL override. Values outside the
// named constants are passed through unchanged.
type OverrideMode string

const (
	Native        OverrideMode = "native"
	Builtin       OverrideMode = "builtin"
	NativeBuiltin OverrideMode = "native,builtin"
	BuiltinNative OverrideMode = "builtin,native"
	// Disabled prevents the DLL from loading; it serializes as "name=".
	Disabled OverrideMode = ""
)

type (
	// Action is one step of a verb. The set of implementations is closed.
	Action interface {
		// Kind is a short, stable identifier used in logs and errors.
		Kind() string
		action()
	}

	// RemoteFile is a file fetched through the download cache.
	RemoteFile struct {
		URL      string
		Filename string
		// SHA256 is the expected hex digest; empty skips verification.
		SHA256 string
	}

	// LocalFile is a file the user already has.
	LocalFile struct {
		Path string
		Name string
	}

	// Procedure is the body of a CustomProcedure.
	Procedure func(ctx context.Context, env ProcedureEnv) error

	// ProcedureEnv is what a custom procedure may use.
	ProcedureEnv struct {
		Runtime    *runtime.Context
		Cache      *cache.Cache
		Extractor  *extract.Extractor
		Registry   *regedit.Patcher
		ScratchDir string
	}

	// RunInstaller downloads an installer and launches it.
	RunInstaller struct {
		File RemoteFile
		Args []string
	}

	// RunLocalInstaller launches an installer already on disk.
	RunLocalInstaller struct {
		File LocalFile
		Args []string
	}

	// RunScript runs a host shell script with the verb environment.
	RunScript struct {
		Path string
	}

	// Extract downloads an archive and unpacks all of it. Dest is relative
	// to the prefix; empty means the prefix root.
	Extract struct {
		File RemoteFile
		Dest string
	}

	// ExtractFiltered downloads a cabinet and unpacks the members matching
	// Filter. An empty Dest stages them in the verb's scratch directory.
	ExtractFiltered struct {
		File   RemoteFile
		Dest   string
		Filter string
	}

	// SetDLLOverride changes the load order of one DLL for every later
	// launch of the execution.
	SetDLLOverride struct {
		DLL  string
		Mode OverrideMode
	}

	// ApplyRegistryPatch imports a registry patch document.
	ApplyRegistryPatch struct {
		Content string
	}

	// RunConfigTool launches winecfg with Args.
	RunConfigTool struct {
		Args []string
	}

	// RegisterFont registers a font file already present in the Fonts
	// directory.
	RegisterFont struct {
		File string
		Name string
	}

	// CallVerb makes another verb a dependency. Dependencies run before
	// any of the calling verb's own actions.
	CallVerb struct {
		Name string
	}

	// CustomProcedure runs Go code for steps the other actions cannot
	// express.
	CustomProcedure struct {
		Name string
		Run  Procedure
	}
)

func (RunInstaller) Kind() string       { return "installer" }
func (RunLocalInstaller) Kind() string  { return "local_installer" }
func (RunScript) Kind() string          { return "script" }
func (Extract) Kind() string            { return "extract" }
func (ExtractFiltered) Kind() string    { return "extract_filtered" }
func (SetDLLOverride) Kind() string     { return "override" }
func (ApplyRegistryPatch) Kind() string { return "registry" }
func (RunConfigTool) Kind() string      { return "winecfg" }
func (RegisterFont) Kind() string       { return "font" }
func (CallVerb) Kind() string           { return "call" }
func (CustomProcedure) Kind() string    { return "custom" }

func (RunInstaller) action()       {}
func (RunLocalInstaller) action()  {}
func (RunScript) action()          {}
func (Extract) action()            {}
func (ExtractFiltered) action()    {}
func (SetDLLOverride) action()     {}
func (ApplyRegistryPatch) action() {}
func (RunConfigTool) action()      {}
func (RegisterFont) action()       {}
func (CallVerb) action()           {}
func (CustomProcedure) action()    {}
