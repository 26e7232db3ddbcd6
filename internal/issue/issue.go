// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

// Id identifies an issue in the guidance catalog.
type Id int

const (
	VerbNotFoundId Id = iota + 1
	VerbFileNotFoundId
	ToolUnavailableId
	VerificationFailedId
	DependencyCycleId
	ConfigLoadFailedId
	InstallationNotFoundId
	PrefixLockFailedId
	RegistryImportFailedId
	ScriptExecutionFailedId
	InvalidArchId
)

type (
	// MarkdownMsg is guidance text in Markdown.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a known failure with rendered remediation guidance.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
		links []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Links returns the upstream pages listed under the guidance.
func (i *Issue) Links() []HttpLink {
	return slices.Clone(i.links)
}

// Render renders the guidance with the glamour style at stylePath
// ("dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if links := i.Links(); len(links) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range links {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(sb.String(), stylePath)
}

var (
	render = glamour.Render

	verbNotFoundIssue = &Issue{
		id: VerbNotFoundId,
		mdMsg: `
# Unknown verb

The verb you asked for is not in the catalog, and neither is any user
verb with that name.

## Things you can try:
- List or search the catalog:
~~~
$ pfxkit verb list
$ pfxkit verb search <text>
~~~
- Check the spelling against the suggestions printed above.
- If the verb is one of yours, make sure its file is in the verbs
  directory shown by ` + "`pfxkit config show`" + ` and ends in .sh or .toml.`,
	}

	verbFileNotFoundIssue = &Issue{
		id: VerbFileNotFoundId,
		mdMsg: `
# Installer or script not found

A verb refers to a file on this machine that does not exist. Nothing was
launched.

## Things you can try:
- Download the installer to the path named in the verb definition.
- Fix the ` + "`path`" + ` in the verb's .toml file. ` + "`~/`" + ` is expanded and relative
  paths are resolved against the definition's directory.`,
	}

	toolUnavailableIssue = &Issue{
		id: ToolUnavailableId,
		mdMsg: `
# A required host tool is missing

pfxkit delegates downloading, hashing and unpacking to standard tools.
None of the tools that can do this job were found on PATH.

## Install one of:
- downloads: curl or wget
- checksums: sha256sum (coreutils) or openssl
- archives: unzip, 7z, tar, cabextract, msiextract`,
		links: []HttpLink{"https://www.cabextract.org.uk/"},
	}

	verificationFailedIssue = &Issue{
		id: VerificationFailedId,
		mdMsg: `
# Download failed verification

The downloaded file does not match the expected SHA-256 digest, even after
downloading it again. It has been removed from the cache.

## Things you can try:
- Retry later; the server may be serving a partial file.
- The vendor may have replaced the file. Update the digest in the verb
  definition only if you trust the new file.`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Verb dependency cycle

The verbs call each other in a loop, so no install order exists.

## Things you can try:
- Remove one ` + "`call`" + ` action from the cycle printed above.
- Run ` + "`pfxkit verb check`" + ` to validate every verb at once.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

## Things you can try:
- Check the CUE syntax of config.cue.
- Compare your keys with the schema:
~~~
$ pfxkit config show --schema
~~~
- Check PFXKIT_* environment variables.`,
	}

	installationNotFoundIssue = &Issue{
		id: InstallationNotFoundId,
		mdMsg: `
# Runtime installation not usable

The installation directory does not contain a runtime loader under
` + "`dist/bin`" + ` or ` + "`files/bin`" + `.

## Things you can try:
- Pass the top-level directory of the Proton or Wine build with ` + "`--runtime`" + `.
- Launch the build once from its own launcher so it finishes unpacking.`,
		links: []HttpLink{"https://github.com/ValveSoftware/Proton"},
	}

	prefixLockFailedIssue = &Issue{
		id: PrefixLockFailedId,
		mdMsg: `
# Prefix could not be locked

pfxkit serializes sessions on a prefix through ` + "`.pfxkit.lock`" + ` in the
prefix directory, and could not create or lock that file.

## Things you can try:
- Check that the prefix directory is writable by your user.
- Prefixes on network filesystems may not support locks; move the prefix
  to a local disk.`,
	}

	registryImportFailedIssue = &Issue{
		id: RegistryImportFailedId,
		mdMsg: `
# Registry patch was rejected

The runtime's regedit exited with an error while importing a patch.

## Things you can try:
- Make sure the prefix was initialized (` + "`pfxkit prefix create`" + `).
- For user verbs, check the ` + "`content`" + ` of the registry action; it must be
  valid .reg text.`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Verb script failed

The script exited with a non-zero status. Its output was written to the
log file.

## Things you can try:
- Run it with the interpreter directly to see the failing line:
~~~
$ bash -x <script>
~~~
- Try the other runner with ` + "`--script-runner virtual`" + ` (or native).`,
	}

	invalidArchIssue = &Issue{
		id: InvalidArchId,
		mdMsg: `
# Unknown architecture

Valid values are ` + "`win64`" + ` and ` + "`win32`" + `.`,
	}

	issues = map[Id]*Issue{
		verbNotFoundIssue.Id():          verbNotFoundIssue,
		verbFileNotFoundIssue.Id():      verbFileNotFoundIssue,
		toolUnavailableIssue.Id():       toolUnavailableIssue,
		verificationFailedIssue.Id():    verificationFailedIssue,
		dependencyCycleIssue.Id():       dependencyCycleIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		installationNotFoundIssue.Id():  installationNotFoundIssue,
		prefixLockFailedIssue.Id():      prefixLockFailedIssue,
		registryImportFailedIssue.Id():  registryImportFailedIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		invalidArchIssue.Id():           invalidArchIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	out := maps.Values(issues)
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the issue with id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
