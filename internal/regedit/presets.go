// SPDX-License-Identifier: MPL-2.0

package regedit

import (
	"fmt"
	"slices"
	"strings"
)

// WindowsVersion is a Windows release the runtime can report to programs.
type WindowsVersion int

const (
	Win11 WindowsVersion = iota
	Win10
	Win81
	Win8
	Win7
	Vista
	WinXP64
	WinXP
	Win2K
	Win98
)

type versionInfo struct {
	id, product, sp, build string
	major, minor           string
	csd                    uint32
}

var versions = map[WindowsVersion]versionInfo{
	Win11:   {"win11", "Microsoft Windows 11", "", "22000", "10", "0", 0},
	Win10:   {"win10", "Microsoft Windows 10", "", "19041", "10", "0", 0},
	Win81:   {"win81", "Microsoft Windows 8.1", "", "9600", "6", "3", 0},
	Win8:    {"win8", "Microsoft Windows 8", "", "9200", "6", "2", 0},
	Win7:    {"win7", "Microsoft Windows 7", "Service Pack 1", "7601", "6", "1", 0x100},
	Vista:   {"vista", "Microsoft Windows Vista", "Service Pack 2", "6002", "6", "0", 0x200},
	WinXP64: {"winxp64", "Microsoft Windows XP", "Service Pack 2", "3790", "5", "2", 0x200},
	WinXP:   {"winxp", "Microsoft Windows XP", "Service Pack 3", "2600", "5", "1", 0x300},
	Win2K:   {"win2k", "Microsoft Windows 2000", "Service Pack 4", "2195", "5", "0", 0x400},
	Win98:   {"win98", "Microsoft Windows 98", "", "2222", "4", "10", 0},
}

var versionAliases = map[string]WindowsVersion{
	"windows11": Win11, "11": Win11,
	"windows10": Win10, "10": Win10,
	"windows81": Win81, "8.1": Win81,
	"windows8": Win8, "8": Win8,
	"windows7": Win7, "7": Win7,
	"winvista": Vista,
	"xp64":     WinXP64,
	"xp":       WinXP,
	"2000":     Win2K, "2k": Win2K,
	"98": Win98,
}

// String returns the short identifier, e.g. "win10".
func (v WindowsVersion) String() string {
	if info, ok := versions[v]; ok {
		return info.id
	}
	return fmt.Sprintf("WindowsVersion(%d)", int(v))
}

// ParseWindowsVersion accepts identifiers such as "win10", "7" or "xp".
func ParseWindowsVersion(s string) (WindowsVersion, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, info := range versions {
		if info.id == s {
			return v, nil
		}
	}
	if v, ok := versionAliases[s]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("unknown Windows version %q (valid: %s)", s, strings.Join(WindowsVersionNames(), ", "))
}

// WindowsVersionNames lists the identifiers accepted by ParseWindowsVersion,
// newest first.
func WindowsVersionNames() []string {
	keys := make([]WindowsVersion, 0, len(versions))
	for v := range versions {
		keys = append(keys, v)
	}
	slices.Sort(keys)
	names := make([]string, len(keys))
	for i, v := range keys {
		names[i] = versions[v].id
	}
	return names
}

// WindowsVersionPatch sets the version information programs read from the
// registry, plus the runtime's own version setting.
func WindowsVersionPatch(v WindowsVersion) *Patch {
	info := versions[v]
	const ntKey = `HKEY_LOCAL_MACHINE\Software\Microsoft\Windows NT\CurrentVersion`
	return NewPatch().
		Set(ntKey, "ProductName", String(info.product)).
		Set(ntKey, "CSDVersion", String(info.sp)).
		Set(ntKey, "CurrentBuild", String(info.build)).
		Set(ntKey, "CurrentBuildNumber", String(info.build)).
		Set(ntKey, "CurrentVersion", String(info.major+"."+info.minor)).
		Set(`HKEY_LOCAL_MACHINE\System\CurrentControlSet\Control\Windows`, "CSDVersion", DWord(info.csd)).
		Set(`HKEY_CURRENT_USER\Software\Wine`, "Version", String(info.id))
}

// DPIPatch sets the screen resolution used for font scaling.
func DPIPatch(dpi uint32) *Patch {
	return NewPatch().
		Set(`HKEY_CURRENT_USER\Control Panel\Desktop`, "LogPixels", DWord(dpi)).
		Set(`HKEY_CURRENT_USER\Software\Wine\Fonts`, "LogPixels", DWord(dpi))
}

// FontRegistrationPatch registers a TrueType font file already copied into
// the Fonts directory.
func FontRegistrationPatch(name, file string) *Patch {
	return NewPatch().Set(
		`HKEY_LOCAL_MACHINE\Software\Microsoft\Windows NT\CurrentVersion\Fonts`,
		name+" (TrueType)",
		String(file),
	)
}
