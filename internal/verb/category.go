// SPDX-License-Identifier: MPL-2.0

package verb

import "strings"

// Category groups verbs for listing and filtering. It has no effect on
// execution.
type Category int

const (
	Application Category = iota
	DynamicLibrary
	Font
	Setting
	Custom
)

// Categories lists every category in display order.
var Categories = []Category{Application, DynamicLibrary, Font, Setting, Custom}

func (c Category) String() string {
	switch c {
	case Application:
		return "apps"
	case DynamicLibrary:
		return "dlls"
	case Font:
		return "fonts"
	case Setting:
		return "settings"
	default:
		return "custom"
	}
}

// ParseCategory accepts singular and plural spellings case-insensitively.
// Unknown text yields Custom.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "app", "apps", "application", "applications":
		return Application
	case "dll", "dlls":
		return DynamicLibrary
	case "font", "fonts":
		return Font
	case "setting", "settings":
		return Setting
	default:
		return Custom
	}
}
