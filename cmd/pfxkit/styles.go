// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output, tuned for dark backgrounds.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	SuccessStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	// CmdStyle marks verb names, commands and paths.
	CmdStyle = lipgloss.NewStyle().Foreground(ColorHighlight)

	// categoryStyle renders the category column of verb listings.
	categoryStyle = lipgloss.NewStyle().Foreground(ColorMuted).Width(10)
	// nameStyle pads verb names into a column.
	nameStyle  = lipgloss.NewStyle().Foreground(ColorHighlight).Width(20)
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
)
